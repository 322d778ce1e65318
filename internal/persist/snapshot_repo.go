package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/operation"
)

// WorldSummary describes the archive of one world.
type WorldSummary struct {
	World      string
	Entities   int
	CapturedAt time.Time
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

var snapshotColumns = []string{
	"id", "batch_id", "world", "seq", "entity_type",
	"x", "y", "z", "yaw", "pitch", "digest", "payload",
}

// snapshotRow builds one entity_snapshots row in snapshotColumns order.
func snapshotRow(batch uuid.UUID, world string, seq int, c operation.CapturedEntity) ([]any, error) {
	payload, digest, err := EncodeState(c.State)
	if err != nil {
		return nil, err
	}
	p := c.Location.Position
	return []any{
		uuid.New(), batch, world, seq, c.State.Type,
		p.X, p.Y, p.Z, c.Location.Yaw, c.Location.Pitch, digest, payload,
	}, nil
}

// scanSnapshot reads the columns selected by Load.
func scanSnapshot(row pgx.Row) (operation.CapturedEntity, error) {
	var (
		loc             entity.Location
		digest, payload []byte
	)
	if err := row.Scan(&loc.Position.X, &loc.Position.Y, &loc.Position.Z,
		&loc.Yaw, &loc.Pitch, &digest, &payload); err != nil {
		return operation.CapturedEntity{}, fmt.Errorf("scan snapshot: %w", err)
	}
	base, err := DecodeState(payload, digest)
	if err != nil {
		return operation.CapturedEntity{}, err
	}
	return operation.CapturedEntity{Location: loc, State: base}, nil
}

// Save replaces the archive of world with captured in one transaction and
// returns the batch ID.
func (r *SnapshotRepo) Save(ctx context.Context, world string, captured []operation.CapturedEntity) (uuid.UUID, error) {
	batch := uuid.New()
	rows := make([][]any, 0, len(captured))
	for i, c := range captured {
		row, err := snapshotRow(batch, world, i, c)
		if err != nil {
			return uuid.Nil, err
		}
		rows = append(rows, row)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM entity_snapshots WHERE world = $1`, world); err != nil {
		return uuid.Nil, fmt.Errorf("snapshot clear %s: %w", world, err)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"entity_snapshots"}, snapshotColumns, pgx.CopyFromRows(rows)); err != nil {
		return uuid.Nil, fmt.Errorf("snapshot copy %s: %w", world, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("snapshot commit: %w", err)
	}
	return batch, nil
}

// Load returns the archived entities of world in capture order.
func (r *SnapshotRepo) Load(ctx context.Context, world string) ([]operation.CapturedEntity, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT x, y, z, yaw, pitch, digest, payload
		   FROM entity_snapshots WHERE world = $1 ORDER BY seq`, world)
	if err != nil {
		return nil, fmt.Errorf("query snapshots %s: %w", world, err)
	}
	defer rows.Close()

	var out []operation.CapturedEntity
	for rows.Next() {
		c, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("snapshot in %s: %w", world, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Worlds lists every archived world.
func (r *SnapshotRepo) Worlds(ctx context.Context) ([]WorldSummary, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT world, COUNT(*), MAX(captured_at)
		   FROM entity_snapshots GROUP BY world ORDER BY world`)
	if err != nil {
		return nil, fmt.Errorf("query worlds: %w", err)
	}
	defer rows.Close()

	var out []WorldSummary
	for rows.Next() {
		var s WorldSummary
		if err := rows.Scan(&s.World, &s.Entities, &s.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan world: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
