package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	coresys "github.com/weditgo/weditd/internal/core/system"
	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/operation"
)

// Archiver stores captured entities of one world.
type Archiver interface {
	Save(ctx context.Context, world string, captured []operation.CapturedEntity) (uuid.UUID, error)
}

// SnapshotWorld is an extent the snapshot system can capture.
type SnapshotWorld interface {
	entity.Extent
	Name() string
}

// SnapshotSystem periodically captures every world's entity states and
// hands them to the archiver. Phase 3 (Persist).
type SnapshotSystem struct {
	worlds    func() []SnapshotWorld
	archiver  Archiver // nil: capture and log only
	log       *zap.Logger
	tickCount int
	interval  int // capture every N ticks; 0 disables
}

func NewSnapshotSystem(worlds func() []SnapshotWorld, archiver Archiver, log *zap.Logger, intervalTicks int) *SnapshotSystem {
	return &SnapshotSystem{
		worlds:   worlds,
		archiver: archiver,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SnapshotSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.CaptureAll()
}

// CaptureAll snapshots every world now. Called on shutdown as well.
func (s *SnapshotSystem) CaptureAll() {
	for _, w := range s.worlds() {
		s.capture(w)
	}
}

func (s *SnapshotSystem) capture(w SnapshotWorld) {
	collector := operation.NewSnapshotCollector()
	visitor := operation.NewEntityVisitor(w.Entities(), collector)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := operation.Complete(ctx, visitor); err != nil {
		s.log.Error("snapshot capture failed", zap.String("world", w.Name()), zap.Error(err))
		return
	}
	captured := collector.Captured()
	if s.archiver == nil {
		s.log.Debug("snapshot captured",
			zap.String("world", w.Name()),
			zap.Int("entities", len(captured)),
			zap.Int("skipped", collector.Skipped()))
		return
	}
	batch, err := s.archiver.Save(ctx, w.Name(), captured)
	if err != nil {
		s.log.Error("snapshot save failed", zap.String("world", w.Name()), zap.Error(err))
		return
	}
	s.log.Info("snapshot saved",
		zap.String("world", w.Name()),
		zap.Stringer("batch", batch),
		zap.Int("entities", len(captured)),
		zap.Int("skipped", collector.Skipped()))
}
