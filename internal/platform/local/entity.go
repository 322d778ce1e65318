package local

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/weditgo/weditd/internal/core/ecs"
	"github.com/weditgo/weditd/internal/data"
	"github.com/weditgo/weditd/internal/entity"
)

// Identity is the facet carrying an entity's stable identifiers.
type Identity struct {
	UUID uuid.UUID
	Type string
}

// Entity is a reference to an entity in a local World.
type Entity struct {
	world   *World
	id      ecs.EntityID
	uuid    uuid.UUID
	typ     *data.EntityType
	removed atomic.Bool
}

var (
	_ entity.Entity    = (*Entity)(nil)
	_ entity.Scheduled = (*Entity)(nil)
)

func (e *Entity) ID() ecs.EntityID { return e.id }
func (e *Entity) UUID() uuid.UUID  { return e.uuid }
func (e *Entity) Type() string     { return e.typ.ID }

func (e *Entity) Facets() []any {
	return []any{Identity{UUID: e.uuid, Type: e.typ.ID}}
}

// Location returns the last known location; zero once the entity has been
// destroyed.
func (e *Entity) Location() entity.Location {
	if loc, ok := e.world.locations.Get(e.id); ok {
		return *loc
	}
	return entity.Location{}
}

// Teleport moves a live entity and reports whether it was moved.
func (e *Entity) Teleport(loc entity.Location) bool {
	if !e.world.ecs.Alive(e.id) {
		return false
	}
	e.world.locations.Set(e.id, &loc)
	return true
}

func (e *Entity) Extent() entity.Extent { return e.world }

// State captures the entity's data. Kinds without a snapshot form, and
// entities that have been removed, yield NotCapturable.
func (e *Entity) State() entity.StateResult {
	if !e.typ.Snapshot || !e.world.ecs.Alive(e.id) {
		return entity.NotCapturable()
	}
	state, ok := e.world.states.Get(e.id)
	if !ok {
		return entity.NotCapturable()
	}
	return entity.Captured(entity.NewBaseEntity(e.typ.ID, *state))
}

// Update mutates the live data of the entity. It reports false when the
// entity is gone.
func (e *Entity) Update(fn func(data map[string]any)) bool {
	state, ok := e.world.states.Get(e.id)
	if !ok || !e.world.ecs.Alive(e.id) {
		return false
	}
	fn(*state)
	return true
}

// Remove queues the entity for destruction at the end of the tick.
func (e *Entity) Remove() entity.RemoveOutcome {
	return e.world.remove(e)
}

func (e *Entity) ExecuteAtEntity(task func()) error {
	return e.RunAtEntityDelayed(task, 0)
}

// RunAtEntityDelayed queues task on the world scheduler. A task whose
// entity is removed before it runs is dropped.
func (e *Entity) RunAtEntityDelayed(task func(), delay entity.Ticks) error {
	if e.removed.Load() {
		return entity.ErrEntityRemoved
	}
	return e.world.sched.SubmitDelayed(e.id, task, delay)
}
