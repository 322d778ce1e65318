// Package local is the live platform: worlds driven by the server's tick
// loop, with entities that support state, removal, and scheduling.
package local

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weditgo/weditd/internal/core/ecs"
	"github.com/weditgo/weditd/internal/core/event"
	"github.com/weditgo/weditd/internal/data"
	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/scheduler"
)

// World is one extent of the local platform. Everything except
// scheduling belongs to the tick goroutine.
type World struct {
	name  string
	types *data.EntityTypeTable
	bus   *event.Bus
	log   *zap.Logger

	ecs       *ecs.World
	locations *ecs.Store[entity.Location]
	states    *ecs.Store[map[string]any]
	refs      map[ecs.EntityID]*Entity

	sched *scheduler.Scheduler
}

func newWorld(name string, types *data.EntityTypeTable, bus *event.Bus, log *zap.Logger) *World {
	w := &World{
		name:      name,
		types:     types,
		bus:       bus,
		log:       log.With(zap.String("world", name)),
		ecs:       ecs.NewWorld(),
		locations: ecs.NewStore[entity.Location](),
		states:    ecs.NewStore[map[string]any](),
		refs:      make(map[ecs.EntityID]*Entity),
	}
	w.ecs.Registry().Register(w.locations)
	w.ecs.Registry().Register(w.states)
	w.sched = scheduler.New(name, w.ecs.Alive, bus, w.log)
	return w
}

func (w *World) Name() string { return w.name }

// Scheduler returns the world's task scheduler.
func (w *World) Scheduler() *scheduler.Scheduler { return w.sched }

// Spawn creates an entity of typeID at loc. overrides are merged over the
// type's default data.
func (w *World) Spawn(typeID string, loc entity.Location, overrides map[string]any) (*Entity, error) {
	typ := w.types.Get(typeID)
	if typ == nil {
		return nil, fmt.Errorf("spawn in %s: unknown entity type %q", w.name, typeID)
	}
	state := entity.NewBaseEntity(typeID, typ.Data).Data
	if state == nil {
		state = make(map[string]any, len(overrides))
	}
	for k, v := range entity.NewBaseEntity(typeID, overrides).Data {
		state[k] = v
	}

	id := w.ecs.CreateEntity()
	w.locations.Set(id, &loc)
	w.states.Set(id, &state)
	e := &Entity{world: w, id: id, uuid: uuid.New(), typ: typ}
	w.refs[id] = e

	if w.bus != nil {
		event.Emit(w.bus, event.EntitySpawned{World: w.name, ID: id, Type: typeID})
	}
	w.log.Debug("entity spawned", zap.String("type", typeID), zap.Uint64("id", uint64(id)))
	return e, nil
}

// Entities returns the live entities, ordered by spawn slot.
func (w *World) Entities() []entity.Entity {
	ids := make([]ecs.EntityID, 0, w.locations.Len())
	w.locations.Each(func(id ecs.EntityID, _ *entity.Location) {
		if w.ecs.Alive(id) {
			ids = append(ids, id)
		}
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i].Index() < ids[j].Index() })
	out := make([]entity.Entity, len(ids))
	for i, id := range ids {
		out[i] = w.refs[id]
	}
	return out
}

// Lookup returns the reference for a live entity.
func (w *World) Lookup(id ecs.EntityID) (*Entity, bool) {
	if !w.ecs.Alive(id) {
		return nil, false
	}
	e, ok := w.refs[id]
	return e, ok
}

// Len returns the number of live entities.
func (w *World) Len() int { return len(w.Entities()) }

// Flush destroys entities removed this tick and returns how many.
func (w *World) Flush() int {
	flushed := w.ecs.FlushDestroyQueue()
	for _, id := range flushed {
		e := w.refs[id]
		delete(w.refs, id)
		if e != nil && w.bus != nil {
			event.Emit(w.bus, event.EntityRemoved{World: w.name, ID: id, Type: e.typ.ID})
		}
	}
	return len(flushed)
}

func (w *World) remove(e *Entity) entity.RemoveOutcome {
	if !w.ecs.Alive(e.id) {
		return entity.AlreadyAbsent
	}
	if !e.typ.Removable {
		return entity.Refused
	}
	w.ecs.MarkForDestruction(e.id)
	e.removed.Store(true)
	return entity.Removed
}
