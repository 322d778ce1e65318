// Package offline hosts worlds rebuilt from archived snapshots. There is no
// tick loop behind them, so entities do not support scheduling.
package offline

import (
	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/operation"
	"github.com/weditgo/weditd/internal/platform"
)

const Name = "offline"

type Platform struct{}

var _ platform.Platform = Platform{}

func (Platform) Name() string { return Name }

func (Platform) Capabilities() platform.Capability {
	return platform.CapSnapshots | platform.CapRemoval
}

// World is an extent holding archived entities. Not safe for concurrent
// use.
type World struct {
	name     string
	entities []*Entity
}

// NewWorld builds a world from captured entities. The snapshots are copied.
func NewWorld(name string, captured []operation.CapturedEntity) *World {
	w := &World{name: name, entities: make([]*Entity, 0, len(captured))}
	for _, c := range captured {
		w.entities = append(w.entities, &Entity{
			world: w,
			loc:   c.Location,
			base:  c.State.Clone(),
		})
	}
	return w
}

func (w *World) Name() string { return w.name }

// Entities returns the entities that have not been removed.
func (w *World) Entities() []entity.Entity {
	out := make([]entity.Entity, 0, len(w.entities))
	for _, e := range w.entities {
		if !e.removed {
			out = append(out, e)
		}
	}
	return out
}

// Remaining returns copies of the entities that have not been removed.
func (w *World) Remaining() []operation.CapturedEntity {
	out := make([]operation.CapturedEntity, 0, len(w.entities))
	for _, e := range w.entities {
		if !e.removed {
			out = append(out, operation.CapturedEntity{Location: e.loc, State: e.base.Clone()})
		}
	}
	return out
}

// Entity is an archived entity. It implements entity.Entity but not
// entity.Scheduled.
type Entity struct {
	world   *World
	loc     entity.Location
	base    entity.BaseEntity
	removed bool
}

var _ entity.Entity = (*Entity)(nil)

func (e *Entity) Facets() []any             { return nil }
func (e *Entity) Location() entity.Location { return e.loc }
func (e *Entity) Extent() entity.Extent     { return e.world }

func (e *Entity) State() entity.StateResult {
	if e.removed {
		return entity.NotCapturable()
	}
	return entity.Captured(e.base)
}

func (e *Entity) Remove() entity.RemoveOutcome {
	if e.removed {
		return entity.AlreadyAbsent
	}
	e.removed = true
	return entity.Removed
}
