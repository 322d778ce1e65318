package operation

import "github.com/weditgo/weditd/internal/entity"

// EntityRemover removes every entity it is applied to and tallies the
// outcome of each removal.
type EntityRemover struct {
	counts map[entity.RemoveOutcome]int
}

func NewEntityRemover() *EntityRemover {
	return &EntityRemover{counts: make(map[entity.RemoveOutcome]int, 3)}
}

func (r *EntityRemover) Apply(e entity.Entity) (bool, error) {
	o := e.Remove()
	r.counts[o]++
	return o.Succeeded(), nil
}

// Count returns how many removals ended with outcome o.
func (r *EntityRemover) Count(o entity.RemoveOutcome) int { return r.counts[o] }

// CapturedEntity is a snapshot together with where it was taken.
type CapturedEntity struct {
	Location entity.Location
	State    entity.BaseEntity
}

// SnapshotCollector captures the state of every entity it visits. Entities
// without a snapshot form are skipped and counted.
type SnapshotCollector struct {
	captured []CapturedEntity
	skipped  int
}

func NewSnapshotCollector() *SnapshotCollector {
	return &SnapshotCollector{}
}

func (c *SnapshotCollector) Apply(e entity.Entity) (bool, error) {
	base, ok := e.State().Get()
	if !ok {
		c.skipped++
		return false, nil
	}
	c.captured = append(c.captured, CapturedEntity{Location: e.Location(), State: base})
	return true, nil
}

func (c *SnapshotCollector) Captured() []CapturedEntity { return c.captured }
func (c *SnapshotCollector) Skipped() int               { return c.skipped }
