package operation

import (
	"fmt"

	"github.com/weditgo/weditd/internal/entity"
)

const defaultBatchSize = 256

// EntityFunction is applied to each entity by an EntityVisitor. It returns
// whether the entity was affected.
type EntityFunction interface {
	Apply(e entity.Entity) (bool, error)
}

// EntityFunc adapts a plain function to EntityFunction.
type EntityFunc func(e entity.Entity) (bool, error)

func (f EntityFunc) Apply(e entity.Entity) (bool, error) { return f(e) }

// EntityVisitor applies a function to a fixed list of entities, one batch
// per Resume.
type EntityVisitor struct {
	entities []entity.Entity
	fn       EntityFunction
	batch    int
	pos      int
	affected int
	canceled bool
}

// NewEntityVisitor visits a copy of entities.
func NewEntityVisitor(entities []entity.Entity, fn EntityFunction) *EntityVisitor {
	return &EntityVisitor{
		entities: append([]entity.Entity(nil), entities...),
		fn:       fn,
		batch:    defaultBatchSize,
	}
}

// SetBatchSize sets how many entities one Resume visits. n < 1 means 1.
func (v *EntityVisitor) SetBatchSize(n int) {
	if n < 1 {
		n = 1
	}
	v.batch = n
}

func (v *EntityVisitor) Resume(rc *RunContext) (Operation, error) {
	if v.canceled {
		return nil, nil
	}
	if rc.Canceled() {
		return nil, rc.Err()
	}
	end := v.pos + v.batch
	if end > len(v.entities) {
		end = len(v.entities)
	}
	for ; v.pos < end; v.pos++ {
		ok, err := v.fn.Apply(v.entities[v.pos])
		if err != nil {
			v.pos++
			return nil, fmt.Errorf("visit entity %d: %w", v.pos-1, err)
		}
		if ok {
			v.affected++
		}
	}
	if v.pos >= len(v.entities) {
		return nil, nil
	}
	return v, nil
}

func (v *EntityVisitor) Cancel() { v.canceled = true }

func (v *EntityVisitor) Progress() float64 {
	if len(v.entities) == 0 {
		return 1
	}
	return Fraction(v.pos, len(v.entities))
}

// Affected returns how many entities the function reported as affected.
func (v *EntityVisitor) Affected() int { return v.affected }
