// Package scheduler runs entity-bound tasks on a world's tick goroutine.
package scheduler

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/weditgo/weditd/internal/core/ecs"
	"github.com/weditgo/weditd/internal/core/event"
	coresys "github.com/weditgo/weditd/internal/core/system"
	"github.com/weditgo/weditd/internal/entity"
)

var ErrStopped = errors.New("scheduler: stopped")

// Scheduler queues tasks submitted from any goroutine and runs them during
// Update, which must only be called by the owning world's tick loop.
//
// A task submitted with delay d during tick t runs during tick t+1+d. Tasks
// due on the same tick run in submission order. Tasks submitted while
// Update is running are never run by that same Update.
type Scheduler struct {
	mu      sync.Mutex
	queue   taskHeap
	seq     uint64
	now     uint64
	stopped bool

	world string
	alive func(ecs.EntityID) bool
	bus   *event.Bus
	log   *zap.Logger

	retired int
	failed  int
}

// New returns a scheduler for world. alive reports whether a task's owner
// still exists; tasks whose owner is gone are retired without running.
// alive and bus may be nil.
func New(world string, alive func(ecs.EntityID) bool, bus *event.Bus, log *zap.Logger) *Scheduler {
	return &Scheduler{
		world: world,
		alive: alive,
		bus:   bus,
		log:   log,
	}
}

func (s *Scheduler) Phase() coresys.Phase { return coresys.PhaseTasks }

// Submit queues fn to run on the next tick.
func (s *Scheduler) Submit(owner ecs.EntityID, fn func()) error {
	return s.SubmitDelayed(owner, fn, 0)
}

// SubmitDelayed queues fn to run delay ticks after the next tick. A zero
// owner means the task is not bound to an entity.
func (s *Scheduler) SubmitDelayed(owner ecs.EntityID, fn func(), delay entity.Ticks) error {
	if fn == nil {
		return entity.ErrNilTask
	}
	if delay < 0 {
		return fmt.Errorf("delay %d: %w", delay, entity.ErrNegativeDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	s.seq++
	heap.Push(&s.queue, &task{
		owner: owner,
		fn:    fn,
		due:   s.now + 1 + uint64(delay),
		seq:   s.seq,
	})
	return nil
}

// Update advances the scheduler by one tick and runs every due task.
func (s *Scheduler) Update(_ time.Duration) {
	s.mu.Lock()
	s.now++
	var due []*task
	for s.queue.Len() > 0 && s.queue[0].due <= s.now {
		due = append(due, heap.Pop(&s.queue).(*task))
	}
	s.mu.Unlock()

	for _, t := range due {
		if !t.owner.IsZero() && s.alive != nil && !s.alive(t.owner) {
			s.retired++
			s.log.Debug("task retired, owner gone",
				zap.String("world", s.world),
				zap.Uint64("owner", uint64(t.owner)))
			continue
		}
		s.run(t)
	}
}

func (s *Scheduler) run(t *task) {
	defer func() {
		if r := recover(); r != nil {
			s.failed++
			err := fmt.Errorf("task panicked: %v", r)
			s.log.Error("scheduled task failed",
				zap.String("world", s.world),
				zap.Uint64("owner", uint64(t.owner)),
				zap.Error(err))
			if s.bus != nil {
				event.Emit(s.bus, event.TaskFailed{World: s.world, Owner: t.owner, Err: err})
			}
		}
	}()
	t.fn()
}

// Stop rejects further submissions and drops queued tasks, returning how
// many were dropped.
func (s *Scheduler) Stop() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	n := s.queue.Len()
	s.queue = nil
	return n
}

// Now returns the current tick.
func (s *Scheduler) Now() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Retired and Failed are only meaningful on the tick goroutine.
func (s *Scheduler) Retired() int { return s.retired }
func (s *Scheduler) Failed() int  { return s.failed }
