package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/weditgo/weditd/internal/core/event"
	coresys "github.com/weditgo/weditd/internal/core/system"
	"github.com/weditgo/weditd/internal/operation"
)

type job struct {
	name string
	op   operation.Operation
	root operation.Operation
}

// OperationSystem resumes long-running operations a few steps per tick so
// large edits never stall the loop. Phase 2 (Operations).
type OperationSystem struct {
	mu     sync.Mutex
	jobs   []*job
	budget int

	ctx    context.Context
	cancel context.CancelFunc
	bus    *event.Bus
	log    *zap.Logger
}

// NewOperationSystem resumes at most budget operation steps per tick.
func NewOperationSystem(budget int, bus *event.Bus, log *zap.Logger) *OperationSystem {
	if budget < 1 {
		budget = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &OperationSystem{budget: budget, ctx: ctx, cancel: cancel, bus: bus, log: log}
}

func (s *OperationSystem) Phase() coresys.Phase { return coresys.PhaseOperations }

// Submit queues op under name. Safe from any goroutine.
func (s *OperationSystem) Submit(name string, op operation.Operation) error {
	if op == nil {
		return fmt.Errorf("submit %s: nil operation", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return fmt.Errorf("submit %s: %w", name, s.ctx.Err())
	}
	s.jobs = append(s.jobs, &job{name: name, op: op, root: op})
	return nil
}

// Update spends the step budget round-robin over queued operations.
func (s *OperationSystem) Update(_ time.Duration) {
	rc := operation.NewRunContext(s.ctx)
	for spent := 0; spent < s.budget; {
		s.mu.Lock()
		if len(s.jobs) == 0 {
			s.mu.Unlock()
			return
		}
		j := s.jobs[0]
		s.jobs = s.jobs[1:]
		s.mu.Unlock()

		next, err := j.op.Resume(rc)
		spent++
		if err != nil || next == nil {
			s.finish(j, err)
			continue
		}
		j.op = next
		s.mu.Lock()
		s.jobs = append(s.jobs, j)
		s.mu.Unlock()
	}
}

func (s *OperationSystem) finish(j *job, err error) {
	if err != nil {
		s.log.Error("operation failed", zap.String("operation", j.name), zap.Error(err))
	} else {
		s.log.Info("operation finished", zap.String("operation", j.name))
	}
	if s.bus != nil {
		event.Emit(s.bus, event.OperationFinished{Name: j.name, Err: err})
	}
}

// Progress reports the progress of the named queued operation. ok is false
// when no such operation is queued or it cannot report progress.
func (s *OperationSystem) Progress(name string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.name != name {
			continue
		}
		if p, ok := operation.ProgressOf(j.op); ok {
			return p, true
		}
		return operation.ProgressOf(j.root)
	}
	return 0, false
}

// Active returns the number of queued operations.
func (s *OperationSystem) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels every queued operation and rejects new ones.
func (s *OperationSystem) Stop() {
	s.cancel()
	s.mu.Lock()
	jobs := s.jobs
	s.jobs = nil
	s.mu.Unlock()
	for _, j := range jobs {
		j.op.Cancel()
	}
}
