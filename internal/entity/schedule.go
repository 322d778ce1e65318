package entity

import (
	"errors"
	"fmt"
)

// Ticks is a duration in host ticks.
type Ticks int64

var (
	// ErrSchedulingUnsupported is returned when the platform backing an
	// entity has no task scheduler.
	ErrSchedulingUnsupported = errors.New("entity: scheduling not supported by this platform")
	ErrEntityRemoved         = errors.New("entity: removed")
	ErrNilTask               = errors.New("entity: nil task")
	ErrNegativeDelay         = errors.New("entity: negative delay")
)

// Scheduled is implemented by entities whose platform can run work in the
// entity's execution context. Implementations are safe to call from any
// goroutine. Tasks run asynchronously; there is no completion signal and no
// cancellation.
type Scheduled interface {
	ExecuteAtEntity(task func()) error
	RunAtEntityDelayed(task func(), delay Ticks) error
}

// CanSchedule reports whether e's platform supports scheduling.
func CanSchedule(e Entity) bool {
	_, ok := e.(Scheduled)
	return ok
}

// Execute submits task to run at e. It fails synchronously with
// ErrSchedulingUnsupported when the platform has no scheduler.
func Execute(e Entity, task func()) error {
	if task == nil {
		return ErrNilTask
	}
	s, ok := e.(Scheduled)
	if !ok {
		return fmt.Errorf("execute at %T: %w", e, ErrSchedulingUnsupported)
	}
	return s.ExecuteAtEntity(task)
}

// RunDelayed submits task to run at e after delay ticks.
func RunDelayed(e Entity, task func(), delay Ticks) error {
	if task == nil {
		return ErrNilTask
	}
	if delay < 0 {
		return fmt.Errorf("delay %d: %w", delay, ErrNegativeDelay)
	}
	s, ok := e.(Scheduled)
	if !ok {
		return fmt.Errorf("run delayed at %T: %w", e, ErrSchedulingUnsupported)
	}
	return s.RunAtEntityDelayed(task, delay)
}
