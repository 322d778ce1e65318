package operation

import (
	"context"
	"fmt"
)

// Operation is a unit of work that can be run in steps. Resume performs
// one step and returns the operation to run next, or nil when done.
type Operation interface {
	Resume(rc *RunContext) (Operation, error)
	Cancel()
}

// RunContext is handed to every Resume call.
type RunContext struct {
	ctx context.Context
}

func NewRunContext(ctx context.Context) *RunContext {
	return &RunContext{ctx: ctx}
}

func (rc *RunContext) Context() context.Context { return rc.ctx }

// Canceled reports whether the run should stop.
func (rc *RunContext) Canceled() bool { return rc.ctx.Err() != nil }

// Err returns the reason the run was canceled, if any.
func (rc *RunContext) Err() error { return rc.ctx.Err() }

// Complete drives op until it finishes, fails, or ctx is done.
func Complete(ctx context.Context, op Operation) error {
	rc := NewRunContext(ctx)
	for op != nil {
		if err := ctx.Err(); err != nil {
			op.Cancel()
			return err
		}
		next, err := op.Resume(rc)
		if err != nil {
			return fmt.Errorf("resume %T: %w", op, err)
		}
		op = next
	}
	return nil
}
