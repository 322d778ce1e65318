package event

import "github.com/weditgo/weditd/internal/core/ecs"

type EntitySpawned struct {
	World string
	ID    ecs.EntityID
	Type  string
}

type EntityRemoved struct {
	World string
	ID    ecs.EntityID
	Type  string
}

// TaskFailed is emitted when a scheduled task panics.
type TaskFailed struct {
	World string
	Owner ecs.EntityID
	Err   error
}

type OperationFinished struct {
	Name string
	Err  error
}
