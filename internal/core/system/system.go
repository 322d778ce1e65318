package system

import "time"

// Phase orders systems within a single tick.
type Phase int

const (
	PhaseEvents     Phase = iota // 0: dispatch last tick's events
	PhaseTasks                   // 1: run scheduled entity tasks
	PhaseOperations              // 2: resume long-running operations
	PhasePersist                 // 3: snapshot archiving
	PhaseCleanup                 // 4: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseTasks:
		return "tasks"
	case PhaseOperations:
		return "operations"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
