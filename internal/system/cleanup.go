package system

import (
	"time"

	coresys "github.com/weditgo/weditd/internal/core/system"
)

// Flusher destroys entities queued for removal.
type Flusher interface {
	Flush() int
}

// CleanupSystem flushes deferred entity destruction at tick end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	flusher Flusher
}

func NewCleanupSystem(f Flusher) *CleanupSystem {
	return &CleanupSystem{flusher: f}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.flusher.Flush()
}
