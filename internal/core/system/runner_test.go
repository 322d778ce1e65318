package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingSystem struct {
	name  string
	phase Phase
	log   *[]string
}

func (s recordingSystem) Phase() Phase { return s.phase }

func (s recordingSystem) Update(time.Duration) {
	*s.log = append(*s.log, s.name)
}

func TestRunner_PhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recordingSystem{"cleanup", PhaseCleanup, &log})
	r.Register(recordingSystem{"tasks", PhaseTasks, &log})
	r.Register(recordingSystem{"events", PhaseEvents, &log})
	r.Register(recordingSystem{"tasks2", PhaseTasks, &log})

	r.Tick(50 * time.Millisecond)
	assert.Equal(t, []string{"events", "tasks", "tasks2", "cleanup"}, log)
	assert.EqualValues(t, 1, r.Ticks())
}

func TestRunner_TickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recordingSystem{"tasks", PhaseTasks, &log})
	r.Register(recordingSystem{"cleanup", PhaseCleanup, &log})

	r.TickPhase(PhaseCleanup, 0)
	assert.Equal(t, []string{"cleanup"}, log)
	assert.Zero(t, r.Ticks())
}
