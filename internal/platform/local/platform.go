package local

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/weditgo/weditd/internal/core/event"
	coresys "github.com/weditgo/weditd/internal/core/system"
	"github.com/weditgo/weditd/internal/data"
	"github.com/weditgo/weditd/internal/platform"
)

const Name = "local"

// Platform owns the local worlds. It is also the tick system that drives
// every world's scheduler.
type Platform struct {
	types *data.EntityTypeTable
	bus   *event.Bus
	log   *zap.Logger

	mu     sync.Mutex
	worlds map[string]*World
}

var _ platform.Platform = (*Platform)(nil)

func NewPlatform(types *data.EntityTypeTable, bus *event.Bus, log *zap.Logger) *Platform {
	return &Platform{
		types:  types,
		bus:    bus,
		log:    log,
		worlds: make(map[string]*World),
	}
}

func (p *Platform) Name() string { return Name }

func (p *Platform) Capabilities() platform.Capability {
	return platform.CapScheduling | platform.CapSnapshots | platform.CapRemoval
}

// World returns the named world, creating it on first use.
func (p *Platform) World(name string) *World {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.worlds[name]
	if !ok {
		w = newWorld(name, p.types, p.bus, p.log)
		p.worlds[name] = w
	}
	return w
}

// Worlds returns every world ordered by name.
func (p *Platform) Worlds() []*World {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*World, 0, len(p.worlds))
	for _, w := range p.worlds {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (p *Platform) Phase() coresys.Phase { return coresys.PhaseTasks }

// Update ticks every world's scheduler.
func (p *Platform) Update(dt time.Duration) {
	for _, w := range p.Worlds() {
		w.sched.Update(dt)
	}
}

// Flush destroys the entities removed this tick in every world.
func (p *Platform) Flush() int {
	n := 0
	for _, w := range p.Worlds() {
		n += w.Flush()
	}
	return n
}

// Stop stops every scheduler and returns the number of dropped tasks.
func (p *Platform) Stop() int {
	n := 0
	for _, w := range p.Worlds() {
		n += w.sched.Stop()
	}
	return n
}
