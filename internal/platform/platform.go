// Package platform describes the hosts that back entity references and the
// optional capabilities each one offers.
package platform

import "strings"

// Capability is a bit set of optional platform features.
type Capability uint8

const (
	CapScheduling Capability = 1 << iota // entities implement entity.Scheduled
	CapSnapshots                         // State can produce snapshots
	CapRemoval                           // Remove can take entities out of their extent
)

func (c Capability) Has(o Capability) bool { return c&o == o }

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c.Has(CapScheduling) {
		parts = append(parts, "scheduling")
	}
	if c.Has(CapSnapshots) {
		parts = append(parts, "snapshots")
	}
	if c.Has(CapRemoval) {
		parts = append(parts, "removal")
	}
	return strings.Join(parts, ",")
}

// Platform is a host for extents and entities.
type Platform interface {
	Name() string
	Capabilities() Capability
}

// Manager keeps registered platforms in registration order.
type Manager struct {
	platforms []Platform
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Register(p Platform) {
	m.platforms = append(m.platforms, p)
}

// Preferred returns the first registered platform offering every
// capability in c.
func (m *Manager) Preferred(c Capability) (Platform, bool) {
	for _, p := range m.platforms {
		if p.Capabilities().Has(c) {
			return p, true
		}
	}
	return nil, false
}

func (m *Manager) All() []Platform {
	return append([]Platform(nil), m.platforms...)
}
