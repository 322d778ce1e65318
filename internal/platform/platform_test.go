package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	name string
	caps Capability
}

func (p fakePlatform) Name() string             { return p.name }
func (p fakePlatform) Capabilities() Capability { return p.caps }

func TestCapability(t *testing.T) {
	c := CapSnapshots | CapRemoval
	assert.True(t, c.Has(CapRemoval))
	assert.False(t, c.Has(CapScheduling))
	assert.False(t, c.Has(CapScheduling|CapRemoval))
	assert.Equal(t, "snapshots,removal", c.String())
	assert.Equal(t, "none", Capability(0).String())
}

func TestManager_Preferred(t *testing.T) {
	m := NewManager()
	m.Register(fakePlatform{"offline", CapSnapshots | CapRemoval})
	m.Register(fakePlatform{"local", CapScheduling | CapSnapshots | CapRemoval})

	p, ok := m.Preferred(CapScheduling)
	require.True(t, ok)
	assert.Equal(t, "local", p.Name())

	p, ok = m.Preferred(CapSnapshots)
	require.True(t, ok)
	assert.Equal(t, "offline", p.Name(), "registration order wins")

	_, ok = NewManager().Preferred(CapRemoval)
	assert.False(t, ok)
	assert.Len(t, m.All(), 2)
}
