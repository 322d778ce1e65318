package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/weditgo/weditd/internal/config"
	"github.com/weditgo/weditd/internal/core/event"
	"github.com/weditgo/weditd/internal/data"
	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/platform/local"
	"github.com/weditgo/weditd/internal/scripting"
)

func TestSpawnEntities_SchedulesScripts(t *testing.T) {
	types, err := data.ParseEntityTypes([]byte(`
- id: minecraft:chicken
  snapshot: true
  removable: true
`))
	require.NoError(t, err)
	spawns, err := data.ParseSpawnList([]byte(`
- type: minecraft:chicken
  script: lay
  delay: 1
- world: nether
  type: minecraft:chicken
- type: minecraft:chicken
  script: missing
`), types)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	scripts, err := scripting.NewEngine(t.TempDir(), log)
	require.NoError(t, err)
	defer scripts.Close()
	require.NoError(t, scripts.LoadString("lay", `register_task("lay", function(ent) ent.remove() end)`))

	live := local.NewPlatform(types, event.NewBus(), log)
	n, err := spawnEntities(live, spawns, scripts, log)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, live.World("overworld").Len())
	assert.Equal(t, 1, live.World("nether").Len())

	live.Update(0)
	live.Update(0)
	live.Flush()
	assert.Equal(t, 1, live.World("overworld").Len(), "script removed its chicken")
}

func TestSubscribeLogging_NamesFailedTaskOwner(t *testing.T) {
	types, err := data.ParseEntityTypes([]byte(`
- id: minecraft:chicken
  snapshot: true
  removable: true
`))
	require.NoError(t, err)
	bus := event.NewBus()
	live := local.NewPlatform(types, bus, zaptest.NewLogger(t))
	core, logs := observer.New(zap.DebugLevel)
	subscribeLogging(bus, live, zap.New(core))

	e, err := live.World("overworld").Spawn("minecraft:chicken", entity.Location{}, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Execute(e, func() { panic("egg") }))
	live.Update(0)
	bus.SwapBuffers()
	bus.DispatchAll()

	failed := logs.FilterMessage("entity task failed").All()
	require.Len(t, failed, 1)
	fields := failed[0].ContextMap()
	assert.Equal(t, "minecraft:chicken", fields["type"])
	assert.Equal(t, e.UUID().String(), fields["uuid"])
	assert.Equal(t, "overworld", fields["world"])
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := newLogger(config.LoggingConfig{Level: "debug", Format: format})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(-1))
	}
	log, err := newLogger(config.LoggingConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1), "unknown level falls back to info")
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 9, displayWidth("overworld"))
	assert.Equal(t, 4, displayWidth("Caf\u00e9"))
	assert.Equal(t, 4, displayWidth("Cafe\u0301"))
	assert.Equal(t, 6, displayWidth("\u4e16\u754c\u4e00"))
	assert.Equal(t, 4, displayWidth("\uff37\uff10"))
}
