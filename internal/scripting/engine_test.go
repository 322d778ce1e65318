package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap/zaptest"

	"github.com/weditgo/weditd/internal/entity"
)

type scriptedEntity struct {
	data    map[string]any
	loc     entity.Location
	removed bool
}

func newScriptedEntity(data map[string]any) *scriptedEntity {
	return &scriptedEntity{data: data, loc: entity.Location{Position: entity.Vec3{X: 1, Y: 2, Z: 3}}}
}

func (e *scriptedEntity) Facets() []any         { return nil }
func (e *scriptedEntity) Extent() entity.Extent { return nil }

func (e *scriptedEntity) Location() entity.Location { return e.loc }

func (e *scriptedEntity) State() entity.StateResult {
	return entity.Captured(entity.NewBaseEntity("minecraft:pig", e.data))
}

func (e *scriptedEntity) Remove() entity.RemoveOutcome {
	if e.removed {
		return entity.AlreadyAbsent
	}
	e.removed = true
	return entity.Removed
}

func (e *scriptedEntity) Update(fn func(map[string]any)) bool {
	fn(e.data)
	return true
}

func (e *scriptedEntity) Teleport(loc entity.Location) bool {
	if e.removed {
		return false
	}
	e.loc = loc
	return true
}

func TestEngine_TaskSeesEntity(t *testing.T) {
	e := newEngine(zaptest.NewLogger(t))
	defer e.Close()

	require.NoError(t, e.LoadString("inspect", `
register_task("inspect", function(ent)
  seen_type = ent.type
  seen_sum = ent.x + ent.y + ent.z
  seen_health = ent.data.Health
  ent.set("Health", 4)
  first = ent.remove()
  second = ent.remove()
end)
`))
	assert.Equal(t, []string{"inspect"}, e.Tasks())

	ent := newScriptedEntity(map[string]any{"Health": 10.0})
	task, err := e.Task("inspect", ent)
	require.NoError(t, err)
	task()

	assert.Equal(t, lua.LString("minecraft:pig"), e.vm.GetGlobal("seen_type"))
	assert.Equal(t, lua.LNumber(6), e.vm.GetGlobal("seen_sum"))
	assert.Equal(t, lua.LNumber(10), e.vm.GetGlobal("seen_health"))
	assert.Equal(t, lua.LString("removed"), e.vm.GetGlobal("first"))
	assert.Equal(t, lua.LString("already-absent"), e.vm.GetGlobal("second"))
	assert.Equal(t, 4.0, ent.data["Health"])
}

func TestEngine_SetConvertsTables(t *testing.T) {
	e := newEngine(zaptest.NewLogger(t))
	defer e.Close()
	require.NoError(t, e.LoadString("tags", `
register_task("tags", function(ent)
  list_ok = ent.set("Tags", {"a", "b"})
  map_ok = ent.set("Attributes", {speed = 0.25, owner = {name = "Alex"}})
  empty_ok = ent.set("Passengers", {})
  nil_ok = ent.set("Health", nil)
  mixed_ok = ent.set("Health", {1, k = 2})
  fn_ok = ent.set("Health", function() end)
  local cyclic = {}
  cyclic.self = cyclic
  cyclic_ok = ent.set("Health", cyclic)
end)
`))
	ent := newScriptedEntity(map[string]any{"Health": 10.0})
	task, err := e.Task("tags", ent)
	require.NoError(t, err)
	task()

	for _, g := range []string{"list_ok", "map_ok", "empty_ok"} {
		assert.Equal(t, lua.LTrue, e.vm.GetGlobal(g), g)
	}
	for _, g := range []string{"nil_ok", "mixed_ok", "fn_ok", "cyclic_ok"} {
		assert.Equal(t, lua.LFalse, e.vm.GetGlobal(g), g)
	}
	assert.Equal(t, []any{"a", "b"}, ent.data["Tags"])
	assert.Equal(t, map[string]any{"speed": 0.25, "owner": map[string]any{"name": "Alex"}}, ent.data["Attributes"])
	assert.Equal(t, []any{}, ent.data["Passengers"])
	assert.Equal(t, 10.0, ent.data["Health"], "rejected values leave data untouched")
}

func TestEngine_TeleportAndMove(t *testing.T) {
	e := newEngine(zaptest.NewLogger(t))
	defer e.Close()
	require.NoError(t, e.LoadString("walk", `
register_task("walk", function(ent)
  far = ent.distance_sq(1, 2, 7)
  moved = ent.move(0.5, 0, -4)
  after_move = {ent.x, ent.y, ent.z, ent.bz}
  ent.remove()
  stuck = ent.teleport(0, 0, 0)
end)
`))
	ent := newScriptedEntity(nil)
	task, err := e.Task("walk", ent)
	require.NoError(t, err)
	task()

	assert.Equal(t, lua.LNumber(16), e.vm.GetGlobal("far"))
	assert.Equal(t, lua.LTrue, e.vm.GetGlobal("moved"))
	after := e.vm.GetGlobal("after_move").(*lua.LTable)
	assert.Equal(t, lua.LNumber(1.5), after.RawGetInt(1))
	assert.Equal(t, lua.LNumber(-1), after.RawGetInt(3))
	assert.Equal(t, lua.LNumber(-1), after.RawGetInt(4))
	assert.Equal(t, lua.LFalse, e.vm.GetGlobal("stuck"))
	assert.Equal(t, entity.Vec3{X: 1.5, Y: 2, Z: -1}, ent.loc.Position)
}

func TestEngine_UnknownTask(t *testing.T) {
	e := newEngine(zaptest.NewLogger(t))
	defer e.Close()
	_, err := e.Task("missing", newScriptedEntity(nil))
	assert.ErrorContains(t, err, "not registered")
}

func TestEngine_ScriptErrorIsContained(t *testing.T) {
	e := newEngine(zaptest.NewLogger(t))
	defer e.Close()
	require.NoError(t, e.LoadString("broken", `register_task("broken", function(ent) error("boom") end)`))

	task, err := e.Task("broken", newScriptedEntity(nil))
	require.NoError(t, err)
	assert.NotPanics(t, task)
}

func TestNewEngine_LoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`register_task("a", function(ent) end)`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	e, err := NewEngine(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, []string{"a"}, e.Tasks())

	empty, err := NewEngine(filepath.Join(dir, "missing"), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer empty.Close()
	assert.Empty(t, empty.Tasks())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`this is not lua`), 0o644))
	_, err = NewEngine(dir, zaptest.NewLogger(t))
	assert.Error(t, err)
}
