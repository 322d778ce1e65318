package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/weditgo/weditd/internal/entity"
)

// Engine wraps a single gopher-lua VM. Scripts register entity tasks with
// register_task(name, fn). Single-goroutine access only: every task runs
// on the tick loop.
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	tasks map[string]*lua.LFunction
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory yields an engine with no tasks.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.loadDir(scriptsDir); err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e := &Engine{vm: vm, log: log, tasks: make(map[string]*lua.LFunction)}
	vm.SetGlobal("register_task", vm.NewFunction(e.registerTask))
	vm.SetGlobal("log_info", vm.NewFunction(e.logInfo))
	return e
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source.
func (e *Engine) LoadString(name, src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

func (e *Engine) Close() { e.vm.Close() }

// Tasks returns the registered task names, sorted.
func (e *Engine) Tasks() []string {
	names := make([]string, 0, len(e.tasks))
	for n := range e.tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) registerTask(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	e.tasks[name] = fn
	return 0
}

func (e *Engine) logInfo(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// Task binds the named task to ent. The returned function is meant to be
// scheduled at the entity; script errors are logged, not propagated.
func (e *Engine) Task(name string, ent entity.Entity) (func(), error) {
	fn, ok := e.tasks[name]
	if !ok {
		return nil, fmt.Errorf("lua task %q not registered", name)
	}
	return func() {
		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, e.entityTable(ent)); err != nil {
			e.log.Error("lua task error", zap.String("task", name), zap.Error(err))
		}
	}, nil
}

// updater is implemented by entities whose live data can be edited.
type updater interface {
	Update(fn func(data map[string]any)) bool
}

// teleporter is implemented by entities that can be moved.
type teleporter interface {
	Teleport(loc entity.Location) bool
}

func (e *Engine) entityTable(ent entity.Entity) *lua.LTable {
	L := e.vm
	t := L.NewTable()
	setLocation(t, ent.Location())

	if base, ok := ent.State().Get(); ok {
		t.RawSetString("type", lua.LString(base.Type))
		t.RawSetString("data", toLua(L, base.Data))
	}

	t.RawSetString("remove", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(ent.Remove().String()))
		return 1
	}))
	t.RawSetString("set", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		val, ok := fromLua(L.Get(2), nil)
		u, canUpdate := ent.(updater)
		if !ok || !canUpdate {
			L.Push(lua.LFalse)
			return 1
		}
		L.Push(lua.LBool(u.Update(func(d map[string]any) { d[key] = val })))
		return 1
	}))
	t.RawSetString("teleport", L.NewFunction(func(L *lua.LState) int {
		loc := ent.Location()
		loc.Position = entity.Vec3{
			X: float64(L.CheckNumber(1)),
			Y: float64(L.CheckNumber(2)),
			Z: float64(L.CheckNumber(3)),
		}
		L.Push(lua.LBool(moveTo(t, ent, loc)))
		return 1
	}))
	t.RawSetString("move", L.NewFunction(func(L *lua.LState) int {
		loc := ent.Location()
		loc.Position = loc.Position.Add(entity.Vec3{
			X: float64(L.CheckNumber(1)),
			Y: float64(L.CheckNumber(2)),
			Z: float64(L.CheckNumber(3)),
		})
		L.Push(lua.LBool(moveTo(t, ent, loc)))
		return 1
	}))
	t.RawSetString("distance_sq", L.NewFunction(func(L *lua.LState) int {
		to := entity.Vec3{
			X: float64(L.CheckNumber(1)),
			Y: float64(L.CheckNumber(2)),
			Z: float64(L.CheckNumber(3)),
		}
		L.Push(lua.LNumber(ent.Location().Position.DistanceSq(to)))
		return 1
	}))
	return t
}

func moveTo(t *lua.LTable, ent entity.Entity, loc entity.Location) bool {
	tp, ok := ent.(teleporter)
	if !ok || !tp.Teleport(loc) {
		return false
	}
	setLocation(t, loc)
	return true
}

// setLocation writes position, orientation and block coordinates into t.
func setLocation(t *lua.LTable, loc entity.Location) {
	t.RawSetString("x", lua.LNumber(loc.Position.X))
	t.RawSetString("y", lua.LNumber(loc.Position.Y))
	t.RawSetString("z", lua.LNumber(loc.Position.Z))
	t.RawSetString("yaw", lua.LNumber(loc.Yaw))
	t.RawSetString("pitch", lua.LNumber(loc.Pitch))
	bx, by, bz := loc.Position.BlockPos()
	t.RawSetString("bx", lua.LNumber(bx))
	t.RawSetString("by", lua.LNumber(by))
	t.RawSetString("bz", lua.LNumber(bz))
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(t)
	case bool:
		return lua.LBool(t)
	case int:
		return lua.LNumber(t)
	case int64:
		return lua.LNumber(t)
	case float64:
		return lua.LNumber(t)
	case map[string]any:
		tbl := L.NewTable()
		for k, e := range t {
			tbl.RawSetString(k, toLua(L, e))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for _, e := range t {
			tbl.Append(toLua(L, e))
		}
		return tbl
	}
	return lua.LString(fmt.Sprint(v))
}

// fromLua converts a Lua value into entity data. A table whose keys are
// exactly 1..n becomes []any, one with string keys map[string]any. nil,
// functions, userdata, mixed or cyclic tables are not convertible.
func fromLua(v lua.LValue, seen map[*lua.LTable]bool) (any, bool) {
	switch t := v.(type) {
	case lua.LString:
		return string(t), true
	case lua.LNumber:
		return float64(t), true
	case lua.LBool:
		return bool(t), true
	case *lua.LTable:
		if seen[t] {
			return nil, false
		}
		if seen == nil {
			seen = make(map[*lua.LTable]bool)
		}
		seen[t] = true
		defer delete(seen, t)
		return tableFromLua(t, seen)
	}
	return nil, false
}

func tableFromLua(t *lua.LTable, seen map[*lua.LTable]bool) (any, bool) {
	n := t.MaxN()
	keys := 0
	t.ForEach(func(lua.LValue, lua.LValue) { keys++ })

	if keys == n {
		out := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			v, ok := fromLua(t.RawGetInt(i), seen)
			if !ok {
				return nil, false
			}
			out = append(out, v)
		}
		return out, true
	}

	out := make(map[string]any, keys)
	ok := true
	t.ForEach(func(k, v lua.LValue) {
		key, isString := k.(lua.LString)
		if !ok || !isString {
			ok = false
			return
		}
		val, converted := fromLua(v, seen)
		if !converted {
			ok = false
			return
		}
		out[string(key)] = val
	})
	if !ok {
		return nil, false
	}
	return out, true
}
