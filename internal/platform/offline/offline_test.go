package offline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/operation"
	"github.com/weditgo/weditd/internal/platform"
)

func captured() []operation.CapturedEntity {
	return []operation.CapturedEntity{
		{Location: entity.Location{Position: entity.Vec3{X: 1}}, State: entity.NewBaseEntity("minecraft:pig", map[string]any{"Health": 10.0})},
		{Location: entity.Location{Position: entity.Vec3{X: 2}}, State: entity.NewBaseEntity("minecraft:cow", nil)},
	}
}

func TestWorld_SchedulingUnsupported(t *testing.T) {
	w := NewWorld("archive", captured())
	e := w.Entities()[0]

	assert.False(t, entity.CanSchedule(e))
	assert.ErrorIs(t, entity.Execute(e, func() {}), entity.ErrSchedulingUnsupported)
	assert.ErrorIs(t, entity.RunDelayed(e, func() {}, 5), entity.ErrSchedulingUnsupported)
	assert.False(t, Platform{}.Capabilities().Has(platform.CapScheduling))
}

func TestWorld_StateIsCopied(t *testing.T) {
	src := captured()
	w := NewWorld("archive", src)
	src[0].State.Data["Health"] = 0.0

	base, ok := w.Entities()[0].State().Get()
	require.True(t, ok)
	assert.Equal(t, 10.0, base.Data["Health"])
}

func TestWorld_RemoveThroughVisitor(t *testing.T) {
	w := NewWorld("archive", captured())
	cows := operation.EntityFunc(func(e entity.Entity) (bool, error) {
		base, ok := e.State().Get()
		if !ok || base.Type != "minecraft:cow" {
			return false, nil
		}
		return e.Remove().Succeeded(), nil
	})
	v := operation.NewEntityVisitor(w.Entities(), cows)
	require.NoError(t, operation.Complete(context.Background(), v))
	assert.Equal(t, 1, v.Affected())

	left := w.Remaining()
	require.Len(t, left, 1)
	assert.Equal(t, "minecraft:pig", left[0].State.Type)
	assert.Len(t, w.Entities(), 1)
}

func TestEntity_RemoveTwice(t *testing.T) {
	e := NewWorld("archive", captured()).Entities()[1]
	assert.Equal(t, entity.Removed, e.Remove())
	assert.Equal(t, entity.AlreadyAbsent, e.Remove())
	assert.False(t, e.State().Supported())
}
