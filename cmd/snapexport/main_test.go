package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weditgo/weditd/internal/entity"
	"github.com/weditgo/weditd/internal/operation"
	"github.com/weditgo/weditd/internal/platform/offline"
)

func TestExcludeTypes(t *testing.T) {
	w := offline.NewWorld("overworld", []operation.CapturedEntity{
		{State: entity.NewBaseEntity("minecraft:item", nil)},
		{State: entity.NewBaseEntity("minecraft:pig", map[string]any{"Saddle": true}), Location: entity.Location{Position: entity.Vec3{X: 4}, Yaw: 90}},
		{State: entity.NewBaseEntity("minecraft:item", nil)},
	})

	n, err := excludeTypes(context.Background(), w, []string{"minecraft:item"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := export(w.Remaining())
	require.Len(t, out, 1)
	assert.Equal(t, Exported{Type: "minecraft:pig", X: 4, Yaw: 90, Data: map[string]any{"Saddle": true}}, out[0])

	n, err = excludeTypes(context.Background(), w, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
