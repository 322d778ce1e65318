package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const typesYAML = `
- id: minecraft:pig
  name: Pig
  snapshot: true
  removable: true
  data:
    Health: 10.0
    Saddle: false
- id: minecraft:player
  snapshot: false
  removable: false
`

func TestParseEntityTypes(t *testing.T) {
	table, err := ParseEntityTypes([]byte(typesYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())
	assert.Equal(t, []string{"minecraft:pig", "minecraft:player"}, table.IDs())

	pig := table.Get("minecraft:pig")
	require.NotNil(t, pig)
	assert.True(t, pig.Snapshot)
	assert.Equal(t, 10.0, pig.Data["Health"])

	player := table.Get("minecraft:player")
	require.NotNil(t, player)
	assert.Equal(t, "minecraft:player", player.Name, "name defaults to id")
	assert.False(t, player.Removable)

	assert.Nil(t, table.Get("minecraft:ghast"))
}

func TestParseEntityTypes_Rejects(t *testing.T) {
	_, err := ParseEntityTypes([]byte("- name: nameless\n"))
	assert.ErrorContains(t, err, "missing id")

	_, err = ParseEntityTypes([]byte("- id: a\n- id: a\n"))
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadSpawnList(t *testing.T) {
	table, err := ParseEntityTypes([]byte(typesYAML))
	require.NoError(t, err)

	raw := []byte(`
- world: overworld
  type: minecraft:pig
  x: 10.5
  y: 64
  z: -3
  script: oink
  delay: 20
`)
	entries, err := ParseSpawnList(raw, table)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "oink", entries[0].Script)
	assert.EqualValues(t, 20, entries[0].Delay)
	assert.Equal(t, 10.5, entries[0].X)

	_, err = ParseSpawnList([]byte("- type: minecraft:ghast\n"), table)
	assert.ErrorContains(t, err, "unknown entity type")

	path := filepath.Join(t.TempDir(), "spawn_list.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	fromFile, err := LoadSpawnList(path)
	require.NoError(t, err)
	assert.Equal(t, entries, fromFile)
}
