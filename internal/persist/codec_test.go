package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weditgo/weditd/internal/entity"
)

func TestEncodeState_RoundTrip(t *testing.T) {
	in := entity.NewBaseEntity("minecraft:villager", map[string]any{
		"Health":     10.0,
		"Armor":      19.5,
		"Level":      3,
		"Profession": "librarian",
		"Name":       "10",
		"Gossips":    []any{"trade", map[string]any{"Value": 3, "Weight": 2.0}},
		"Passengers": []any{},
		"Baby":       false,
		"Leash":      nil,
	})
	payload, digest, err := EncodeState(in)
	require.NoError(t, err)
	assert.Len(t, digest, 32)

	out, err := DecodeState(payload, digest)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.IsType(t, float64(0), out.Data["Health"])
}

func TestEncodeState_TypedContainers(t *testing.T) {
	in := entity.NewBaseEntity("minecraft:pig", map[string]any{
		"Attributes": map[string]float64{"speed": 1},
		"Pos":        []int32{1, 2, 3},
		"Motion":     [2]float32{0.5, 0},
	})
	payload, digest, err := EncodeState(in)
	require.NoError(t, err)

	out, err := DecodeState(payload, digest)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"speed": 1.0}, out.Data["Attributes"])
	assert.Equal(t, []any{1, 2, 3}, out.Data["Pos"])
	assert.Equal(t, []any{0.5, 0.0}, out.Data["Motion"])
}

func TestEncodeState_Deterministic(t *testing.T) {
	b := entity.NewBaseEntity("minecraft:cow", map[string]any{
		"a": 1, "b": 2.0, "c": "x", "d": map[string]any{"e": true, "f": []any{1.5}},
	})
	_, first, err := EncodeState(b)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		_, again, err := EncodeState(b)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestEncodeState_RejectsUnsupportedValues(t *testing.T) {
	_, _, err := EncodeState(entity.BaseEntity{Type: "minecraft:pig", Data: map[string]any{
		"Bad": map[int]string{1: "x"},
	}})
	assert.ErrorContains(t, err, "Bad")

	_, _, err = EncodeState(entity.BaseEntity{Type: "minecraft:pig", Data: map[string]any{
		"Bad": make(chan int),
	}})
	assert.ErrorContains(t, err, "unsupported value type")
}

func TestCodecsReady(t *testing.T) {
	require.NotNil(t, encoder)
	require.NotNil(t, decoder)
}

func TestEncodeState_NormalizesBeforeHashing(t *testing.T) {
	composed := entity.NewBaseEntity("minecraft:armor_stand", map[string]any{"CustomName": "Caf\u00e9"})
	decomposed := entity.NewBaseEntity("minecraft:armor_stand", map[string]any{"CustomName": "Cafe\u0301"})

	_, d1, err := EncodeState(composed)
	require.NoError(t, err)
	_, d2, err := EncodeState(decomposed)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Equal(t, "Cafe\u0301", decomposed.Data["CustomName"], "input is not modified")
}

func TestDecodeState_DetectsTampering(t *testing.T) {
	payload, digest, err := EncodeState(entity.NewBaseEntity("minecraft:pig", nil))
	require.NoError(t, err)

	bad := append([]byte(nil), digest...)
	bad[0] ^= 0xff
	_, err = DecodeState(payload, bad)
	assert.ErrorIs(t, err, ErrDigestMismatch)

	_, err = DecodeState([]byte("not zstd"), digest)
	assert.ErrorContains(t, err, "decompress")
}
