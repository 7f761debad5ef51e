package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw, err := Encode(Selecting(42, 3))
	require.NoError(t, err)

	got := Decode(raw)
	assert.Equal(t, KindSelectingQuantity, got.Kind)
	assert.Equal(t, int64(42), got.ItemID)
	assert.Equal(t, 3, got.Quantity)
}

func TestDecodeCorruptFallsBackToIdle(t *testing.T) {
	cases := map[string]string{
		"garbage":         "not json at all",
		"empty":           "",
		"unknown kind":    `{"kind":"ordering_pizza"}`,
		"legacy format":   "awaiting_quantity_3_2",
		"selecting no id": `{"kind":"selecting_quantity","qty":2}`,
		"selecting qty 0": `{"kind":"selecting_quantity","item_id":3,"qty":0}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Idle, Decode(raw))
		})
	}
}

func TestSelectingFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, Selecting(5, 0).Quantity)
	assert.Equal(t, 1, Selecting(5, -3).Quantity)
	assert.Equal(t, 4, Selecting(5, 4).Quantity)
}

func TestIsSelecting(t *testing.T) {
	s := Selecting(7, 2)
	assert.True(t, s.IsSelecting(7))
	assert.False(t, s.IsSelecting(8))
	assert.False(t, Idle.IsSelecting(7))
}
