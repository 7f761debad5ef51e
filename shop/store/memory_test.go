package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAddToCartIsAdditive(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	item := s.PutItem(Item{Name: "Classic", Price: 50})

	require.NoError(t, s.AddToCart(ctx, 7, item.ID, 2))
	require.NoError(t, s.AddToCart(ctx, 7, item.ID, 3))

	line, ok, err := s.CartLine(ctx, 7, item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)

	entries, err := s.Cart(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1, "one line per item per user")
}

func TestMemoryCartOrderedByAddedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	now := time.Now()
	s.clock = func() time.Time { now = now.Add(time.Second); return now }

	a := s.PutItem(Item{Name: "Cheese", Price: 60})
	b := s.PutItem(Item{Name: "Bacon", Price: 70})

	require.NoError(t, s.AddToCart(ctx, 1, b.ID, 1))
	require.NoError(t, s.AddToCart(ctx, 1, a.ID, 1))
	// Growing an existing line keeps its original position.
	require.NoError(t, s.AddToCart(ctx, 1, b.ID, 1))

	entries, err := s.Cart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, b.ID, entries[0].ItemID)
	assert.Equal(t, a.ID, entries[1].ItemID)
	assert.Equal(t, 2, entries[0].Quantity)
}

func TestMemoryReduceCartLine(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	item := s.PutItem(Item{Name: "Classic", Price: 50})
	require.NoError(t, s.AddToCart(ctx, 2, item.ID, 3))

	require.NoError(t, s.ReduceCartLine(ctx, 2, item.ID, 2))
	line, ok, err := s.CartLine(ctx, 2, item.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)

	// Dropping to zero removes the row entirely.
	require.NoError(t, s.ReduceCartLine(ctx, 2, item.ID, 1))
	_, ok, err = s.CartLine(ctx, 2, item.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryClearCartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	item := s.PutItem(Item{Name: "Classic", Price: 50})
	require.NoError(t, s.AddToCart(ctx, 3, item.ID, 1))

	require.NoError(t, s.ClearCart(ctx, 3))
	require.NoError(t, s.ClearCart(ctx, 3))

	entries, err := s.Cart(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryFinalizePaymentIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	item := s.PutItem(Item{Name: "Classic", Price: 50})
	require.NoError(t, s.AddToCart(ctx, 9, item.ID, 2))

	recorded, err := s.FinalizePayment(ctx, 9, "charge-1", 100, "XTR")
	require.NoError(t, err)
	assert.True(t, recorded)

	entries, err := s.Cart(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, entries, "cart cleared with the first recording")

	// Items added after payment must survive a duplicate delivery.
	require.NoError(t, s.AddToCart(ctx, 9, item.ID, 1))
	recorded, err = s.FinalizePayment(ctx, 9, "charge-1", 100, "XTR")
	require.NoError(t, err)
	assert.False(t, recorded)

	entries, err = s.Cart(ctx, 9)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMemoryStatePartitionedByUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.SaveState(ctx, 1, `{"kind":"browsing"}`))
	raw, ok, err := s.State(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"kind":"browsing"}`, raw)

	_, ok, err = s.State(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
