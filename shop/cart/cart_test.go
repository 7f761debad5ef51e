package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/burgerbot/shop/errs"
	"github.com/m3rciful/burgerbot/shop/store"
)

func newFixture(t *testing.T) (*Manager, *store.Memory, store.Item) {
	t.Helper()
	mem := store.NewMemory()
	item := mem.PutItem(store.Item{Name: "Classic Burger", Price: 50})
	return NewManager(mem), mem, item
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	m, _, item := newFixture(t)

	err := m.Add(ctx, 1, item.ID, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidQuantity)

	err = m.Add(ctx, 1, 9999, 1)
	assert.ErrorIs(t, err, errs.ErrItemNotFound)

	require.NoError(t, m.Add(ctx, 1, item.ID, 2))
	require.NoError(t, m.Add(ctx, 1, item.ID, 1))

	entries, err := m.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Quantity)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	m, _, item := newFixture(t)
	require.NoError(t, m.Add(ctx, 1, item.ID, 3))

	err := m.Remove(ctx, 1, item.ID, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidQuantity)

	err = m.Remove(ctx, 1, item.ID, 5)
	assert.ErrorIs(t, err, errs.ErrInvalidQuantity)

	err = m.Remove(ctx, 1, 9999, 1)
	assert.ErrorIs(t, err, errs.ErrItemNotFound)

	require.NoError(t, m.Remove(ctx, 1, item.ID, 2))
	entries, err := m.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Quantity)

	// Removing the last unit deletes the line.
	require.NoError(t, m.Remove(ctx, 1, item.ID, 1))
	entries, err = m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, _, item := newFixture(t)
	require.NoError(t, m.Add(ctx, 1, item.ID, 1))

	require.NoError(t, m.Clear(ctx, 1))
	require.NoError(t, m.Clear(ctx, 1))

	entries, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTotal(t *testing.T) {
	entries := []store.CartEntry{
		{Price: 50, Quantity: 2},
		{Price: 70, Quantity: 1},
	}
	assert.Equal(t, int64(170), Total(entries))
	assert.Equal(t, int64(0), Total(nil))
}
