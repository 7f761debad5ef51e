package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/burgerbot/shop/store"
)

func TestServiceCurrentDefaultsToIdle(t *testing.T) {
	svc := NewService(store.NewMemory())

	st, err := svc.Current(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Idle, st)
}

func TestServiceAdjustGuardsAgainstStaleButtons(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())
	require.NoError(t, svc.BeginSelection(ctx, 1, 10))

	// Button from a selector rendered for another item.
	_, changed, err := svc.Adjust(ctx, 1, 99, +1)
	require.NoError(t, err)
	assert.False(t, changed)

	// Stored state must be unchanged.
	st, err := svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Selecting(10, 1), st)

	// Button pressed after the selection was already consumed.
	_, taken, err := svc.TakeSelection(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, taken)
	_, changed, err = svc.Adjust(ctx, 1, 10, +1)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestServiceAdjustFloorsAtOne(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())
	require.NoError(t, svc.BeginSelection(ctx, 1, 10))

	qty, changed, err := svc.Adjust(ctx, 1, 10, +1)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 2, qty)

	qty, changed, err = svc.Adjust(ctx, 1, 10, -1)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 1, qty)

	// At the floor the quantity stays put and callers get no signal to
	// re-render the selector.
	qty, changed, err = svc.Adjust(ctx, 1, 10, -1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, qty)

	st, err := svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Selecting(10, 1), st)
}

func TestServiceSelectionFlow(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	require.NoError(t, svc.BeginSelection(ctx, 5, 10))
	qty, changed, err := svc.Adjust(ctx, 5, 10, +1)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, 2, qty)

	qty, changed, err = svc.Adjust(ctx, 5, 10, +1)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, 3, qty)

	qty, taken, err := svc.TakeSelection(ctx, 5, 10)
	require.NoError(t, err)
	require.True(t, taken)
	assert.Equal(t, 3, qty)

	st, err := svc.Current(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, Idle, st)
}

func TestServiceDegradeOnlyLeavesAwaitingPayment(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	require.NoError(t, svc.SetAwaitingPayment(ctx, 2))
	prev, err := svc.Degrade(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, KindAwaitingPayment, prev.Kind)

	st, err := svc.Current(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, Idle, st)

	require.NoError(t, svc.SetBrowsing(ctx, 2))
	prev, err = svc.Degrade(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, KindBrowsing, prev.Kind)

	st, err = svc.Current(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, KindBrowsing, st.Kind)
}
