package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/burgerbot/shop/cart"
	"github.com/m3rciful/burgerbot/shop/errs"
	"github.com/m3rciful/burgerbot/shop/store"
)

func newFixture(t *testing.T) (*Service, *store.Memory, store.Item) {
	t.Helper()
	mem := store.NewMemory()
	item := mem.PutItem(store.Item{Name: "Classic Burger", Price: 50})
	mgr := cart.NewManager(mem)
	svc := NewService(mem, mgr, Options{
		Title:        "Burger order",
		Currency:     "XTR",
		RetryBackoff: time.Millisecond,
	})
	return svc, mem, item
}

func TestBuildInvoiceEmptyCart(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.BuildInvoice(context.Background(), 1)
	assert.ErrorIs(t, err, errs.ErrEmptyCart)
}

func TestBuildInvoiceTotals(t *testing.T) {
	ctx := context.Background()
	svc, mem, item := newFixture(t)
	other := mem.PutItem(store.Item{Name: "Bacon Burger", Price: 70})

	require.NoError(t, mem.AddToCart(ctx, 1, item.ID, 2))
	require.NoError(t, mem.AddToCart(ctx, 1, other.ID, 1))

	inv, err := svc.BuildInvoice(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Burger order", inv.Title)
	assert.Equal(t, "XTR", inv.Currency)
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "Classic Burger x2", inv.Lines[0].Label)
	assert.Equal(t, int64(100), inv.Lines[0].Amount)
	assert.Equal(t, int64(170), inv.Total)
	assert.NotEmpty(t, inv.Payload)
}

func TestConfirmClearsCartOnce(t *testing.T) {
	ctx := context.Background()
	svc, mem, item := newFixture(t)
	require.NoError(t, mem.AddToCart(ctx, 1, item.ID, 2))

	recorded, err := svc.Confirm(ctx, 1, "charge-1", 100, "XTR")
	require.NoError(t, err)
	assert.True(t, recorded)

	entries, err := mem.Cart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Duplicate delivery: not recorded again, cart untouched.
	require.NoError(t, mem.AddToCart(ctx, 1, item.ID, 1))
	recorded, err = svc.Confirm(ctx, 1, "charge-1", 100, "XTR")
	require.NoError(t, err)
	assert.False(t, recorded)

	entries, err = mem.Cart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

type flakyStore struct {
	store.Store
	failures int
	calls    int
}

func (f *flakyStore) FinalizePayment(ctx context.Context, userID int64, ref string, amount int64, currency string) (bool, error) {
	f.calls++
	if f.calls <= f.failures {
		return false, errors.New("connection reset")
	}
	return f.Store.FinalizePayment(ctx, userID, ref, amount, currency)
}

func TestConfirmRetriesTransientFailureOnce(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	item := mem.PutItem(store.Item{Name: "Classic Burger", Price: 50})
	require.NoError(t, mem.AddToCart(ctx, 1, item.ID, 1))

	flaky := &flakyStore{Store: mem, failures: 1}
	svc := NewService(flaky, cart.NewManager(mem), Options{RetryBackoff: time.Millisecond})

	recorded, err := svc.Confirm(ctx, 1, "charge-2", 50, "XTR")
	require.NoError(t, err)
	assert.True(t, recorded)
	assert.Equal(t, 2, flaky.calls)
}

func TestConfirmGivesUpAfterRetry(t *testing.T) {
	mem := store.NewMemory()
	flaky := &flakyStore{Store: mem, failures: 2}
	svc := NewService(flaky, cart.NewManager(mem), Options{RetryBackoff: time.Millisecond})

	_, err := svc.Confirm(context.Background(), 1, "charge-3", 50, "XTR")
	require.Error(t, err)
	assert.Equal(t, 2, flaky.calls)

	var domainErr interface{ Code() string }
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STORE", domainErr.Code())
}
