package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/burgerbot/shop/state"
	"github.com/m3rciful/burgerbot/shop/store"
)

// fakeContext implements the slice of tele.Context the handlers touch.
// Unimplemented methods panic through the embedded nil interface, which
// keeps the fake honest about what handlers actually call.
type fakeContext struct {
	tele.Context
	user  *tele.User
	cb    *tele.Callback
	data  map[string]interface{}
	sent  []string
	edits int
}

func newFakeContext(userID int64) *fakeContext {
	return &fakeContext{
		user: &tele.User{ID: userID, FirstName: "Ann"},
		data: make(map[string]interface{}),
	}
}

func (f *fakeContext) Update() tele.Update         { return tele.Update{ID: 1} }
func (f *fakeContext) Sender() *tele.User          { return f.user }
func (f *fakeContext) Chat() *tele.Chat            { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Callback() *tele.Callback    { return f.cb }
func (f *fakeContext) Get(k string) interface{}    { return f.data[k] }
func (f *fakeContext) Set(k string, v interface{}) { f.data[k] = v }

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func (f *fakeContext) Edit(_ interface{}, _ ...interface{}) error {
	f.edits++
	return nil
}

func newTestApp(t *testing.T) (*App, *store.Memory, store.Item) {
	t.Helper()
	mem := store.NewMemory()
	item := mem.PutItem(store.Item{Name: "Classic Burger", Price: 50})
	cfg := &Config{
		Shop: ShopConfig{Currency: "XTR", InvoiceTitle: "Burger order"},
	}
	return NewApp(cfg, mem), mem, item
}

// Callback updates routed through the generic endpoint carry the raw
// \f<unique>|<payload> data.
func callbackData(unique string, payload string) *tele.Callback {
	return &tele.Callback{Data: "\f" + unique + "|" + payload}
}

func TestHandleCartEmptySetsCartView(t *testing.T) {
	a, _, _ := newTestApp(t)
	c := newFakeContext(5)

	require.NoError(t, a.handleCart(c))

	st, err := a.states.Current(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, state.KindCartView, st.Kind)
	require.Len(t, c.sent, 1)
	assert.Contains(t, c.sent[0], "empty")
}

func TestDecreaseAtFloorSkipsEdit(t *testing.T) {
	a, _, item := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.states.BeginSelection(ctx, 5, item.ID))

	c := newFakeContext(5)
	c.cb = callbackData(cbDec, fmt.Sprintf("%d", item.ID))

	require.NoError(t, a.cbDecrease(c))

	// No edit goes out: the markup would be byte-identical and Telegram
	// rejects such edits.
	assert.Zero(t, c.edits)
	assert.Empty(t, c.sent)

	st, err := a.states.Current(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, state.Selecting(item.ID, 1), st)
}

func TestIncreaseEditsSelector(t *testing.T) {
	a, _, item := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.states.BeginSelection(ctx, 5, item.ID))

	c := newFakeContext(5)
	c.cb = callbackData(cbInc, fmt.Sprintf("%d", item.ID))

	require.NoError(t, a.cbIncrease(c))
	assert.Equal(t, 1, c.edits)

	st, err := a.states.Current(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, state.Selecting(item.ID, 2), st)
}

func TestStaleDecreaseIsSilent(t *testing.T) {
	a, _, item := newTestApp(t)

	// No selection in progress at all.
	c := newFakeContext(5)
	c.cb = callbackData(cbDec, fmt.Sprintf("%d", item.ID))

	require.NoError(t, a.cbDecrease(c))
	assert.Zero(t, c.edits)
	assert.Empty(t, c.sent)
}
