package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/burgerbot/shop/state"
	"github.com/m3rciful/burgerbot/shop/store"
)

func TestMenuMarkupOneButtonPerItem(t *testing.T) {
	items := []store.Item{
		{ID: 1, Name: "Classic Burger", Price: 50},
		{ID: 2, Name: "Cheeseburger", Price: 60},
	}
	rm := menuMarkup(items, "XTR")
	require.Len(t, rm.InlineKeyboard, 2)
	require.Len(t, rm.InlineKeyboard[0], 1)
	assert.Contains(t, rm.InlineKeyboard[0][0].Text, "Classic Burger")
	assert.Contains(t, rm.InlineKeyboard[0][0].Data, "1")
}

func TestSelectorMarkupShowsQuantity(t *testing.T) {
	rm := selectorMarkup(7, 3)
	require.Len(t, rm.InlineKeyboard, 2)
	row := rm.InlineKeyboard[0]
	require.Len(t, row, 3)
	assert.Equal(t, "−", row[0].Text)
	assert.Equal(t, "3", row[1].Text)
	assert.Equal(t, "+", row[2].Text)
	assert.Contains(t, row[0].Data, "7")
}

func TestRemoveMarkupThreePerRow(t *testing.T) {
	rm := removeMarkup(4, 7)
	require.Len(t, rm.InlineKeyboard, 3)
	assert.Len(t, rm.InlineKeyboard[0], 3)
	assert.Len(t, rm.InlineKeyboard[1], 3)
	assert.Len(t, rm.InlineKeyboard[2], 1)
	assert.Contains(t, rm.InlineKeyboard[0][0].Data, "4|1")
	assert.Contains(t, rm.InlineKeyboard[2][0].Data, "4|7")
}

func TestCartTextIncludesTotal(t *testing.T) {
	entries := []store.CartEntry{
		{Name: "Classic Burger", Price: 50, Quantity: 2},
		{Name: "Bacon Burger", Price: 70, Quantity: 1},
	}
	text := cartText(entries, 170, "XTR")
	assert.Contains(t, text, "Classic Burger x2")
	assert.Contains(t, text, "170 ⭐")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "50 ⭐", formatPrice(50, "XTR"))
	assert.Equal(t, "50 EUR", formatPrice(50, "EUR"))
}

func TestWelcomeBackNamesPriorPhase(t *testing.T) {
	text := welcomeBackText("Ann", state.KindAwaitingPayment)
	assert.Contains(t, text, "Ann")
	assert.Contains(t, text, "unpaid")

	text = welcomeBackText("", state.KindIdle)
	assert.Contains(t, text, "there")
}
