package app

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/burgerbot/core/telegram/keyboard"
	"github.com/m3rciful/burgerbot/shop/state"
	"github.com/m3rciful/burgerbot/shop/store"
)

// Callback keys. The payload is the item id, or "id|qty" for remove.
const (
	cbItem       = "item"
	cbInc        = "inc"
	cbDec        = "dec"
	cbAdd        = "add"
	cbBuy        = "buy"
	cbClear      = "clear"
	cbPickRemove = "pick_remove"
	cbRemove     = "remove"
)

const commandList = "/menu — browse the menu\n" +
	"/cart — view your cart\n" +
	"/help — show this list\n" +
	"/start — start over"

func welcomeText(name string) string {
	who := strings.TrimSpace(name)
	if who == "" {
		who = "there"
	}
	return fmt.Sprintf("Hi %s, welcome to the burger shop!\n\n%s", who, commandList)
}

func welcomeBackText(name string, prev state.Kind) string {
	who := strings.TrimSpace(name)
	if who == "" {
		who = "there"
	}
	var note string
	switch prev {
	case state.KindSelectingQuantity:
		note = "You were picking a quantity; that selection was reset."
	case state.KindAwaitingPayment:
		note = "Your last invoice is still unpaid; the cart is kept."
	case state.KindCartView:
		note = "Your cart is right where you left it."
	case state.KindBrowsing:
		note = "Back to the menu whenever you like."
	default:
		note = "Good to see you again."
	}
	return fmt.Sprintf("Welcome back, %s! %s\n\n%s", who, note, commandList)
}

func formatPrice(amount int64, currency string) string {
	if currency == "XTR" {
		return fmt.Sprintf("%d ⭐", amount)
	}
	return fmt.Sprintf("%d %s", amount, currency)
}

func menuMarkup(items []store.Item, currency string) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(items))
	for _, item := range items {
		btns = append(btns, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s — %s", item.Name, formatPrice(item.Price, currency)),
			Unique: cbItem,
			Data:   fmt.Sprintf("%d", item.ID),
		})
	}
	return keyboard.InlineButtons(btns)
}

func itemCardText(item store.Item, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", item.Name)
	if item.Description != "" {
		fmt.Fprintf(&b, "%s\n", item.Description)
	}
	fmt.Fprintf(&b, "Price: %s\n\nHow many would you like?", formatPrice(item.Price, currency))
	return b.String()
}

// selectorMarkup renders the quantity selector. It is always built from the
// quantity just written to storage, never from the previous message.
func selectorMarkup(itemID int64, qty int) *tele.ReplyMarkup {
	id := fmt.Sprintf("%d", itemID)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "−", Unique: cbDec, Data: id},
			{Text: fmt.Sprintf("%d", qty), Unique: cbItem, Data: id},
			{Text: "+", Unique: cbInc, Data: id},
		},
		[]keyboard.InlineBtn{
			{Text: "Add to cart 🛒", Unique: cbAdd, Data: id},
		},
	)
}

func cartText(entries []store.CartEntry, total int64, currency string) string {
	var b strings.Builder
	b.WriteString("*Your cart:*\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s x%d — %s\n", e.Name, e.Quantity,
			formatPrice(e.Price*int64(e.Quantity), currency))
	}
	fmt.Fprintf(&b, "\nTotal: %s", formatPrice(total, currency))
	return b.String()
}

func cartMarkup(entries []store.CartEntry) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn
	for _, e := range entries {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("Remove %s", e.Name),
			Unique: cbPickRemove,
			Data:   fmt.Sprintf("%d", e.ItemID),
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{
		{Text: "Pay 💳", Unique: cbBuy, Data: "-"},
		{Text: "Clear 🗑", Unique: cbClear, Data: "-"},
	})
	return keyboard.InlineButtonsRows(rows...)
}

// removeMarkup offers one button per removable unit, three per row.
func removeMarkup(itemID int64, held int) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, held)
	for n := 1; n <= held; n++ {
		btns = append(btns, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%d", n),
			Unique: cbRemove,
			Data:   fmt.Sprintf("%d|%d", itemID, n),
		})
	}
	return keyboard.InlineButtonsNPerRow(btns, 3)
}

const (
	msgEmptyMenu      = "The menu is empty right now, please come back later."
	msgEmptyCart      = "Your cart is empty. Browse /menu to add something."
	msgUnknownItem    = "That item is no longer on the menu."
	msgBrokenButton   = "That button did not work, please open /menu again."
	msgCartCleared    = "Cart cleared."
	msgNotInCart      = "That item is not in your cart."
	msgInvoiceTrouble = "Could not create the invoice, please try again."
	msgPaymentThanks  = "Payment received, thank you! Your order is being prepared. 🍔"
)

func addedText(item store.Item, qty int) string {
	return fmt.Sprintf("Added %s x%d to your cart.\n\n%s", item.Name, qty, commandList)
}

func removedText(item store.Item, qty int) string {
	return fmt.Sprintf("Removed %s x%d from your cart.\n\n%s", item.Name, qty, commandList)
}
