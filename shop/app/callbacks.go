package app

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/burgerbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/burgerbot/core/telegram/helpers"
	"github.com/m3rciful/burgerbot/shop/cart"
	"github.com/m3rciful/burgerbot/shop/errs"
)

// invalidPayload tells the user the button is unusable and surfaces the
// INVALID_PAYLOAD code to the handler summary. No state is touched.
func invalidPayload(c tele.Context, err error) error {
	_ = tghelpers.SendMD(c, msgBrokenButton)
	return fmt.Errorf("%w: %v", errs.ErrInvalidPayload, err)
}

// cbItemCard shows the item card with the quantity selector at 1.
func (a *App) cbItemCard(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return invalidPayload(c, err)
	}

	item, found, err := a.store.Item(ctx, itemID)
	if err != nil {
		return errs.Store("lookup item", err)
	}
	if !found {
		return tghelpers.SendMD(c, msgUnknownItem)
	}

	if err := a.states.BeginSelection(ctx, userID, itemID); err != nil {
		return err
	}
	return tghelpers.SendMD(c,
		itemCardText(item, a.cfg.Shop.Currency),
		selectorMarkup(itemID, 1))
}

func (a *App) adjustQuantity(c tele.Context, delta int) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return invalidPayload(c, err)
	}

	qty, changed, err := a.states.Adjust(ctx, userID, itemID, delta)
	if err != nil {
		return err
	}
	if !changed {
		// Stale button, or a decrease at the floor. Editing the message
		// with identical markup would be rejected by Telegram, so only
		// the ack (already sent) goes out.
		return nil
	}

	item, found, err := a.store.Item(ctx, itemID)
	if err != nil {
		return errs.Store("lookup item", err)
	}
	if !found {
		return tghelpers.SendMD(c, msgUnknownItem)
	}

	// Rebuilt from the quantity just persisted, in the same invocation.
	return tghelpers.EditMD(c,
		itemCardText(item, a.cfg.Shop.Currency),
		selectorMarkup(itemID, qty))
}

func (a *App) cbIncrease(c tele.Context) error { return a.adjustQuantity(c, +1) }
func (a *App) cbDecrease(c tele.Context) error { return a.adjustQuantity(c, -1) }

// cbAddToCart consumes the pending selection and moves it into the cart.
func (a *App) cbAddToCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return invalidPayload(c, err)
	}

	qty, ok, err := a.states.TakeSelection(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	item, found, err := a.store.Item(ctx, itemID)
	if err != nil {
		return errs.Store("lookup item", err)
	}
	if !found {
		return tghelpers.SendMD(c, msgUnknownItem)
	}

	if err := a.cart.Add(ctx, userID, itemID, qty); err != nil {
		return err
	}
	return tghelpers.SendMD(c, addedText(item, qty))
}

// cbBuy builds an invoice from the cart and sends it into the chat.
func (a *App) cbBuy(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	inv, err := a.checkout.BuildInvoice(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrEmptyCart) {
			return tghelpers.SendMD(c, msgEmptyCart)
		}
		return err
	}

	prices := make([]tele.Price, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		prices = append(prices, tele.Price{
			Label:  line.Label,
			Amount: int(line.Amount),
		})
	}
	teleInvoice := tele.Invoice{
		Title:       inv.Title,
		Description: inv.Description,
		Payload:     inv.Payload,
		Currency:    inv.Currency,
		Token:       a.cfg.Shop.ProviderToken,
		Prices:      prices,
	}

	if err := c.Send(&teleInvoice); err != nil {
		_ = tghelpers.SendMD(c, msgInvoiceTrouble)
		return fmt.Errorf("%w: %v", errs.ErrPaymentProvider, err)
	}

	return a.states.SetAwaitingPayment(ctx, userID)
}

// cbClearCart empties the cart.
func (a *App) cbClearCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := a.cart.Clear(ctx, c.Sender().ID); err != nil {
		return err
	}
	return tghelpers.SendMD(c, msgCartCleared)
}

// cbPickRemove asks how many units of the item to take out of the cart.
func (a *App) cbPickRemove(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return invalidPayload(c, err)
	}

	line, found, err := a.store.CartLine(ctx, userID, itemID)
	if err != nil {
		return errs.Store("read cart line", err)
	}
	if !found {
		return tghelpers.SendMD(c, msgNotInCart)
	}

	item, _, err := a.store.Item(ctx, itemID)
	if err != nil {
		return errs.Store("lookup item", err)
	}
	return tghelpers.SendMD(c,
		fmt.Sprintf("How many *%s* should I remove?", item.Name),
		removeMarkup(itemID, line.Quantity))
}

// cbRemove takes n units of the item out of the cart.
func (a *App) cbRemove(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	itemID, n, err := callbacks.PayloadTwoInt64(c, "|")
	if err != nil {
		return invalidPayload(c, err)
	}

	if err := a.cart.Remove(ctx, userID, itemID, int(n)); err != nil {
		switch {
		case errors.Is(err, errs.ErrItemNotFound):
			return tghelpers.SendMD(c, msgNotInCart)
		case errors.Is(err, errs.ErrInvalidQuantity):
			_ = tghelpers.SendMD(c, msgBrokenButton)
			return err
		}
		return err
	}

	item, _, err := a.store.Item(ctx, itemID)
	if err != nil {
		return errs.Store("lookup item", err)
	}

	entries, err := a.cart.Get(ctx, userID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return tghelpers.SendMD(c, removedText(item, int(n)))
	}
	total := cart.Total(entries)
	return tghelpers.SendMD(c,
		removedText(item, int(n))+"\n\n"+cartText(entries, total, a.cfg.Shop.Currency),
		cartMarkup(entries))
}
