package app

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/burgerbot/core/telegram/helpers"
	"github.com/m3rciful/burgerbot/shop/cart"
	"github.com/m3rciful/burgerbot/shop/state"
)

func senderName(c tele.Context) string {
	if c.Sender() == nil {
		return ""
	}
	return c.Sender().FirstName
}

// handleStart greets the user and resets the conversation to idle. A repeat
// visitor is told what happened to the phase they left in.
func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	raw, known, err := a.store.State(ctx, userID)
	if err != nil {
		return err
	}
	prev := state.Decode(raw)

	if err := a.states.SetIdle(ctx, userID); err != nil {
		return err
	}

	if !known {
		return tghelpers.SendMD(c, welcomeText(senderName(c)))
	}
	return tghelpers.SendMD(c, welcomeBackText(senderName(c), prev.Kind))
}

// handleHelp lists commands without touching conversation state.
func (a *App) handleHelp(c tele.Context) error {
	return tghelpers.SendMD(c, commandList)
}

// handleUnknownText answers free-form text with the command list. A user
// sitting on an open invoice is degraded back to idle; the cart is kept.
func (a *App) handleUnknownText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if _, err := a.states.Degrade(ctx, c.Sender().ID); err != nil {
		return err
	}
	return tghelpers.SendMD(c, commandList)
}

// handleMenu shows the catalog as inline buttons.
func (a *App) handleMenu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	items, err := a.store.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return tghelpers.SendMD(c, msgEmptyMenu)
	}

	if err := a.states.SetBrowsing(ctx, userID); err != nil {
		return err
	}
	return tghelpers.SendMD(c, "*Our menu:*", menuMarkup(items, a.cfg.Shop.Currency))
}

// handleCart shows the cart with remove, pay and clear controls.
func (a *App) handleCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	entries, err := a.cart.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := a.states.SetCartView(ctx, userID); err != nil {
		return err
	}
	if len(entries) == 0 {
		return tghelpers.SendMD(c, msgEmptyCart)
	}
	total := cart.Total(entries)
	return tghelpers.SendMD(c,
		cartText(entries, total, a.cfg.Shop.Currency),
		cartMarkup(entries))
}
