package app

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/burgerbot/core/telegram/helpers"
	"github.com/m3rciful/burgerbot/shop/errs"
)

// onCheckout answers the pre-checkout query. Telegram requires an answer
// within 10 seconds or the payment fails on the client.
func (a *App) onCheckout(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	q := c.PreCheckoutQuery()
	if q == nil {
		return nil
	}
	if err := a.checkout.Approve(ctx, q.Sender.ID, q.Payload); err != nil {
		return c.Accept(msgInvoiceTrouble)
	}
	return c.Accept()
}

// onPayment settles a successful charge. Duplicate deliveries of the same
// charge are acknowledged without repeating the thank-you flow.
func (a *App) onPayment(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	pay := c.Message().Payment
	if pay == nil {
		return nil
	}

	ref := pay.ProviderChargeID
	if ref == "" {
		ref = pay.TelegramChargeID
	}
	if ref == "" {
		return fmt.Errorf("%w: payment update without charge id", errs.ErrPaymentProvider)
	}

	recorded, err := a.checkout.Confirm(ctx, userID, ref, int64(pay.Total), pay.Currency)
	if err != nil {
		return err
	}
	if !recorded {
		return nil
	}

	if err := a.states.SetIdle(ctx, userID); err != nil {
		return err
	}
	return tghelpers.SendMD(c, msgPaymentThanks)
}
