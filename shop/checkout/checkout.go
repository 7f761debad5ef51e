// Package checkout turns a cart into an invoice and settles payments.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/burgerbot/core/logger"
	"github.com/m3rciful/burgerbot/shop/cart"
	"github.com/m3rciful/burgerbot/shop/errs"
	"github.com/m3rciful/burgerbot/shop/store"
	"log/slog"
)

// Line is one priced invoice position.
type Line struct {
	Label    string
	Amount   int64
	Quantity int
}

// Invoice is a transport-agnostic description of what the user pays for.
type Invoice struct {
	Title       string
	Description string
	Payload     string
	Currency    string
	Lines       []Line
	Total       int64
}

// Options configure invoice presentation.
type Options struct {
	Title       string
	Description string
	Currency    string

	// RetryBackoff delays the single retry in Confirm. Kept short; a
	// provider redelivers the payment update anyway if we fail twice.
	RetryBackoff time.Duration
}

// Service orchestrates checkout over the cart and the store.
type Service struct {
	store store.Store
	cart  *cart.Manager
	opts  Options
}

// NewService builds a checkout service.
func NewService(s store.Store, c *cart.Manager, opts Options) *Service {
	if opts.Currency == "" {
		opts.Currency = "XTR"
	}
	if opts.Title == "" {
		opts.Title = "Your order"
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 200 * time.Millisecond
	}
	return &Service{store: s, cart: c, opts: opts}
}

// BuildInvoice snapshots the cart into an invoice. An empty cart is
// ErrEmptyCart; no provider is contacted here.
func (s *Service) BuildInvoice(ctx context.Context, userID int64) (Invoice, error) {
	entries, err := s.cart.Get(ctx, userID)
	if err != nil {
		return Invoice{}, err
	}
	if len(entries) == 0 {
		return Invoice{}, errs.ErrEmptyCart
	}

	inv := Invoice{
		Title:       s.opts.Title,
		Description: s.opts.Description,
		Payload:     fmt.Sprintf("order-%d-%d", userID, time.Now().UnixNano()),
		Currency:    s.opts.Currency,
	}
	for _, e := range entries {
		inv.Lines = append(inv.Lines, Line{
			Label:    fmt.Sprintf("%s x%d", e.Name, e.Quantity),
			Amount:   e.Price * int64(e.Quantity),
			Quantity: e.Quantity,
		})
	}
	inv.Total = cart.Total(entries)

	logger.Debug(ctx, "service.checkout", "invoice.built",
		slog.Int64("user_id", userID),
		slog.Int("lines", len(inv.Lines)),
		slog.Int64("total", inv.Total),
	)
	return inv, nil
}

// Approve decides a pre-checkout query. Every query is approved: the cart
// snapshot was priced when the invoice was built and stock is not tracked.
func (s *Service) Approve(ctx context.Context, userID int64, payload string) error {
	logger.Debug(ctx, "service.checkout", "precheckout.approved",
		slog.Int64("user_id", userID),
		slog.String("payload", payload),
	)
	return nil
}

// Confirm records a successful charge and clears the cart atomically.
// recorded=false means the ref was already settled and nothing changed.
// A transient store failure is retried once before surfacing.
func (s *Service) Confirm(ctx context.Context, userID int64, ref string, amount int64, currency string) (bool, error) {
	recorded, err := s.store.FinalizePayment(ctx, userID, ref, amount, currency)
	if err != nil {
		logger.Warn(ctx, "service.checkout", "payment.finalize_retry",
			slog.Int64("user_id", userID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		select {
		case <-ctx.Done():
			return false, errs.Store("finalize payment", ctx.Err())
		case <-time.After(s.opts.RetryBackoff):
		}
		recorded, err = s.store.FinalizePayment(ctx, userID, ref, amount, currency)
		if err != nil {
			return false, errs.Store("finalize payment", err)
		}
	}

	logger.Info(ctx, "service.checkout", "payment.confirmed",
		slog.Int64("user_id", userID),
		slog.Bool("recorded", recorded),
		slog.Int64("amount", amount),
		slog.String("currency", currency),
	)
	return recorded, nil
}
