// Package cart manages per-user cart contents on top of the store.
package cart

import (
	"context"
	"fmt"

	"github.com/m3rciful/burgerbot/core/logger"
	"github.com/m3rciful/burgerbot/shop/errs"
	"github.com/m3rciful/burgerbot/shop/store"
	"log/slog"
)

// Manager implements cart operations. Quantities are validated here; the
// store only moves rows.
type Manager struct {
	store store.Store
}

// NewManager builds a cart manager over the given store.
func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// Add puts qty of the item into the user's cart. An existing line grows by
// qty; there is never more than one line per item.
func (m *Manager) Add(ctx context.Context, userID, itemID int64, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidQuantity, qty)
	}
	if _, found, err := m.store.Item(ctx, itemID); err != nil {
		return errs.Store("lookup item", err)
	} else if !found {
		return errs.ErrItemNotFound
	}
	if err := m.store.AddToCart(ctx, userID, itemID, qty); err != nil {
		return errs.Store("add to cart", err)
	}
	logger.Debug(ctx, "service.cart", "cart.added",
		slog.Int64("user_id", userID),
		slog.Int64("item_id", itemID),
		slog.Int("qty", qty),
	)
	return nil
}

// Remove takes qty of the item out of the cart, deleting the line when it
// reaches zero. Asking for more than held, or a non-positive qty, is
// ErrInvalidQuantity. An item not in the cart is ErrItemNotFound.
func (m *Manager) Remove(ctx context.Context, userID, itemID int64, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidQuantity, qty)
	}
	line, found, err := m.store.CartLine(ctx, userID, itemID)
	if err != nil {
		return errs.Store("read cart line", err)
	}
	if !found {
		return errs.ErrItemNotFound
	}
	if qty > line.Quantity {
		return fmt.Errorf("%w: have %d, asked to remove %d",
			errs.ErrInvalidQuantity, line.Quantity, qty)
	}
	if err := m.store.ReduceCartLine(ctx, userID, itemID, qty); err != nil {
		return errs.Store("reduce cart line", err)
	}
	logger.Debug(ctx, "service.cart", "cart.removed",
		slog.Int64("user_id", userID),
		slog.Int64("item_id", itemID),
		slog.Int("qty", qty),
	)
	return nil
}

// Get returns the cart contents in the order items were first added.
func (m *Manager) Get(ctx context.Context, userID int64) ([]store.CartEntry, error) {
	entries, err := m.store.Cart(ctx, userID)
	if err != nil {
		return nil, errs.Store("read cart", err)
	}
	return entries, nil
}

// Clear empties the cart. Clearing an empty cart is a no-op.
func (m *Manager) Clear(ctx context.Context, userID int64) error {
	if err := m.store.ClearCart(ctx, userID); err != nil {
		return errs.Store("clear cart", err)
	}
	logger.Debug(ctx, "service.cart", "cart.cleared",
		slog.Int64("user_id", userID),
	)
	return nil
}

// Total sums price times quantity over the entries.
func Total(entries []store.CartEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Price * int64(e.Quantity)
	}
	return total
}
