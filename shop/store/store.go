// Package store provides persistence for the shop: catalog items, per-user
// carts, conversation state and payment records.
package store

import (
	"context"
	"time"
)

// Item is a catalog entry. Price is in the smallest currency unit.
type Item struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Price       int64  `db:"price"`
}

// CartLine is a raw cart row.
type CartLine struct {
	UserID   int64     `db:"user_id"`
	ItemID   int64     `db:"item_id"`
	Quantity int       `db:"quantity"`
	AddedAt  time.Time `db:"added_at"`
}

// CartEntry is a cart line joined with its catalog item.
type CartEntry struct {
	ItemID   int64     `db:"item_id"`
	Name     string    `db:"name"`
	Price    int64     `db:"price"`
	Quantity int       `db:"quantity"`
	AddedAt  time.Time `db:"added_at"`
}

// Payment is a recorded provider charge.
type Payment struct {
	UserID   int64     `db:"user_id"`
	Ref      string    `db:"payment_ref"`
	Amount   int64     `db:"amount"`
	Currency string    `db:"currency"`
	PaidAt   time.Time `db:"paid_at"`
}

// Store is the persistence contract shared by the Postgres and in-memory
// implementations. All reads return fresh rows; nothing is cached between
// calls.
type Store interface {
	// Conversation state, opaque to the store.
	State(ctx context.Context, userID int64) (raw string, found bool, err error)
	SaveState(ctx context.Context, userID int64, raw string) error

	// Catalog.
	Items(ctx context.Context) ([]Item, error)
	Item(ctx context.Context, id int64) (Item, bool, error)

	// Cart. AddToCart is additive: an existing line grows by qty.
	Cart(ctx context.Context, userID int64) ([]CartEntry, error)
	CartLine(ctx context.Context, userID, itemID int64) (CartLine, bool, error)
	AddToCart(ctx context.Context, userID, itemID int64, qty int) error
	ReduceCartLine(ctx context.Context, userID, itemID int64, qty int) error
	ClearCart(ctx context.Context, userID int64) error

	// FinalizePayment records the charge and clears the cart in one
	// transaction. A duplicate ref returns recorded=false and leaves the
	// cart untouched.
	FinalizePayment(ctx context.Context, userID int64, ref string, amount int64, currency string) (recorded bool, err error)
}
