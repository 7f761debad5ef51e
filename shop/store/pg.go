package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PG is the Postgres-backed store.
type PG struct {
	db *sqlx.DB
}

// NewPG wraps an already connected sqlx handle.
func NewPG(db *sqlx.DB) *PG {
	return &PG{db: db}
}

func (s *PG) State(ctx context.Context, userID int64) (string, bool, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw,
		`SELECT state FROM user_states WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select state: %w", err)
	}
	return raw, true, nil
}

func (s *PG) SaveState(ctx context.Context, userID int64, raw string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_states (user_id, state) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET state = EXCLUDED.state`,
		userID, raw)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (s *PG) Items(ctx context.Context) ([]Item, error) {
	var items []Item
	err := s.db.SelectContext(ctx, &items,
		`SELECT id, name, description, price FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

func (s *PG) Item(ctx context.Context, id int64) (Item, bool, error) {
	var item Item
	err := s.db.GetContext(ctx, &item,
		`SELECT id, name, description, price FROM items WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, fmt.Errorf("select item: %w", err)
	}
	return item, true, nil
}

func (s *PG) Cart(ctx context.Context, userID int64) ([]CartEntry, error) {
	var entries []CartEntry
	err := s.db.SelectContext(ctx, &entries,
		`SELECT c.item_id, i.name, i.price, c.quantity, c.added_at
		   FROM cart c
		   JOIN items i ON i.id = c.item_id
		  WHERE c.user_id = $1
		  ORDER BY c.added_at, c.item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart: %w", err)
	}
	return entries, nil
}

func (s *PG) CartLine(ctx context.Context, userID, itemID int64) (CartLine, bool, error) {
	var line CartLine
	err := s.db.GetContext(ctx, &line,
		`SELECT user_id, item_id, quantity, added_at
		   FROM cart WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartLine{}, false, nil
	}
	if err != nil {
		return CartLine{}, false, fmt.Errorf("select cart line: %w", err)
	}
	return line, true, nil
}

func (s *PG) AddToCart(ctx context.Context, userID, itemID int64, qty int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart (user_id, item_id, quantity) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, item_id)
		 DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity`,
		userID, itemID, qty)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

func (s *PG) ReduceCartLine(ctx context.Context, userID, itemID int64, qty int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reduce: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Removing the full amount must delete the row outright: an UPDATE
	// landing on zero would trip the quantity CHECK constraint.
	res, err := tx.ExecContext(ctx,
		`DELETE FROM cart
		  WHERE user_id = $1 AND item_id = $2 AND quantity <= $3`,
		userID, itemID, qty)
	if err != nil {
		return fmt.Errorf("drop cart line: %w", err)
	}
	if deleted, raErr := res.RowsAffected(); raErr == nil && deleted > 0 {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit reduce: %w", err)
		}
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE cart SET quantity = quantity - $3
		  WHERE user_id = $1 AND item_id = $2`,
		userID, itemID, qty); err != nil {
		return fmt.Errorf("reduce cart line: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reduce: %w", err)
	}
	return nil
}

func (s *PG) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cart WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *PG) FinalizePayment(ctx context.Context, userID int64, ref string, amount int64, currency string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin finalize: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (user_id, payment_ref, amount, currency)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, payment_ref) DO NOTHING`,
		userID, ref, amount, currency)
	if err != nil {
		return false, fmt.Errorf("insert payment: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert payment result: %w", err)
	}
	if inserted == 0 {
		// Duplicate delivery of the same charge. The cart was already
		// cleared by the first delivery; leave everything untouched.
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart WHERE user_id = $1`, userID); err != nil {
		return false, fmt.Errorf("clear cart on payment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit finalize: %w", err)
	}
	return true, nil
}
