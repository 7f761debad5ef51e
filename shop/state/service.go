package state

import (
	"context"

	"github.com/m3rciful/burgerbot/core/logger"
	"github.com/m3rciful/burgerbot/shop/errs"
	"github.com/m3rciful/burgerbot/shop/store"
	"log/slog"
)

// Service reads and writes conversation state through the store. Every
// guarded operation re-reads the stored state, so stale buttons from old
// messages are detected against what is actually persisted.
type Service struct {
	store store.Store
}

// NewService builds a state service over the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Current returns the stored state for the user, Idle when absent.
func (s *Service) Current(ctx context.Context, userID int64) (State, error) {
	raw, found, err := s.store.State(ctx, userID)
	if err != nil {
		return Idle, errs.Store("read state", err)
	}
	if !found {
		return Idle, nil
	}
	return Decode(raw), nil
}

func (s *Service) save(ctx context.Context, userID int64, st State) error {
	raw, err := Encode(st)
	if err != nil {
		return errs.Store("encode state", err)
	}
	if err := s.store.SaveState(ctx, userID, raw); err != nil {
		return errs.Store("write state", err)
	}
	logger.Debug(ctx, "service.states", "state.saved",
		slog.Int64("user_id", userID),
		slog.String("kind", string(st.Kind)),
	)
	return nil
}

// SetIdle resets the user to idle.
func (s *Service) SetIdle(ctx context.Context, userID int64) error {
	return s.save(ctx, userID, Idle)
}

// SetBrowsing marks the user as browsing the catalog.
func (s *Service) SetBrowsing(ctx context.Context, userID int64) error {
	return s.save(ctx, userID, State{Kind: KindBrowsing})
}

// SetCartView marks the user as viewing their cart.
func (s *Service) SetCartView(ctx context.Context, userID int64) error {
	return s.save(ctx, userID, State{Kind: KindCartView})
}

// SetAwaitingPayment marks the user as holding an open invoice.
func (s *Service) SetAwaitingPayment(ctx context.Context, userID int64) error {
	return s.save(ctx, userID, State{Kind: KindAwaitingPayment})
}

// BeginSelection puts the user into quantity selection for the item at 1.
func (s *Service) BeginSelection(ctx context.Context, userID, itemID int64) error {
	return s.save(ctx, userID, Selecting(itemID, 1))
}

// Adjust changes the pending quantity by delta. Returns changed=false
// without touching anything when the stored state is not selecting this
// item, or when the floor at 1 keeps the quantity where it already is.
// Callers skip the selector re-render on changed=false.
func (s *Service) Adjust(ctx context.Context, userID, itemID int64, delta int) (int, bool, error) {
	cur, err := s.Current(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if !cur.IsSelecting(itemID) {
		return 0, false, nil
	}
	qty := cur.Quantity + delta
	if qty < 1 {
		qty = 1
	}
	if qty == cur.Quantity {
		return qty, false, nil
	}
	if err := s.save(ctx, userID, Selecting(itemID, qty)); err != nil {
		return 0, false, err
	}
	return qty, true, nil
}

// TakeSelection returns the pending quantity for the item and resets the
// user to idle. ok=false when the stored state does not select this item.
func (s *Service) TakeSelection(ctx context.Context, userID, itemID int64) (int, bool, error) {
	cur, err := s.Current(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if !cur.IsSelecting(itemID) {
		return 0, false, nil
	}
	if err := s.save(ctx, userID, Idle); err != nil {
		return 0, false, err
	}
	return cur.Quantity, true, nil
}

// Degrade leaves awaiting_payment back to idle. Any other phase is kept.
// The cart is never touched here; an unpaid invoice keeps its cart.
func (s *Service) Degrade(ctx context.Context, userID int64) (State, error) {
	cur, err := s.Current(ctx, userID)
	if err != nil {
		return Idle, err
	}
	if cur.Kind != KindAwaitingPayment {
		return cur, nil
	}
	if err := s.save(ctx, userID, Idle); err != nil {
		return cur, err
	}
	return cur, nil
}
