// Package state persists the per-user conversation phase as a typed value.
package state

import "encoding/json"

// Kind names a conversation phase.
type Kind string

const (
	KindIdle              Kind = "idle"
	KindBrowsing          Kind = "browsing"
	KindSelectingQuantity Kind = "selecting_quantity"
	KindCartView          Kind = "cart_view"
	KindAwaitingPayment   Kind = "awaiting_payment"
)

// State is the stored conversation phase. ItemID and Quantity are only
// meaningful for selecting_quantity.
type State struct {
	Kind     Kind  `json:"kind"`
	ItemID   int64 `json:"item_id,omitempty"`
	Quantity int   `json:"qty,omitempty"`
}

// Idle is the zero-value phase new and reset users land in.
var Idle = State{Kind: KindIdle}

// Selecting builds a quantity-selection state for the item.
func Selecting(itemID int64, qty int) State {
	if qty < 1 {
		qty = 1
	}
	return State{Kind: KindSelectingQuantity, ItemID: itemID, Quantity: qty}
}

// IsSelecting reports whether the state is selecting a quantity for itemID.
func (s State) IsSelecting(itemID int64) bool {
	return s.Kind == KindSelectingQuantity && s.ItemID == itemID
}

// Encode serializes the state for the storage text column.
func Encode(s State) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a stored value. Corrupt or legacy values decode to Idle so a
// bad row can never wedge a user.
func Decode(raw string) State {
	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Idle
	}
	switch s.Kind {
	case KindIdle, KindBrowsing, KindSelectingQuantity, KindCartView, KindAwaitingPayment:
	default:
		return Idle
	}
	if s.Kind == KindSelectingQuantity && (s.ItemID <= 0 || s.Quantity < 1) {
		return Idle
	}
	return s
}
