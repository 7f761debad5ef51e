package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

type cartKey struct {
	userID int64
	itemID int64
}

type paymentKey struct {
	userID int64
	ref    string
}

// Memory is a mutex-guarded in-memory store used in tests and local runs.
type Memory struct {
	mu       sync.Mutex
	items    map[int64]Item
	nextItem int64
	states   map[int64]string
	cart     map[cartKey]CartLine
	payments map[paymentKey]Payment
	clock    func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		items:    make(map[int64]Item),
		nextItem: 1,
		states:   make(map[int64]string),
		cart:     make(map[cartKey]CartLine),
		payments: make(map[paymentKey]Payment),
		clock:    time.Now,
	}
}

// PutItem inserts a catalog item, assigning an id when zero.
func (s *Memory) PutItem(item Item) Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		item.ID = s.nextItem
		s.nextItem++
	} else if item.ID >= s.nextItem {
		s.nextItem = item.ID + 1
	}
	s.items[item.ID] = item
	return item
}

func (s *Memory) State(_ context.Context, userID int64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.states[userID]
	return raw, ok, nil
}

func (s *Memory) SaveState(_ context.Context, userID int64, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = raw
	return nil
}

func (s *Memory) Items(_ context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Memory) Item(_ context.Context, id int64) (Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok, nil
}

func (s *Memory) Cart(_ context.Context, userID int64) ([]CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []CartEntry
	for key, line := range s.cart {
		if key.userID != userID {
			continue
		}
		item := s.items[key.itemID]
		entries = append(entries, CartEntry{
			ItemID:   key.itemID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
			AddedAt:  line.AddedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AddedAt.Equal(entries[j].AddedAt) {
			return entries[i].ItemID < entries[j].ItemID
		}
		return entries[i].AddedAt.Before(entries[j].AddedAt)
	})
	return entries, nil
}

func (s *Memory) CartLine(_ context.Context, userID, itemID int64) (CartLine, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.cart[cartKey{userID, itemID}]
	return line, ok, nil
}

func (s *Memory) AddToCart(_ context.Context, userID, itemID int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cartKey{userID, itemID}
	line, ok := s.cart[key]
	if !ok {
		line = CartLine{UserID: userID, ItemID: itemID, AddedAt: s.clock()}
	}
	line.Quantity += qty
	s.cart[key] = line
	return nil
}

func (s *Memory) ReduceCartLine(_ context.Context, userID, itemID int64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cartKey{userID, itemID}
	line, ok := s.cart[key]
	if !ok {
		return nil
	}
	line.Quantity -= qty
	if line.Quantity <= 0 {
		delete(s.cart, key)
		return nil
	}
	s.cart[key] = line
	return nil
}

func (s *Memory) ClearCart(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.cart {
		if key.userID == userID {
			delete(s.cart, key)
		}
	}
	return nil
}

func (s *Memory) FinalizePayment(_ context.Context, userID int64, ref string, amount int64, currency string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := paymentKey{userID, ref}
	if _, exists := s.payments[key]; exists {
		return false, nil
	}
	s.payments[key] = Payment{
		UserID:   userID,
		Ref:      ref,
		Amount:   amount,
		Currency: currency,
		PaidAt:   s.clock(),
	}
	for ck := range s.cart {
		if ck.userID == userID {
			delete(s.cart, ck)
		}
	}
	return true, nil
}
