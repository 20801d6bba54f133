// Package cart holds the in-memory shopping cart for one booking session.
//
// The store is the single writable piece of session state: user actions
// mutate it, and the promotion pipeline reads consistent snapshots of it.
// A mutex serializes writers so a snapshot never observes a half-applied
// mutation.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Treatment is a sellable clinic service that can be added to a cart.
type Treatment struct {
	TreatmentID int64
	Name        string
	Category    string
	Price       decimal.Decimal
}

// LineItem is one cart row: a treatment plus the quantity requested.
// A cart never holds two rows for the same treatment, and a row's
// quantity is always at least 1.
type LineItem struct {
	TreatmentID int64
	Name        string
	Category    string
	Price       decimal.Decimal
	Quantity    int
}

// Store is an ordered collection of line items. Rows keep their insertion
// order for display; the order carries no allocation semantics.
//
// All operations on unknown treatment ids are silent no-ops or zero
// returns. Absence is a valid state, never an error.
type Store struct {
	mu    sync.Mutex
	items []LineItem
}

// NewStore returns an empty cart store.
func NewStore() *Store {
	return &Store{}
}

// Add inserts the treatment with quantity 1, or increments the quantity of
// the existing row when the treatment is already in the cart.
func (s *Store) Add(t Treatment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(t.TreatmentID); i >= 0 {
		s.items[i].Quantity++
		return
	}
	s.items = append(s.items, LineItem{
		TreatmentID: t.TreatmentID,
		Name:        t.Name,
		Category:    t.Category,
		Price:       t.Price,
		Quantity:    1,
	})
}

// Remove deletes the row for the given treatment, if present.
func (s *Store) Remove(treatmentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(treatmentID)
}

// Increment raises the quantity of an existing row by one.
func (s *Store) Increment(treatmentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(treatmentID); i >= 0 {
		s.items[i].Quantity++
	}
}

// Decrement lowers the quantity of an existing row by one. Decrementing a
// row at quantity 1 removes the row entirely, keeping the "quantity >= 1"
// invariant.
func (s *Store) Decrement(treatmentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(treatmentID)
	if i < 0 {
		return
	}
	if s.items[i].Quantity <= 1 {
		s.remove(treatmentID)
		return
	}
	s.items[i].Quantity--
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a snapshot copy of the cart rows in insertion order.
// Mutating the returned slice does not affect the store.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total returns the sum of price times quantity over all rows.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, it := range s.items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Count returns the sum of quantities over all rows. This differs from
// Len, which counts distinct rows.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// Len returns the number of distinct rows in the cart.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Contains reports whether the treatment has a row in the cart.
func (s *Store) Contains(treatmentID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(treatmentID) >= 0
}

// Quantity returns the quantity of the treatment's row, or 0 when absent.
func (s *Store) Quantity(treatmentID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(treatmentID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// index returns the position of the row for treatmentID, or -1.
// Caller must hold s.mu.
func (s *Store) index(treatmentID int64) int {
	for i := range s.items {
		if s.items[i].TreatmentID == treatmentID {
			return i
		}
	}
	return -1
}

// remove deletes the row for treatmentID preserving the order of the
// remaining rows. Caller must hold s.mu.
func (s *Store) remove(treatmentID int64) {
	for i := range s.items {
		if s.items[i].TreatmentID == treatmentID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}
