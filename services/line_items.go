package services

import (
	"math"
	"sync"

	"github.com/google/uuid"
)

// LineItem is one row of a proposal.
type LineItem struct {
	ID          string
	Description string
	Quantity    float64
	UnitPrice   float64
	Notes       string
}

// Total is computed on every read so it can never drift from its inputs.
func (li LineItem) Total() float64 {
	return CalcLineTotal(li.Quantity, li.UnitPrice)
}

// SnapshotItem is a read-only copy of a LineItem with its total resolved.
type SnapshotItem struct {
	LineItem
	LineTotal float64
}

// LineItemPatch carries the fields of an in-place edit. Nil fields are left
// untouched.
type LineItemPatch struct {
	Description *string
	Quantity    *float64
	UnitPrice   *float64
	Notes       *string
}

// LineItemStore is the ordered, in-memory list of line items for one session.
// It is never empty at rest: removing the last remaining item is a no-op and
// clearing leaves a single blank item behind.
type LineItemStore struct {
	mu    sync.Mutex
	items []LineItem
}

// NewLineItemStore returns a store holding one blank item.
func NewLineItemStore() *LineItemStore {
	return &LineItemStore{items: []LineItem{newBlankItem()}}
}

func newBlankItem() LineItem {
	return LineItem{ID: uuid.NewString()}
}

// Add appends a blank item and returns the new snapshot.
func (s *LineItemStore) Add() []SnapshotItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, newBlankItem())
	return s.snapshotLocked()
}

// RemoveLast drops the last item unless it is the only one left.
func (s *LineItemStore) RemoveLast() []SnapshotItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 1 {
		s.items = s.items[:len(s.items)-1]
	}
	return s.snapshotLocked()
}

// Clear replaces every item with a single blank one.
func (s *LineItemStore) Clear() []SnapshotItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []LineItem{newBlankItem()}
	return s.snapshotLocked()
}

// Update merges patch into the item with the given id. It reports whether the
// item was found; an unknown id changes nothing.
func (s *LineItemStore) Update(id string, patch LineItemPatch) ([]SnapshotItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		item := &s.items[i]
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.Quantity != nil {
			item.Quantity = nonNegative(*patch.Quantity)
		}
		if patch.UnitPrice != nil {
			item.UnitPrice = nonNegative(*patch.UnitPrice)
		}
		if patch.Notes != nil {
			item.Notes = *patch.Notes
		}
		return s.snapshotLocked(), true
	}
	return s.snapshotLocked(), false
}

// ReplaceAll swaps the whole sequence in one step. Incoming ids are ignored
// and every item gets a fresh one. An empty input leaves a single blank item.
func (s *LineItemStore) ReplaceAll(items []LineItem) []SnapshotItem {
	next := make([]LineItem, 0, len(items))
	for _, item := range items {
		item.ID = uuid.NewString()
		item.Quantity = nonNegative(item.Quantity)
		item.UnitPrice = nonNegative(item.UnitPrice)
		next = append(next, item)
	}
	if len(next) == 0 {
		next = append(next, newBlankItem())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = next
	return s.snapshotLocked()
}

// Snapshot returns a copy of the current items with totals computed.
func (s *LineItemStore) Snapshot() []SnapshotItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Len returns the number of items.
func (s *LineItemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *LineItemStore) snapshotLocked() []SnapshotItem {
	snap := make([]SnapshotItem, len(s.items))
	for i, item := range s.items {
		snap[i] = SnapshotItem{LineItem: item, LineTotal: item.Total()}
	}
	return snap
}

// nonNegative clamps negative or non-finite quantities and prices to zero.
func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
