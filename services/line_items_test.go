package services

import (
	"testing"
)

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestNewLineItemStore_StartsWithBlankItem(t *testing.T) {
	store := NewLineItemStore()

	snap := store.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 item, got %d", len(snap))
	}
	item := snap[0]
	if item.ID == "" {
		t.Error("expected blank item to have an id")
	}
	if item.Description != "" || item.Quantity != 0 || item.UnitPrice != 0 || item.Notes != "" {
		t.Errorf("expected blank item, got %+v", item)
	}
}

func TestLineItemStore_Add(t *testing.T) {
	store := NewLineItemStore()
	first := store.Snapshot()[0].ID

	snap := store.Add()
	if len(snap) != 2 {
		t.Fatalf("expected 2 items, got %d", len(snap))
	}
	if snap[0].ID != first {
		t.Error("existing item should keep its position and id")
	}
	if snap[1].ID == "" || snap[1].ID == first {
		t.Errorf("new item needs a fresh id, got %q", snap[1].ID)
	}
}

func TestLineItemStore_RemoveLast(t *testing.T) {
	t.Run("single item is a no-op", func(t *testing.T) {
		store := NewLineItemStore()
		desc := "Consultoria"
		before, _ := store.Update(store.Snapshot()[0].ID, LineItemPatch{Description: &desc})

		after := store.RemoveLast()
		if len(after) != 1 {
			t.Fatalf("expected 1 item, got %d", len(after))
		}
		if after[0] != before[0] {
			t.Errorf("store changed: before %+v, after %+v", before[0], after[0])
		}
	})

	t.Run("removes the last in sequence order", func(t *testing.T) {
		store := NewLineItemStore()
		store.Add()
		snap := store.Add()
		keep := []string{snap[0].ID, snap[1].ID}

		after := store.RemoveLast()
		if len(after) != 2 {
			t.Fatalf("expected 2 items, got %d", len(after))
		}
		for i, id := range keep {
			if after[i].ID != id {
				t.Errorf("item %d id = %q, want %q", i, after[i].ID, id)
			}
		}
	})
}

func TestLineItemStore_Clear(t *testing.T) {
	store := NewLineItemStore()
	store.Add()
	store.Add()
	old := store.Snapshot()

	snap := store.Clear()
	if len(snap) != 1 {
		t.Fatalf("expected 1 item after clear, got %d", len(snap))
	}
	for _, o := range old {
		if snap[0].ID == o.ID {
			t.Error("clear should create a fresh blank item")
		}
	}
}

func TestLineItemStore_NeverEmpty(t *testing.T) {
	ops := []struct {
		name string
		fn   func(*LineItemStore)
	}{
		{"add", func(s *LineItemStore) { s.Add() }},
		{"remove", func(s *LineItemStore) { s.RemoveLast() }},
		{"clear", func(s *LineItemStore) { s.Clear() }},
		{"replace empty", func(s *LineItemStore) { s.ReplaceAll(nil) }},
	}

	store := NewLineItemStore()
	// Walk a fixed pseudo-random sequence of operations.
	sequence := []int{1, 1, 0, 1, 2, 1, 0, 0, 1, 1, 1, 3, 1, 0, 2, 1}
	for step, opIdx := range sequence {
		ops[opIdx].fn(store)
		if store.Len() < 1 {
			t.Fatalf("step %d (%s): store is empty", step, ops[opIdx].name)
		}
	}
}

func TestLineItemStore_Update(t *testing.T) {
	store := NewLineItemStore()
	id := store.Snapshot()[0].ID

	snap, ok := store.Update(id, LineItemPatch{
		Description: strPtr("Consulting"),
		Quantity:    floatPtr(10),
		UnitPrice:   floatPtr(150),
	})
	if !ok {
		t.Fatal("expected update to find item")
	}
	got := snap[0]
	if got.ID != id {
		t.Errorf("id changed on edit: %q -> %q", id, got.ID)
	}
	if got.Description != "Consulting" || got.Quantity != 10 || got.UnitPrice != 150 {
		t.Errorf("unexpected item after update: %+v", got)
	}
	if got.LineTotal != 1500 {
		t.Errorf("LineTotal = %v, want 1500", got.LineTotal)
	}

	t.Run("partial patch keeps other fields", func(t *testing.T) {
		snap, _ := store.Update(id, LineItemPatch{Notes: strPtr("mensal")})
		if snap[0].Description != "Consulting" || snap[0].Notes != "mensal" {
			t.Errorf("unexpected item: %+v", snap[0])
		}
	})

	t.Run("negative values clamp to zero", func(t *testing.T) {
		snap, _ := store.Update(id, LineItemPatch{Quantity: floatPtr(-3)})
		if snap[0].Quantity != 0 {
			t.Errorf("Quantity = %v, want 0", snap[0].Quantity)
		}
	})

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		before := store.Snapshot()
		after, ok := store.Update("missing", LineItemPatch{Description: strPtr("x")})
		if ok {
			t.Error("expected ok=false for unknown id")
		}
		if len(after) != len(before) || after[0] != before[0] {
			t.Error("store changed on unknown id")
		}
	})
}

func TestLineItemStore_ReplaceAll(t *testing.T) {
	store := NewLineItemStore()
	store.Add()
	old := store.Snapshot()

	snap := store.ReplaceAll([]LineItem{
		{ID: "from-file", Description: "Produto A", Quantity: 10, UnitPrice: 25.5},
		{Description: "Produto B", Quantity: 5, UnitPrice: 100},
	})
	if len(snap) != 2 {
		t.Fatalf("expected 2 items, got %d", len(snap))
	}
	if snap[0].Description != "Produto A" || snap[1].Description != "Produto B" {
		t.Errorf("order not preserved: %+v", snap)
	}
	seen := map[string]bool{}
	for _, o := range old {
		seen[o.ID] = true
	}
	for _, item := range snap {
		if item.ID == "from-file" || item.ID == "" || seen[item.ID] {
			t.Errorf("expected a fresh id, got %q", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestLineItemStore_SnapshotIsACopy(t *testing.T) {
	store := NewLineItemStore()
	snap := store.Snapshot()
	snap[0].Description = "mutated"

	if store.Snapshot()[0].Description != "" {
		t.Error("mutating a snapshot must not touch the store")
	}
}
