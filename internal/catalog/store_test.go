package catalog

import (
	"context"
	"errors"
	"testing"
)

type memoryBackend struct {
	doc    Document
	found  bool
	writes int
	fail   bool
}

func (m *memoryBackend) Read(context.Context) (Document, bool, error) {
	return m.doc.Clone(), m.found, nil
}

func (m *memoryBackend) Write(_ context.Context, doc Document) error {
	if m.fail {
		return errors.New("backend down")
	}
	m.doc = doc.Clone()
	m.found = true
	m.writes++
	return nil
}

func TestOpenSeedsEmptyBackend(t *testing.T) {
	be := &memoryBackend{}
	store, err := Open(context.Background(), be)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	doc := store.Snapshot()
	if len(doc.Items) == 0 {
		t.Fatal("expected seeded items")
	}
	if _, ok := doc.Items["IPA"]; !ok {
		t.Error("seed missing IPA")
	}
	if be.writes != 1 {
		t.Errorf("writes = %d, want 1 (seed persisted)", be.writes)
	}
}

func TestOpenKeepsIntentionallyEmptyCatalog(t *testing.T) {
	be := &memoryBackend{found: true, doc: Document{Items: map[string]string{}}}
	store, err := Open(context.Background(), be)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if n := len(store.Snapshot().Items); n != 0 {
		t.Errorf("items = %d, want 0 (no re-seed)", n)
	}
	if be.writes != 0 {
		t.Errorf("writes = %d, want 0", be.writes)
	}
}

func TestSetAndRemoveItem(t *testing.T) {
	ctx := context.Background()
	be := &memoryBackend{found: true, doc: Document{Items: map[string]string{}}}
	store, err := Open(ctx, be)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	store.SetItem(ctx, "Портер", "70 грн/л")
	if price, ok := store.Item("Портер"); !ok || price != "70 грн/л" {
		t.Fatalf("Item = %q, %v", price, ok)
	}
	if _, ok := be.doc.Items["Портер"]; !ok {
		t.Error("item not persisted")
	}

	if !store.RemoveItem(ctx, "Портер") {
		t.Error("RemoveItem = false, want true")
	}
	if store.RemoveItem(ctx, "Портер") {
		t.Error("second RemoveItem = true, want false")
	}
	if _, ok := be.doc.Items["Портер"]; ok {
		t.Error("removal not persisted")
	}
}

func TestBoardIndexRemoval(t *testing.T) {
	ctx := context.Background()
	be := &memoryBackend{found: true, doc: Document{Items: map[string]string{}}}
	store, err := Open(ctx, be)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	store.AddPromotion(ctx, "-20% на IPA")
	store.AddPromotion(ctx, "2+1 на лагер")
	store.AddNewArrival(ctx, "Стаут")

	if store.RemovePromotionAt(ctx, 5) {
		t.Error("out-of-range removal = true, want false")
	}
	if store.RemovePromotionAt(ctx, -1) {
		t.Error("negative index removal = true, want false")
	}
	if !store.RemovePromotionAt(ctx, 0) {
		t.Error("RemovePromotionAt(0) = false, want true")
	}

	doc := store.Snapshot()
	if len(doc.Promotions) != 1 || doc.Promotions[0] != "2+1 на лагер" {
		t.Errorf("promotions = %v", doc.Promotions)
	}
	if !store.RemoveNewArrivalAt(ctx, 0) {
		t.Error("RemoveNewArrivalAt(0) = false, want true")
	}
	if len(store.Snapshot().NewArrivals) != 0 {
		t.Error("new arrivals not emptied")
	}
}

func TestFailedWriteKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	be := &memoryBackend{found: true, doc: Document{Items: map[string]string{}}}
	store, err := Open(ctx, be)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	be.fail = true
	store.SetItem(ctx, "Ель", "65 грн/л")

	if _, ok := store.Item("Ель"); !ok {
		t.Error("in-memory state lost after failed persist")
	}
	if _, ok := be.doc.Items["Ель"]; ok {
		t.Error("backend unexpectedly updated")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	be := &memoryBackend{found: true, doc: Document{Items: map[string]string{"IPA": "60"}}}
	store, err := Open(ctx, be)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	snap := store.Snapshot()
	snap.Items["IPA"] = "mutated"
	snap.Promotions = append(snap.Promotions, "x")

	if price, _ := store.Item("IPA"); price != "60" {
		t.Errorf("store mutated through snapshot: %q", price)
	}
	if len(store.Snapshot().Promotions) != 0 {
		t.Error("promotions mutated through snapshot")
	}
}

func TestItemNamesSorted(t *testing.T) {
	doc := Document{Items: map[string]string{"b": "1", "a": "2", "c": "3"}}
	names := doc.ItemNames()
	want := []string{"a", "b", "c"}
	for i, n := range names {
		if n != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}
