package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nope", "catalog.json"))
	_, found, err := fs.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if found {
		t.Error("found = true for missing file")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")
	fs := NewFileStore(path)

	doc := Document{
		Items:       map[string]string{"IPA": "60 грн/л"},
		Promotions:  []string{"-20% сьогодні"},
		NewArrivals: []string{},
	}
	if err := fs.Write(ctx, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, found, err := fs.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !found {
		t.Fatal("found = false after write")
	}
	if got.Items["IPA"] != "60 грн/л" {
		t.Errorf("Items = %v", got.Items)
	}
	if len(got.Promotions) != 1 || got.Promotions[0] != "-20% сьогодні" {
		t.Errorf("Promotions = %v", got.Promotions)
	}
	if got.NewArrivals == nil {
		t.Error("NewArrivals = nil, want empty slice")
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := NewFileStore(path)
	if _, _, err := fs.Read(context.Background()); err == nil {
		t.Error("Read of corrupt file returned nil error")
	}
}

func TestFileStoreMissingSectionsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"items":{"IPA":"60"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := NewFileStore(path)
	doc, found, err := fs.Read(context.Background())
	if err != nil || !found {
		t.Fatalf("Read: %v found=%v", err, found)
	}
	if doc.Promotions == nil || doc.NewArrivals == nil {
		t.Error("missing sections not normalized to empty slices")
	}
}
