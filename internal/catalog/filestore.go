package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the catalog as a single pretty-printed JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a backend writing to the given path. Parent
// directories are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read loads the document. A missing file means no document yet, not an error.
func (f *FileStore) Read(_ context.Context) (Document, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, false, nil
		}
		return Document{}, false, fmt.Errorf("read %s: %w", f.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, false, fmt.Errorf("decode %s: %w", f.path, err)
	}
	doc.normalize()
	return doc, true, nil
}

// Write overwrites the whole document.
func (f *FileStore) Write(_ context.Context, doc Document) error {
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
