package catalog

import (
	"context"
	"fmt"
	"sync"

	"beertime/internal/logger"
	"log/slog"
)

// Backend persists the catalog document as a whole. Read reports found=false
// when no document has been stored yet, which is distinct from an empty one.
type Backend interface {
	Read(ctx context.Context) (doc Document, found bool, err error)
	Write(ctx context.Context, doc Document) error
}

// Store is the in-memory catalog shared by all dialogs. Every mutation is
// persisted synchronously through the backend; a failed write keeps the
// in-memory state and is logged rather than surfaced to the chat.
type Store struct {
	mu      sync.RWMutex
	doc     Document
	backend Backend
}

// Open loads the catalog from the backend, seeding and persisting the
// default document when the backend holds none.
func Open(ctx context.Context, backend Backend) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("catalog: nil backend")
	}

	doc, found, err := backend.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: load: %w", err)
	}
	if !found {
		doc = DefaultSeed()
		if err := backend.Write(ctx, doc); err != nil {
			return nil, fmt.Errorf("catalog: seed: %w", err)
		}
		logger.CAT.Info("catalog seeded",
			slog.String("event", "catalog.seed"),
			slog.Int("count", len(doc.Items)),
		)
	}
	doc.normalize()

	logger.CAT.Info("catalog loaded",
		slog.String("event", "catalog.load"),
		slog.Int("count", len(doc.Items)),
	)

	return &Store{doc: doc, backend: backend}, nil
}

// Snapshot returns a deep copy of the current catalog.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Item returns the price label for a single item.
func (s *Store) Item(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.doc.Items[name]
	return price, ok
}

// SetItem adds or replaces an item and persists the catalog.
func (s *Store) SetItem(ctx context.Context, name, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Items[name] = price
	s.persistLocked(ctx, "item.set", slog.String("item", name))
}

// RemoveItem deletes an item if present and persists the catalog.
// Removing an absent item is a no-op.
func (s *Store) RemoveItem(ctx context.Context, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Items[name]; !ok {
		return false
	}
	delete(s.doc.Items, name)
	s.persistLocked(ctx, "item.remove", slog.String("item", name))
	return true
}

// AddPromotion appends a promotion line and persists the catalog.
func (s *Store) AddPromotion(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Promotions = append(s.doc.Promotions, text)
	s.persistLocked(ctx, "promo.add", slog.Int("count", len(s.doc.Promotions)))
}

// RemovePromotionAt deletes the promotion at idx. Out-of-range indexes,
// possible when two admins race on the same list, are a no-op.
func (s *Store) RemovePromotionAt(ctx context.Context, idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.doc.Promotions) {
		return false
	}
	s.doc.Promotions = append(s.doc.Promotions[:idx], s.doc.Promotions[idx+1:]...)
	s.persistLocked(ctx, "promo.remove", slog.Int("index", idx))
	return true
}

// AddNewArrival appends a new-arrival line and persists the catalog.
func (s *Store) AddNewArrival(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.NewArrivals = append(s.doc.NewArrivals, text)
	s.persistLocked(ctx, "news.add", slog.Int("count", len(s.doc.NewArrivals)))
}

// RemoveNewArrivalAt deletes the new-arrival line at idx; out of range is a no-op.
func (s *Store) RemoveNewArrivalAt(ctx context.Context, idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.doc.NewArrivals) {
		return false
	}
	s.doc.NewArrivals = append(s.doc.NewArrivals[:idx], s.doc.NewArrivals[idx+1:]...)
	s.persistLocked(ctx, "news.remove", slog.Int("index", idx))
	return true
}

func (s *Store) persistLocked(ctx context.Context, event string, attrs ...slog.Attr) {
	if err := s.backend.Write(ctx, s.doc.Clone()); err != nil {
		all := append([]slog.Attr{
			slog.String("event", "catalog.save"),
			slog.String("cause", event),
			slog.String("err", err.Error()),
		}, attrs...)
		logger.CAT.LogAttrs(ctx, slog.LevelError, "catalog save failed", all...)
		return
	}
	logger.CAT.LogAttrs(ctx, slog.LevelDebug, "catalog saved",
		append([]slog.Attr{slog.String("event", "catalog.save"), slog.String("cause", event)}, attrs...)...,
	)
}
