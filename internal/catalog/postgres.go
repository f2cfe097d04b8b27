package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"beertime/internal/config"
	"beertime/internal/logger"
	"log/slog"
)

// Connect opens the Postgres connection, configures the pool, and verifies connectivity.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	took := time.Since(start)
	if err != nil {
		logger.CAT.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", "postgres"),
			slog.String("host", cfg.Host),
			slog.String("port", cfg.Port),
			slog.String("db", cfg.Name),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	logger.CAT.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", "postgres"),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return db, nil
}

// PGStore persists the catalog in Postgres. Each Write replaces the whole
// document in one transaction, mirroring the single-file semantics of the
// JSON backend. The catalog_revision row marks that a document exists, so
// an intentionally emptied catalog is not re-seeded on restart.
type PGStore struct {
	db *sqlx.DB
}

// NewPGStore wraps an open connection as a catalog backend.
func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{db: db}
}

type itemRow struct {
	Name  string `db:"name"`
	Price string `db:"price"`
}

// Read assembles the document from the catalog tables.
func (p *PGStore) Read(ctx context.Context) (Document, bool, error) {
	var revision int64
	err := p.db.GetContext(ctx, &revision, `SELECT revision FROM catalog_revision WHERE id`)
	if err == sql.ErrNoRows {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("read revision: %w", err)
	}

	var doc Document
	doc.normalize()

	var items []itemRow
	if err := p.db.SelectContext(ctx, &items, `SELECT name, price FROM catalog_items ORDER BY name`); err != nil {
		return Document{}, false, fmt.Errorf("read items: %w", err)
	}
	for _, it := range items {
		doc.Items[it.Name] = it.Price
	}

	if err := p.db.SelectContext(ctx, &doc.Promotions, `SELECT body FROM promotions ORDER BY position`); err != nil {
		return Document{}, false, fmt.Errorf("read promotions: %w", err)
	}
	if err := p.db.SelectContext(ctx, &doc.NewArrivals, `SELECT body FROM new_arrivals ORDER BY position`); err != nil {
		return Document{}, false, fmt.Errorf("read new arrivals: %w", err)
	}
	doc.normalize()
	return doc, true, nil
}

// Write replaces the stored document and bumps the revision marker.
func (p *PGStore) Write(ctx context.Context, doc Document) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"catalog_items", "promotions", "new_arrivals"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, name := range doc.ItemNames() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_items (name, price) VALUES ($1, $2)`,
			name, doc.Items[name],
		); err != nil {
			return fmt.Errorf("insert item %q: %w", name, err)
		}
	}
	for i, body := range doc.Promotions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO promotions (position, body) VALUES ($1, $2)`,
			i, body,
		); err != nil {
			return fmt.Errorf("insert promotion %d: %w", i, err)
		}
	}
	for i, body := range doc.NewArrivals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO new_arrivals (position, body) VALUES ($1, $2)`,
			i, body,
		); err != nil {
			return fmt.Errorf("insert new arrival %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_revision (id, revision, updated_at)
		VALUES (TRUE, 1, now())
		ON CONFLICT (id) DO UPDATE
		SET revision = catalog_revision.revision + 1, updated_at = now()`,
	); err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
