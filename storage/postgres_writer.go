package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"autochek-scraper/config"
	"autochek-scraper/models"
)

type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(cfg config.Config) (*PostgresWriter, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS vehicle_listings (
		listing_id TEXT PRIMARY KEY,
		make TEXT,
		model TEXT,
		year INT,
		variant TEXT,
		price BIGINT,
		currency TEXT,
		mileage BIGINT,
		location TEXT,
		listing_url TEXT NOT NULL,
		thumbnail_url TEXT,
		posted_at TEXT,
		scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_vehicle_listings_make ON vehicle_listings(make);
	CREATE INDEX IF NOT EXISTS idx_vehicle_listings_price ON vehicle_listings(price);
	CREATE INDEX IF NOT EXISTS idx_vehicle_listings_location ON vehicle_listings(location);
	`

	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (w *PostgresWriter) WriteBatch(listings []models.VehicleListing) error {
	if len(listings) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO vehicle_listings
		(listing_id, make, model, year, variant, price, currency, mileage, location, listing_url, thumbnail_url, posted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (listing_id) DO NOTHING;
	`

	enqueued := 0
	for _, l := range listings {
		if l.ListingID == "" || l.ListingURL == "" {
			continue
		}
		batch.Queue(
			insertSQL,
			l.ListingID,
			l.Make,
			l.Model,
			l.Year,
			l.Variant,
			l.Price,
			l.Currency,
			l.Mileage,
			l.Location,
			l.ListingURL,
			l.ThumbnailURL,
			l.CreatedAt,
		)
		enqueued++
	}

	if enqueued == 0 {
		return nil
	}

	results := w.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < enqueued; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}

	return nil
}
