package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fxchart/internal/domain"
	"fxchart/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Cache implements the ports.BarCache interface using SQLite. Each source
// address maps to one stored bar sequence; saving replaces the previous
// sequence wholesale, mirroring how the chart replaces datasets per load.
type Cache struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite bar cache.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewCache creates a new SQLite bar cache instance.
func NewCache(cfg Config) (*Cache, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite cache: %w", ports.ErrConfigurationError)
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/fxchart.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite cache initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %v: %w", dbPath, err, ports.ErrDBConnection)
		cfg.Logger.Error(context.Background(), err, "SQLite cache initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %v: %w", dbPath, err, ports.ErrDBConnection)
		cfg.Logger.Error(context.Background(), err, "SQLite cache initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cache := &Cache{db: db, logger: cfg.Logger}

	if err := cache.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite cache initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Bar cache ready", map[string]interface{}{"path": dbPath})

	return cache, nil
}

// initializeSchema creates tables if they don't exist.
func (c *Cache) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS bars (
		source    TEXT    NOT NULL,
		position  INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		open      REAL    NOT NULL,
		high      REAL    NOT NULL,
		low       REAL    NOT NULL,
		close     REAL    NOT NULL,
		volume    INTEGER NOT NULL,
		PRIMARY KEY (source, position)
	);
	CREATE INDEX IF NOT EXISTS idx_bars_source ON bars(source);
	`
	if _, err := c.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("executing schema: %v: %w", err, ports.ErrQueryFailed)
	}
	return nil
}

// SaveBars replaces the cached bar sequence for the source address.
func (c *Cache) SaveBars(ctx context.Context, address string, bars []domain.NormalizedBar) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %v: %w", err, ports.ErrUpdateFailed)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bars WHERE source = ?`, address); err != nil {
		return fmt.Errorf("clearing cached bars for '%s': %v: %w", address, err, ports.ErrUpdateFailed)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bars (source, position, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %v: %w", err, ports.ErrUpdateFailed)
	}
	defer stmt.Close()

	for i, bar := range bars {
		if _, err := stmt.ExecContext(ctx, address, i, bar.Timestamp, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume); err != nil {
			return fmt.Errorf("inserting bar %d for '%s': %v: %w", i, address, err, ports.ErrUpdateFailed)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bars for '%s': %v: %w", address, err, ports.ErrUpdateFailed)
	}

	c.logger.Debug(ctx, "Cached bars", map[string]interface{}{"address": address, "bars": len(bars)})
	return nil
}

// LoadBars returns the cached bars for the source address in stored order.
func (c *Cache) LoadBars(ctx context.Context, address string) ([]domain.NormalizedBar, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM bars WHERE source = ? ORDER BY position`, address)
	if err != nil {
		return nil, fmt.Errorf("querying cached bars for '%s': %v: %w", address, err, ports.ErrQueryFailed)
	}
	defer rows.Close()

	var bars []domain.NormalizedBar
	for rows.Next() {
		var bar domain.NormalizedBar
		if err := rows.Scan(&bar.Timestamp, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("scanning cached bar for '%s': %v: %w", address, err, ports.ErrQueryFailed)
		}
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached bars for '%s': %v: %w", address, err, ports.ErrQueryFailed)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no cached bars for '%s': %w", address, ports.ErrCacheMiss)
	}
	return bars, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
