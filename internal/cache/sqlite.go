package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StockInsight/internal/model"
)

// SQLiteCache persists prediction results to a SQLite database.
type SQLiteCache struct {
	db     *sql.DB
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// SQLiteOption customizes a SQLiteCache.
type SQLiteOption func(*SQLiteCache)

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) SQLiteOption {
	return func(c *SQLiteCache) { c.now = now }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) SQLiteOption {
	return func(c *SQLiteCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewSQLiteCache opens (or creates) the SQLite database and runs migrations.
func NewSQLiteCache(dbPath string, logger *zap.Logger, opts ...SQLiteOption) (*SQLiteCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: writes are serialized anyway, and ":memory:" would
	// otherwise hand each pooled connection its own database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db, ttl: DefaultTTL, now: time.Now, logger: logger.Named("cache")}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	c.logger.Info("sqlite cache opened", zap.String("path", dbPath), zap.Duration("ttl", c.ttl))
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol     TEXT NOT NULL,
			days       INTEGER NOT NULL,
			data       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_symbol_days ON predictions(symbol, days)`,
		`CREATE INDEX IF NOT EXISTS idx_expires_at ON predictions(expires_at)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *SQLiteCache) Get(ctx context.Context, symbol string, days int) (*model.PredictionResult, bool, error) {
	var data string
	err := c.db.QueryRowContext(ctx,
		`SELECT data FROM predictions
		 WHERE symbol = ? AND days = ? AND expires_at > ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		normalize(symbol), days, c.now().UnixNano(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query prediction: %w", err)
	}
	var res model.PredictionResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, false, fmt.Errorf("decode prediction: %w", err)
	}
	return &res, true, nil
}

func (c *SQLiteCache) Save(ctx context.Context, symbol string, days int, res *model.PredictionResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO predictions (symbol, days, data, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		normalize(symbol), days, string(data), now.UnixNano(), now.Add(c.ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (c *SQLiteCache) ClearSymbol(ctx context.Context, symbol string, days int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.ExecContext(ctx,
		`DELETE FROM predictions WHERE symbol = ? AND days = ?`, normalize(symbol), days); err != nil {
		return fmt.Errorf("clear %s/%d: %w", symbol, days, err)
	}
	return nil
}

func (c *SQLiteCache) ClearExpired(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, err := c.db.ExecContext(ctx, `DELETE FROM predictions WHERE expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("clear expired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear expired: %w", err)
	}
	if n > 0 {
		c.logger.Info("cleared expired predictions", zap.Int64("count", n))
	}
	return n, nil
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
