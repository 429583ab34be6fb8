package cache

import (
	"context"
	"strings"
	"time"

	"StockInsight/internal/model"
)

// DefaultTTL is how long a saved prediction stays valid.
const DefaultTTL = 24 * time.Hour

// Cache stores prediction results keyed by (symbol, days).
type Cache interface {
	// Get returns the newest unexpired result. ok is false on a miss.
	Get(ctx context.Context, symbol string, days int) (res *model.PredictionResult, ok bool, err error)
	Save(ctx context.Context, symbol string, days int, res *model.PredictionResult) error
	// ClearSymbol drops every entry for (symbol, days).
	ClearSymbol(ctx context.Context, symbol string, days int) error
	// ClearExpired deletes expired entries and returns how many were removed.
	ClearExpired(ctx context.Context) (int64, error)
	Close() error
}

// normalize makes "2330.tw" and "2330.TW" share an entry.
func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
