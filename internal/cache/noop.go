package cache

import (
	"context"

	"StockInsight/internal/model"
)

// NoopCache is used when caching is disabled. Every lookup misses.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) Get(context.Context, string, int) (*model.PredictionResult, bool, error) {
	return nil, false, nil
}
func (NoopCache) Save(context.Context, string, int, *model.PredictionResult) error { return nil }
func (NoopCache) ClearSymbol(context.Context, string, int) error                   { return nil }
func (NoopCache) ClearExpired(context.Context) (int64, error)                      { return 0, nil }
func (NoopCache) Close() error                                                     { return nil }
