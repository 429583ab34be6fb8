package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"StockInsight/internal/engine"
	"StockInsight/internal/metrics"
	"StockInsight/internal/model"
)

// Analysis is one symbol's history with its computed indicators.
type Analysis struct {
	Symbol   string
	Range    string
	Bars     []model.Bar
	Set      model.IndicatorSet
	Latest   model.LatestValues
	Chart    []model.ChartPoint
	Failures []model.IndicatorFailure
}

// LastBar returns the most recent bar. Analyze never returns an empty Bars.
func (a *Analysis) LastBar() model.Bar {
	return a.Bars[len(a.Bars)-1]
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Engine  *engine.Engine
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCollector creates a new Collector. m may be nil.
func NewCollector(fetcher Fetcher, eng *engine.Engine, logger *zap.Logger, m *metrics.Metrics) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		Fetcher: fetcher,
		Engine:  eng,
		metrics: m,
		logger:  logger.Named("collector"),
	}
}

// Analyze fetches daily bars for symbol over rng and computes all indicators.
// Individual indicator failures are reported in the result, not as an error.
func (c *Collector) Analyze(ctx context.Context, symbol, rng string) (*Analysis, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if !ValidRange(rng) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, rng)
	}

	start := time.Now()
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, rng)
	if c.metrics != nil {
		c.metrics.FetchDur.WithLabelValues(c.Fetcher.Name()).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s (%s): %w", symbol, rng, ErrNoData)
	}

	set, failures := c.Engine.Compute(bars)
	if len(failures) > 0 {
		c.logger.Warn("indicators incomplete",
			zap.String("symbol", symbol),
			zap.Int("failed", len(failures)))
	}
	c.logger.Debug("analyzed",
		zap.String("symbol", symbol),
		zap.String("range", rng),
		zap.Int("bars", len(bars)),
		zap.String("source", c.Fetcher.Name()))

	return &Analysis{
		Symbol:   symbol,
		Range:    rng,
		Bars:     bars,
		Set:      set,
		Latest:   engine.Latest(set),
		Chart:    engine.Chart(bars, set),
		Failures: failures,
	}, nil
}
