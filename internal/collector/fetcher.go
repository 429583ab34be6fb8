package collector

import (
	"context"
	"errors"

	"StockInsight/internal/model"
)

// ErrNoData is returned when a source has no bars for the symbol and range.
var ErrNoData = errors.New("no data for symbol")

// ErrInvalidRange is returned for a history range outside the supported set.
var ErrInvalidRange = errors.New("invalid range")

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	// FetchDailyBars returns daily bars for the range, ascending by date.
	FetchDailyBars(ctx context.Context, symbol, rng string) ([]model.Bar, error)
	Name() string
}

// tradingDays approximates the number of sessions each range covers.
var tradingDays = map[string]int{
	"1mo": 22,
	"3mo": 66,
	"6mo": 126,
	"1y":  252,
	"2y":  504,
	"5y":  1260,
}

// ValidRange reports whether rng is one of 1mo, 3mo, 6mo, 1y, 2y, 5y.
func ValidRange(rng string) bool {
	_, ok := tradingDays[rng]
	return ok
}

// RangeBars returns the approximate bar count of a valid range.
func RangeBars(rng string) int {
	return tradingDays[rng]
}
