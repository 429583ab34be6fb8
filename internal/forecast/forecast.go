package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"StockInsight/internal/engine"
	"StockInsight/internal/model"
)

// MaxDays bounds the forecast horizon.
const MaxDays = 365

// z80 is the two-sided 80% normal quantile.
const z80 = 1.2816

var (
	// ErrInsufficientHistory is returned when there are too few bars to fit.
	ErrInsufficientHistory = errors.New("insufficient history to forecast")
	// ErrInvalidHorizon is returned for days outside [1, MaxDays].
	ErrInvalidHorizon = errors.New("invalid forecast horizon")
)

// Forecaster produces point estimates with confidence bounds for the
// calendar days following the last bar.
type Forecaster interface {
	Forecast(ctx context.Context, bars []model.Bar, days int) ([]model.ForecastPoint, error)
}

// LinearTrend fits an ordinary least-squares line of close against the
// calendar-day offset from the first bar.
type LinearTrend struct{}

func (LinearTrend) Forecast(ctx context.Context, bars []model.Bar, days int) ([]model.ForecastPoint, error) {
	if days < 1 || days > MaxDays {
		return nil, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidHorizon, days, MaxDays)
	}
	if len(bars) < 2 {
		return nil, fmt.Errorf("%w: %d bars", ErrInsufficientHistory, len(bars))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin := bars[0].Date
	xs := make([]float64, len(bars))
	ys := make([]float64, len(bars))
	for i, b := range bars {
		xs[i] = dayOffset(origin, b)
		ys[i] = b.Close
	}
	slope, intercept, ok := fit(xs, ys)
	if !ok {
		return nil, fmt.Errorf("%w: all bars share one date", ErrInsufficientHistory)
	}

	sigma := residualStd(xs, ys, slope, intercept)
	band := z80 * sigma

	last := bars[len(bars)-1].Date
	points := make([]model.ForecastPoint, days)
	for d := 1; d <= days; d++ {
		date := last.AddDate(0, 0, d)
		x := date.Sub(origin).Hours() / 24
		y := intercept + slope*x
		points[d-1] = model.ForecastPoint{
			Date:      date.Format(model.DateLayout),
			Predicted: engine.Round(y),
			Lower:     engine.Round(y - band),
			Upper:     engine.Round(y + band),
			Type:      "prediction",
		}
	}
	return points, nil
}

func dayOffset(origin time.Time, b model.Bar) float64 {
	return b.Date.Sub(origin).Hours() / 24
}

// fit returns the least-squares slope and intercept. ok is false when x
// has no spread.
func fit(xs, ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(xs))
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= n
	my /= n
	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - mx
		sxy += dx * (ys[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, 0, false
	}
	slope = sxy / sxx
	return slope, my - slope*mx, true
}

// residualStd is the standard error of the regression (n-2 degrees of
// freedom), zero when the line passes through every point.
func residualStd(xs, ys []float64, slope, intercept float64) float64 {
	if len(xs) <= 2 {
		return 0
	}
	ss := 0.0
	for i := range xs {
		r := ys[i] - (intercept + slope*xs[i])
		ss += r * r
	}
	return math.Sqrt(ss / float64(len(xs)-2))
}
