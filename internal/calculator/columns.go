package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"StockInsight/internal/model"
)

// ErrMalformed is returned when an input column carries a value no
// indicator can consume (non-finite price, negative volume).
var ErrMalformed = errors.New("malformed column")

var errPeriod = errors.New("period must be positive")

func checkPeriod(periods ...int) error {
	for _, p := range periods {
		if p <= 0 {
			return errPeriod
		}
	}
	return nil
}

func priceColumn(bars []model.Bar, name string, pick func(model.Bar) float64) ([]float64, error) {
	out := make([]float64, len(bars))
	for i, b := range bars {
		v := pick(b)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s at index %d is %v", ErrMalformed, name, i, v)
		}
		out[i] = v
	}
	return out, nil
}

func closes(bars []model.Bar) ([]float64, error) {
	return priceColumn(bars, "close", func(b model.Bar) float64 { return b.Close })
}

func highs(bars []model.Bar) ([]float64, error) {
	return priceColumn(bars, "high", func(b model.Bar) float64 { return b.High })
}

func lows(bars []model.Bar) ([]float64, error) {
	return priceColumn(bars, "low", func(b model.Bar) float64 { return b.Low })
}

func volumes(bars []model.Bar) ([]float64, error) {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if b.Volume < 0 {
			return nil, fmt.Errorf("%w: volume at index %d is %d", ErrMalformed, i, b.Volume)
		}
		out[i] = float64(b.Volume)
	}
	return out, nil
}

// hlc extracts the three columns most range-based indicators need.
func hlc(bars []model.Bar) (h, l, c []float64, err error) {
	if h, err = highs(bars); err != nil {
		return nil, nil, nil, err
	}
	if l, err = lows(bars); err != nil {
		return nil, nil, nil, err
	}
	if c, err = closes(bars); err != nil {
		return nil, nil, nil, err
	}
	return h, l, c, nil
}

// typicalPrice is (H+L+C)/3 per bar.
func typicalPrice(h, l, c []float64) []float64 {
	tp := make([]float64, len(c))
	for i := range c {
		tp[i] = (h[i] + l[i] + c[i]) / 3
	}
	return tp
}

// rollingMean is the trailing mean of a fully defined column. Positions
// before the first full window are undefined.
func rollingMean(values []float64, period int) model.Series {
	out := model.NewSeries(len(values))
	if len(values) < period {
		return out
	}
	sma := talib.Sma(values, period)
	for i := period - 1; i < len(values); i++ {
		out[i] = model.Defined(sma[i])
	}
	return out
}

// rollingMax and rollingMin return the trailing extreme of a window, or nil
// when the column is shorter than the window.
func rollingMax(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	if period == 1 {
		return append([]float64(nil), values...)
	}
	return talib.Max(values, period)
}

func rollingMin(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	if period == 1 {
		return append([]float64(nil), values...)
	}
	return talib.Min(values, period)
}

// windowSum adds values[end-period+1 .. end] directly, so an all-zero
// window sums to exactly zero.
func windowSum(values []float64, end, period int) float64 {
	sum := 0.0
	for j := end - period + 1; j <= end; j++ {
		sum += values[j]
	}
	return sum
}

// windowMean averages values[end-period+1 .. end] as offsets from the
// window's first value, so a constant window returns that value exactly.
func windowMean(values []float64, end, period int) float64 {
	start := end - period + 1
	ref := values[start]
	d := 0.0
	for j := start; j <= end; j++ {
		d += values[j] - ref
	}
	return ref + d/float64(period)
}

// seriesMean averages a window of samples, undefined if any is undefined.
func seriesMean(s model.Series, end, period int) model.Sample {
	if end-period+1 < 0 {
		return model.Undefined
	}
	sum := 0.0
	for j := end - period + 1; j <= end; j++ {
		if !s[j].Defined {
			return model.Undefined
		}
		sum += s[j].Value
	}
	return model.Defined(sum / float64(period))
}

// ema smooths values with α = 2/(period+1), seeded with the first value.
func ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

func toSeries(values []float64) model.Series {
	out := model.NewSeries(len(values))
	for i, v := range values {
		out[i] = model.Defined(v)
	}
	return out
}
