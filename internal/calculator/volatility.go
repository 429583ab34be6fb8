package calculator

import (
	"math"

	"StockInsight/internal/model"
)

// BollingerResult bundles the three band series.
type BollingerResult struct {
	Upper  model.Series
	Middle model.Series
	Lower  model.Series
}

// Bollinger computes SMA(period) bands at ±k sample standard deviations.
func Bollinger(bars []model.Bar, period int, k float64) (BollingerResult, error) {
	if err := checkPeriod(period); err != nil {
		return BollingerResult{}, err
	}
	c, err := closes(bars)
	if err != nil {
		return BollingerResult{}, err
	}
	n := len(c)
	res := BollingerResult{
		Upper:  model.NewSeries(n),
		Middle: model.NewSeries(n),
		Lower:  model.NewSeries(n),
	}
	for i := period - 1; i < n; i++ {
		mid := windowMean(c, i, period)
		res.Middle[i] = model.Defined(mid)
		// ddof=1 needs at least two samples
		if period < 2 {
			continue
		}
		sd := sampleStd(c[i-period+1:i+1], mid)
		res.Upper[i] = model.Defined(mid + k*sd)
		res.Lower[i] = model.Defined(mid - k*sd)
	}
	return res, nil
}

// sampleStd is the sample standard deviation around mean. A constant
// window with its exact mean gives exactly zero.
func sampleStd(window []float64, mean float64) float64 {
	ss := 0.0
	for _, v := range window {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(window)-1))
}

// trueRange is max(H-L, |H-prevC|, |L-prevC|), with H-L at position 0.
func trueRange(h, l, c []float64) []float64 {
	tr := make([]float64, len(c))
	for i := range c {
		tr[i] = h[i] - l[i]
		if i == 0 {
			continue
		}
		tr[i] = math.Max(tr[i], math.Abs(h[i]-c[i-1]))
		tr[i] = math.Max(tr[i], math.Abs(l[i]-c[i-1]))
	}
	return tr
}

// ATR computes the trailing mean of the true range.
func ATR(bars []model.Bar, period int) (model.Series, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	h, l, c, err := hlc(bars)
	if err != nil {
		return nil, err
	}
	return rollingMean(trueRange(h, l, c), period), nil
}
