package calculator

import (
	"math"

	"StockInsight/internal/model"
)

// StochasticResult bundles %K and %D.
type StochasticResult struct {
	K model.Series
	D model.Series
}

// Stochastic computes %K over kPeriod bars and %D as its dPeriod trailing
// mean. A zero high-low range leaves %K undefined, and %D stays undefined
// while any %K in its window is.
func Stochastic(bars []model.Bar, kPeriod, dPeriod int) (StochasticResult, error) {
	if err := checkPeriod(kPeriod, dPeriod); err != nil {
		return StochasticResult{}, err
	}
	h, l, c, err := hlc(bars)
	if err != nil {
		return StochasticResult{}, err
	}
	n := len(c)
	res := StochasticResult{K: model.NewSeries(n), D: model.NewSeries(n)}
	maxH := rollingMax(h, kPeriod)
	minL := rollingMin(l, kPeriod)
	if maxH == nil {
		return res, nil
	}
	for i := kPeriod - 1; i < n; i++ {
		rng := maxH[i] - minL[i]
		if rng == 0 {
			continue
		}
		res.K[i] = model.Defined(100 * (c[i] - minL[i]) / rng)
	}
	for i := range res.D {
		res.D[i] = seriesMean(res.K, i, dPeriod)
	}
	return res, nil
}

// WilliamsR computes -100 (maxH - C)/(maxH - minL) over period bars.
func WilliamsR(bars []model.Bar, period int) (model.Series, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	h, l, c, err := hlc(bars)
	if err != nil {
		return nil, err
	}
	out := model.NewSeries(len(c))
	maxH := rollingMax(h, period)
	minL := rollingMin(l, period)
	if maxH == nil {
		return out, nil
	}
	for i := period - 1; i < len(c); i++ {
		rng := maxH[i] - minL[i]
		if rng == 0 {
			continue
		}
		out[i] = model.Defined(-100 * (maxH[i] - c[i]) / rng)
	}
	return out, nil
}

// CCI computes the commodity channel index of the typical price. The
// window mean serves both the deviation and the mean absolute deviation,
// so a flat window is undefined.
func CCI(bars []model.Bar, period int) (model.Series, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	h, l, c, err := hlc(bars)
	if err != nil {
		return nil, err
	}
	tp := typicalPrice(h, l, c)
	out := model.NewSeries(len(tp))
	for i := period - 1; i < len(tp); i++ {
		mean := windowMean(tp, i, period)
		mad := 0.0
		for _, v := range tp[i-period+1 : i+1] {
			mad += math.Abs(v - mean)
		}
		mad /= float64(period)
		if mad == 0 {
			continue
		}
		out[i] = model.Defined((tp[i] - mean) / (0.015 * mad))
	}
	return out, nil
}
