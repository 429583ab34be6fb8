package engine

import (
	"github.com/shopspring/decimal"

	"StockInsight/internal/model"
)

// Round rounds v to 2 decimal places, half away from zero.
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Latest returns the most recent defined value of every series, rounded.
// Series with no defined value are omitted.
func Latest(set model.IndicatorSet) model.LatestValues {
	latest := make(model.LatestValues, len(set))
	for name, s := range set {
		if v, ok := s.Last(); ok {
			latest[name] = Round(v)
		}
	}
	return latest
}

// Chart builds one point per bar, in bar order, carrying every indicator
// defined at that position.
func Chart(bars []model.Bar, set model.IndicatorSet) []model.ChartPoint {
	points := make([]model.ChartPoint, len(bars))
	for i, b := range bars {
		values := make(map[string]float64, len(set))
		for name, s := range set {
			if sample := s.At(i); sample.Defined {
				values[name] = Round(sample.Value)
			}
		}
		points[i] = model.ChartPoint{Date: b.DateString(), Values: values}
	}
	return points
}
