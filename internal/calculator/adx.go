package calculator

import (
	"math"

	"StockInsight/internal/model"
)

// ADX computes the average directional index.
//
// +DM/-DM are zero at position 0. ±DI are defined from period-1, DX wherever
// both DI are defined with a non-zero sum, and ADX from 2*period-2 once a
// full window of DX exists.
func ADX(bars []model.Bar, period int) (model.Series, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	h, l, c, err := hlc(bars)
	if err != nil {
		return nil, err
	}
	n := len(c)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := h[i] - h[i-1]
		down := l[i-1] - l[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}
	tr := trueRange(h, l, c)

	dx := model.NewSeries(n)
	for i := period - 1; i < n; i++ {
		trSum := windowSum(tr, i, period)
		if trSum == 0 {
			continue
		}
		plusDI := 100 * windowSum(plusDM, i, period) / trSum
		minusDI := 100 * windowSum(minusDM, i, period) / trSum
		diSum := plusDI + minusDI
		if diSum == 0 {
			continue
		}
		dx[i] = model.Defined(100 * math.Abs(plusDI-minusDI) / diSum)
	}

	out := model.NewSeries(n)
	for i := range out {
		out[i] = seriesMean(dx, i, period)
	}
	return out, nil
}
