package calculator

import (
	"StockInsight/internal/model"
)

// OBV computes on-balance volume. Position 0 contributes nothing.
func OBV(bars []model.Bar) (model.Series, error) {
	c, err := closes(bars)
	if err != nil {
		return nil, err
	}
	v, err := volumes(bars)
	if err != nil {
		return nil, err
	}
	out := model.NewSeries(len(c))
	total := 0.0
	for i := range c {
		if i > 0 {
			switch {
			case c[i] > c[i-1]:
				total += v[i]
			case c[i] < c[i-1]:
				total -= v[i]
			}
		}
		out[i] = model.Defined(total)
	}
	return out, nil
}

// VWAP computes the cumulative volume-weighted typical price from the
// start of the series. Positions with no cumulative volume are undefined.
func VWAP(bars []model.Bar) (model.Series, error) {
	h, l, c, err := hlc(bars)
	if err != nil {
		return nil, err
	}
	v, err := volumes(bars)
	if err != nil {
		return nil, err
	}
	tp := typicalPrice(h, l, c)
	out := model.NewSeries(len(c))
	var pv, vol float64
	for i := range c {
		pv += tp[i] * v[i]
		vol += v[i]
		if vol == 0 {
			continue
		}
		out[i] = model.Defined(pv / vol)
	}
	return out, nil
}
