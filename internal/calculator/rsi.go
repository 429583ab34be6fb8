package calculator

import (
	"StockInsight/internal/model"
)

// RSI computes the relative strength index from simple trailing means of
// gains and losses over the last period close-to-close changes.
//
// The value is undefined until period changes exist (index < period). A
// window with losses summing to zero reads 100 if it had any gain and is
// undefined if it had neither.
func RSI(bars []model.Bar, period int) (model.Series, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	c, err := closes(bars)
	if err != nil {
		return nil, err
	}
	out := model.NewSeries(len(c))
	if len(c) <= period {
		return out, nil
	}

	gains := make([]float64, len(c))
	losses := make([]float64, len(c))
	for i := 1; i < len(c); i++ {
		change := c[i] - c[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := period; i < len(c); i++ {
		gain := windowSum(gains, i, period)
		loss := windowSum(losses, i, period)
		switch {
		case loss == 0 && gain == 0:
			// flat window
		case loss == 0:
			out[i] = model.Defined(100)
		default:
			rs := gain / loss
			out[i] = model.Defined(100 - 100/(1+rs))
		}
	}
	return out, nil
}
