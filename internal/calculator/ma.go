package calculator

import (
	"StockInsight/internal/model"
)

// SMA computes the trailing simple moving average of closes. The first
// period-1 positions are undefined, and every position is undefined when
// there are fewer than period bars.
func SMA(bars []model.Bar, period int) (model.Series, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	c, err := closes(bars)
	if err != nil {
		return nil, err
	}
	return rollingMean(c, period), nil
}

// EMA computes the exponential moving average of closes, seeded with the
// first close and defined from position 0.
func EMA(bars []model.Bar, period int) (model.Series, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	c, err := closes(bars)
	if err != nil {
		return nil, err
	}
	return toSeries(ema(c, period)), nil
}

// MACDResult bundles the three MACD series.
type MACDResult struct {
	MACD      model.Series
	Signal    model.Series
	Histogram model.Series
}

// MACD computes EMA(fast) - EMA(slow), its EMA(signal) and the difference.
func MACD(bars []model.Bar, fast, slow, signal int) (MACDResult, error) {
	if err := checkPeriod(fast, slow, signal); err != nil {
		return MACDResult{}, err
	}
	c, err := closes(bars)
	if err != nil {
		return MACDResult{}, err
	}
	fastEMA := ema(c, fast)
	slowEMA := ema(c, slow)
	line := make([]float64, len(c))
	for i := range c {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig := ema(line, signal)
	hist := make([]float64, len(c))
	for i := range c {
		hist[i] = line[i] - sig[i]
	}
	return MACDResult{
		MACD:      toSeries(line),
		Signal:    toSeries(sig),
		Histogram: toSeries(hist),
	}, nil
}
