package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"StockInsight/internal/calculator"
	"StockInsight/internal/metrics"
	"StockInsight/internal/model"
)

// Default indicator periods.
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerPeriod = 20
	BollingerWidth  = 2.0
	StochasticK     = 14
	StochasticD     = 3
	ATRPeriod       = 14
	ADXPeriod       = 14
	CCIPeriod       = 20
	WilliamsRPeriod = 14
)

// job computes one indicator and returns every series it owns.
type job struct {
	name   string
	series []string
	run    func(bars []model.Bar) (map[string]model.Series, error)
}

func single(name string, fn func([]model.Bar) (model.Series, error)) job {
	return job{name: name, series: []string{name}, run: func(bars []model.Bar) (map[string]model.Series, error) {
		s, err := fn(bars)
		if err != nil {
			return nil, err
		}
		return map[string]model.Series{name: s}, nil
	}}
}

func withPeriod(fn func([]model.Bar, int) (model.Series, error), period int) func([]model.Bar) (model.Series, error) {
	return func(bars []model.Bar) (model.Series, error) { return fn(bars, period) }
}

var jobs = []job{
	{name: "sma", series: []string{model.SMA20, model.SMA50}, run: func(bars []model.Bar) (map[string]model.Series, error) {
		s20, err := calculator.SMA(bars, 20)
		if err != nil {
			return nil, err
		}
		s50, err := calculator.SMA(bars, 50)
		if err != nil {
			return nil, err
		}
		return map[string]model.Series{model.SMA20: s20, model.SMA50: s50}, nil
	}},
	{name: "ema", series: []string{model.EMA12, model.EMA26}, run: func(bars []model.Bar) (map[string]model.Series, error) {
		e12, err := calculator.EMA(bars, 12)
		if err != nil {
			return nil, err
		}
		e26, err := calculator.EMA(bars, 26)
		if err != nil {
			return nil, err
		}
		return map[string]model.Series{model.EMA12: e12, model.EMA26: e26}, nil
	}},
	single(model.RSI, withPeriod(calculator.RSI, RSIPeriod)),
	{name: model.MACD, series: []string{model.MACD, model.MACDSignal, model.MACDHistogram}, run: func(bars []model.Bar) (map[string]model.Series, error) {
		r, err := calculator.MACD(bars, MACDFast, MACDSlow, MACDSignal)
		if err != nil {
			return nil, err
		}
		return map[string]model.Series{
			model.MACD:          r.MACD,
			model.MACDSignal:    r.Signal,
			model.MACDHistogram: r.Histogram,
		}, nil
	}},
	{name: "bollinger", series: []string{model.BBUpper, model.BBMiddle, model.BBLower}, run: func(bars []model.Bar) (map[string]model.Series, error) {
		r, err := calculator.Bollinger(bars, BollingerPeriod, BollingerWidth)
		if err != nil {
			return nil, err
		}
		return map[string]model.Series{
			model.BBUpper:  r.Upper,
			model.BBMiddle: r.Middle,
			model.BBLower:  r.Lower,
		}, nil
	}},
	{name: "stochastic", series: []string{model.StochK, model.StochD}, run: func(bars []model.Bar) (map[string]model.Series, error) {
		r, err := calculator.Stochastic(bars, StochasticK, StochasticD)
		if err != nil {
			return nil, err
		}
		return map[string]model.Series{model.StochK: r.K, model.StochD: r.D}, nil
	}},
	single(model.ATR, withPeriod(calculator.ATR, ATRPeriod)),
	single(model.OBV, calculator.OBV),
	single(model.ADX, withPeriod(calculator.ADX, ADXPeriod)),
	single(model.CCI, withPeriod(calculator.CCI, CCIPeriod)),
	single(model.WilliamsR, withPeriod(calculator.WilliamsR, WilliamsRPeriod)),
	single(model.VWAP, calculator.VWAP),
}

// Engine runs every indicator over a price series. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	jobs    []job
}

// New creates an Engine. m may be nil.
func New(logger *zap.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("engine"), metrics: m, jobs: jobs}
}

// Compute runs all indicators over bars. An indicator that errors, panics
// or returns a misaligned series is reported in the failure list and its
// series are left out; the others are unaffected.
func (e *Engine) Compute(bars []model.Bar) (model.IndicatorSet, []model.IndicatorFailure) {
	set := make(model.IndicatorSet, len(model.IndicatorNames))
	if len(bars) == 0 {
		return set, nil
	}
	start := time.Now()

	var failures []model.IndicatorFailure
	for _, j := range e.jobs {
		out, err := runJob(j, bars)
		if err == nil {
			err = checkAligned(out, len(bars))
		}
		if err != nil {
			failures = append(failures, model.IndicatorFailure{Indicator: j.name, Series: j.series, Err: err})
			e.logger.Warn("indicator failed",
				zap.String("indicator", j.name),
				zap.Strings("series", j.series),
				zap.Int("bars", len(bars)),
				zap.Error(err))
			if e.metrics != nil {
				e.metrics.IndicatorFailures.WithLabelValues(j.name).Inc()
			}
			continue
		}
		for name, s := range out {
			set[name] = s
		}
	}

	if e.metrics != nil {
		e.metrics.IndicatorComputeDur.Observe(time.Since(start).Seconds())
	}
	return set, failures
}

func runJob(j job, bars []model.Bar) (out map[string]model.Series, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return j.run(bars)
}

func checkAligned(out map[string]model.Series, n int) error {
	for name, s := range out {
		if len(s) != n {
			return fmt.Errorf("series %s has length %d, want %d", name, len(s), n)
		}
	}
	return nil
}
