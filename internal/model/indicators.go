package model

import (
	"encoding/json"
	"math"
)

// Indicator series names. The vocabulary is fixed.
const (
	SMA20         = "sma_20"
	SMA50         = "sma_50"
	EMA12         = "ema_12"
	EMA26         = "ema_26"
	RSI           = "rsi"
	MACD          = "macd"
	MACDSignal    = "macd_signal"
	MACDHistogram = "macd_histogram"
	BBUpper       = "bb_upper"
	BBMiddle      = "bb_middle"
	BBLower       = "bb_lower"
	StochK        = "stoch_k"
	StochD        = "stoch_d"
	ATR           = "atr"
	OBV           = "obv"
	ADX           = "adx"
	CCI           = "cci"
	WilliamsR     = "williams_r"
	VWAP          = "vwap"
)

// IndicatorNames lists every series name in canonical order.
var IndicatorNames = []string{
	SMA20, SMA50, EMA12, EMA26,
	RSI,
	MACD, MACDSignal, MACDHistogram,
	BBUpper, BBMiddle, BBLower,
	StochK, StochD,
	ATR, OBV, ADX, CCI, WilliamsR, VWAP,
}

// Sample is one position of an indicator series. Value is meaningful only
// when Defined is true, and a defined sample is always finite.
type Sample struct {
	Value   float64
	Defined bool
}

// Defined wraps v as a defined sample. NaN and ±Inf collapse to Undefined.
func Defined(v float64) Sample {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Sample{}
	}
	return Sample{Value: v, Defined: true}
}

// Undefined is the marker for insufficient history or a degenerate denominator.
var Undefined = Sample{}

// Series is an indicator series aligned index-for-index with its input bars.
type Series []Sample

// NewSeries returns a series of n undefined samples.
func NewSeries(n int) Series {
	return make(Series, n)
}

// At returns the sample at i, or Undefined when i is out of range.
func (s Series) At(i int) Sample {
	if i < 0 || i >= len(s) {
		return Undefined
	}
	return s[i]
}

// Last returns the most recent defined sample.
func (s Series) Last() (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Defined {
			return s[i].Value, true
		}
	}
	return 0, false
}

// IndicatorSet maps an indicator series name to its series.
type IndicatorSet map[string]Series

// IndicatorFailure records an indicator that could not be computed.
// Series lists the set keys it would have produced.
type IndicatorFailure struct {
	Indicator string
	Series    []string
	Err       error
}

func (f IndicatorFailure) Error() string {
	return f.Indicator + ": " + f.Err.Error()
}

func (f IndicatorFailure) Unwrap() error { return f.Err }

// LatestValues is the current snapshot: name -> last defined value, rounded.
type LatestValues map[string]float64

// ChartPoint is one date of the chart time series.
type ChartPoint struct {
	Date   string
	Values map[string]float64
}

// MarshalJSON flattens the point into {"date": ..., "<name>": value, ...}.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Values)+1)
	for k, v := range p.Values {
		flat[k] = v
	}
	flat["date"] = p.Date
	return json.Marshal(flat)
}

// UnmarshalJSON restores a flattened point.
func (p *ChartPoint) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	p.Values = make(map[string]float64, len(flat))
	for k, raw := range flat {
		if k == "date" {
			if err := json.Unmarshal(raw, &p.Date); err != nil {
				return err
			}
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		p.Values[k] = v
	}
	return nil
}
