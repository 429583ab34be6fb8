package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockInsight/internal/model"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes ...float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func barsHLC(rows ...[3]float64) []model.Bar {
	bars := make([]model.Bar, len(rows))
	for i, r := range rows {
		bars[i] = model.Bar{
			Date:   day0.AddDate(0, 0, i),
			Open:   r[2],
			High:   r[0],
			Low:    r[1],
			Close:  r[2],
			Volume: 1000,
		}
	}
	return bars
}

func assertClose(t *testing.T, label string, got model.Sample, want float64) {
	t.Helper()
	if !got.Defined {
		t.Errorf("%s: expected %.6f, got undefined", label, want)
		return
	}
	if math.Abs(got.Value-want) > 1e-9 {
		t.Errorf("%s: expected %.6f, got %.6f", label, want, got.Value)
	}
}

func assertUndefined(t *testing.T, label string, got model.Sample) {
	t.Helper()
	if got.Defined {
		t.Errorf("%s: expected undefined, got %.6f", label, got.Value)
	}
}

func TestSMA_FiveCloses(t *testing.T) {
	s, err := SMA(barsFromCloses(10, 11, 12, 11, 10), 3)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	if len(s) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(s))
	}
	assertUndefined(t, "sma[0]", s[0])
	assertUndefined(t, "sma[1]", s[1])
	assertClose(t, "sma[2]", s[2], 11)
	assertClose(t, "sma[3]", s[3], 34.0/3)
	assertClose(t, "sma[4]", s[4], 11)
}

func TestSMA_ShorterThanPeriod(t *testing.T) {
	s, err := SMA(barsFromCloses(1, 2, 3, 4, 5), 20)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	if len(s) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(s))
	}
	for _, v := range s {
		assertUndefined(t, "sma", v)
	}
}

func TestSMA_InvalidPeriod(t *testing.T) {
	if _, err := SMA(barsFromCloses(1, 2, 3), 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestEMA_SeedAndRecurrence(t *testing.T) {
	closes := []float64{10, 12, 11, 15, 14, 13}
	s, err := EMA(barsFromCloses(closes...), 3)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	assertClose(t, "ema[0]", s[0], 10)
	alpha := 2.0 / 4.0
	for i := 1; i < len(closes); i++ {
		want := alpha*closes[i] + (1-alpha)*s[i-1].Value
		assertClose(t, "ema recurrence", s[i], want)
	}
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		check  func(t *testing.T, s model.Series)
	}{
		{
			name:   "mixed window",
			closes: []float64{10, 12, 11, 13},
			period: 2,
			check: func(t *testing.T, s model.Series) {
				assertUndefined(t, "rsi[0]", s[0])
				assertUndefined(t, "rsi[1]", s[1])
				assertClose(t, "rsi[2]", s[2], 100-100/3.0)
				assertClose(t, "rsi[3]", s[3], 100-100/3.0)
			},
		},
		{
			name:   "only gains",
			closes: []float64{1, 2, 3, 4, 5, 6},
			period: 3,
			check: func(t *testing.T, s model.Series) {
				assertUndefined(t, "rsi[2]", s[2])
				for i := 3; i < len(s); i++ {
					assertClose(t, "rsi", s[i], 100)
				}
			},
		},
		{
			name:   "only losses",
			closes: []float64{6, 5, 4, 3},
			period: 2,
			check: func(t *testing.T, s model.Series) {
				assertClose(t, "rsi[3]", s[3], 0)
			},
		},
		{
			name:   "flat",
			closes: []float64{5, 5, 5, 5, 5},
			period: 2,
			check: func(t *testing.T, s model.Series) {
				for _, v := range s {
					assertUndefined(t, "rsi", v)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := RSI(barsFromCloses(tt.closes...), tt.period)
			if err != nil {
				t.Fatalf("RSI: %v", err)
			}
			if len(s) != len(tt.closes) {
				t.Fatalf("expected %d samples, got %d", len(tt.closes), len(s))
			}
			tt.check(t, s)
		})
	}
}

func TestRSI_Bounded(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3)
	}
	s, err := RSI(barsFromCloses(closes...), 14)
	if err != nil {
		t.Fatalf("RSI: %v", err)
	}
	for i, v := range s {
		if v.Defined && (v.Value < 0 || v.Value > 100) {
			t.Errorf("rsi[%d] = %.4f outside [0,100]", i, v.Value)
		}
	}
}

func TestMACD_HistogramIdentity(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 50 + float64(i%7) - float64(i%3)
	}
	res, err := MACD(barsFromCloses(closes...), 12, 26, 9)
	if err != nil {
		t.Fatalf("MACD: %v", err)
	}
	for i := range closes {
		assertClose(t, "histogram", res.Histogram[i], res.MACD[i].Value-res.Signal[i].Value)
	}
	assertClose(t, "macd[0]", res.MACD[0], 0)
}

func TestBollinger(t *testing.T) {
	res, err := Bollinger(barsFromCloses(1, 2, 3), 3, 2)
	if err != nil {
		t.Fatalf("Bollinger: %v", err)
	}
	assertUndefined(t, "upper[1]", res.Upper[1])
	assertClose(t, "middle[2]", res.Middle[2], 2)
	assertClose(t, "upper[2]", res.Upper[2], 4)
	assertClose(t, "lower[2]", res.Lower[2], 0)
}

func constantBars(n int, price float64) []model.Bar {
	rows := make([][3]float64, n)
	for i := range rows {
		rows[i] = [3]float64{price, price, price}
	}
	return barsHLC(rows...)
}

func TestBollinger_ConstantCollapses(t *testing.T) {
	for _, price := range []float64{42.1, 0.1, 0.3, 100.1, 187.33, 9999.99} {
		res, err := Bollinger(constantBars(60, price), 20, 2)
		if err != nil {
			t.Fatalf("Bollinger: %v", err)
		}
		for i := 19; i < 60; i++ {
			if res.Middle[i].Value != price || res.Upper[i].Value != price || res.Lower[i].Value != price {
				t.Errorf("price %v: bands at %d should collapse, got %v/%v/%v",
					price, i, res.Upper[i].Value, res.Middle[i].Value, res.Lower[i].Value)
			}
		}
	}
}

func TestStochasticAndWilliams(t *testing.T) {
	bars := barsHLC([3]float64{3, 1, 2}, [3]float64{4, 2, 3}, [3]float64{5, 3, 4}, [3]float64{5, 3, 3})
	st, err := Stochastic(bars, 3, 2)
	if err != nil {
		t.Fatalf("Stochastic: %v", err)
	}
	assertUndefined(t, "k[1]", st.K[1])
	assertClose(t, "k[2]", st.K[2], 75)
	assertClose(t, "k[3]", st.K[3], 100.0/3)
	assertUndefined(t, "d[2]", st.D[2])
	assertClose(t, "d[3]", st.D[3], (75+100.0/3)/2)

	wr, err := WilliamsR(bars, 3)
	if err != nil {
		t.Fatalf("WilliamsR: %v", err)
	}
	assertClose(t, "wr[2]", wr[2], -25)
}

func TestStochastic_ZeroRange(t *testing.T) {
	bars := barsHLC([3]float64{10, 10, 10}, [3]float64{10, 10, 10}, [3]float64{10, 10, 10}, [3]float64{12, 10, 11})
	st, err := Stochastic(bars, 3, 2)
	if err != nil {
		t.Fatalf("Stochastic: %v", err)
	}
	assertUndefined(t, "k[2]", st.K[2])
	assertClose(t, "k[3]", st.K[3], 50)
	assertUndefined(t, "d[3]", st.D[3])

	wr, _ := WilliamsR(bars, 3)
	assertUndefined(t, "wr[2]", wr[2])
}

func TestATR(t *testing.T) {
	bars := barsHLC([3]float64{10, 8, 9}, [3]float64{15, 14, 14.5}, [3]float64{15, 13, 14})
	s, err := ATR(bars, 2)
	if err != nil {
		t.Fatalf("ATR: %v", err)
	}
	assertUndefined(t, "atr[0]", s[0])
	assertClose(t, "atr[1]", s[1], 4)
	assertClose(t, "atr[2]", s[2], 4)
}

func TestOBV(t *testing.T) {
	bars := barsFromCloses(10, 11, 10, 10, 12)
	for i, v := range []int64{100, 200, 300, 400, 500} {
		bars[i].Volume = v
	}
	s, err := OBV(bars)
	if err != nil {
		t.Fatalf("OBV: %v", err)
	}
	want := []float64{0, 200, -100, -100, 400}
	for i, w := range want {
		assertClose(t, "obv", s[i], w)
	}
}

func TestOBV_RisingClosesNeverDecrease(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 10.1 + float64(i)*0.37
	}
	bars := barsFromCloses(closes...)
	for i := range bars {
		bars[i].Volume = int64(500 + 13*i)
	}
	s, err := OBV(bars)
	if err != nil {
		t.Fatalf("OBV: %v", err)
	}
	assertClose(t, "obv[0]", s[0], 0)
	for i := 1; i < len(s); i++ {
		if !s[i].Defined || s[i].Value < s[i-1].Value {
			t.Errorf("obv[%d] = %+v fell below obv[%d] = %+v", i, s[i], i-1, s[i-1])
		}
	}
}

func TestVWAP_ZeroVolumePrefix(t *testing.T) {
	bars := barsHLC([3]float64{10, 10, 10}, [3]float64{20, 20, 20}, [3]float64{30, 30, 30})
	bars[0].Volume, bars[1].Volume, bars[2].Volume = 0, 1, 3
	s, err := VWAP(bars)
	if err != nil {
		t.Fatalf("VWAP: %v", err)
	}
	assertUndefined(t, "vwap[0]", s[0])
	assertClose(t, "vwap[1]", s[1], 20)
	assertClose(t, "vwap[2]", s[2], 27.5)
}

func TestCCI(t *testing.T) {
	bars := barsHLC([3]float64{1, 1, 1}, [3]float64{2, 2, 2}, [3]float64{3, 3, 3}, [3]float64{3, 3, 3})
	s, err := CCI(bars, 3)
	if err != nil {
		t.Fatalf("CCI: %v", err)
	}
	assertUndefined(t, "cci[1]", s[1])
	if !s[2].Defined || math.Abs(s[2].Value-100) > 1e-6 {
		t.Errorf("cci[2]: expected 100, got %+v", s[2])
	}

	for _, price := range []float64{5, 42.1, 0.1, 100.1, 187.33, 9999.99} {
		flat, err := CCI(constantBars(60, price), 20)
		if err != nil {
			t.Fatalf("CCI: %v", err)
		}
		for i, v := range flat {
			if v.Defined {
				t.Errorf("flat %v: cci[%d] = %v, want undefined", price, i, v.Value)
			}
		}
	}
}

func TestADX_TrendWarmup(t *testing.T) {
	rows := make([][3]float64, 10)
	for i := range rows {
		f := float64(i)
		rows[i] = [3]float64{f + 2, f, f + 1}
	}
	s, err := ADX(barsHLC(rows...), 3)
	if err != nil {
		t.Fatalf("ADX: %v", err)
	}
	for i := 0; i < 4; i++ {
		assertUndefined(t, "adx warmup", s[i])
	}
	for i := 4; i < len(s); i++ {
		assertClose(t, "adx", s[i], 100)
	}
}

func TestMalformedColumnsAreIsolated(t *testing.T) {
	bars := barsFromCloses(1, 2, 3, 4, 5)
	bars[2].High = math.NaN()

	if _, err := ATR(bars, 2); !errors.Is(err, ErrMalformed) {
		t.Errorf("ATR: expected ErrMalformed, got %v", err)
	}
	if _, err := SMA(bars, 2); err != nil {
		t.Errorf("SMA should not read highs, got %v", err)
	}

	bars = barsFromCloses(1, 2, 3)
	bars[1].Volume = -5
	if _, err := OBV(bars); !errors.Is(err, ErrMalformed) {
		t.Errorf("OBV: expected ErrMalformed, got %v", err)
	}
	if _, err := RSI(bars, 1); err != nil {
		t.Errorf("RSI should not read volume, got %v", err)
	}
}

func TestEmptyInput(t *testing.T) {
	if s, err := SMA(nil, 20); err != nil || len(s) != 0 {
		t.Errorf("SMA(nil): len=%d err=%v", len(s), err)
	}
	if s, err := ADX(nil, 14); err != nil || len(s) != 0 {
		t.Errorf("ADX(nil): len=%d err=%v", len(s), err)
	}
	if s, err := VWAP(nil); err != nil || len(s) != 0 {
		t.Errorf("VWAP(nil): len=%d err=%v", len(s), err)
	}
}
