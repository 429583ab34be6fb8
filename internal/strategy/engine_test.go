package strategy

import (
	"math"
	"testing"

	"StockInsight/internal/model"
)

func TestEvaluate_NeutralMarket(t *testing.T) {
	latest := model.LatestValues{
		model.SMA20: 100, model.SMA50: 100, model.RSI: 50,
		model.MACD: 0.1, model.MACDHistogram: 0,
		model.BBUpper: 110, model.BBLower: 90, model.StochK: 50,
	}
	o := Evaluate(latest, 100)
	if len(o.Factors) != 5 {
		t.Fatalf("expected 5 factors, got %d", len(o.Factors))
	}
	if o.TotalScore != 0 || o.Label != "Neutral" {
		t.Errorf("score=%.3f label=%q", o.TotalScore, o.Label)
	}
	if o.WarningMsg != "" {
		t.Errorf("unexpected warning: %s", o.WarningMsg)
	}
}

func TestEvaluate_Oversold(t *testing.T) {
	latest := model.LatestValues{
		model.SMA20: 95, model.SMA50: 100, model.ADX: 20, model.RSI: 22,
		model.MACD: -1, model.MACDHistogram: 0.2,
		model.BBUpper: 100, model.BBLower: 90, model.StochK: 10,
	}
	o := Evaluate(latest, 88)
	// trend -1.0*0.30 + rsi 2.0*0.25 + macd 0.5*0.20 + band 2.0*0.15 + stoch 1.0*0.10
	want := -0.30 + 0.50 + 0.10 + 0.30 + 0.10
	if math.Abs(o.TotalScore-want) > 1e-9 {
		t.Errorf("score = %.4f, want %.4f", o.TotalScore, want)
	}
	if o.Label != "Favourable" {
		t.Errorf("label = %q", o.Label)
	}
}

func TestEvaluate_Overbought(t *testing.T) {
	latest := model.LatestValues{
		model.SMA20: 105, model.SMA50: 100, model.ADX: 40, model.RSI: 90,
		model.MACD: 2, model.MACDHistogram: -0.3,
		model.BBUpper: 110, model.BBLower: 100, model.StochK: 95,
	}
	o := Evaluate(latest, 112)
	if o.TotalScore > -0.4 {
		t.Errorf("expected a negative reading, got %.3f", o.TotalScore)
	}
	if o.WarningMsg == "" {
		t.Error("expected take-profit warning for RSI > 85")
	}
}

func TestEvaluate_MissingIndicators(t *testing.T) {
	o := Evaluate(model.LatestValues{}, 100)
	if o.TotalScore != 0 || o.Label != "Neutral" {
		t.Errorf("score=%.3f label=%q", o.TotalScore, o.Label)
	}
	for _, f := range o.Factors {
		if f.Commentary == "" {
			t.Errorf("factor %s has no commentary", f.Name)
		}
	}
}

func TestScoreTrend(t *testing.T) {
	tests := []struct {
		name   string
		latest model.LatestValues
		price  float64
		want   float64
	}{
		{"strong bull", model.LatestValues{model.SMA20: 105, model.SMA50: 100, model.ADX: 30}, 110, 1.5},
		{"bull", model.LatestValues{model.SMA20: 105, model.SMA50: 100}, 110, 1.0},
		{"strong bear", model.LatestValues{model.SMA20: 95, model.SMA50: 100, model.ADX: 30}, 90, -1.5},
		{"bear", model.LatestValues{model.SMA20: 95, model.SMA50: 100, model.ADX: 10}, 90, -1.0},
		{"mixed", model.LatestValues{model.SMA20: 105, model.SMA50: 100}, 100, 0},
		{"no sma_50", model.LatestValues{model.SMA20: 105}, 110, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreTrend(tt.latest, tt.price).RawScore; got != tt.want {
				t.Errorf("RawScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreBandPosition(t *testing.T) {
	latest := model.LatestValues{model.BBUpper: 110, model.BBLower: 90}
	for price, want := range map[float64]float64{85: 2, 92: 1, 100: 0, 108: -1, 115: -2} {
		if got := scoreBandPosition(latest, price).RawScore; got != want {
			t.Errorf("price %v: RawScore = %v, want %v", price, got, want)
		}
	}
	flat := model.LatestValues{model.BBUpper: 100, model.BBLower: 100}
	if got := scoreBandPosition(flat, 100).RawScore; got != 0 {
		t.Errorf("collapsed bands scored %v", got)
	}
}

func TestMapTier(t *testing.T) {
	for score, want := range map[float64]string{
		1.2: "Strongly favourable", 0.5: "Favourable", 0: "Neutral", -0.7: "Unfavourable", -1.4: DefaultLabel,
	} {
		if got := mapTier(score); got != want {
			t.Errorf("mapTier(%v) = %q, want %q", score, got, want)
		}
	}
}
