package strategy

import (
	"fmt"

	"StockInsight/internal/model"
)

func factor(name string, score, weight float64, commentary string) model.FactorScore {
	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: commentary,
	}
}

// scoreTrend scores moving-average alignment, strengthened by ADX.
// Weight: 0.30
// Bull alignment: price > SMA20 > SMA50
// Bear alignment: price < SMA20 < SMA50
func scoreTrend(latest model.LatestValues, price float64) model.FactorScore {
	const name, weight = "Trend", 0.30
	sma20, ok20 := latest[model.SMA20]
	sma50, ok50 := latest[model.SMA50]
	if !ok20 || !ok50 {
		return factor(name, 0, weight, "moving averages unavailable")
	}
	adx, okADX := latest[model.ADX]
	strong := okADX && adx >= 25

	bullish := price > sma20 && sma20 > sma50
	bearish := price < sma20 && sma20 < sma50

	switch {
	case bullish && strong:
		return factor(name, 1.5, weight, fmt.Sprintf("bull alignment, ADX %.0f", adx))
	case bullish:
		return factor(name, 1.0, weight, "bull alignment")
	case bearish && strong:
		return factor(name, -1.5, weight, fmt.Sprintf("bear alignment, ADX %.0f", adx))
	case bearish:
		return factor(name, -1.0, weight, "bear alignment")
	default:
		return factor(name, 0, weight, "range-bound")
	}
}

// scoreRSI scores the daily RSI(14), favouring oversold readings.
// Weight: 0.25
func scoreRSI(latest model.LatestValues) model.FactorScore {
	const name, weight = "RSI", 0.25
	rsi, ok := latest[model.RSI]
	if !ok {
		return factor(name, 0, weight, "RSI unavailable")
	}
	var score float64
	switch {
	case rsi <= 25:
		score = 2.0
	case rsi <= 30:
		score = 1.5
	case rsi <= 40:
		score = 1.0
	case rsi <= 45:
		score = 0.5
	case rsi <= 55:
		score = 0
	case rsi <= 60:
		score = -0.5
	case rsi <= 70:
		score = -1.0
	case rsi <= 80:
		score = -1.5
	default:
		score = -2.0
	}
	return factor(name, score, weight, fmt.Sprintf("RSI=%.0f", rsi))
}

// scoreMACD scores the MACD line and histogram.
// Weight: 0.20
func scoreMACD(latest model.LatestValues) model.FactorScore {
	const name, weight = "MACD", 0.20
	macd, okM := latest[model.MACD]
	hist, okH := latest[model.MACDHistogram]
	if !okM || !okH {
		return factor(name, 0, weight, "MACD unavailable")
	}
	switch {
	case hist > 0 && macd > 0:
		return factor(name, 1.0, weight, "above signal, positive")
	case hist > 0:
		return factor(name, 0.5, weight, "turning up")
	case hist < 0 && macd < 0:
		return factor(name, -1.0, weight, "below signal, negative")
	case hist < 0:
		return factor(name, -0.5, weight, "turning down")
	default:
		return factor(name, 0, weight, "flat")
	}
}

// scoreBandPosition scores where the price sits inside the Bollinger bands.
// Weight: 0.15
func scoreBandPosition(latest model.LatestValues, price float64) model.FactorScore {
	const name, weight = "Bollinger", 0.15
	upper, okU := latest[model.BBUpper]
	lower, okL := latest[model.BBLower]
	if !okU || !okL || upper == lower {
		return factor(name, 0, weight, "bands unavailable")
	}
	pos := (price - lower) / (upper - lower) * 100

	var score float64
	switch {
	case pos <= 0:
		score = 2.0
	case pos <= 20:
		score = 1.0
	case pos < 80:
		score = 0
	case pos < 100:
		score = -1.0
	default:
		score = -2.0
	}
	return factor(name, score, weight, fmt.Sprintf("%%B=%.0f%%", pos))
}

// scoreStochastic scores %K extremes.
// Weight: 0.10
func scoreStochastic(latest model.LatestValues) model.FactorScore {
	const name, weight = "Stochastic", 0.10
	k, ok := latest[model.StochK]
	if !ok {
		return factor(name, 0, weight, "%K unavailable")
	}
	switch {
	case k <= 20:
		return factor(name, 1.0, weight, fmt.Sprintf("%%K=%.0f oversold", k))
	case k >= 80:
		return factor(name, -1.0, weight, fmt.Sprintf("%%K=%.0f overbought", k))
	default:
		return factor(name, 0, weight, fmt.Sprintf("%%K=%.0f", k))
	}
}
