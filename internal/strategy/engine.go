package strategy

import "StockInsight/internal/model"

// Tiers maps a total score to a label, highest first.
var Tiers = []struct {
	MinScore float64
	Label    string
}{
	{1.0, "Strongly favourable"},
	{0.4, "Favourable"},
	{-0.4, "Neutral"},
	{-1.0, "Unfavourable"},
}

// DefaultLabel is used for scores below every tier.
const DefaultLabel = "Strongly unfavourable"

// OverboughtRSI triggers the take-profit warning.
const OverboughtRSI = 85

func mapTier(totalScore float64) string {
	for _, t := range Tiers {
		if totalScore >= t.MinScore {
			return t.Label
		}
	}
	return DefaultLabel
}

// Evaluate scores the latest indicator values against the current price.
// Missing indicators contribute zero.
func Evaluate(latest model.LatestValues, price float64) *model.Outlook {
	factors := []model.FactorScore{
		scoreTrend(latest, price),
		scoreRSI(latest),
		scoreMACD(latest),
		scoreBandPosition(latest, price),
		scoreStochastic(latest),
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weighted
	}

	out := &model.Outlook{
		Factors:    factors,
		TotalScore: total,
		Label:      mapTier(total),
	}
	if rsi, ok := latest[model.RSI]; ok && rsi > OverboughtRSI {
		out.WarningMsg = "⚠️ RSI above 85: consider taking partial profit"
	}
	return out
}
