package model

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string
	RawScore   float64
	Weight     float64
	Weighted   float64
	Commentary string
}

// Outlook is the weighted technical reading of a symbol's latest
// indicators. Positive scores favour accumulating, negative ones waiting.
type Outlook struct {
	Factors    []FactorScore
	TotalScore float64
	Label      string
	WarningMsg string
}
