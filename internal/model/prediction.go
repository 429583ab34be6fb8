package model

// HistoryBar is one raw OHLCV row as returned by /history.
type HistoryBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// HistoryResponse is the /history payload.
type HistoryResponse struct {
	Symbol           string       `json:"symbol"`
	Range            string       `json:"range"`
	Data             []HistoryBar `json:"data"`
	Indicators       []ChartPoint `json:"indicators"`
	LatestIndicators LatestValues `json:"latest_indicators"`
}

// HistoricalPoint is one actual close in a prediction payload.
type HistoricalPoint struct {
	Date   string  `json:"date"`
	Actual float64 `json:"actual"`
	Type   string  `json:"type"`
}

// ForecastPoint is one future estimate with its confidence bounds.
type ForecastPoint struct {
	Date      string  `json:"date"`
	Predicted float64 `json:"predicted"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Type      string  `json:"type"`
}

// PredictionResult is the /predict payload and the unit stored in the result cache.
type PredictionResult struct {
	Symbol           string            `json:"symbol"`
	Days             int               `json:"days"`
	CurrentPrice     float64           `json:"current_price"`
	LastUpdate       string            `json:"last_update"`
	Historical       []HistoricalPoint `json:"historical"`
	Predictions      []ForecastPoint   `json:"predictions"`
	Indicators       []ChartPoint      `json:"indicators"`
	LatestIndicators LatestValues      `json:"latest_indicators"`
	Timestamp        string            `json:"timestamp"`
}

// User is the authenticated caller extracted from a verified token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
