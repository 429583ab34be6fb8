package model

import "time"

// DateLayout is the calendar-date format used on every output boundary.
const DateLayout = "2006-01-02"

// Bar represents a single daily candlestick.
type Bar struct {
	Date   time.Time // calendar date, UTC midnight
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// DateString renders the bar date as YYYY-MM-DD.
func (b Bar) DateString() string {
	return b.Date.Format(DateLayout)
}

// CalendarDate truncates t to its calendar date in t's own location and
// returns it as UTC midnight.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PriceSeries holds the raw daily history for one symbol.
type PriceSeries struct {
	Symbol    string
	Bars      []Bar
	FetchedAt time.Time
}
