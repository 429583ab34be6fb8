package collector

import (
	"context"
	"time"

	"StockInsight/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64     // base price for generated bars
	Bars  []model.Bar // returned as-is when set
	Err   error
	End   time.Time // last generated date; zero means today
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, _ string, rng string) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now()
	}
	return generateMockBars(m.Price, RangeBars(rng), model.CalendarDate(end)), nil
}

func generateMockBars(basePrice float64, count int, end time.Time) []model.Bar {
	if basePrice == 0 {
		basePrice = 100
	}
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		if i%3 == 0 {
			p *= 0.997
		}
		bars[i] = model.Bar{
			Date:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + int64(i%5)*25000,
		}
	}
	return bars
}
