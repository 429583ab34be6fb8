package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"StockInsight/internal/cache"
	"StockInsight/internal/collector"
	"StockInsight/internal/engine"
	"StockInsight/internal/model"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

type failingAnalyzer struct {
	ok   Analyzer
	fail string
}

func (f failingAnalyzer) Analyze(ctx context.Context, symbol, rng string) (*collector.Analysis, error) {
	if symbol == f.fail {
		return nil, collector.ErrNoData
	}
	return f.ok.Analyze(ctx, symbol, rng)
}

func newAnalyzer() *collector.Collector {
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	return collector.NewCollector(&collector.MockFetcher{Price: 100, End: end}, engine.New(zap.NewNop(), nil), zap.NewNop(), nil)
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), newAnalyzer(), cache.NewNoopCache(), nil, []string{"AAPL"}, zap.NewNop())
	if err := s.RegisterAll("0 0 * * * *", "0 0 22 * * 1-5"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("expected only the sweep job without a notifier, got %d", n)
	}

	s = NewScheduler(context.Background(), newAnalyzer(), cache.NewNoopCache(), &fakeSender{}, []string{"AAPL"}, zap.NewNop())
	if err := s.RegisterAll("0 0 * * * *", "0 0 22 * * 1-5"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 2 {
		t.Errorf("expected sweep and digest jobs, got %d", n)
	}

	if err := s.RegisterAll("not a cron", "0 0 22 * * 1-5"); err == nil {
		t.Error("expected error for invalid cron spec")
	}
}

func TestDigestTask_PartialFailure(t *testing.T) {
	sender := &fakeSender{}
	an := failingAnalyzer{ok: newAnalyzer(), fail: "GONE"}
	s := NewScheduler(context.Background(), an, cache.NewNoopCache(), sender, []string{"AAPL", "GONE"}, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 6, 28, 22, 0, 0, 0, time.UTC) }

	s.digestTask()
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if !strings.Contains(msg, "<b>AAPL</b>") || !strings.Contains(msg, "GONE") {
		t.Errorf("digest should cover both symbols:\n%s", msg)
	}
}

func TestHandleCommand(t *testing.T) {
	s := NewScheduler(context.Background(), newAnalyzer(), cache.NewNoopCache(), nil, nil, zap.NewNop())
	ctx := context.Background()

	if got := s.HandleCommand(ctx, "/digest"); got != "Watchlist is empty." {
		t.Errorf("unexpected /digest reply %q", got)
	}
	if got := s.HandleCommand(ctx, "/snapshot"); !strings.HasPrefix(got, "Usage") {
		t.Errorf("unexpected bare /snapshot reply %q", got)
	}
	got := s.HandleCommand(ctx, "/snapshot NVDA")
	if !strings.Contains(got, "<b>NVDA</b>") || !strings.Contains(got, model.SMA20+":") {
		t.Errorf("unexpected snapshot:\n%s", got)
	}
	if got := s.HandleCommand(ctx, "/help"); !strings.Contains(got, "/snapshot SYMBOL") {
		t.Errorf("unexpected help reply %q", got)
	}
}

func TestSweepTask(t *testing.T) {
	now := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c, err := cache.NewSQLiteCache(filepath.Join(t.TempDir(), "c.db"), zap.NewNop(), cache.WithClock(clock), cache.WithTTL(time.Hour))
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()
	c.Save(ctx, "AAPL", 7, &model.PredictionResult{Symbol: "AAPL"})

	now = now.Add(2 * time.Hour)
	s := NewScheduler(ctx, newAnalyzer(), c, nil, nil, zap.NewNop())
	s.sweepTask()

	if n, _ := c.ClearExpired(ctx); n != 0 {
		t.Errorf("sweep should already have removed the entry, %d left", n)
	}
}

func TestRunDigestNow(t *testing.T) {
	sender := &fakeSender{}
	s := NewScheduler(context.Background(), newAnalyzer(), cache.NewNoopCache(), sender, nil, zap.NewNop())
	s.RunDigestNow()
	if len(sender.sent) != 0 {
		t.Fatalf("empty watchlist sent %d messages", len(sender.sent))
	}

	s.Watchlist = []string{"AAPL"}
	s.RunDigestNow()
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "AAPL") {
		t.Errorf("sent = %q", sender.sent)
	}
}
