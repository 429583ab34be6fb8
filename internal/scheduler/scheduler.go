package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockInsight/internal/cache"
	"StockInsight/internal/collector"
	"StockInsight/internal/notifier"
)

// DigestRange is the history window analyzed for digests and snapshots.
const DigestRange = "3mo"

// Analyzer is the part of the collector the scheduler needs.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, rng string) (*collector.Analysis, error)
}

// Sender delivers a notification with retries.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Analyzer
	Cache     cache.Cache
	Notifier  Sender // nil disables the digest
	Watchlist []string
	Ctx       context.Context

	now    func() time.Time
	logger *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, an Analyzer, c cache.Cache, n Sender, watchlist []string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  an,
		Cache:     c,
		Notifier:  n,
		Watchlist: watchlist,
		Ctx:       ctx,
		now:       time.Now,
		logger:    logger.Named("scheduler"),
	}
}

// RegisterAll registers the cache sweep and, when a notifier and a
// watchlist are configured, the digest job.
func (s *Scheduler) RegisterAll(sweepCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(sweepCron, s.sweepTask); err != nil {
		return fmt.Errorf("register cache sweep: %w", err)
	}
	if s.Notifier == nil || len(s.Watchlist) == 0 {
		s.logger.Info("digest disabled", zap.Bool("notifier", s.Notifier != nil), zap.Int("watchlist", len(s.Watchlist)))
		return nil
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) sweepTask() {
	n, err := s.Cache.ClearExpired(s.Ctx)
	if err != nil {
		s.logger.Error("cache sweep", zap.Error(err))
		return
	}
	s.logger.Debug("cache sweep", zap.Int64("removed", n))
}

func (s *Scheduler) digestTask() {
	s.trySend(s.BuildDigest(s.Ctx))
}

// RunDigestNow builds and sends the digest immediately.
func (s *Scheduler) RunDigestNow() {
	if s.Notifier == nil || len(s.Watchlist) == 0 {
		return
	}
	s.digestTask()
}

// BuildDigest analyzes every watchlist symbol and formats the digest.
// A symbol that fails is reported in place and does not stop the rest.
func (s *Scheduler) BuildDigest(ctx context.Context) string {
	entries := make([]notifier.DigestEntry, 0, len(s.Watchlist))
	for _, sym := range s.Watchlist {
		a, err := s.Analyzer.Analyze(ctx, sym, DigestRange)
		if err != nil {
			s.logger.Warn("digest analyze failed", zap.String("symbol", sym), zap.Error(err))
		}
		entries = append(entries, notifier.DigestEntry{Symbol: sym, Analysis: a, Err: err})
	}
	return notifier.FormatDigest(s.now(), entries)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/digest":
		if len(s.Watchlist) == 0 {
			return "Watchlist is empty."
		}
		return s.BuildDigest(ctx)
	case "/snapshot":
		if len(fields) < 2 {
			return "Usage: /snapshot SYMBOL"
		}
		a, err := s.Analyzer.Analyze(ctx, fields[1], DigestRange)
		if err != nil {
			return fmt.Sprintf("❌ %s: %v", fields[1], err)
		}
		return notifier.FormatSnapshot(a)
	default:
		return "Available commands:\n• /digest\n• /snapshot SYMBOL"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
