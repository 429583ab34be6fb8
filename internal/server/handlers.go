package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockInsight/internal/collector"
	"StockInsight/internal/engine"
	"StockInsight/internal/forecast"
	"StockInsight/internal/model"
)

const (
	defaultHistoryRange = "3mo"
	defaultDays         = 7
	historicalPoints    = 30
)

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Stock Insight API",
		"endpoints": gin.H{
			"/predict": "Forecast closing prices (bearer token required)",
			"/history": "Price history with technical indicators",
			"/health":  "Health check",
			"/metrics": "Prometheus metrics",
		},
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": s.timestamp(),
	})
}

func (s *Server) timestamp() string {
	return s.now().In(s.opts.Location).Format(time.RFC3339)
}

func (s *Server) history(c *gin.Context) {
	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		abort(c, http.StatusBadRequest, "symbol is required")
		return
	}
	rng := c.DefaultQuery("range", defaultHistoryRange)
	if !collector.ValidRange(rng) {
		abortf(c, http.StatusBadRequest, "invalid range %q (use 1mo, 3mo, 6mo, 1y, 2y or 5y)", rng)
		return
	}

	a, err := s.opts.Analyzer.Analyze(c.Request.Context(), symbol, rng)
	if err != nil {
		s.analyzeError(c, symbol, err)
		return
	}

	data := make([]model.HistoryBar, len(a.Bars))
	for i, b := range a.Bars {
		data[i] = model.HistoryBar{
			Date:   b.DateString(),
			Open:   engine.Round(b.Open),
			High:   engine.Round(b.High),
			Low:    engine.Round(b.Low),
			Close:  engine.Round(b.Close),
			Volume: b.Volume,
		}
	}
	c.JSON(http.StatusOK, model.HistoryResponse{
		Symbol:           symbol,
		Range:            rng,
		Data:             data,
		Indicators:       a.Chart,
		LatestIndicators: a.Latest,
	})
}

func (s *Server) predict(c *gin.Context) {
	ctx := c.Request.Context()
	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		abort(c, http.StatusBadRequest, "symbol is required")
		return
	}
	days := defaultDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > forecast.MaxDays {
			abortf(c, http.StatusBadRequest, "days must be an integer between 1 and %d", forecast.MaxDays)
			return
		}
		days = n
	}
	forceRefresh, err := parseBool(c.DefaultQuery("force_refresh", "false"))
	if err != nil {
		abort(c, http.StatusBadRequest, "force_refresh must be a boolean")
		return
	}

	user, _ := c.Get(userKey)
	log := s.logger.With(
		zap.String("request_id", c.GetString(requestIDHeader)),
		zap.String("user", user.(model.User).Email),
		zap.String("symbol", symbol),
		zap.Int("days", days))
	log.Info("predict", zap.Bool("force_refresh", forceRefresh))

	if forceRefresh {
		if err := s.opts.Cache.ClearSymbol(ctx, symbol, days); err != nil {
			log.Warn("cache clear failed", zap.Error(err))
		}
	} else {
		cached, ok, err := s.opts.Cache.Get(ctx, symbol, days)
		switch {
		case err != nil:
			s.opts.Metrics.CacheRequests.WithLabelValues("error").Inc()
			log.Warn("cache read failed", zap.Error(err))
		case ok:
			s.opts.Metrics.CacheRequests.WithLabelValues("hit").Inc()
			c.JSON(http.StatusOK, cached)
			return
		default:
			s.opts.Metrics.CacheRequests.WithLabelValues("miss").Inc()
		}
	}

	a, err := s.opts.Analyzer.Analyze(ctx, symbol, s.opts.ForecastRange)
	if err != nil {
		s.analyzeError(c, symbol, err)
		return
	}
	predictions, err := s.opts.Forecaster.Forecast(ctx, a.Bars, days)
	if err != nil {
		log.Error("forecast failed", zap.Error(err))
		if errors.Is(err, forecast.ErrInsufficientHistory) {
			abortf(c, http.StatusUnprocessableEntity, "not enough history to forecast %s", symbol)
			return
		}
		abortf(c, http.StatusInternalServerError, "prediction failed: %v", err)
		return
	}

	result := s.buildPrediction(symbol, days, a, predictions)
	if err := s.opts.Cache.Save(ctx, symbol, days, result); err != nil {
		log.Warn("cache save failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) buildPrediction(symbol string, days int, a *collector.Analysis, predictions []model.ForecastPoint) *model.PredictionResult {
	recent := a.Bars
	if len(recent) > historicalPoints {
		recent = recent[len(recent)-historicalPoints:]
	}
	historical := make([]model.HistoricalPoint, len(recent))
	for i, b := range recent {
		historical[i] = model.HistoricalPoint{
			Date:   b.DateString(),
			Actual: engine.Round(b.Close),
			Type:   "historical",
		}
	}
	last := a.LastBar()
	return &model.PredictionResult{
		Symbol:           symbol,
		Days:             days,
		CurrentPrice:     engine.Round(last.Close),
		LastUpdate:       last.DateString(),
		Historical:       historical,
		Predictions:      predictions,
		Indicators:       a.Chart,
		LatestIndicators: a.Latest,
		Timestamp:        s.timestamp(),
	}
}

func (s *Server) analyzeError(c *gin.Context, symbol string, err error) {
	switch {
	case errors.Is(err, collector.ErrNoData):
		abortf(c, http.StatusNotFound, "no data found for symbol %s", symbol)
	case errors.Is(err, collector.ErrInvalidRange):
		abort(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("analyze failed", zap.String("symbol", symbol), zap.Error(err))
		abortf(c, http.StatusInternalServerError, "failed to fetch history: %v", err)
	}
}

// normalizeSymbol upper-cases and trims, matching the cache key form.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// parseBool accepts the usual query-string spellings of a boolean.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off", "":
		return false, nil
	}
	return false, errors.New("not a boolean")
}
