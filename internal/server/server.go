package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockInsight/internal/auth"
	"StockInsight/internal/cache"
	"StockInsight/internal/collector"
	"StockInsight/internal/forecast"
	"StockInsight/internal/metrics"
)

// Analyzer fetches a symbol's history and computes its indicators.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, rng string) (*collector.Analysis, error)
}

// Options configures a Server. Every field except Logger and Metrics is required.
type Options struct {
	Analyzer       Analyzer
	Forecaster     forecast.Forecaster
	Cache          cache.Cache
	Verifier       *auth.Verifier
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	Location       *time.Location
	AllowedOrigins []string
	ForecastRange  string
}

// Server is the HTTP API.
type Server struct {
	router *gin.Engine
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// New builds the router with all middleware and routes registered.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ForecastRange == "" {
		opts.ForecastRange = "6mo"
	}

	router := gin.New()
	s := &Server{
		router: router,
		opts:   opts,
		logger: opts.Logger.Named("http"),
		now:    time.Now,
	}
	router.Use(
		s.recovery(),
		requestID(),
		s.accessLog(),
		cors(opts.AllowedOrigins),
		s.countRequests(),
	)
	s.registerRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.root)
	s.router.GET("/health", s.health)
	s.router.GET("/history", s.history)
	s.router.GET("/predict", s.requireUser(), s.predict)
	s.router.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))
}
