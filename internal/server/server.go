// Package server wires configuration into the running service: upstream
// client, sync orchestrator, HTTP API, and telemetry.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/steve-piece/ncaa-bracket-challenge/internal/apicache"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/bracket"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/completed"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/config"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/gameids"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/httpapi"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/logging"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/metrics"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/providers/sportradar"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/ratelimit"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/reconcile"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/schedule"
	"github.com/steve-piece/ncaa-bracket-challenge/internal/syncer"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	orchestrator  *syncer.Orchestrator
	httpServer    *http.Server
	metricsServer *http.Server
	metricsStop   func(context.Context) error
}

// New constructs a server with default component wiring.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	cache := apicache.New()
	limiter := ratelimit.New(ratelimit.Config{
		MaxPerSecond: cfg.RateLimit.MaxCallsPerSecond,
		MaxPerMinute: cfg.RateLimit.MaxCallsPerMinute,
		BaseBackoff:  cfg.RateLimit.BaseBackoff,
		MaxWaits:     cfg.RateLimit.MaxWaits,
	}, logger)

	client := sportradar.NewClient(sportradar.Config{
		BaseURL:     cfg.Sportradar.BaseURL,
		APIKey:      cfg.Sportradar.APIKey,
		Placeholder: cfg.Sportradar.Placeholder,
		HTTPTimeout: cfg.Sportradar.HTTPTimeout,
		Cache:       cache,
		Limiter:     limiter,
		TTL: sportradar.TTLs{
			GameData:       cfg.CacheTTL.GameData,
			ConnectionTest: cfg.CacheTTL.ConnectionTest,
			DailySchedule:  cfg.CacheTTL.DailySchedule,
		},
		Logger:  logger,
		Metrics: recorder,
	})

	store := completed.NewStore(cfg.CompletedGamesPath, logger)
	mapping := loadMapping(cfg, logger)

	dataDir := cfg.BracketDataDir
	if dataDir == "" {
		dataDir = defaultBracketDataDir
	}

	orchestrator, err := syncer.New(syncer.Config{
		Bracket:    bracket.NewFSProvider(dataDir),
		GameIDs:    mapping,
		Source:     client,
		Completed:  store,
		Classifier: schedule.New(logger),
		Mapper:     reconcile.NewMapper(nil, logger),
		Metrics:    recorder,
		Logger:     logger,
		ForceMock:  cfg.ForceMock,
	})
	if err != nil {
		return nil, err
	}

	// Ready once we can serve scores: either a live credential or mock mode.
	readyFn := func() error {
		if cfg.ForceMock || client.Configured() {
			return nil
		}
		return errors.New("no upstream credential configured and mock mode disabled")
	}

	handler := httpapi.NewHandler(orchestrator, logger, readyFn)
	router := httpapi.NewRouter(handler, logger, recorder)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		orchestrator:  orchestrator,
		httpServer:    srv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}, nil
}

func loadMapping(cfg config.Config, logger *slog.Logger) gameids.Mapping {
	if cfg.GameIDMappingPath == "" {
		return gameids.Builtin()
	}
	mapping, err := gameids.LoadFile(cfg.GameIDMappingPath)
	if err != nil {
		logging.Warn(logger, "could not load game id mapping, using builtin table",
			"path", cfg.GameIDMappingPath, "error", err)
		return gameids.Builtin()
	}
	logging.Info(logger, "loaded game id mapping",
		"path", cfg.GameIDMappingPath, slog.Int(logging.FieldCount, mapping.Len()))
	return mapping
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, *http.Server, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv *http.Server
	if handler != nil && recCfg.Enabled {
		metricsSrv = &http.Server{
			Addr:    ":" + recCfg.Port,
			Handler: handler,
		}
	}

	return rec, metricsSrv, shutdown
}

// Run starts the HTTP and metrics servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func launchServer(name string, srv *http.Server, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler, useful for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
