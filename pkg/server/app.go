package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	domrepo "SIPScope/internal/domain/repository"
	"SIPScope/internal/handler/api"
	"SIPScope/internal/usecase"
	"SIPScope/pkg/cache"
	"SIPScope/pkg/config"
	xhttp "SIPScope/pkg/http"
	applogger "SIPScope/pkg/logger"
)

// App encapsulates the application lifecycle: one batch analysis run,
// optional persistence and publishing, then an optional serving phase.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	pipeline *usecase.Pipeline
	source   domrepo.SeriesSource
	svc      *usecase.AnalysisService

	sink      domrepo.TableSink
	store     domrepo.ResultStore
	publisher domrepo.Publisher

	httpServer *xhttp.Server
	respCache  cache.Service
}

// New creates a new App instance with its required dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	pipeline *usecase.Pipeline,
	source domrepo.SeriesSource,
	svc *usecase.AnalysisService,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		pipeline: pipeline,
		source:   source,
		svc:      svc,
	}
}

// SetTableSink injects the tabular file writer.
func (a *App) SetTableSink(s domrepo.TableSink) { a.sink = s }

// SetResultStore injects durable storage.
func (a *App) SetResultStore(s domrepo.ResultStore) { a.store = s }

// SetPublisher injects the rankings publisher.
func (a *App) SetPublisher(p domrepo.Publisher) { a.publisher = p }

// Run executes the batch analysis, then serves the result over HTTP if
// serving is enabled. It blocks until the work is done or a shutdown
// signal arrives.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.runBatch(ctx); err != nil {
		return err
	}

	if !a.cfg.Server.Enabled {
		a.log.Info("serving disabled, exiting after batch")
		return a.shutdown(context.Background())
	}

	a.startServer()
	<-ctx.Done()

	a.log.Info("shutdown signal received")
	return a.shutdown(context.Background())
}

// runBatch loads the series, runs the pipeline and fans the finished
// analysis out to every configured destination.
func (a *App) runBatch(ctx context.Context) error {
	series, err := a.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	a.log.Info("series loaded",
		applogger.String("symbol", series.Symbol),
		applogger.Int("bars", series.Len()),
	)

	analysis, err := a.pipeline.Run(ctx, series)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	a.svc.Set(analysis)

	if a.sink != nil && a.cfg.Output.Enabled {
		if err := a.sink.Write(ctx, analysis); err != nil {
			return fmt.Errorf("write tables: %w", err)
		}
		a.log.Info("ranking tables written", applogger.String("dir", a.cfg.Output.Dir))
	}

	if a.store != nil {
		if err := a.store.Init(ctx); err != nil {
			return fmt.Errorf("store init: %w", err)
		}
		if err := a.store.StoreDerived(ctx, analysis); err != nil {
			return fmt.Errorf("store derived: %w", err)
		}
		if err := a.store.StoreRankings(ctx, analysis); err != nil {
			return fmt.Errorf("store rankings: %w", err)
		}
		a.log.Info("analysis persisted", applogger.Int("rows", len(analysis.Records)))
	}

	if a.publisher != nil {
		if err := a.publisher.PublishRankings(ctx, analysis); err != nil {
			// Publishing is best effort; the analysis itself succeeded.
			a.log.Warn("publish rankings failed", applogger.Error(err))
		} else {
			a.log.Info("rankings published", applogger.String("topic", a.cfg.Kafka.Topic))
		}
	}

	return nil
}

// startServer wires the API handler with its response cache and starts
// the HTTP server.
func (a *App) startServer() {
	a.respCache = a.buildCache()

	handler := api.NewRankingsEchoHandler(a.log, a.svc)
	if a.respCache != nil {
		handler.SetCache(a.respCache)
	}

	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
	}
}

func (a *App) buildCache() cache.Service {
	if a.cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisAddr(a.cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(a.cfg.Cache.Redis.Password),
			cache.WithRedisDB(a.cfg.Cache.Redis.DB),
		)
		if err != nil {
			a.log.Warn("redis unavailable, falling back to memory cache", applogger.Error(err))
			return cache.NewMemoryCache()
		}
		return c
	}
	return cache.NewMemoryCache()
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.respCache != nil {
		if err := a.respCache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("store close error", applogger.Error(err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
