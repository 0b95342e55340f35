// cmd/worker-manager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"visa-workers/internal/common/camunda"
	"visa-workers/internal/common/config"
	"visa-workers/internal/common/database"
	"visa-workers/internal/common/logger"
	"visa-workers/internal/common/observability"
	"visa-workers/internal/visa"

	rs "visa-workers/internal/workers/schedule/reduce-schedule"
	ev "visa-workers/internal/workers/visa/evaluate-visa-compatibility"
	lc "visa-workers/internal/workers/visa/list-visa-catalog"
	mc "visa-workers/internal/workers/visa/match-visa-candidates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})

	log.Info("Starting worker manager...", map[string]interface{}{"catalogSource": cfg.Catalog.Source})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("OpenTelemetry metrics disabled", map[string]interface{}{"error": err})
	}
	defer obs.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Insecure,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	log.Info("Zeebe client connected successfully", nil)

	var pg *database.PostgresClient
	if cfg.NeedsPostgres() {
		pg, err = connectPostgres(ctx, cfg, log)
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
	}

	var cache *visa.ResultCache
	if cfg.NeedsRedis() {
		rdb, err := connectRedis(ctx, cfg, log)
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		cache = visa.NewResultCache(rdb.GetClient(), config.GetDuration(cfg.Evaluation.CacheTTL))
	}

	source, err := buildSource(cfg, pg)
	if err != nil {
		zapLog.Fatal("catalog source", zap.Error(err))
	}
	store := visa.NewCatalogStore(source, log)
	store.OnReload(recordReload)

	err = camunda.RetryWithBackoff(ctx, camunda.DefaultRetryConfig, log, "catalog load", store.Load)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	if cfg.Catalog.RefreshSpec != "" {
		if err := store.StartRefresh(cfg.Catalog.RefreshSpec); err != nil {
			zapLog.Fatal("catalog refresh schedule", zap.Error(err))
		}
		defer store.Stop()
	}

	regs, err := buildRegistrations(cfg, log, obs, store, cache)
	if err != nil {
		zapLog.Fatal("worker setup failed", zap.Error(err))
	}
	workers := camunda.StartWorkers(zeebe.GetClient(), regs, log)
	log.Info("Workers registered", map[string]interface{}{"count": len(workers)})

	srv := newHealthServer(cfg.Server.Address, store, zeebe)
	go serve(srv, log)

	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err})
	}

	log.Info("Worker manager stopped gracefully", nil)
}

func buildRegistrations(cfg *config.Config, log logger.Logger, obs *observability.Observability, store *visa.CatalogStore, cache *visa.ResultCache) ([]camunda.Registration, error) {
	reduce, err := rs.NewHandler(rs.HandlerOptions{AppConfig: cfg, Logger: log, Observability: obs})
	if err != nil {
		return nil, err
	}
	evaluate, err := ev.NewHandler(ev.HandlerOptions{AppConfig: cfg, Logger: log, Observability: obs, Store: store, Cache: cache})
	if err != nil {
		return nil, err
	}
	match, err := mc.NewHandler(mc.HandlerOptions{AppConfig: cfg, Logger: log, Observability: obs, Store: store, Cache: cache})
	if err != nil {
		return nil, err
	}
	list, err := lc.NewHandler(lc.HandlerOptions{AppConfig: cfg, Logger: log, Observability: obs, Store: store})
	if err != nil {
		return nil, err
	}

	return []camunda.Registration{
		reduce.Registration(),
		evaluate.Registration(),
		match.Registration(),
		list.Registration(),
	}, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.PostgresClient, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	err = camunda.RetryWithBackoff(ctx, camunda.DefaultRetryConfig, log, "PostgreSQL connection", pg.Ping)
	if err != nil {
		pg.Close()
		return nil, err
	}
	if err := pg.RequireTable(ctx, database.VisaRulesTable); err != nil {
		pg.Close()
		return nil, err
	}
	log.Info("PostgreSQL connected successfully", nil)
	return pg, nil
}

func connectRedis(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.RedisClient, error) {
	rdb := database.NewRedis(cfg.Database.Redis)
	err := camunda.RetryWithBackoff(ctx, camunda.DefaultRetryConfig, log, "Redis connection", rdb.Ping)
	if err != nil {
		rdb.Close()
		return nil, err
	}
	log.Info("Redis connected successfully", nil)
	return rdb, nil
}
