// cmd/worker-manager/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "kisan-sathi/internal/common/aws"
	"kisan-sathi/internal/common/camunda"
	"kisan-sathi/internal/common/config"
	"kisan-sathi/internal/common/database"
	"kisan-sathi/internal/common/genai"
	"kisan-sathi/internal/common/logger"
	"kisan-sathi/internal/common/observability"
	"kisan-sathi/internal/history"
	"kisan-sathi/internal/market"
	"kisan-sathi/internal/weather"

	afq "kisan-sathi/internal/workers/advisory/answer-farmer-question"
	ca "kisan-sathi/internal/workers/advisory/crop-advisory"
	sa "kisan-sathi/internal/workers/advisory/soil-advisory"
	swa "kisan-sathi/internal/workers/communication/send-weather-alert"
	ld "kisan-sathi/internal/workers/dashboard/load-dashboard"
	lh "kisan-sathi/internal/workers/engagement/list-helplines"
	rf "kisan-sathi/internal/workers/engagement/record-feedback"
	aa "kisan-sathi/internal/workers/history/archive-advisory"
	sah "kisan-sathi/internal/workers/history/search-advisory-history"
	gmp "kisan-sathi/internal/workers/market/get-market-prices"
	dpd "kisan-sathi/internal/workers/pest/diagnose-plant-disease"
	gpr "kisan-sathi/internal/workers/pest/get-plant-remedies"
	gwf "kisan-sathi/internal/workers/weather/get-weather-forecast"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")
	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting worker manager...", map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	if err := obs.EnableTracing(cfg.App.Name, cfg.Tracing); err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}

	ctx := context.Background()
	checks := map[string]func(context.Context) error{}

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	checks["zeebe"] = zeebe.HealthCheck
	log.Info("Zeebe client connected successfully", nil)

	// --- PostgreSQL (feedback, farmer contacts, optional catalog) ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Host != "" {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			zapLog.Fatal("postgres migration failed", zap.Error(err))
		}
		checks["postgres"] = pg.Ping
		log.Info("PostgreSQL connected successfully", nil)
	} else {
		log.Warn("PostgreSQL not configured; feedback and alert workers are disabled", nil)
	}

	// --- Elasticsearch (advisory history) ---
	var store *history.Store
	if cfg.Database.Elasticsearch.GetURL() != "" {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := esClient.EnsureIndex(ctx, cfg.History.Index, history.Mapping); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		store = history.NewStore(esClient.Client, cfg.History.Index)
		checks["elasticsearch"] = esClient.Ping
		log.Info("Elasticsearch connected successfully", map[string]interface{}{"index": cfg.History.Index})
	} else {
		log.Warn("Elasticsearch not configured; advisory history workers are disabled", nil)
	}

	// --- Redis (AI and weather cache) ---
	var redis *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			redis = database.NewRedis(cfg.Database.Redis)
			return redis.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		checks["redis"] = redis.Ping
		log.Info("Redis connected successfully", nil)
	}

	// --- Market price catalog ---
	catalog, err := market.Load(ctx, cfg.Catalog, pgDB(pg))
	if err != nil {
		zapLog.Fatal("market price catalog load failed", zap.Error(err))
	}
	log.Info("Market price catalog loaded", map[string]interface{}{
		"source":  catalog.Source,
		"records": catalog.Len(),
	})

	// --- Generative AI ---
	provider, err := genai.New(ctx, cfg.APIs.GenAI)
	if err != nil {
		zapLog.Fatal("genai provider init failed", zap.Error(err))
	}
	gen := genai.NewCached(
		genai.Instrument(provider, log),
		redis,
		time.Duration(cfg.Cache.GenAITTL)*time.Second,
		log,
	)
	log.Info("Generative AI provider ready", map[string]interface{}{
		"provider": provider.Name(),
		"model":    cfg.APIs.GenAI.Model,
	})

	// --- Workers ---
	workers := camunda.NewWorkers(zeebe.GetClient(), log)
	wcfg := func(taskType string) config.WorkerConfig { return config.GetWorkerConfig(cfg, taskType) }

	prices := gmp.NewHandler(gmp.NewConfig(cfg), catalog, gen, log, obs)
	workers.Start(gmp.TaskType, wcfg(gmp.TaskType), prices.Handle)

	forecast := gwf.NewHandler(gwf.NewConfig(cfg), weather.NewClient(cfg.APIs.Weather), redis, gen, log, obs)
	workers.Start(gwf.TaskType, wcfg(gwf.TaskType), forecast.Handle)

	workers.Start(ld.TaskType, wcfg(ld.TaskType), ld.NewHandler(ld.NewConfig(cfg), forecast, prices, log, obs).Handle)
	workers.Start(afq.TaskType, wcfg(afq.TaskType), afq.NewHandler(afq.NewConfig(cfg), gen, log, obs).Handle)
	workers.Start(ca.TaskType, wcfg(ca.TaskType), ca.NewHandler(ca.NewConfig(cfg), gen, log, obs).Handle)
	workers.Start(sa.TaskType, wcfg(sa.TaskType), sa.NewHandler(sa.NewConfig(cfg), gen, log, obs).Handle)
	workers.Start(dpd.TaskType, wcfg(dpd.TaskType), dpd.NewHandler(dpd.NewConfig(cfg), gen, log, obs).Handle)
	workers.Start(gpr.TaskType, wcfg(gpr.TaskType), gpr.NewHandler(gpr.NewConfig(cfg), gen, log, obs).Handle)
	workers.Start(lh.TaskType, wcfg(lh.TaskType), lh.NewHandler(lh.NewConfig(cfg), log, obs).Handle)

	if pg != nil {
		workers.Start(rf.TaskType, wcfg(rf.TaskType), rf.NewHandler(rf.NewConfig(cfg), pg.DB, log, obs).Handle)

		sms, email := notificationSenders(ctx, cfg, log)
		alerts := swa.NewHandler(swa.NewConfig(cfg), pg.DB, sms, email, log, obs)
		workers.Start(swa.TaskType, wcfg(swa.TaskType), alerts.Handle)
	}

	if store != nil {
		workers.Start(aa.TaskType, wcfg(aa.TaskType), aa.NewHandler(aa.NewConfig(cfg), store, log, obs).Handle)
		workers.Start(sah.TaskType, wcfg(sah.TaskType), sah.NewHandler(sah.NewConfig(cfg), store, log, obs).Handle)
	}

	log.Info("Workers registered", map[string]interface{}{"count": workers.Count()})

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.App.HTTPAddress,
		Handler:           newMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping HTTP server", map[string]interface{}{"error": err.Error()})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping metrics provider", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Worker manager stopped gracefully", nil)
}

func pgDB(pg *database.PostgresClient) *sql.DB {
	if pg == nil {
		return nil
	}
	return pg.DB
}

// notificationSenders returns nil senders for disabled channels.
func notificationSenders(ctx context.Context, cfg *config.Config, log logger.Logger) (swa.SMSSender, swa.EmailSender) {
	aws := cfg.Integrations.AWS
	if !aws.SNS.Enabled && !aws.SES.Enabled {
		return nil, nil
	}

	awsCfg, err := awsclient.LoadConfig(ctx, aws.Region)
	if err != nil {
		log.Error("AWS config unavailable; weather alerts will be skipped", map[string]interface{}{"error": err.Error()})
		return nil, nil
	}

	var sms swa.SMSSender
	var email swa.EmailSender
	if aws.SNS.Enabled {
		sms = awsclient.NewSNSClient(awsCfg, aws.SNS.SenderID)
	}
	if aws.SES.Enabled {
		email = awsclient.NewSESClient(awsCfg, aws.SES.FromEmail)
	}
	return sms, email
}

func newMux(checks map[string]func(context.Context) error) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			status, code = "not ready", http.StatusServiceUnavailable
		}
		writeStatus(w, code, map[string]interface{}{
			"status": status,
			"failed": failed,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
