package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/hammed103/Aremu/internal/api"
	"github.com/hammed103/Aremu/internal/chat"
	"github.com/hammed103/Aremu/internal/clock"
	"github.com/hammed103/Aremu/internal/config"
	"github.com/hammed103/Aremu/internal/delivery"
	"github.com/hammed103/Aremu/internal/embedding"
	"github.com/hammed103/Aremu/internal/enrichment"
	"github.com/hammed103/Aremu/internal/preference"
	"github.com/hammed103/Aremu/internal/queue"
	"github.com/hammed103/Aremu/internal/reminder"
	"github.com/hammed103/Aremu/internal/scheduler"
	"github.com/hammed103/Aremu/internal/store"
	"github.com/hammed103/Aremu/internal/webhook"
	"github.com/hammed103/Aremu/internal/window"
	"github.com/hammed103/Aremu/internal/worker"
)

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, cfg *config.Config) {
		logLevel := slog.LevelInfo
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}))

		db, err := store.Open(cfg)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected",
			"max_open_conns", cfg.DBMaxOpenConns,
			"max_idle_conns", cfg.DBMaxIdleConns)

		clk := clock.System{}

		webhookURLs := cfg.GetWebhookURLs()
		opsDispatcher := webhook.NewDispatcher(webhookURLs, logger)
		if len(webhookURLs) > 0 {
			logger.Info("webhook dispatcher initialized", "urls", webhookURLs)
		} else {
			logger.Info("webhook dispatcher initialized with no URLs (webhooks disabled)")
		}

		ingestionQueue := queue.New(db)

		var chatClient *chat.Client
		if cfg.IsChatEnabled() {
			chatClient = chat.NewClient(cfg.ChatBaseURL, cfg.ChatToken, cfg.ChatSendRPS, cfg.ChatSendBurst, cfg.ChatSendTimeout, logger)
			logger.Info("chat client initialized", "base_url", cfg.ChatBaseURL)
		} else {
			logger.Info("chat client disabled (no base url/token configured)")
		}

		var embeddingSvc *embedding.Service
		if cfg.IsEmbeddingEnabled() {
			embeddingSvc = embedding.NewService(cfg.OpenAIKey, cfg.OpenAIEmbeddingModel, cfg.EmbeddingTimeout, logger)
			logger.Info("embedding service initialized", "model", cfg.OpenAIEmbeddingModel)
		}

		projector := preference.New(db, embeddingSvc, logger)

		windowMgr := window.New(db, clk)

		deliveryDispatcher := delivery.NewDispatcher(db, chatClient, delivery.Config{
			DailyCap:              cfg.DailyCap,
			EmbeddingSimThreshold: cfg.EmbeddingSimThreshold,
			RuleMatchThreshold:    float64(cfg.RuleMatchThreshold),
			MatchTopL:             cfg.MatchTopL,
			CanonicalMaxAge:       time.Duration(cfg.CanonicalMaxAgeDays) * 24 * time.Hour,
		}, clk, logger)

		var enricher *worker.Enricher
		if cfg.IsEnrichmentEnabled() || cfg.IsEmbeddingEnabled() {
			var enrichmentSvc *enrichment.Service
			if cfg.IsEnrichmentEnabled() {
				enrichmentSvc = enrichment.NewService(cfg.OpenAIKey, cfg.OpenAIEnrichmentModel, cfg.EnrichmentTimeout, logger)
				logger.Info("enrichment service initialized", "model", cfg.OpenAIEnrichmentModel)
			}

			enricher = worker.New(ingestionQueue, db, enrichmentSvc, embeddingSvc, deliveryDispatcher, opsDispatcher, worker.Config{
				Workers:        cfg.EnrichmentWorkers,
				BatchSize:      cfg.EnrichmentBatchSize,
				PollInterval:   cfg.EnrichmentPollIntervalDuration(),
				EmbeddingModel: cfg.OpenAIEmbeddingModel,
			}, logger)
		}

		reminderDaemon := reminder.New(db, chatClient, windowMgr, deliveryDispatcher, delivery.RenderReminder, time.Duration(cfg.ReminderCadenceMin)*time.Minute, logger)

		var enrichTrigger scheduler.EnrichmentTrigger
		if enricher != nil {
			enrichTrigger = func(ctx context.Context) {
				backlog, err := ingestionQueue.Backlog(ctx, time.Now().Add(-time.Duration(cfg.EnrichmentTriggerCadenceHours)*time.Hour))
				if err != nil {
					logger.Warn("scheduler: failed to check enrichment backlog", "err", err)
					return
				}
				if backlog > 0 {
					logger.Info("scheduler: stuck enrichment backlog detected", "count", backlog)
				}
			}
		} else {
			enrichTrigger = func(ctx context.Context) {}
		}

		sched := scheduler.New(db, embeddingSvc, enrichTrigger, scheduler.Config{
			EnrichmentTriggerCadence: time.Duration(cfg.EnrichmentTriggerCadenceHours) * time.Hour,
			EmbeddingBackfillCadence: time.Duration(cfg.EmbeddingBackfillCadenceMin) * time.Minute,
			StaleEmbeddingMaxAge:     time.Duration(cfg.StaleEmbeddingMaxAgeDays) * 24 * time.Hour,
			DuplicatePurgeCadence:    time.Duration(cfg.DuplicatePurgeCadenceHours) * time.Hour,
			OldRecordMaxAge:          time.Duration(cfg.OldRecordMaxAgeDays) * 24 * time.Hour,
		}, clk, logger)

		deps := &api.Dependencies{
			Store:       db,
			Queue:       ingestionQueue,
			ChatClient:  chatClient,
			WindowMgr:   windowMgr,
			Projector:   projector,
			Config:      cfg,
			EnrichModel: cfg.OpenAIEnrichmentModel,
			EmbedModel:  cfg.OpenAIEmbeddingModel,
			StartedAt:   time.Now(),
		}

		server := api.NewServer(cfg, deps, logger)

		hooks.OnStart(func() {
			logger.Info("starting job alert pipeline service",
				"port", cfg.Port,
				"environment", cfg.Environment,
				"docs_url", fmt.Sprintf("http://localhost:%d/docs", cfg.Port),
				"openapi_url", fmt.Sprintf("http://localhost:%d/openapi.json", cfg.Port))

			ctx := context.Background()

			if enricher != nil {
				go enricher.Start(ctx)
			}

			reminderDaemon.Start(ctx)

			if err := sched.Start(ctx); err != nil {
				logger.Error("failed to start scheduler", "error", err)
				os.Exit(1)
			}

			if err := server.Start(ctx); err != nil {
				logger.Error("server error", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down gracefully...")

			sched.Stop()
			reminderDaemon.Stop()

			if enricher != nil {
				enricher.Stop()
			}

			if opsDispatcher != nil {
				if err := opsDispatcher.Shutdown(30 * time.Second); err != nil {
					logger.Error("webhook dispatcher shutdown error", "error", err)
				}
			}

			if err := db.Close(); err != nil {
				logger.Error("failed to close database connection", "error", err)
			}
		})
	})

	cli.Run()
}
