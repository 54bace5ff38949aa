package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outreachd/outreach/internal/bootstrap"
	"github.com/outreachd/outreach/internal/config"
	"github.com/outreachd/outreach/internal/infra/database"
	"github.com/outreachd/outreach/internal/infra/http/handlers"
	"github.com/outreachd/outreach/internal/infra/http/middleware"
	"github.com/outreachd/outreach/internal/infra/queue"
	"github.com/outreachd/outreach/internal/infra/worker"
	"github.com/outreachd/outreach/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.Level())
	defer closeLog()
	slog.SetDefault(logger)

	for _, problem := range cfg.Validate() {
		logger.Warn("⚠️ [BOOT] " + problem)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Error("❌ [BOOT] DATABASE_URL is required for the API server")
		os.Exit(1)
	}
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Error("❌ [BOOT] database unreachable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Error("❌ [BOOT] migration failed", "error", err)
		os.Exit(1)
	}

	// 1. Repositories
	contactRepo := database.NewContactRepository(db)
	ledgerRepo := database.NewLedgerRepository(db)
	draftRepo := database.NewDraftRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	profileRepo := database.NewProfileRepository(db)

	// 2. Providers and adapters
	observer := middleware.PrometheusObserver{}
	generator := bootstrap.NewGenerator(cfg, logger, observer)
	enrichment := bootstrap.NewEnrichment(cfg, logger, observer)

	// 3. Use cases
	runCampaignUC := usecase.NewRunCampaignUseCase(
		contactRepo, ledgerRepo, draftRepo, templateRepo, profileRepo,
		generator, bootstrap.NewDelivery(cfg), logger,
	)
	bootstrap.ConfigureRunner(runCampaignUC, cfg, observer)

	contactUCs := handlers.ContactUseCases{
		Create:  usecase.NewCreateContactUseCase(contactRepo, logger),
		Update:  usecase.NewUpdateContactUseCase(contactRepo, logger),
		Delete:  usecase.NewDeleteContactUseCase(contactRepo, logger),
		Import:  usecase.NewImportContactsUseCase(contactRepo, logger),
		Queries: usecase.NewContactQueries(contactRepo),
	}
	importUC := usecase.NewImportEnrichedUseCase(contactRepo, logger)
	generateUC := usecase.NewGenerateEmailUseCase(contactRepo, templateRepo, profileRepo, generator)
	templateService := usecase.NewTemplateService(templateRepo, logger)
	ledgerQueries := usecase.NewLedgerQueries(ledgerRepo)

	// 4. Queue and workers
	var (
		publisher queue.CampaignRunPublisher
		rabbitMQ  *queue.RabbitMQ
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("❌ [BOOT] rabbitmq unavailable, send runs disabled", "error", err)
		} else {
			defer rabbitMQ.Close()
			publisher = queue.NewProducer(rabbitMQ.Ch)

			consumerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				logger.Error("❌ [BOOT] could not open consumer channel", "error", err)
			} else {
				runWorker := queue.NewWorker(consumerCh, runCampaignUC, logger)
				go func() {
					if err := runWorker.Start(ctx, queue.QueueName); err != nil {
						logger.Error("❌ [WORKER] stopped", "error", err)
					}
				}()
			}
		}
	} else {
		logger.Warn("⚠️ [BOOT] RABBITMQ_URL not set, send runs disabled")
	}

	statusWorker := worker.NewContactStatusWorker(contactRepo, cfg.StatusSyncInterval, logger)
	go statusWorker.Start(ctx)

	// 5. Handlers
	var mqState handlers.ConnectionState
	if rabbitMQ != nil {
		mqState = rabbitMQ
	}

	var hunterAccount handlers.AccountFetcher
	if enrichment.Hunter != nil {
		hunterAccount = enrichment.Hunter
	}

	limiter := handlers.NewRateLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitWindow)
	defer limiter.Stop()

	router := handlers.NewRouter(handlers.API{
		Health:         handlers.NewHealthHandler(db, mqState, cfg.LLMProvider),
		Contacts:       handlers.NewContactHandler(contactUCs, logger),
		Templates:      handlers.NewTemplateHandler(templateService, logger),
		Generate:       handlers.NewGenerateHandler(generateUC, logger),
		Campaigns:      handlers.NewCampaignHandler(runCampaignUC, publisher, logger),
		Ledger:         handlers.NewLedgerHandler(ledgerQueries, logger),
		Enrichment:     handlers.NewEnrichmentHandler(enrichment.Chain, importUC, hunterAccount, logger),
		Profile:        handlers.NewProfileHandler(profileRepo, logger),
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimiter:    limiter,
	})

	// 6. Server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("🔥 [API] outreach server listening", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("❌ [API] server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("[API] server stopped")
}
