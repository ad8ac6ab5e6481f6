package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/api"
	"github.com/hiredesk/hiredesk/internal/infrastructure/auth"
	"github.com/hiredesk/hiredesk/internal/infrastructure/cache"
	"github.com/hiredesk/hiredesk/internal/infrastructure/config"
	"github.com/hiredesk/hiredesk/internal/infrastructure/database"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
	"github.com/hiredesk/hiredesk/internal/infrastructure/metrics"
	"github.com/hiredesk/hiredesk/internal/infrastructure/postgres"
	"github.com/hiredesk/hiredesk/internal/infrastructure/storage"
	"github.com/hiredesk/hiredesk/internal/infrastructure/worker"
)

const (
	// offerOpenCacheTTL is how long published/closed checks are cached
	// on the hot application submission path
	offerOpenCacheTTL = 1 * time.Minute
)

func main() {
	logger := logging.New()
	logger.Info("hiredesk starting up")

	if err := run(logger); err != nil {
		logger.Error("application failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(logger *logging.Logger) error {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err.Error())
		return err
	}

	// establish database connection
	conn, err := database.New(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	// run migrations
	migrator := database.NewMigrator(conn, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migrator.Run(ctx); err != nil {
		return err
	}

	// verify health after migrations
	if err := conn.HealthCheck(ctx); err != nil {
		return err
	}

	logger.Info("hiredesk infrastructure ready", "schema", conn.Schema())

	// initialize prometheus metrics
	appMetrics := metrics.New()
	logger.Info("prometheus metrics initialized")

	// initialize jwt validator
	jwtValidator := auth.NewJWTValidator(cfg.Auth.JWTSecret)

	// initialize repositories
	pool := conn.Pool()
	userRepo := postgres.NewUserRepository(pool)
	postgresOfferRepo := postgres.NewJobOfferRepository(pool)
	candidateRepo := postgres.NewCandidateRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)
	interviewRepo := postgres.NewInterviewRepository(pool)
	accessRepo := postgres.NewAccessRequestRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	// transaction sessions for the unit of work
	sessions := postgres.NewSessionProvider(pool)

	// initialize redis (optional - disabled if REDIS_URL is empty)
	var redisClient *cache.RedisClient
	var offerRepo domain.JobOfferRepository = postgresOfferRepo
	var popularOffers api.PopularOfferLister

	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewRedisClient(cache.RedisConfig{URL: cfg.Redis.URL}, logger)
		if err != nil {
			logger.Error("failed to create redis client", "error", err.Error())
			return err
		}

		if err := redisClient.Connect(ctx); err != nil {
			logger.Warn("redis connection failed, continuing without cache", "error", err.Error())
			redisClient = nil
		} else {
			defer redisClient.Close()
			// serve ?sort=popular from the redis sorted set when possible
			cachedOffers := cache.NewJobOfferRepositoryWithCache(postgresOfferRepo, redisClient, logger)
			offerRepo = cachedOffers
			popularOffers = cachedOffers
			logger.Info("redis offer board cache enabled")
		}
	}

	// initialize offer open cache for high-throughput submissions
	// caches published/closed checks to avoid DB hits on every application
	offerOpenCache := cache.NewOfferOpenCache(postgresOfferRepo, offerOpenCacheTTL)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// initialize notification worker (optional - disabled if NOTIFIER_URL is empty)
	var notificationWorker *worker.NotificationWorker
	if cfg.Notifier.URL != "" {
		workerConfig := worker.DefaultNotificationWorkerConfig(cfg.Notifier.URL, cfg.Notifier.Secret)
		notificationWorker = worker.NewNotificationWorker(notificationRepo, workerConfig, appMetrics, logger)
		notificationWorker.Start(workerCtx)
	} else {
		logger.Info("notification dispatch disabled: no NOTIFIER_URL configured")
	}

	// initialize use cases
	ensureUserUseCase := application.NewEnsureUserUseCase(userRepo, sessions, logger)

	offerLifecycleUseCase := application.NewOfferLifecycleUseCase(
		offerRepo,
		userRepo,
		sessions,
		logger,
	).WithCacheInvalidator(offerOpenCache)

	submitApplicationUseCase := application.NewSubmitApplicationUseCase(
		offerRepo,
		candidateRepo,
		applicationRepo,
		notificationRepo,
		sessions,
		logger,
	).WithAvailability(offerOpenCache)

	advanceApplicationUseCase := application.NewAdvanceApplicationUseCase(
		applicationRepo,
		offerRepo,
		notificationRepo,
		sessions,
		logger,
	)

	scheduleInterviewUseCase := application.NewScheduleInterviewUseCase(
		interviewRepo,
		applicationRepo,
		userRepo,
		notificationRepo,
		sessions,
		logger,
	)

	accessRequestUseCase := application.NewAccessRequestUseCase(
		accessRepo,
		userRepo,
		notificationRepo,
		sessions,
		logger,
	)

	// wire the redis board into the offer lifecycle if available
	if redisClient != nil {
		offerLifecycleUseCase = offerLifecycleUseCase.WithBoard(redisClient)
		submitApplicationUseCase = submitApplicationUseCase.WithCounter(redisClient)
	}

	// hand committed notifications to the dispatcher
	if notificationWorker != nil {
		submitApplicationUseCase = submitApplicationUseCase.WithEnqueuer(notificationWorker)
		advanceApplicationUseCase = advanceApplicationUseCase.WithEnqueuer(notificationWorker)
		scheduleInterviewUseCase = scheduleInterviewUseCase.WithEnqueuer(notificationWorker)
		accessRequestUseCase = accessRequestUseCase.WithEnqueuer(notificationWorker)
	}

	// initialize warehouse export (optional - disabled if WAREHOUSE_BUCKET is empty)
	var exportWarehouseUseCase *application.ExportWarehouseUseCase

	snapshotStore, err := storage.NewSnapshotStore(ctx, storage.S3Config{
		Bucket: cfg.Warehouse.Bucket,
		Region: cfg.Warehouse.Region,
		Prefix: cfg.Warehouse.Prefix,
	}, logger)
	if err != nil {
		return err
	}

	if snapshotStore != nil {
		exportWarehouseUseCase = application.NewExportWarehouseUseCase(
			postgresOfferRepo,
			candidateRepo,
			applicationRepo,
			sessions,
			snapshotStore,
			logger,
		)

		// start background export worker
		go runExportWorker(workerCtx, exportWarehouseUseCase, cfg.Warehouse.Interval, appMetrics, logger)
	}

	// initialize http server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		serverConfig.Port = ":" + port
	}

	server := api.NewServer(serverConfig, logger)

	// register routes
	api.RegisterRoutes(server.Echo(), api.RouterConfig{
		OfferLifecycleUseCase:     offerLifecycleUseCase,
		SubmitApplicationUseCase:  submitApplicationUseCase,
		AdvanceApplicationUseCase: advanceApplicationUseCase,
		ScheduleInterviewUseCase:  scheduleInterviewUseCase,
		AccessRequestUseCase:      accessRequestUseCase,
		ExportWarehouseUseCase:    exportWarehouseUseCase,
		EnsureUserUseCase:         ensureUserUseCase,
		OfferRepo:                 offerRepo,
		PopularOffers:             popularOffers,
		ApplicationRepo:           applicationRepo,
		InterviewRepo:             interviewRepo,
		AccessRepo:                accessRepo,
		JWTValidator:              jwtValidator,
		Database:                  conn,
		Logger:                    logger,
		Metrics:                   appMetrics,
	})

	// start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("http server error", "error", err.Error())
		}
	}()

	// wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("hiredesk shutting down")

	// stop background workers
	workerCancel()

	// stop notification worker and drain buffer
	if notificationWorker != nil {
		notificationWorker.Stop()
	}

	// graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err.Error())
		return err
	}

	logger.Info("hiredesk shutdown complete")
	return nil
}

// runExportWorker runs the warehouse export in the background on the
// configured interval until context is cancelled
func runExportWorker(ctx context.Context, useCase *application.ExportWarehouseUseCase, interval time.Duration, appMetrics *metrics.Metrics, logger *logging.Logger) {
	logger.Info("warehouse export worker started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// run immediately on startup
	runExportCycle(ctx, useCase, appMetrics, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("warehouse export worker stopping")
			return
		case <-ticker.C:
			runExportCycle(ctx, useCase, appMetrics, logger)
		}
	}
}

// runExportCycle executes a single warehouse export
func runExportCycle(ctx context.Context, useCase *application.ExportWarehouseUseCase, appMetrics *metrics.Metrics, logger *logging.Logger) {
	start := time.Now()
	result, err := useCase.Execute(ctx)
	duration := time.Since(start)

	// record metric regardless of success/failure
	if appMetrics != nil {
		appMetrics.RecordWarehouseExport(duration.Seconds())
	}

	if err != nil {
		logger.Error("warehouse export failed",
			"error", err.Error(),
			"duration_ms", duration.Milliseconds(),
		)
		return
	}

	logger.Info("warehouse export completed",
		"key", result.Key,
		"offers", result.Offers,
		"candidates", result.Candidates,
		"applications", result.Applications,
		"duration_ms", duration.Milliseconds(),
	)
}
