package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/algoprep/pulse/internal/api"
	"github.com/algoprep/pulse/internal/config"
	"github.com/algoprep/pulse/internal/configs/env"
	"github.com/algoprep/pulse/internal/infra/mongo"
	redisInfra "github.com/algoprep/pulse/internal/infra/redis"
	"github.com/algoprep/pulse/internal/ingest"
	"github.com/algoprep/pulse/internal/logger"
	"github.com/algoprep/pulse/internal/metrics"
	"github.com/algoprep/pulse/internal/notify"
	"github.com/algoprep/pulse/internal/plagiarism"
	"github.com/algoprep/pulse/internal/recommend"
	"github.com/algoprep/pulse/internal/repository"
	"github.com/algoprep/pulse/internal/scoring"
	"github.com/algoprep/pulse/internal/stream"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel)
	log.Info().Msg("Starting pulse server")

	// Initialize Prometheus metrics
	metrics.InitPrometheus()
	log.Info().Msg("Prometheus metrics initialized")

	// Start metrics server in separate goroutine on port 2112
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    ":2112",
		Handler: metricsMux,
	}
	go func() {
		log.Info().Str("port", "2112").Msg("Metrics server started")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Metrics server failed to start")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(ctx)

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	// Initialize repositories
	mongoRepo := repository.NewMongoRepository(mongoClient)
	submissionsRepo := repository.NewSubmissionsRepository(mongoRepo)
	performanceRepo := repository.NewPerformanceRepository(mongoRepo)
	problemsRepo := repository.NewProblemsRepository(mongoRepo)
	reportsRepo := repository.NewReportsRepository(mongoRepo)
	notificationsRepo := repository.NewNotificationsRepository(mongoRepo)

	// Initialize services
	notifier := notify.NewNotifier(notificationsRepo, redisClient, cfg.NotificationStreamKey)
	statusTracker := plagiarism.NewStatusTracker(redisClient)
	updater := scoring.NewUpdater(performanceRepo)
	selector := recommend.NewSelector(performanceRepo, problemsRepo, submissionsRepo)

	detector := plagiarism.NewDetector(submissionsRepo, reportsRepo, notifier, statusTracker, plagiarism.Options{
		NGramSize:      cfg.NGramSize,
		ReportFloor:    cfg.ReportFloor,
		FlagThreshold:  cfg.FlagThreshold,
		MaxComparisons: cfg.MaxComparisons,
	})

	// Initialize worker pool for detached integrity checks
	workerPool := plagiarism.NewWorkerPool(ctx)
	defer workerPool.Close()

	pipeline := ingest.NewPipeline(submissionsRepo, updater, detector, workerPool, statusTracker)

	// Initialize retry handler and Redis stream consumer
	retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey)

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}
	consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
	consumer := stream.NewConsumer(
		redisClient.Client,
		cfg.RedisStreamKey,
		cfg.RedisConsumerGroup,
		consumerName,
		pipeline,
		retryHandler,
		cfg.StreamRetentionDuration,
	)
	log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer initialized")

	handler := api.NewHandler(cfg, pipeline, performanceRepo, submissionsRepo, reportsRepo, selector, statusTracker)
	router := api.SetupRoutes(cfg, handler)

	// Start Redis consumer in background
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	go func() {
		defer consumerCancel()
		if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Redis consumer error")
		}
	}()
	log.Info().Msg("Redis consumer started")

	// Start Gin server - handles HTTP routing, middleware (auth, rate limiter), and request processing
	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	// Shutdown Gin server gracefully
	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down Gin server")
	}

	// Shutdown metrics server gracefully
	metricsCtx, metricsCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer metricsCancel()
	if err := metricsServer.Shutdown(metricsCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down metrics server")
	}

	log.Info().Msg("Shutdown complete")
}
