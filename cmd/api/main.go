/**
 * @description
 * This is the main entry point for the API service. It is responsible for
 * initializing all components: configuration, database connection, Redis,
 * the model gateway client, the billing client, the message broker
 * producer, Cloud Storage, repositories, the application services, the
 * cron scheduler, and the HTTP server. It wires everything together and
 * starts the service.
 *
 * @dependencies
 * - log/slog, net/http: Standard Go libraries for logging and HTTP.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Redis client.
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - internal/*: Internal packages for the service.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/aigateway"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/api"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/app"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/billing"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/config"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/storage"
	"github.com/josediaztrainer-sudo/josediazfitscan/internal/store"
	"github.com/josediaztrainer-sudo/josediazfitscan/pkg/rabbitmq"
)

func main() {
	// Load .env for local development; in production the environment is real.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Fatal("JWT_SECRET must be configured")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	logger.Info("starting fitscan api", "port", cfg.Port)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database url parse failed", "err", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := store.EnsureSchema(context.Background(), dbpool); err != nil {
		logger.Error("schema migration failed", "err", err)
		os.Exit(1)
	}
	logger.Info("database connected")

	// Redis backs the rate limiter and the billing cache. Unavailable
	// Redis degrades both instead of blocking startup.
	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			logger.Warn("redis url parse failed, rate limiting disabled", "err", parseErr)
		} else {
			redisClient = redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
				logger.Warn("redis ping failed, rate limiting disabled", "err", pingErr)
				redisClient.Close()
				redisClient = nil
			} else {
				defer redisClient.Close()
				logger.Info("redis connected")
			}
			cancelPing()
		}
	}

	// Initialize the RabbitMQ producer to publish events. Publishing is
	// best-effort; a missing broker falls back to a nil producer.
	var producer app.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) != "" {
		rabbitProducer, rabbitErr := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if rabbitErr != nil {
			logger.Warn("rabbitmq producer unavailable, events disabled", "err", rabbitErr)
		} else {
			defer rabbitProducer.Close()
			producer = rabbitProducer
			logger.Info("rabbitmq producer connected")
		}
	}

	// Model gateway client.
	gateway := aigateway.NewClient(cfg.AIGatewayURL, cfg.AIGatewayAPIKey, nil)

	// Billing client with its Redis read-through cache.
	var billingClient app.BillingClient
	if strings.TrimSpace(cfg.BillingAPIURL) != "" {
		var checker billing.Checker = billing.NewClient(cfg.BillingAPIURL, cfg.BillingAPIKey)
		if redisClient != nil {
			checker = billing.NewCachedClient(checker, redisClient, time.Duration(cfg.BillingCacheTTLSeconds)*time.Second, logger)
		}
		billingClient = checker
	} else {
		logger.Warn("billing api not configured, subscription checks use local flags only")
	}

	// Cloud Storage uploader for progress photos.
	var uploader storage.Uploader
	if strings.TrimSpace(cfg.GCSBucketName) != "" {
		gcsClient, gcsErr := gcs.NewClient(context.Background())
		if gcsErr != nil {
			logger.Error("cloud storage client failed", "err", gcsErr)
			os.Exit(1)
		}
		defer gcsClient.Close()
		uploader = storage.NewGCSUploader(gcsClient, cfg.GCSBucketName)
	} else {
		logger.Warn("gcs bucket not configured, progress photo uploads disabled")
	}

	// Initialize the data access layer (repository).
	repository := store.NewPostgresRepository(dbpool)

	// Application services.
	var limiter app.RateLimiter
	if redisClient != nil {
		limiter = app.NewRedisRateLimiter(redisClient, "fitscan:rate_limit")
	}
	profileService := app.NewProfileService(repository, cfg.TrialDays, logger)
	mealService := app.NewMealService(repository, producer, logger)
	scanService := app.NewScanService(gateway, cfg.AIVisionModel, logger)
	coachService := app.NewCoachService(repository, gateway, cfg.AIChatModel, logger)
	insightsService := app.NewInsightsService(repository, gateway, cfg.AIVisionModel, cfg.AIAudioModel, cfg.AITextModel, logger)
	referralService := app.NewReferralService(repository, producer, logger)
	adminService := app.NewAdminService(repository, producer, logger)
	resolver := app.NewSubscriptionResolver(repository, billingClient, logger)

	// Background jobs.
	jobs := app.NewJobs(repository, billingClient, producer, logger)
	scheduler := app.NewScheduler(jobs, logger, *cfg)
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	// HTTP surface.
	handlers := api.Handlers{
		Profile:      api.NewProfileHandler(profileService),
		Subscription: api.NewSubscriptionHandler(resolver),
		Referral:     api.NewReferralHandler(referralService),
		Meal:         api.NewMealHandler(mealService),
		Scan:         api.NewScanHandler(scanService, limiter, cfg.ScanRateLimitPerHour),
		Coach:        api.NewCoachHandler(coachService, limiter, cfg.ChatRateLimitPerHour),
		Insights:     api.NewInsightsHandler(insightsService, repository, uploader),
		Admin:        api.NewAdminHandler(adminService),
	}
	router := api.NewRouter(handlers, cfg.JWTSecret, resolver, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
}
