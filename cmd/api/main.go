package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	rediscache "github.com/srgjo27/ticket_inventory/internal/adapter/cache/redis"
	"github.com/srgjo27/ticket_inventory/internal/adapter/handler"
	"github.com/srgjo27/ticket_inventory/internal/adapter/messaging/kafka"
	"github.com/srgjo27/ticket_inventory/internal/adapter/repository/postgres"
	"github.com/srgjo27/ticket_inventory/internal/core/ports"
	"github.com/srgjo27/ticket_inventory/internal/core/services"
	"github.com/srgjo27/ticket_inventory/internal/platform/clock"
	"github.com/srgjo27/ticket_inventory/internal/platform/config"
	"github.com/srgjo27/ticket_inventory/internal/platform/database"
	"github.com/srgjo27/ticket_inventory/internal/platform/logger"
	"github.com/srgjo27/ticket_inventory/internal/platform/tracing"
	"github.com/srgjo27/ticket_inventory/migrations"
)

const serviceName = "ticket-inventory"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using OS environment")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(logger.Config{Level: cfg.Log.Level, Env: cfg.Log.Env})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tp, err := tracing.Init(ctx, serviceName, cfg.Tracing.Endpoint, cfg.Env)
		if err != nil {
			appLogger.Fatal("Failed to init tracer", zap.Error(err))
		}

		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				appLogger.Error("Failed to shutdown tracer", zap.Error(err))
			}
		}()
	}

	db, err := database.NewPostgresDB(ctx, cfg.Postgres, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to db after retries", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, migrations.FS, "."); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info(ctx, appLogger, "Connecting to Redis", zap.String("addr", cfg.Redis.Addr))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	retry := services.RetryPolicy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
	}
	clk := clock.Real{}

	eventRepo := postgres.NewEventRepository(db)
	repos := services.OrderRepositories{
		Orders:       postgres.NewOrderRepository(db),
		Tickets:      postgres.NewTicketRepository(db),
		Reservations: postgres.NewReservationRepository(db),
		Customers:    postgres.NewCustomerInfoRepository(db),
		Audit:        postgres.NewAuditRepository(db),
		Events:       eventRepo,
	}

	inventoryService := services.NewInventoryService(
		postgres.NewInventoryRepository(db),
		eventRepo,
		rediscache.NewAvailabilityCache(redisClient, cfg.Redis.CacheTTL),
		clk,
		retry,
		appLogger,
	)
	eventService := services.NewEventService(eventRepo, inventoryService, clk, retry, appLogger)

	var publisher ports.OrderEventPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			appLogger.Fatal("Failed to create kafka producer", zap.Error(err))
		}

		orderPublisher := kafka.NewOrderEventPublisher(producer, cfg.Kafka.Topic, appLogger)
		defer orderPublisher.Close()
		publisher = orderPublisher
	}

	orderService := services.NewOrderService(repos, inventoryService, publisher, clk, appLogger,
		services.WithReservationTimeout(cfg.Reservation.Timeout),
		services.WithRetryPolicy(retry),
		services.WithSeatAttempts(cfg.Retry.SeatAttempts),
		services.WithProcessedEventStore(rediscache.NewProcessedEventStore(redisClient, cfg.Redis.ProcessedTTL)),
	)

	expirationService := services.NewExpirationService(repos, inventoryService, clk,
		cfg.Reservation.SweepInterval, cfg.Reservation.SweepBatchSize, retry, appLogger)

	go expirationService.RunBackgroundCleanup(ctx)

	if cfg.Kafka.Enabled {
		consumer := kafka.NewOrderEventConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, orderService, appLogger)

		go func() {
			if err := consumer.Run(ctx); err != nil {
				appLogger.Error("Order event consumer stopped", zap.Error(err))
			}
		}()
	}

	validate := validator.New()
	router := handler.NewRouter(serviceName,
		handler.NewEventHandler(eventService, validate, appLogger),
		handler.NewOrderHandler(orderService, validate, appLogger),
	)

	server := &http.Server{
		Addr:         cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, appLogger, "Server starting", zap.String("addr", cfg.HTTP.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server startup failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exiting")
}
