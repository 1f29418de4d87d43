package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fekuna/omnipos-mrp-service/config"
	"github.com/fekuna/omnipos-mrp-service/internal/app"
	"github.com/fekuna/omnipos-mrp-service/internal/database"
	"github.com/fekuna/omnipos-mrp-service/internal/events"
	invListenerPkg "github.com/fekuna/omnipos-mrp-service/internal/inventory/listener"
	"github.com/fekuna/omnipos-mrp-service/internal/lock"
	prodRepoPkg "github.com/fekuna/omnipos-mrp-service/internal/product/repository"
	"github.com/fekuna/omnipos-mrp-service/internal/server"
	"github.com/fekuna/omnipos-mrp-service/pkg/broker"
	"github.com/fekuna/omnipos-mrp-service/pkg/cache"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
	"github.com/fekuna/omnipos-mrp-service/pkg/search"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	if !logConfig.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize Repositories
	var repos *app.Repositories
	switch cfg.Store.Driver {
	case "memory":
		repos = app.NewMemoryRepositories()
		appLogger.Warn("Using in-memory store, data is lost on restart")
	case "postgres":
		db, err := database.NewPostgres(ctx, &cfg.Postgres)
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		if cfg.Postgres.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				appLogger.Fatal("Could not migrate database", zap.Error(err))
			}
		}
		repos = app.NewPostgresRepositories(db)
	default:
		appLogger.Fatal("Unknown store driver", zap.String("driver", cfg.Store.Driver))
	}

	opts := app.Options{Logger: appLogger}

	// 4. Initialize Redis
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, &cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

		opts.Locker = lock.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTL)*time.Second, appLogger)
		opts.PartyCache = redisClient
	}

	// 5. Initialize Kafka Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewKafkaProducer(&broker.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		defer producer.Close()
		opts.Publisher = events.NewKafkaPublisher(producer)
		appLogger.Info("Connected to Kafka Producer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.EventsTopic))
	}

	// 6. Initialize Elasticsearch
	if len(cfg.Elastic.Addresses) > 0 {
		esClient, err := search.NewClient(&search.ElasticConfig{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, product search falls back to the database", zap.Error(err))
		} else if index, err := prodRepoPkg.NewElasticIndex(ctx, esClient); err != nil {
			appLogger.Warn("Could not prepare product index", zap.Error(err))
		} else {
			opts.Search = index
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize UseCases
	useCases := app.NewUseCases(repos, opts)

	// 8. Initialize Listeners
	if len(cfg.Kafka.Brokers) > 0 {
		consumer := broker.NewKafkaConsumer(&broker.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.AdjustmentsTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()

		invListener := invListenerPkg.NewAdjustmentListener(consumer, useCases.Inventory, appLogger)
		go invListener.Start(ctx)
	}

	// 9. Start HTTP Server
	router := server.NewRouter(useCases, server.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.JWT.SecretKey,
	}, appLogger)
	if cfg.JWT.SecretKey == "" {
		appLogger.Warn("JWT_SECRET_KEY is empty, API authentication is disabled")
	}

	httpServer := &http.Server{
		Addr:              withColon(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 10. Start gRPC health server
	lis, err := net.Listen("tcp", withColon(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func withColon(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
