package main

import (
	"context"
	"errors"
	"log"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/simaogato/propfolio-backend/internal/adapter/cache"
	grpcadapter "github.com/simaogato/propfolio-backend/internal/adapter/grpc"
	propfoliov1 "github.com/simaogato/propfolio-backend/internal/adapter/grpc/propfolio/v1"
	httpadapter "github.com/simaogato/propfolio-backend/internal/adapter/http"
	"github.com/simaogato/propfolio-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/propfolio-backend/internal/config"
	"github.com/simaogato/propfolio-backend/internal/domain"
	"github.com/simaogato/propfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/propfolio-backend/internal/usecase/seeder"
)

func main() {
	// 1. Configuration
	config.LoadDotEnv(".env")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("Database schema applied")
	}

	// 3. Initialize Repositories (Postgres) and the optional Redis cache
	propertyRepo := postgres.NewPropertyRepository(db)
	assumptionsRepo := postgres.NewAssumptionsRepository(db)
	historyRepo := postgres.NewMetricsHistoryRepository(db)

	var metricsCache domain.MetricsCache
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		defer rdb.Close()
		metricsCache = cache.NewMetricsCache(rdb, cfg.CacheTTL())
		log.Printf("Metrics cache enabled on %s", cfg.RedisAddr)
	} else {
		log.Println("REDIS_ADDR not set, metrics cache disabled")
	}

	// 4. Initialize Services (Use Cases)
	metricsService := portfolio.NewMetricsService(propertyRepo, assumptionsRepo, historyRepo, metricsCache)
	metricsService.StorageLimit = cfg.RatioStorageLimit

	// Backfill assumptions for properties imported without them
	n, err := seeder.NewAssumptionsSeeder(propertyRepo, assumptionsRepo).Seed(ctx)
	if err != nil {
		log.Fatalf("Failed to seed assumptions: %v", err)
	}
	log.Printf("Assumptions seeded for %d properties", n)

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log.Default()),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	propfoliov1.RegisterPropertyMetricsServiceServer(grpcServer, grpcadapter.NewServer(metricsService))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(propfoliov1.PropertyMetricsService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", cfg.GRPCPort, err)
	}

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// 6. Start REST Server
	e := httpadapter.NewEcho(httpadapter.NewHandler(), httpadapter.NewMetricsHandler(metricsService), cfg.APIToken)
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr())
		if err := e.Start(cfg.HTTPAddr()); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, healthServer, e)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(grpcServer *grpclib.Server, healthServer *health.Server, e *echo.Echo) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	healthServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	log.Println("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")
}
