package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcapi "medi-response-service/internal/api/grpc"
	"medi-response-service/internal/app"
	"medi-response-service/internal/config"
	httpapi "medi-response-service/internal/http"
	"medi-response-service/internal/observability"
	"medi-response-service/internal/service/exchange"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	defer application.Shutdown()

	ctx := context.Background()
	responder, err := application.NewResponseService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build response pipeline")
	}

	// Create Kafka publisher with separate topics for raw generations and final responses
	publisher := application.NewPublisher()

	db, err := application.OpenStore()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history store")
	}

	cfgExchange := exchange.Config{
		Responder: responder,
		Publisher: publisher,
		Provider:  cfg.Generator.Provider,
		MaxLength: cfg.Generator.MaxLength,
		Metrics:   application.Metrics,
		IdleTTL:   cfg.Dialogue.SessionIdleTTL,
	}
	if db != nil {
		cfgExchange.Store = db
	}
	handler := exchange.New(cfgExchange)

	lis, err := net.Listen("tcp", ":"+cfg.Service.GRPCPort)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	server := grpc.NewServer(grpc.UnaryInterceptor(observability.UnaryServerInterceptor(application.Metrics)))

	// Register gRPC health check service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcapi.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// Register application services
	grpcapi.Register(server, handler)

	// Enable gRPC reflection for debugging tools like grpcurl
	reflection.Register(server)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           httpapi.NewRouter(handler, application.Metrics, application.Ready),
		ReadHeaderTimeout: 5 * time.Second,
	}

	obsServer := observability.NewServer(":"+cfg.Observability.MetricsPort, application.Ready)
	obsServer.Start()

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Service.GRPCPort).Msg("Medi response gRPC server started")
		if err := server.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("grpc serve failed")
		}
	}()
	go func() {
		log.Info().Str("port", cfg.Service.HTTPPort).Msg("Medi response HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down servers")
	application.Drain()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("observability shutdown failed")
	}
	server.GracefulStop()
}
