package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/pkg/config"
	"github.com/ngandinhtk/tripwise/internal/pkg/logger"
	"github.com/ngandinhtk/tripwise/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	if err := logger.Init(zap.InfoLevel, zap.String("service", "tripwise")); err != nil {
		return err
	}
	lg := logger.Log
	defer lg.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	otelShutdown, err := server.InitObservability("tripwise", ":"+cfg.MetricsPort, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			lg.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(cfg, lg)
	if err != nil {
		return err
	}
	defer srv.Close()

	router := server.SetupRouter(srv.GetDBPool(), cfg, lg)
	srv.SetRouter(router)

	// Profiling stays on its own port, never exposed publicly.
	server.StartPprofServer(":"+cfg.PprofPort, lg)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, lg, done)

	lg.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil {
		lg.Error("Server error", zap.Error(err))
	}

	<-done
	lg.Info("Graceful shutdown complete")

	return nil
}
