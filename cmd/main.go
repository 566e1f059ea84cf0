package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"

	"reports/config"
	"reports/internal/ingest"
	"reports/internal/rabbitmq"
	"reports/internal/registry"
	"reports/internal/server"
	"reports/internal/workers"
	"reports/pkg/logger"
)

func main() {
	logger.Init()
	log.Println("🚀 Starting Brand Reports Service...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("✓ Configuration loaded")
	log.Printf("  - Data dir: %s", cfg.Data.Dir)
	log.Printf("  - HTTP: %s", cfg.HTTP.Addr)
	log.Printf("  - Registry: %s:%d/%s", cfg.Registry.Host, cfg.Registry.Port, cfg.Registry.Database)

	reg, err := registry.Open(postgres.Open(cfg.Registry.DSN()))
	if err != nil {
		log.Fatalf("Failed to connect to registry: %v", err)
	}
	defer reg.Close()
	log.Println("✓ Connected to registry")

	pipeline := ingest.NewPipeline(cfg, reg)
	srv := server.NewServer(cfg, reg, pipeline)

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("✓ HTTP server listening on %s", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.RabbitMQ.URL != "" {
		consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to create report consumer: %v", err)
		}
		defer consumer.Close()
		log.Println("✓ Connected to RabbitMQ")

		worker := workers.NewReportWorker(consumer, reg, pipeline, cfg)
		g.Go(func() error {
			return worker.Start()
		})
	} else {
		log.Println("  - RABBITMQ_URL not set, queued ingestion disabled")
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Service error: %v", err)
	}
	log.Println("✓ Stopped gracefully")
}
