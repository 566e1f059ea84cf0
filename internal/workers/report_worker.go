package workers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"reports/config"
	"reports/internal/ingest"
	"reports/internal/rabbitmq"
	"reports/internal/registry"
	"reports/internal/store"
	"reports/models"
)

// ReportWorker ingests report files dropped on the job queue by external
// producers (report fetchers, upload relays). Each job names a brand and a
// file already present on this host.
type ReportWorker struct {
	consumer  *rabbitmq.Consumer
	registry  *registry.Registry
	pipeline  *ingest.Pipeline
	cfg       *config.Config
	queueName string
}

func NewReportWorker(consumer *rabbitmq.Consumer, reg *registry.Registry, pipeline *ingest.Pipeline, cfg *config.Config) *ReportWorker {
	return &ReportWorker{
		consumer:  consumer,
		registry:  reg,
		pipeline:  pipeline,
		cfg:       cfg,
		queueName: cfg.RabbitMQ.ReportQueue,
	}
}

func (w *ReportWorker) Start() error {
	log.Printf("🚀 Starting Report Worker for queue: %s", w.queueName)
	return w.consumer.ConsumeQueue(w.queueName, w.handleMessage)
}

func (w *ReportWorker) handleMessage(body []byte) error {
	var job models.ReportJob
	if err := rabbitmq.ParseJSON(body, &job); err != nil {
		// Unparseable payloads can never succeed; drop instead of requeue.
		log.Printf("✗ Dropping malformed report job: %v", err)
		return nil
	}
	if job.BrandID == "" || job.FilePath == "" {
		log.Printf("✗ Dropping report job with missing brand_id or file_path")
		return nil
	}

	log.Printf("📄 Processing report job: brand=%s, file=%s", job.BrandID, job.FilePath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := w.registry.Brand(ctx, job.BrandID); err != nil {
		if errors.Is(err, registry.ErrBrandNotFound) {
			log.Printf("✗ Dropping report job for unknown brand %s", job.BrandID)
			return nil
		}
		return fmt.Errorf("failed to check brand %s: %w", job.BrandID, err)
	}

	st, err := store.OpenBrand(w.cfg, job.BrandID)
	if err != nil {
		return fmt.Errorf("failed to open store for brand %s: %w", job.BrandID, err)
	}
	defer st.Close()

	res, err := w.pipeline.Run(ctx, st, job.BrandID, job.FilePath)
	if err != nil {
		if errors.Is(err, ingest.ErrArchiveFailed) {
			// Data is committed; requeueing would double-ingest. Report and ack.
			log.Printf("⚠ Report ingested but not archived for brand %s: %v", job.BrandID, err)
			return nil
		}
		if errors.Is(err, ingest.ErrMissingOrderID) || errors.Is(err, ingest.ErrMissingLastUpdated) {
			// Bad file; leave it in place for correction, drop the job.
			log.Printf("✗ Dropping report job for brand %s, file rejected: %v", job.BrandID, err)
			return nil
		}
		return fmt.Errorf("failed to ingest report for brand %s: %w", job.BrandID, err)
	}

	log.Printf("✓ Report job done: brand=%s, rows=%d, archived=%s", job.BrandID, res.RowCount, res.ArchivedPath)
	return nil
}
