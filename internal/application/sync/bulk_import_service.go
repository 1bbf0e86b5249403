// Package syncapp orchestrates the two catalog import strategies: the
// asynchronous bulk export and the incremental paginated sync.
package syncapp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/shopsync/internal/domain/integration"
	"github.com/erp/shopsync/internal/infrastructure/ndjson"
)

// BulkImportConfig holds tuning knobs for the bulk import run
type BulkImportConfig struct {
	// PollInterval is the fixed wait between status polls
	PollInterval time.Duration
	// MaxRetries is the maximum number of status polls before timing out
	MaxRetries int
}

// DefaultBulkImportConfig returns the default polling configuration
func DefaultBulkImportConfig() BulkImportConfig {
	return BulkImportConfig{
		PollInterval: 30 * time.Second,
		MaxRetries:   10,
	}
}

// ImportStats aggregates per-record outcomes of one import run. Per-record
// failures never abort the run; they are only visible here and on the
// progress channel.
type ImportStats struct {
	Total  int
	Synced int
	Failed int
}

// BulkImportService drives the asynchronous bulk export strategy: submit
// the export, poll until a terminal status, then stream, decode and import
// the result artifact with per-record failure isolation.
type BulkImportService struct {
	exporter  integration.BulkExporter
	syncer    integration.ProductSyncer
	publisher integration.ProgressPublisher
	logger    *zap.Logger
	config    BulkImportConfig

	// sleep is swapped out in tests to count waits deterministically
	sleep func(time.Duration)
}

// BulkImportOption is a functional option for BulkImportService
type BulkImportOption func(*BulkImportService)

// WithSleep overrides the wait between polls; used in tests
func WithSleep(sleep func(time.Duration)) BulkImportOption {
	return func(s *BulkImportService) {
		s.sleep = sleep
	}
}

// NewBulkImportService creates a new BulkImportService
func NewBulkImportService(
	exporter integration.BulkExporter,
	syncer integration.ProductSyncer,
	publisher integration.ProgressPublisher,
	logger *zap.Logger,
	config BulkImportConfig,
	opts ...BulkImportOption,
) *BulkImportService {
	s := &BulkImportService{
		exporter:  exporter,
		syncer:    syncer,
		publisher: publisher,
		logger:    logger,
		config:    config,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start submits the bulk export request and returns the remote operation id
func (s *BulkImportService) Start(ctx context.Context) (string, error) {
	operationID, err := s.exporter.RunBulkExport(ctx)
	if err != nil {
		s.logger.Error("failed to start bulk operation", zap.Error(err))
		return "", err
	}

	s.logger.Info("bulk operation started", zap.String("operation_id", operationID))
	return operationID, nil
}

// Poll queries the operation status at the configured fixed interval until
// a terminal status is observed or the attempt budget is exhausted.
// COMPLETED returns the operation with its result URL. FAILED, CANCELED and
// EXPIRED return immediately as *integration.RemoteOperationError carrying
// the specific status. Exhausting the budget returns
// *integration.TimeoutError with the attempt count.
func (s *BulkImportService) Poll(ctx context.Context, operationID string) (integration.BulkOperation, error) {
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return integration.BulkOperation{}, err
		}

		op, err := s.exporter.OperationState(ctx, operationID)
		if err != nil {
			return integration.BulkOperation{}, err
		}

		switch {
		case op.Status == integration.OperationStatusCompleted:
			s.logger.Info("bulk operation completed",
				zap.String("operation_id", operationID),
				zap.Int("attempts", attempt),
			)
			return op, nil

		case op.Status.IsFailure():
			s.logger.Error("bulk operation terminated remotely",
				zap.String("operation_id", operationID),
				zap.String("status", op.Status.String()),
			)
			return integration.BulkOperation{}, &integration.RemoteOperationError{
				OperationID: operationID,
				Status:      op.Status,
			}
		}

		if attempt < s.config.MaxRetries {
			s.sleep(s.config.PollInterval)
		}
	}

	s.logger.Error("bulk operation timed out",
		zap.String("operation_id", operationID),
		zap.Int("attempts", s.config.MaxRetries),
	)
	return integration.BulkOperation{}, &integration.TimeoutError{
		OperationID: operationID,
		Attempts:    s.config.MaxRetries,
	}
}

// ImportFromURL downloads the export artifact, decodes it and imports every
// record. Download and decode faults abort the run; per-record sync
// failures are logged and isolated.
func (s *BulkImportService) ImportFromURL(ctx context.Context, resultURL string) (ImportStats, error) {
	body, err := s.exporter.DownloadArtifact(ctx, resultURL)
	if err != nil {
		return ImportStats{}, err
	}
	defer func() { _ = body.Close() }()

	records, err := ndjson.Decode(body)
	if err != nil {
		return ImportStats{}, err
	}

	return s.importRecords(ctx, records), nil
}

// importRecords invokes the product syncer exactly once per record, in
// input order. A failing record is logged and published, never propagated.
func (s *BulkImportService) importRecords(ctx context.Context, records []integration.Record) ImportStats {
	stats := ImportStats{Total: len(records)}

	for _, record := range records {
		productID := record.ID()

		if err := s.syncer.SyncProduct(ctx, productID); err != nil {
			stats.Failed++
			s.logger.Error("failed to import product",
				zap.String("product_id", productID),
				zap.Error(err),
			)
			s.publisher.Publish(ctx, integration.ProgressKeyBulkSync, integration.ProgressEvent{
				Message: fmt.Sprintf("Error syncing product %s: %v", productID, err),
				Error:   true,
			})
			continue
		}

		stats.Synced++
		s.publisher.Publish(ctx, integration.ProgressKeyBulkSync, integration.ProgressEvent{
			Message: fmt.Sprintf("Synced product %s", productID),
			Synced:  true,
		})
	}

	return stats
}

// Run executes the complete bulk import: submit, poll, download, import.
// The returned error is the single aborting fault of the run, if any.
func (s *BulkImportService) Run(ctx context.Context) error {
	started := time.Now()
	s.publisher.Publish(ctx, integration.ProgressKeyBulkSync, integration.ProgressEvent{
		Message: "Starting bulk product import...",
	})

	err := s.run(ctx)
	if err != nil {
		s.publisher.Publish(ctx, integration.ProgressKeyBulkSync, integration.ProgressEvent{
			Message: fmt.Sprintf("Error during bulk import: %v", err),
			Error:   true,
		})
		return err
	}

	s.publisher.Publish(ctx, integration.ProgressKeyBulkSync, integration.ProgressEvent{
		Message: fmt.Sprintf("Bulk import completed in %s", time.Since(started).Round(time.Millisecond)),
		Done:    true,
	})
	return nil
}

func (s *BulkImportService) run(ctx context.Context) error {
	operationID, err := s.Start(ctx)
	if err != nil {
		return err
	}

	op, err := s.Poll(ctx, operationID)
	if err != nil {
		return err
	}
	if op.ResultURL == "" {
		return fmt.Errorf("bulk operation %s completed without a result URL", operationID)
	}

	stats, err := s.ImportFromURL(ctx, op.ResultURL)
	if err != nil {
		return err
	}

	s.logger.Info("bulk import finished",
		zap.String("operation_id", operationID),
		zap.Int("total", stats.Total),
		zap.Int("synced", stats.Synced),
		zap.Int("failed", stats.Failed),
	)
	return nil
}
