package syncapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/shopsync/internal/domain/integration"
)

// ProductSyncLoop drives the incremental paginated sync strategy: walk the
// remote catalog behind an opaque cursor, skip records already linked
// locally, and import the rest with a per-record rollback boundary inside a
// per-page commit.
type ProductSyncLoop struct {
	source    integration.PageSource
	checker   integration.SyncChecker
	syncer    integration.ProductSyncer
	uow       integration.UnitOfWork
	publisher integration.ProgressPublisher
	logger    *zap.Logger
}

// NewProductSyncLoop creates a new ProductSyncLoop
func NewProductSyncLoop(
	source integration.PageSource,
	checker integration.SyncChecker,
	syncer integration.ProductSyncer,
	uow integration.UnitOfWork,
	publisher integration.ProgressPublisher,
	logger *zap.Logger,
) *ProductSyncLoop {
	return &ProductSyncLoop{
		source:    source,
		checker:   checker,
		syncer:    syncer,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Run walks the whole remote catalog once. Record-scoped failures are
// rolled back, logged and skipped; only an accessor-level fault fetching a
// page aborts the run. Each page is committed before the next is fetched so
// partial progress stays durable.
func (l *ProductSyncLoop) Run(ctx context.Context) error {
	started := time.Now()
	l.publish(ctx, integration.ProgressEvent{Message: "Syncing all products..."})
	l.warnOnCountMismatch(ctx)

	stats := ImportStats{}
	skipped := 0
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := l.source.FetchPage(ctx, cursor)
		if err != nil {
			l.logger.Error("failed to fetch catalog page", zap.String("cursor", cursor), zap.Error(err))
			l.publish(ctx, integration.ProgressEvent{
				Message: fmt.Sprintf("Error fetching products: %v", err),
				Error:   true,
			})
			return err
		}

		pageStats, pageSkipped := l.syncPage(ctx, page.Products)
		stats.Total += pageStats.Total
		stats.Synced += pageStats.Synced
		stats.Failed += pageStats.Failed
		skipped += pageSkipped

		if !page.HasNext {
			break
		}
		cursor = page.NextCursor
	}

	l.logger.Info("paginated sync finished",
		zap.Int("total", stats.Total),
		zap.Int("synced", stats.Synced),
		zap.Int("skipped", skipped),
		zap.Int("failed", stats.Failed),
	)
	l.publish(ctx, integration.ProgressEvent{
		Message: fmt.Sprintf("Done in %s", time.Since(started).Round(time.Millisecond)),
		Done:    true,
	})
	return nil
}

// syncPage imports one page inside a single transaction. Each record gets
// its own savepoint so a failing record rolls back alone; the page commits
// as one unit afterwards. The outer transaction never sees an error: record
// faults must not abort the page.
func (l *ProductSyncLoop) syncPage(ctx context.Context, products []integration.Record) (ImportStats, int) {
	stats := ImportStats{Total: len(products)}
	skipped := 0

	err := l.uow.WithinTx(ctx, func(pageCtx context.Context) error {
		for _, product := range products {
			productID := product.ID()
			l.publish(pageCtx, integration.ProgressEvent{
				Message: fmt.Sprintf("Syncing product %s", productID),
			})

			alreadySynced, err := l.checker.IsSynced(pageCtx, productID)
			if err != nil {
				stats.Failed++
				l.logger.Error("failed to check sync state",
					zap.String("product_id", productID), zap.Error(err))
				continue
			}
			if alreadySynced {
				skipped++
				l.publish(pageCtx, integration.ProgressEvent{
					Message: fmt.Sprintf("Product %s already synced. Skipping...", productID),
				})
				continue
			}

			syncErr := l.uow.WithinTx(pageCtx, func(recordCtx context.Context) error {
				return l.syncer.SyncProduct(recordCtx, productID)
			})

			switch {
			case syncErr == nil:
				stats.Synced++
				l.publish(pageCtx, integration.ProgressEvent{
					Message: fmt.Sprintf("Synced product %s", productID),
					Synced:  true,
				})
			case errors.Is(syncErr, integration.ErrItemAlreadySynced):
				skipped++
				l.logger.Info("product already linked, skipping",
					zap.String("product_id", productID))
				l.publish(pageCtx, integration.ProgressEvent{
					Message: fmt.Sprintf("Product %s already synced. Skipping...", productID),
				})
			default:
				stats.Failed++
				l.logger.Error("failed to sync product",
					zap.String("product_id", productID), zap.Error(syncErr))
				l.publish(pageCtx, integration.ProgressEvent{
					Message: fmt.Sprintf("Error syncing product %s: %v", productID, syncErr),
					Error:   true,
				})
			}
		}
		return nil
	})
	if err != nil {
		// The page transaction itself failed to commit; the records on it
		// will be revisited on the next run.
		stats.Failed += stats.Synced
		stats.Synced = 0
		l.logger.Error("failed to commit page", zap.Error(err))
	}

	return stats, skipped
}

// warnOnCountMismatch mirrors the pre-sync sanity check: when the remote
// side holds fewer products than are already linked locally, something got
// deleted upstream and the operator should know. Best effort only.
func (l *ProductSyncLoop) warnOnCountMismatch(ctx context.Context) {
	remote, err := l.source.ProductCount(ctx)
	if err != nil {
		l.logger.Warn("failed to fetch remote product count", zap.Error(err))
		return
	}
	local, err := l.checker.CountSynced(ctx)
	if err != nil {
		l.logger.Warn("failed to count synced products", zap.Error(err))
		return
	}
	if int64(remote) < local {
		l.publish(ctx, integration.ProgressEvent{
			Message: "Warning: Shopify has less products than the local catalog.",
		})
	}
}

func (l *ProductSyncLoop) publish(ctx context.Context, event integration.ProgressEvent) {
	l.publisher.Publish(ctx, integration.ProgressKeySyncAll, event)
}
