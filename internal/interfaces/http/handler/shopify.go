package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/erp/shopsync/internal/application/sync"
	"github.com/erp/shopsync/internal/domain/integration"
	"github.com/erp/shopsync/internal/infrastructure/jobs"
	"github.com/erp/shopsync/internal/interfaces/http/dto"
)

// CatalogBrowser serves the interactive product operations
type CatalogBrowser interface {
	FetchProducts(ctx context.Context, cursor string) (syncapp.ProductListing, error)
	Counts(ctx context.Context) (syncapp.ProductCounts, error)
	SyncOne(ctx context.Context, productID string) bool
	Resync(ctx context.Context, productID string) bool
}

// SyncRunner runs one full catalog sync to completion
type SyncRunner interface {
	Run(ctx context.Context) error
}

// JobEnqueuer starts named background jobs with single-flight semantics
type JobEnqueuer interface {
	Enqueue(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// ShopifyHandler handles the Shopify catalog import endpoints
type ShopifyHandler struct {
	BaseHandler
	catalog    CatalogBrowser
	bulkJob    SyncRunner
	pagedJob   SyncRunner
	runner     JobEnqueuer
	enabled    bool
	enableBulk bool
	logger     *zap.Logger
}

// NewShopifyHandler creates a new ShopifyHandler
func NewShopifyHandler(
	catalog CatalogBrowser,
	bulkJob SyncRunner,
	pagedJob SyncRunner,
	runner JobEnqueuer,
	enabled bool,
	enableBulk bool,
	logger *zap.Logger,
) *ShopifyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopifyHandler{
		catalog:    catalog,
		bulkJob:    bulkJob,
		pagedJob:   pagedJob,
		runner:     runner,
		enabled:    enabled,
		enableBulk: enableBulk,
		logger:     logger,
	}
}

// RegisterRoutes registers the Shopify routes on the given group
func (h *ShopifyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shopify := rg.Group("/shopify")
	{
		shopify.GET("/products", h.ListProducts)
		shopify.GET("/products/count", h.CountProducts)
		shopify.POST("/products/:id/sync", h.SyncProduct)
		shopify.POST("/products/:id/resync", h.ResyncProduct)
		shopify.POST("/import", h.ImportAll)
	}
}

// ListProducts returns one page of the remote catalog, each product
// annotated with its local sync state. The cursor query parameter continues
// a previous page.
func (h *ShopifyHandler) ListProducts(c *gin.Context) {
	if !h.enabled {
		h.ErrorWithCode(c, dto.ErrCodeIntegrationDisabled, "Shopify integration is disabled")
		return
	}

	listing, err := h.catalog.FetchProducts(c.Request.Context(), c.Query("cursor"))
	if err != nil {
		h.logger.Error("failed to fetch product page", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeUpstream, "Failed to fetch products from Shopify")
		return
	}

	h.Success(c, listing)
}

// CountProducts returns the remote, synced and local product counts
func (h *ShopifyHandler) CountProducts(c *gin.Context) {
	if !h.enabled {
		h.ErrorWithCode(c, dto.ErrCodeIntegrationDisabled, "Shopify integration is disabled")
		return
	}

	counts, err := h.catalog.Counts(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to count products", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeUpstream, "Failed to count products")
		return
	}

	h.Success(c, counts)
}

// SyncProduct imports a single product by its remote ID
func (h *ShopifyHandler) SyncProduct(c *gin.Context) {
	if !h.enabled {
		h.ErrorWithCode(c, dto.ErrCodeIntegrationDisabled, "Shopify integration is disabled")
		return
	}

	productID := c.Param("id")
	ok := h.catalog.SyncOne(c.Request.Context(), productID)
	h.Success(c, gin.H{"product_id": productID, "synced": ok})
}

// ResyncProduct re-imports every variant of an already-synced product
func (h *ShopifyHandler) ResyncProduct(c *gin.Context) {
	if !h.enabled {
		h.ErrorWithCode(c, dto.ErrCodeIntegrationDisabled, "Shopify integration is disabled")
		return
	}

	productID := c.Param("id")
	ok := h.catalog.Resync(c.Request.Context(), productID)
	h.Success(c, gin.H{"product_id": productID, "synced": ok})
}

// ImportAll enqueues a full catalog import as a background job. The bulk
// export strategy is preferred when enabled; otherwise the paginated sync
// walks the catalog page by page. A second request while the job runs gets
// 409.
func (h *ShopifyHandler) ImportAll(c *gin.Context) {
	if !h.enabled {
		h.ErrorWithCode(c, dto.ErrCodeIntegrationDisabled, "Shopify integration is disabled")
		return
	}

	jobName := integration.JobNameSyncAll
	job := h.pagedJob
	if h.enableBulk {
		jobName = integration.JobNameBulkSync
		job = h.bulkJob
	}

	err := h.runner.Enqueue(c.Request.Context(), jobName, job.Run)
	if err != nil {
		if errors.Is(err, jobs.ErrJobAlreadyRunning) {
			h.ErrorWithCode(c, dto.ErrCodeJobAlreadyRunning, "A catalog import is already running")
			return
		}
		h.logger.Error("failed to enqueue import job",
			zap.String("job", jobName), zap.Error(err))
		h.InternalError(c, "Failed to start the import")
		return
	}

	h.Accepted(c, gin.H{"job": jobName})
}
