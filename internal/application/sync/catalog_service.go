package syncapp

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/shopsync/internal/domain/catalog"
	"github.com/erp/shopsync/internal/domain/integration"
)

// AnnotatedProduct is one remote product decorated with its local sync state
type AnnotatedProduct struct {
	Product integration.Record `json:"product"`
	Synced  bool               `json:"synced"`
}

// ProductListing is one page of the remote catalog for presentation
type ProductListing struct {
	Products   []AnnotatedProduct `json:"products"`
	NextCursor string             `json:"nextCursor,omitempty"`
	PrevCursor string             `json:"prevCursor,omitempty"`
}

// ProductCounts compares the three product populations involved in a sync
type ProductCounts struct {
	ShopifyCount int   `json:"shopifyCount"`
	SyncedCount  int64 `json:"syncedCount"`
	LocalCount   int64 `json:"localCount"`
}

// CatalogService serves the interactive single-product operations: listing
// remote products with sync flags, counting, and syncing or re-syncing one
// product on demand.
type CatalogService struct {
	source  integration.PageSource
	fetcher integration.ProductFetcher
	checker integration.SyncChecker
	syncer  integration.ProductSyncer
	uow     integration.UnitOfWork
	items   catalog.ItemRepository
	logger  *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	source integration.PageSource,
	fetcher integration.ProductFetcher,
	checker integration.SyncChecker,
	syncer integration.ProductSyncer,
	uow integration.UnitOfWork,
	items catalog.ItemRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		source:  source,
		fetcher: fetcher,
		checker: checker,
		syncer:  syncer,
		uow:     uow,
		items:   items,
		logger:  logger,
	}
}

// FetchProducts returns one page of the remote catalog, each product
// annotated with whether it is already synced locally.
func (s *CatalogService) FetchProducts(ctx context.Context, cursor string) (ProductListing, error) {
	page, err := s.source.FetchPage(ctx, cursor)
	if err != nil {
		return ProductListing{}, err
	}

	listing := ProductListing{
		Products:   make([]AnnotatedProduct, 0, len(page.Products)),
		PrevCursor: page.PrevCursor,
	}
	if page.HasNext {
		listing.NextCursor = page.NextCursor
	}

	for _, product := range page.Products {
		synced, err := s.checker.IsSynced(ctx, product.ID())
		if err != nil {
			return ProductListing{}, fmt.Errorf("failed to check sync state of %s: %w", product.ID(), err)
		}
		listing.Products = append(listing.Products, AnnotatedProduct{Product: product, Synced: synced})
	}

	return listing, nil
}

// Counts returns the remote, synced and local product counts
func (s *CatalogService) Counts(ctx context.Context) (ProductCounts, error) {
	remote, err := s.source.ProductCount(ctx)
	if err != nil {
		return ProductCounts{}, err
	}
	synced, err := s.checker.CountSynced(ctx)
	if err != nil {
		return ProductCounts{}, err
	}
	local, err := s.items.CountTemplates(ctx)
	if err != nil {
		return ProductCounts{}, err
	}
	return ProductCounts{ShopifyCount: remote, SyncedCount: synced, LocalCount: local}, nil
}

// SyncOne imports a single product inside its own transaction. The ok
// result reports whether the import went through; failures are rolled back
// and logged, not propagated.
func (s *CatalogService) SyncOne(ctx context.Context, productID string) bool {
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return s.syncer.SyncProduct(txCtx, productID)
	})
	if err != nil {
		s.logger.Error("failed to sync product",
			zap.String("product_id", productID), zap.Error(err))
		return false
	}
	return true
}

// Resync re-imports every variant of a product inside one transaction; a
// failure on any variant rolls the whole resync back.
func (s *CatalogService) Resync(ctx context.Context, productID string) bool {
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		product, err := s.fetcher.FetchProduct(txCtx, productID)
		if err != nil {
			return err
		}

		for _, variantID := range variantIDs(product) {
			if err := s.syncer.SyncVariant(txCtx, productID, variantID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to resync product",
			zap.String("product_id", productID), zap.Error(err))
		return false
	}
	return true
}

// variantIDs extracts the variant id list from a raw product record
func variantIDs(product integration.Record) []string {
	raw, ok := product["variants"].([]any)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		fields, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if id := integration.Record(fields).ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
