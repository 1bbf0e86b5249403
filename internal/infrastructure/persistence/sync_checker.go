package persistence

import (
	"context"

	"github.com/erp/shopsync/internal/domain/catalog"
	"github.com/erp/shopsync/internal/domain/integration"
)

// ShopifySyncChecker answers sync-state questions for the Shopify
// integration by consulting the stored link rows.
type ShopifySyncChecker struct {
	links catalog.EcommerceItemRepository
}

// NewShopifySyncChecker creates a new ShopifySyncChecker
func NewShopifySyncChecker(links catalog.EcommerceItemRepository) *ShopifySyncChecker {
	return &ShopifySyncChecker{links: links}
}

// IsSynced reports whether the remote product is already linked locally
func (c *ShopifySyncChecker) IsSynced(ctx context.Context, integrationItemCode string) (bool, error) {
	return c.links.IsSynced(ctx, catalog.IntegrationShopify, integrationItemCode)
}

// CountSynced counts linked template products, excluding variant links
func (c *ShopifySyncChecker) CountSynced(ctx context.Context) (int64, error) {
	return c.links.CountTemplates(ctx, catalog.IntegrationShopify)
}

var _ integration.SyncChecker = (*ShopifySyncChecker)(nil)
