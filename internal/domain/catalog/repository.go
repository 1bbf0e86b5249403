package catalog

import "context"

// ItemRepository persists catalog items
type ItemRepository interface {
	Save(ctx context.Context, item *Item) error
	FindByCode(ctx context.Context, code string) (*Item, error)
	// CountTemplates counts items that are not variants of another item
	CountTemplates(ctx context.Context) (int64, error)
}

// EcommerceItemRepository persists remote-to-local sync links
type EcommerceItemRepository interface {
	Save(ctx context.Context, link *EcommerceItem) error
	// IsSynced reports whether a link exists for the given remote item code
	IsSynced(ctx context.Context, integrationCode, integrationItemCode string) (bool, error)
	FindByIntegrationItemCode(ctx context.Context, integrationCode, integrationItemCode string) (*EcommerceItem, error)
	// CountTemplates counts links whose items are not variants
	CountTemplates(ctx context.Context, integrationCode string) (int64, error)
}
