package catalog

import (
	"strings"

	"github.com/erp/shopsync/internal/domain/shared"
)

// IntegrationShopify is the integration code written on every link row
// created by the Shopify importer.
const IntegrationShopify = "shopify"

// EcommerceItem links a remote platform record to a destination catalog
// item. The existence of a link row is what "already synced" means: the
// paginated sync loop skips any record that has one.
type EcommerceItem struct {
	shared.BaseEntity
	IntegrationCode     string `gorm:"type:varchar(50);not null;uniqueIndex:idx_ecom_item_integration,priority:1"`
	IntegrationItemCode string `gorm:"type:varchar(140);not null;uniqueIndex:idx_ecom_item_integration,priority:2"`
	VariantID           string `gorm:"type:varchar(140);uniqueIndex:idx_ecom_item_integration,priority:3"`
	ItemCode            string `gorm:"type:varchar(140);not null;index"`
	SKU                 string `gorm:"type:varchar(100)"`
	VariantOf           string `gorm:"type:varchar(140);index"`
}

// TableName returns the table name for GORM
func (EcommerceItem) TableName() string {
	return "ecommerce_items"
}

// NewEcommerceItem creates a new sync-link row
func NewEcommerceItem(integrationCode, integrationItemCode, itemCode string) (*EcommerceItem, error) {
	if strings.TrimSpace(integrationCode) == "" ||
		strings.TrimSpace(integrationItemCode) == "" ||
		strings.TrimSpace(itemCode) == "" {
		return nil, shared.ErrInvalidInput
	}
	return &EcommerceItem{
		BaseEntity:          shared.NewBaseEntity(),
		IntegrationCode:     integrationCode,
		IntegrationItemCode: integrationItemCode,
		ItemCode:            itemCode,
	}, nil
}
