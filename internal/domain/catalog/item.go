package catalog

import (
	"strings"

	"github.com/erp/shopsync/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WeightUnit is the destination unit of measure for item weight. The
// platform reports lowercase unit codes that are normalized on import.
type WeightUnit string

const (
	WeightUnitGram WeightUnit = "Gram"
	WeightUnitKg   WeightUnit = "Kg"
)

// NormalizeWeightUnit maps a platform weight unit code to the destination
// unit of measure. Unknown codes are kept as-is.
func NormalizeWeightUnit(code string) WeightUnit {
	switch strings.ToLower(code) {
	case "g":
		return WeightUnitGram
	case "kg":
		return WeightUnitKg
	default:
		return WeightUnit(code)
	}
}

// Item represents a product in the destination catalog. Variants are
// modeled as child items pointing at their template via VariantOf.
type Item struct {
	shared.BaseEntity
	Code         string          `gorm:"type:varchar(140);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	SKU          string          `gorm:"type:varchar(100);index"`
	ItemGroup    string          `gorm:"type:varchar(100)"`
	Brand        string          `gorm:"type:varchar(100)"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Weight       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WeightUnit   WeightUnit      `gorm:"type:varchar(20)"`
	HasVariants  bool            `gorm:"not null;default:false"`
	VariantOf    string          `gorm:"type:varchar(140);index"`
	Attributes   string          `gorm:"type:jsonb"` // JSON storage for variant option values
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new catalog item
func NewItem(code, name string) (*Item, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.ErrInvalidInput
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.ErrInvalidInput
	}
	return &Item{
		BaseEntity:   shared.NewBaseEntity(),
		Code:         code,
		Name:         name,
		SellingPrice: decimal.Zero,
		Weight:       decimal.Zero,
		Attributes:   "{}",
	}, nil
}

// IsVariant returns true if the item is a variant of a template item
func (i *Item) IsVariant() bool {
	return i.VariantOf != ""
}
