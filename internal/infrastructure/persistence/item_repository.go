package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/shopsync/internal/domain/catalog"
	"github.com/erp/shopsync/internal/domain/shared"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Save upserts an item by its code. Re-importing a product updates the
// existing row instead of failing on the unique index.
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	db := dbFromContext(ctx, r.db)
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "sku", "item_group", "brand",
			"selling_price", "weight", "weight_unit", "has_variants",
			"variant_of", "attributes", "updated_at",
		}),
	}).Create(item).Error
}

func (r *GormItemRepository) FindByCode(ctx context.Context, code string) (*catalog.Item, error) {
	db := dbFromContext(ctx, r.db)
	var item catalog.Item
	err := db.WithContext(ctx).Where("code = ?", code).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) CountTemplates(ctx context.Context) (int64, error) {
	db := dbFromContext(ctx, r.db)
	var count int64
	err := db.WithContext(ctx).Model(&catalog.Item{}).
		Where("variant_of = ''").
		Count(&count).Error
	return count, err
}
