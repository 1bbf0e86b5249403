package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/shopsync/internal/domain/catalog"
	"github.com/erp/shopsync/internal/domain/shared"
)

// GormEcommerceItemRepository implements catalog.EcommerceItemRepository
// using GORM
type GormEcommerceItemRepository struct {
	db *gorm.DB
}

func NewGormEcommerceItemRepository(db *gorm.DB) *GormEcommerceItemRepository {
	return &GormEcommerceItemRepository{db: db}
}

// Save inserts a sync-link row. A second insert for the same remote record
// hits the composite unique index and is reported as shared.ErrAlreadyExists
// so callers can treat duplicates as skips.
func (r *GormEcommerceItemRepository) Save(ctx context.Context, link *catalog.EcommerceItem) error {
	db := dbFromContext(ctx, r.db)
	if err := db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *GormEcommerceItemRepository) IsSynced(ctx context.Context, integrationCode, integrationItemCode string) (bool, error) {
	db := dbFromContext(ctx, r.db)
	var count int64
	err := db.WithContext(ctx).Model(&catalog.EcommerceItem{}).
		Where("integration_code = ? AND integration_item_code = ?", integrationCode, integrationItemCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormEcommerceItemRepository) FindByIntegrationItemCode(ctx context.Context, integrationCode, integrationItemCode string) (*catalog.EcommerceItem, error) {
	db := dbFromContext(ctx, r.db)
	var link catalog.EcommerceItem
	err := db.WithContext(ctx).
		Where("integration_code = ? AND integration_item_code = ? AND variant_id = ''", integrationCode, integrationItemCode).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *GormEcommerceItemRepository) CountTemplates(ctx context.Context, integrationCode string) (int64, error) {
	db := dbFromContext(ctx, r.db)
	var count int64
	err := db.WithContext(ctx).Model(&catalog.EcommerceItem{}).
		Where("integration_code = ? AND variant_id = ''", integrationCode).
		Count(&count).Error
	return count, err
}
