package persistence

import (
	"context"

	"gorm.io/gorm"
)

// GormUnitOfWork runs functions inside database transactions. A top-level
// call opens a real transaction; calls nested inside an active unit of work
// run on a savepoint, so a failed inner function rolls back only its own
// writes while the outer transaction stays usable.
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTx executes fn in a transaction scope. Repositories created from the
// same database pick the transaction up from the context, so fn only needs
// to thread ctx through.
func (u *GormUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	base := dbFromContext(ctx, u.db)
	return base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
