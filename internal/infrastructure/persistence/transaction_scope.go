package persistence

import (
	"context"

	appamort "github.com/erp/docengine/internal/application/amortization"
	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/domain/procurement"
	"gorm.io/gorm"
)

// GormTransactionScope implements the amortization TransactionScope using
// GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appamort.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ScheduleRepo returns the schedule repository scoped to the current transaction
func (r *gormTransactionalRepositories) ScheduleRepo() amortization.ScheduleRepository {
	return NewGormScheduleRepository(r.tx)
}

// TotalsReader returns the purchase totals reader scoped to the current transaction
func (r *gormTransactionalRepositories) TotalsReader() procurement.PurchaseTotalsReader {
	return NewGormPurchaseTotalsReader(r.tx)
}

var _ appamort.TransactionScope = (*GormTransactionScope)(nil)
var _ appamort.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
