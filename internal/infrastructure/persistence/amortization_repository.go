package persistence

import (
	"context"
	"time"

	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/erp/docengine/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormScheduleRepository implements amortization.ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByPurchase returns every row of kind for a purchase ordered by number then id
func (r *GormScheduleRepository) FindByPurchase(ctx context.Context, purchaseID uuid.UUID, kind amortization.Kind) ([]amortization.Row, error) {
	var rows []models.AmortizationRowModel
	err := r.db.WithContext(ctx).
		Where("purchase_id = ? AND kind = ?", purchaseID, kind).
		Order("period_or_term_number ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]amortization.Row, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// UpdateInvoiceAmount sets the invoice amount and audit stamps of one row
func (r *GormScheduleRepository) UpdateInvoiceAmount(ctx context.Context, rowID uuid.UUID, amount decimal.Decimal, actor string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.AmortizationRowModel{}).
		Where("id = ?", rowID).
		Updates(map[string]any{
			"invoice_amount": amount,
			"updated_at":     at,
			"updated_by":     actor,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Create inserts schedule rows. Used when seeding a purchase schedule.
func (r *GormScheduleRepository) Create(ctx context.Context, rows ...amortization.Row) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([]*models.AmortizationRowModel, len(rows))
	for i, row := range rows {
		batch[i] = models.AmortizationRowModelFromDomain(row)
	}
	return r.db.WithContext(ctx).Create(&batch).Error
}

// WithTx returns a new repository bound to the given transaction
func (r *GormScheduleRepository) WithTx(tx *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: tx}
}

var _ amortization.ScheduleRepository = (*GormScheduleRepository)(nil)
