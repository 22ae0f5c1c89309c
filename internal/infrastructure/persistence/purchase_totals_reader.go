package persistence

import (
	"context"

	"github.com/erp/docengine/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// purchaseTotalsSQL normalizes the legacy vendor_amount column into the order
// amount and sums only active lines. A missing purchase yields zeros.
const purchaseTotalsSQL = `SELECT
  COALESCE((SELECT SUM(g.amount) FROM goods_receipt_lines g WHERE g.purchase_id = ? AND g.is_active = ?), 0) AS received_total,
  COALESCE((SELECT COALESCE(NULLIF(p.total_amount, 0), p.vendor_amount, 0) FROM purchase_orders p WHERE p.id = ?), 0) AS order_amount,
  COALESCE((SELECT SUM(l.amount) FROM purchase_order_lines l WHERE l.purchase_id = ? AND l.is_active = ?), 0) AS order_lines_total`

type purchaseTotalsRow struct {
	ReceivedTotal   decimal.Decimal
	OrderAmount     decimal.Decimal
	OrderLinesTotal decimal.Decimal
}

// GormPurchaseTotalsReader implements procurement.PurchaseTotalsReader
type GormPurchaseTotalsReader struct {
	db *gorm.DB
}

// NewGormPurchaseTotalsReader creates a new GormPurchaseTotalsReader
func NewGormPurchaseTotalsReader(db *gorm.DB) *GormPurchaseTotalsReader {
	return &GormPurchaseTotalsReader{db: db}
}

// GetTotals loads the received, ordered and line totals of a purchase
func (r *GormPurchaseTotalsReader) GetTotals(ctx context.Context, purchaseID uuid.UUID) (procurement.PurchaseTotals, error) {
	var row purchaseTotalsRow
	err := r.db.WithContext(ctx).
		Raw(purchaseTotalsSQL, purchaseID, true, purchaseID, purchaseID, true).
		Scan(&row).Error
	if err != nil {
		return procurement.PurchaseTotals{}, err
	}
	return procurement.PurchaseTotals{
		PurchaseID:      purchaseID,
		ReceivedTotal:   row.ReceivedTotal,
		OrderAmount:     row.OrderAmount,
		OrderLinesTotal: row.OrderLinesTotal,
	}, nil
}

// WithTx returns a new reader bound to the given transaction
func (r *GormPurchaseTotalsReader) WithTx(tx *gorm.DB) *GormPurchaseTotalsReader {
	return &GormPurchaseTotalsReader{db: tx}
}

var _ procurement.PurchaseTotalsReader = (*GormPurchaseTotalsReader)(nil)
