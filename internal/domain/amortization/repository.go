package amortization

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScheduleRepository reads and updates the installment rows of purchases
type ScheduleRepository interface {
	// FindByPurchase returns every row of the given kind for a purchase,
	// canceled and paid rows included, ordered by number then id
	FindByPurchase(ctx context.Context, purchaseID uuid.UUID, kind Kind) ([]Row, error)

	// UpdateInvoiceAmount sets the invoice amount and audit stamps of one row
	UpdateInvoiceAmount(ctx context.Context, rowID uuid.UUID, amount decimal.Decimal, actor string, at time.Time) error
}
