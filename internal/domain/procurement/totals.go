// Package procurement exposes the read-only view of purchases and goods
// receipts the amortization engine depends on.
package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseTotals carries the amounts a base amount can be derived from.
// Legacy amount columns are already normalized into OrderAmount by the reader.
type PurchaseTotals struct {
	PurchaseID      uuid.UUID
	ReceivedTotal   decimal.Decimal
	OrderAmount     decimal.Decimal
	OrderLinesTotal decimal.Decimal
}

// PlannedTotal returns the direct order amount when positive, else the sum
// of the active order lines
func (t PurchaseTotals) PlannedTotal() decimal.Decimal {
	if t.OrderAmount.IsPositive() {
		return t.OrderAmount
	}
	return t.OrderLinesTotal
}

// BaseAmount returns the received total when positive, else the planned total
func (t PurchaseTotals) BaseAmount() decimal.Decimal {
	if t.ReceivedTotal.IsPositive() {
		return t.ReceivedTotal
	}
	return t.PlannedTotal()
}

// PurchaseTotalsReader loads purchase totals.
// A purchase that does not exist yields zero totals and no error.
type PurchaseTotalsReader interface {
	GetTotals(ctx context.Context, purchaseID uuid.UUID) (PurchaseTotals, error)
}
