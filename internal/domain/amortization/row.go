// Package amortization models the installment schedule of a purchase and the
// proportional redistribution of unpaid installments against a base amount.
package amortization

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind distinguishes weighted installments from full-amount period rows
type Kind string

const (
	// KindTerm rows share the base amount by weight
	KindTerm Kind = "TERM"
	// KindPeriod rows each carry the whole base amount
	KindPeriod Kind = "PERIOD"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	return k == KindTerm || k == KindPeriod
}

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// Row is one installment of a purchase's amortization schedule.
// Rows are created by schedule management; only InvoiceAmount and the audit
// stamps are ever changed here.
type Row struct {
	ID            uuid.UUID
	PurchaseID    uuid.UUID
	Kind          Kind
	Number        int
	TermWeight    decimal.Decimal
	InvoiceAmount decimal.Decimal
	InvoiceNumber *string
	IsCanceled    bool
	UpdatedAt     *time.Time
	UpdatedBy     *string
}

// IsPaid reports whether an invoice has been issued against the row
func (r *Row) IsPaid() bool {
	return r.InvoiceNumber != nil && strings.TrimSpace(*r.InvoiceNumber) != ""
}

// IsRedistributable reports whether the row may receive a new amount
func (r *Row) IsRedistributable() bool {
	return !r.IsPaid() && !r.IsCanceled
}

// Weight returns the term weight, treating negative values as zero
func (r *Row) Weight() decimal.Decimal {
	if r.TermWeight.IsNegative() {
		return decimal.Zero
	}
	return r.TermWeight
}

// ApplyAmount sets a new invoice amount and stamps the change
func (r *Row) ApplyAmount(amount decimal.Decimal, actor string, at time.Time) {
	r.InvoiceAmount = amount
	r.UpdatedAt = &at
	r.UpdatedBy = &actor
}
