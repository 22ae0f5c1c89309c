package models

import (
	"time"

	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmortizationRowModel is the persistence model for schedule installments
type AmortizationRowModel struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	PurchaseID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_amortization_rows_purchase_kind"`
	Kind          amortization.Kind `gorm:"type:varchar(10);not null;index:idx_amortization_rows_purchase_kind"`
	Number        int               `gorm:"column:period_or_term_number;not null"`
	TermWeight    decimal.Decimal   `gorm:"type:numeric(9,4);not null;default:0"`
	InvoiceAmount decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0"`
	InvoiceNumber *string           `gorm:"type:varchar(100)"`
	IsCanceled    bool              `gorm:"not null"`
	CreatedAt     time.Time         `gorm:"not null"`
	UpdatedAt     *time.Time
	UpdatedBy     *string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (AmortizationRowModel) TableName() string {
	return "amortization_rows"
}

// ToDomain converts the persistence model to a domain row
func (m *AmortizationRowModel) ToDomain() amortization.Row {
	return amortization.Row{
		ID:            m.ID,
		PurchaseID:    m.PurchaseID,
		Kind:          m.Kind,
		Number:        m.Number,
		TermWeight:    m.TermWeight,
		InvoiceAmount: m.InvoiceAmount,
		InvoiceNumber: m.InvoiceNumber,
		IsCanceled:    m.IsCanceled,
		UpdatedAt:     m.UpdatedAt,
		UpdatedBy:     m.UpdatedBy,
	}
}

// AmortizationRowModelFromDomain creates a persistence model from a domain row
func AmortizationRowModelFromDomain(r amortization.Row) *AmortizationRowModel {
	return &AmortizationRowModel{
		ID:            r.ID,
		PurchaseID:    r.PurchaseID,
		Kind:          r.Kind,
		Number:        r.Number,
		TermWeight:    r.TermWeight,
		InvoiceAmount: r.InvoiceAmount,
		InvoiceNumber: r.InvoiceNumber,
		IsCanceled:    r.IsCanceled,
		CreatedAt:     time.Now(),
		UpdatedAt:     r.UpdatedAt,
		UpdatedBy:     r.UpdatedBy,
	}
}
