package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the read model of a purchase header.
// VendorAmount is the pre-rename amount column some historical rows still use.
type PurchaseOrderModel struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OrderNumber  string              `gorm:"type:varchar(50);not null"`
	TotalAmount  decimal.NullDecimal `gorm:"type:numeric(18,4)"`
	VendorAmount decimal.NullDecimal `gorm:"type:numeric(18,4)"`
	CreatedAt    time.Time           `gorm:"not null"`
	UpdatedAt    time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderLineModel is one planned line of a purchase
type PurchaseOrderLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	IsActive   bool            `gorm:"not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// GoodsReceiptLineModel is one received line of a goods receipt (GRN)
type GoodsReceiptLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	IsActive   bool            `gorm:"not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GoodsReceiptLineModel) TableName() string {
	return "goods_receipt_lines"
}
