package procurement

import (
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// AggregateTypePurchase is the aggregate type name for purchases
	AggregateTypePurchase = "Purchase"
	// EventTypeGoodsReceived is published when a goods receipt is posted against a purchase
	EventTypeGoodsReceived = "GoodsReceived"
)

// GoodsReceivedEvent is raised when goods are received for a purchase
type GoodsReceivedEvent struct {
	shared.BaseDomainEvent
	PurchaseID uuid.UUID `json:"purchase_id"`
	ReceiptID  uuid.UUID `json:"receipt_id"`
	ActedBy    string    `json:"acted_by,omitempty"`
}

// NewGoodsReceivedEvent creates a new GoodsReceivedEvent
func NewGoodsReceivedEvent(purchaseID, receiptID uuid.UUID, actedBy string) *GoodsReceivedEvent {
	return &GoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceived, AggregateTypePurchase, purchaseID),
		PurchaseID:      purchaseID,
		ReceiptID:       receiptID,
		ActedBy:         actedBy,
	}
}
