package amortization

import (
	"context"
	"fmt"

	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/domain/procurement"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recalculator is the use case the goods-received handler drives
type Recalculator interface {
	Recalculate(ctx context.Context, purchaseID uuid.UUID, actor string) (*amortization.RecalculationResult, error)
}

// GoodsReceivedHandler recalculates a purchase schedule whenever goods are
// received against the purchase, since the received total supersedes the
// planned amount
type GoodsReceivedHandler struct {
	recalculator Recalculator
	logger       *zap.Logger
}

// NewGoodsReceivedHandler creates a new GoodsReceivedHandler
func NewGoodsReceivedHandler(recalculator Recalculator, logger *zap.Logger) *GoodsReceivedHandler {
	return &GoodsReceivedHandler{
		recalculator: recalculator,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *GoodsReceivedHandler) EventTypes() []string {
	return []string{procurement.EventTypeGoodsReceived}
}

// Handle processes a GoodsReceivedEvent
func (h *GoodsReceivedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	received, ok := event.(*procurement.GoodsReceivedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", procurement.EventTypeGoodsReceived),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			procurement.EventTypeGoodsReceived, event.EventType())
	}

	result, err := h.recalculator.Recalculate(ctx, received.PurchaseID, received.ActedBy)
	if err != nil {
		return fmt.Errorf("recalculate purchase %s after receipt %s: %w", received.PurchaseID, received.ReceiptID, err)
	}

	h.logger.Debug("Schedule recalculated after goods receipt",
		zap.String("purchase_id", received.PurchaseID.String()),
		zap.String("receipt_id", received.ReceiptID.String()),
		zap.String("outcome", string(result.Outcome)),
	)
	return nil
}

var _ shared.EventHandler = (*GoodsReceivedHandler)(nil)
