package handler

import (
	"context"

	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/domain/procurement"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/erp/docengine/internal/interfaces/http/dto"
	"github.com/erp/docengine/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Recalculator rebalances the amortization schedule of a purchase
type Recalculator interface {
	Recalculate(ctx context.Context, purchaseID uuid.UUID, actor string) (*amortization.RecalculationResult, error)
}

// AmortizationHandler serves schedule recalculation
type AmortizationHandler struct {
	BaseHandler
	recalculator Recalculator
	publisher    shared.EventPublisher
}

// NewAmortizationHandler creates an AmortizationHandler. publisher may be
// nil, in which case goods-received notifications are rejected.
func NewAmortizationHandler(recalculator Recalculator, publisher shared.EventPublisher) *AmortizationHandler {
	return &AmortizationHandler{recalculator: recalculator, publisher: publisher}
}

// Recalculate rebalances the unpaid installments of purchase :id.
// POST /purchases/:id/amortization/recalculate
func (h *AmortizationHandler) Recalculate(c *gin.Context) {
	purchaseID, ok := h.purchaseID(c)
	if !ok {
		return
	}

	result, err := h.recalculator.Recalculate(c.Request.Context(), purchaseID, middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toRecalculationResponse(result))
}

// GoodsReceived publishes a GoodsReceived event for purchase :id. The
// recalculation runs in the event handlers before the response is written.
// POST /purchases/:id/goods-received
func (h *AmortizationHandler) GoodsReceived(c *gin.Context) {
	purchaseID, ok := h.purchaseID(c)
	if !ok {
		return
	}
	var req dto.GoodsReceivedRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if h.publisher == nil {
		h.Error(c, shared.CodeInternal, "Event publishing is not configured")
		return
	}

	event := procurement.NewGoodsReceivedEvent(purchaseID, uuid.MustParse(req.ReceiptID), middleware.GetActor(c))
	if req.EventID != "" {
		event.UseEventID(uuid.MustParse(req.EventID))
	}
	if err := h.publisher.Publish(c.Request.Context(), event); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, dto.GoodsReceivedResponse{EventID: event.ID.String()})
}

func (h *AmortizationHandler) purchaseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, shared.CodeInvalidInput, "Purchase id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func toRecalculationResponse(r *amortization.RecalculationResult) dto.RecalculationResponse {
	resp := dto.RecalculationResponse{
		PurchaseID:       r.PurchaseID.String(),
		Outcome:          string(r.Outcome),
		Reason:           r.Reason,
		BaseAmount:       r.BaseAmount.String(),
		SumPaid:          r.SumPaid.String(),
		RemainingToPay:   r.RemainingToPay.String(),
		SumUnpaidWeights: r.SumUnpaidWeights.String(),
		UpdatedRows:      len(r.Updates),
		Updates:          make([]dto.RowUpdateResponse, 0, len(r.Updates)),
	}
	for _, u := range r.Updates {
		resp.Updates = append(resp.Updates, dto.RowUpdateResponse{
			RowID:     u.RowID.String(),
			Kind:      string(u.Kind),
			Number:    u.Number,
			OldAmount: u.OldAmount.String(),
			NewAmount: u.NewAmount.String(),
		})
	}
	return resp
}
