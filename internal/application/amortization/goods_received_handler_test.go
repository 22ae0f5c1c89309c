package amortization

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type MockRecalculator struct {
	mock.Mock
}

func (m *MockRecalculator) Recalculate(ctx context.Context, purchaseID uuid.UUID, actor string) (*amortization.RecalculationResult, error) {
	args := m.Called(ctx, purchaseID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*amortization.RecalculationResult), args.Error(1)
}

func TestGoodsReceivedHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("recalculates with the event actor", func(t *testing.T) {
		recalc := new(MockRecalculator)
		handler := NewGoodsReceivedHandler(recalc, zaptest.NewLogger(t))
		purchaseID := uuid.New()
		event := procurement.NewGoodsReceivedEvent(purchaseID, uuid.New(), "warehouse-clerk")

		recalc.On("Recalculate", mock.Anything, purchaseID, "warehouse-clerk").
			Return(&amortization.RecalculationResult{Outcome: amortization.OutcomeApplied}, nil).Once()

		require.NoError(t, handler.Handle(ctx, event))
		recalc.AssertExpectations(t)
	})

	t.Run("propagates recalculation errors", func(t *testing.T) {
		recalc := new(MockRecalculator)
		handler := NewGoodsReceivedHandler(recalc, zap.NewNop())
		event := procurement.NewGoodsReceivedEvent(uuid.New(), uuid.New(), "")

		recalc.On("Recalculate", mock.Anything, event.PurchaseID, "").Return(nil, errors.New("tx aborted"))

		err := handler.Handle(ctx, event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tx aborted")
	})

	t.Run("rejects other event types", func(t *testing.T) {
		handler := NewGoodsReceivedHandler(new(MockRecalculator), zap.NewNop())
		template, err := numbering.NewDocumentTemplate("INV", "INV-{SEQ:4}", "", true)
		require.NoError(t, err)

		err = handler.Handle(ctx, numbering.NewDocumentTemplateChangedEvent(template))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected event type")
	})
}

func TestGoodsReceivedHandler_EventTypes(t *testing.T) {
	handler := NewGoodsReceivedHandler(new(MockRecalculator), zap.NewNop())
	assert.Equal(t, []string{procurement.EventTypeGoodsReceived}, handler.EventTypes())
}
