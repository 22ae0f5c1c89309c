package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/domain/procurement"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/erp/docengine/internal/interfaces/http/dto"
	"github.com/erp/docengine/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newAmortizationRouter(h *AmortizationHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Actor())
	r.POST("/purchases/:id/amortization/recalculate", h.Recalculate)
	r.POST("/purchases/:id/goods-received", h.GoodsReceived)
	return r
}

func TestAmortizationHandler_Recalculate(t *testing.T) {
	rec := new(MockRecalculator)
	r := newAmortizationRouter(NewAmortizationHandler(rec, nil))

	purchaseID := uuid.New()
	rowID := uuid.New()
	rec.On("Recalculate", mock.Anything, purchaseID, "alice").Return(&amortization.RecalculationResult{
		PurchaseID:       purchaseID,
		Outcome:          amortization.OutcomeApplied,
		BaseAmount:       decimal.NewFromInt(80000),
		SumPaid:          decimal.NewFromInt(20000),
		RemainingToPay:   decimal.NewFromInt(60000),
		SumUnpaidWeights: decimal.NewFromInt(80),
		Updates: []amortization.RowUpdate{{
			RowID:     rowID,
			Kind:      amortization.KindTerm,
			Number:    2,
			OldAmount: decimal.NewFromInt(40000),
			NewAmount: decimal.NewFromInt(30000),
		}},
	}, nil).Once()

	w := doRequestWithActor(r, "/purchases/"+purchaseID.String()+"/amortization/recalculate", "", "alice")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData[dto.RecalculationResponse](t, w)
	assert.Equal(t, "APPLIED", data.Outcome)
	assert.Equal(t, "60000", data.RemainingToPay)
	assert.Equal(t, 1, data.UpdatedRows)
	require.Len(t, data.Updates, 1)
	assert.Equal(t, rowID.String(), data.Updates[0].RowID)
	assert.Equal(t, "TERM", data.Updates[0].Kind)
	assert.Equal(t, "30000", data.Updates[0].NewAmount)
	rec.AssertExpectations(t)
}

func TestAmortizationHandler_RecalculateNoOp(t *testing.T) {
	rec := new(MockRecalculator)
	r := newAmortizationRouter(NewAmortizationHandler(rec, nil))

	purchaseID := uuid.New()
	rec.On("Recalculate", mock.Anything, purchaseID, "").
		Return(amortization.NoOpResult(purchaseID, amortization.ReasonNoSchedule, decimal.NewFromInt(100)), nil).Once()

	w := doJSON(r, http.MethodPost, "/purchases/"+purchaseID.String()+"/amortization/recalculate", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData[dto.RecalculationResponse](t, w)
	assert.Equal(t, "NOOP", data.Outcome)
	assert.Equal(t, amortization.ReasonNoSchedule, data.Reason)
	assert.Zero(t, data.UpdatedRows)
	assert.NotNil(t, data.Updates)
}

func TestAmortizationHandler_RecalculateErrors(t *testing.T) {
	rec := new(MockRecalculator)
	r := newAmortizationRouter(NewAmortizationHandler(rec, nil))

	w := doJSON(r, http.MethodPost, "/purchases/not-a-uuid/amortization/recalculate", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, shared.CodeInvalidInput, decodeResponse(t, w).Error.Code)

	purchaseID := uuid.New()
	rec.On("Recalculate", mock.Anything, purchaseID, "").Return(nil, errors.New("connection reset")).Once()
	w = doJSON(r, http.MethodPost, "/purchases/"+purchaseID.String()+"/amortization/recalculate", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeInternal, decodeResponse(t, w).Error.Code)
	rec.AssertExpectations(t)
}

func TestAmortizationHandler_GoodsReceived(t *testing.T) {
	pub := new(MockEventPublisher)
	r := newAmortizationRouter(NewAmortizationHandler(new(MockRecalculator), pub))

	purchaseID := uuid.New()
	receiptID := uuid.New()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		if len(events) != 1 {
			return false
		}
		e, ok := events[0].(*procurement.GoodsReceivedEvent)
		return ok && e.PurchaseID == purchaseID && e.ReceiptID == receiptID && e.ActedBy == "bob"
	})).Return(nil).Once()

	w := doRequestWithActor(r, "/purchases/"+purchaseID.String()+"/goods-received",
		`{"receipt_id":"`+receiptID.String()+`"}`, "bob")

	assert.Equal(t, http.StatusAccepted, w.Code)
	eventID := decodeData[dto.GoodsReceivedResponse](t, w).EventID
	_, err := uuid.Parse(eventID)
	assert.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestAmortizationHandler_GoodsReceivedKeepsClientEventID(t *testing.T) {
	pub := new(MockEventPublisher)
	r := newAmortizationRouter(NewAmortizationHandler(new(MockRecalculator), pub))

	eventID := uuid.New()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventID() == eventID
	})).Return(nil).Twice()

	body := `{"receipt_id":"` + uuid.NewString() + `","event_id":"` + eventID.String() + `"}`
	path := "/purchases/" + uuid.NewString() + "/goods-received"
	for range 2 {
		w := doJSON(r, http.MethodPost, path, body)
		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, eventID.String(), decodeData[dto.GoodsReceivedResponse](t, w).EventID)
	}
	pub.AssertExpectations(t)
}

func TestAmortizationHandler_GoodsReceivedErrors(t *testing.T) {
	purchasePath := "/purchases/" + uuid.NewString() + "/goods-received"
	validBody := `{"receipt_id":"` + uuid.NewString() + `"}`

	t.Run("invalid receipt id", func(t *testing.T) {
		r := newAmortizationRouter(NewAmortizationHandler(new(MockRecalculator), new(MockEventPublisher)))
		w := doJSON(r, http.MethodPost, purchasePath, `{"receipt_id":"r-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	})

	t.Run("no publisher", func(t *testing.T) {
		r := newAmortizationRouter(NewAmortizationHandler(new(MockRecalculator), nil))
		w := doJSON(r, http.MethodPost, purchasePath, validBody)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("handler failure surfaces domain code", func(t *testing.T) {
		pub := new(MockEventPublisher)
		pub.On("Publish", mock.Anything, mock.Anything).
			Return(errors.Join(shared.NewDomainError(shared.CodeSequenceReservationFailed, "storage unavailable"))).Once()
		r := newAmortizationRouter(NewAmortizationHandler(new(MockRecalculator), pub))

		w := doJSON(r, http.MethodPost, purchasePath, validBody)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		pub.AssertExpectations(t)
	})
}

func doRequestWithActor(r http.Handler, path, body, actor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, actor)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
