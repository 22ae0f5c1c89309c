package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPurchaseTotals_BaseAmount(t *testing.T) {
	d := decimal.NewFromInt

	tests := []struct {
		name   string
		totals PurchaseTotals
		want   decimal.Decimal
	}{
		{"received total wins", PurchaseTotals{ReceivedTotal: d(900), OrderAmount: d(1000), OrderLinesTotal: d(1100)}, d(900)},
		{"order amount when nothing received", PurchaseTotals{OrderAmount: d(1000), OrderLinesTotal: d(1100)}, d(1000)},
		{"negative received falls back", PurchaseTotals{ReceivedTotal: d(-5), OrderAmount: d(1000)}, d(1000)},
		{"order lines when order amount missing", PurchaseTotals{OrderLinesTotal: d(1100)}, d(1100)},
		{"zero order amount falls back to lines", PurchaseTotals{OrderAmount: decimal.Zero, OrderLinesTotal: d(750)}, d(750)},
		{"nothing at all", PurchaseTotals{}, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.totals.BaseAmount()), "got %s", tt.totals.BaseAmount())
		})
	}
}

func TestNewGoodsReceivedEvent(t *testing.T) {
	purchaseID := uuid.New()
	receiptID := uuid.New()

	event := NewGoodsReceivedEvent(purchaseID, receiptID, "alice")
	assert.Equal(t, EventTypeGoodsReceived, event.EventType())
	assert.Equal(t, purchaseID, event.AggregateID())
	assert.Equal(t, AggregateTypePurchase, event.AggregateType())
	assert.Equal(t, receiptID, event.ReceiptID)
	assert.Equal(t, "alice", event.ActedBy)
	assert.NotEqual(t, uuid.Nil, event.EventID())
}

func TestGoodsReceivedEvent_UseEventID(t *testing.T) {
	event := NewGoodsReceivedEvent(uuid.New(), uuid.New(), "")
	generated := event.EventID()

	event.UseEventID(uuid.Nil)
	assert.Equal(t, generated, event.EventID())

	supplied := uuid.New()
	event.UseEventID(supplied)
	assert.Equal(t, supplied, event.EventID())
	assert.Equal(t, time.UTC, event.OccurredAt().Location())
}
