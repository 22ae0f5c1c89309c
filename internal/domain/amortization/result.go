package amortization

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outcome of a recalculation
type Outcome string

const (
	OutcomeApplied Outcome = "APPLIED"
	OutcomeNoOp    Outcome = "NOOP"
)

// NoOp reasons
const (
	ReasonNoSchedule            = "no_schedule"
	ReasonNonPositiveBaseAmount = "non_positive_base_amount"
	ReasonZeroUnpaidWeight      = "zero_unpaid_weight"
)

// RowUpdate describes the new amount planned for one row
type RowUpdate struct {
	RowID     uuid.UUID       `json:"row_id"`
	Kind      Kind            `json:"kind"`
	Number    int             `json:"number"`
	OldAmount decimal.Decimal `json:"old_amount"`
	NewAmount decimal.Decimal `json:"new_amount"`
}

// RecalculationResult summarizes one recalculation of a purchase schedule.
// A NoOp result is a success with no side effects.
type RecalculationResult struct {
	PurchaseID       uuid.UUID       `json:"purchase_id"`
	Outcome          Outcome         `json:"outcome"`
	Reason           string          `json:"reason,omitempty"`
	BaseAmount       decimal.Decimal `json:"base_amount"`
	SumPaid          decimal.Decimal `json:"sum_paid"`
	RemainingToPay   decimal.Decimal `json:"remaining_to_pay"`
	SumUnpaidWeights decimal.Decimal `json:"sum_unpaid_weights"`
	Updates          []RowUpdate     `json:"updates"`
}

// IsNoOp reports whether nothing was changed
func (r *RecalculationResult) IsNoOp() bool {
	return r.Outcome == OutcomeNoOp
}

// NoOpResult builds a NoOp result for the given reason
func NoOpResult(purchaseID uuid.UUID, reason string, base decimal.Decimal) *RecalculationResult {
	return &RecalculationResult{
		PurchaseID: purchaseID,
		Outcome:    OutcomeNoOp,
		Reason:     reason,
		BaseAmount: base,
	}
}
