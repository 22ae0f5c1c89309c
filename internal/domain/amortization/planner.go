package amortization

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReasonNoOpenRows is reported when every row is paid or canceled
const ReasonNoOpenRows = "no_open_rows"

// DefaultCurrencyScale is the number of minor-unit digits amounts are kept at
const DefaultCurrencyScale int32 = 2

// Planner computes the new invoice amounts of a purchase schedule.
// Planning is pure; persisting the planned updates is the caller's job.
type Planner struct {
	scale int32
}

// NewPlanner creates a planner rounding amounts to scale decimal places
func NewPlanner(scale int32) *Planner {
	if scale < 0 {
		scale = DefaultCurrencyScale
	}
	return &Planner{scale: scale}
}

// Scale returns the currency scale used for rounding
func (p *Planner) Scale() int32 {
	return p.scale
}

// Plan redistributes base over the unpaid, non-canceled term rows by weight
// and assigns the full base to every unpaid, non-canceled period row.
//
// The weight of unpaid canceled terms stays in the denominator, so their
// share is not handed to anyone. Paid and canceled rows never appear in the
// updates. Term shares are rounded with the largest-remainder method so they
// add up exactly to the rounded target total.
func (p *Planner) Plan(purchaseID uuid.UUID, base decimal.Decimal, terms, periods []Row) *RecalculationResult {
	if !base.IsPositive() {
		return NoOpResult(purchaseID, ReasonNonPositiveBaseAmount, base)
	}
	if len(terms) == 0 && len(periods) == 0 {
		return NoOpResult(purchaseID, ReasonNoSchedule, base)
	}

	terms = sortedRows(terms)
	periods = sortedRows(periods)

	result := &RecalculationResult{
		PurchaseID:       purchaseID,
		Outcome:          OutcomeApplied,
		BaseAmount:       base,
		SumPaid:          decimal.Zero,
		SumUnpaidWeights: decimal.Zero,
	}

	targets := make([]Row, 0, len(terms))
	for i := range terms {
		row := &terms[i]
		if row.IsPaid() {
			result.SumPaid = result.SumPaid.Add(row.InvoiceAmount)
			continue
		}
		result.SumUnpaidWeights = result.SumUnpaidWeights.Add(row.Weight())
		if !row.IsCanceled {
			targets = append(targets, *row)
		}
	}

	result.RemainingToPay = decimal.Max(decimal.Zero, base.Sub(result.SumPaid))

	if result.SumUnpaidWeights.IsPositive() && len(targets) > 0 {
		amounts := p.allocate(result.RemainingToPay, result.SumUnpaidWeights, targets)
		for i, row := range targets {
			result.Updates = append(result.Updates, RowUpdate{
				RowID:     row.ID,
				Kind:      KindTerm,
				Number:    row.Number,
				OldAmount: row.InvoiceAmount,
				NewAmount: amounts[i],
			})
		}
	}

	periodAmount := base.Round(p.scale)
	for _, row := range periods {
		if !row.IsRedistributable() {
			continue
		}
		result.Updates = append(result.Updates, RowUpdate{
			RowID:     row.ID,
			Kind:      KindPeriod,
			Number:    row.Number,
			OldAmount: row.InvoiceAmount,
			NewAmount: periodAmount,
		})
	}

	if len(result.Updates) == 0 {
		result.Outcome = OutcomeNoOp
		if !result.SumUnpaidWeights.IsPositive() {
			result.Reason = ReasonZeroUnpaidWeight
		} else {
			result.Reason = ReasonNoOpenRows
		}
	}
	return result
}

// allocate splits remaining*weight/sumUnpaid across targets at the planner's
// scale. Each target first gets its share truncated to the scale; the
// minor units still missing from the rounded total go one at a time to the
// largest truncated remainders. Ties keep the targets' (number, id) order.
func (p *Planner) allocate(remaining, sumUnpaid decimal.Decimal, targets []Row) []decimal.Decimal {
	unit := decimal.New(1, -p.scale)
	amounts := make([]decimal.Decimal, len(targets))
	remainders := make([]decimal.Decimal, len(targets))

	sumFloor := decimal.Zero
	sumTargetWeights := decimal.Zero
	for i := range targets {
		weight := targets[i].Weight()
		exact := remaining.Mul(weight).Div(sumUnpaid)
		amounts[i] = exact.Truncate(p.scale)
		remainders[i] = exact.Sub(amounts[i])
		sumFloor = sumFloor.Add(amounts[i])
		sumTargetWeights = sumTargetWeights.Add(weight)
	}

	total := remaining.Mul(sumTargetWeights).Div(sumUnpaid).Round(p.scale)
	residual := total.Sub(sumFloor).Div(unit).IntPart()
	if residual == 0 {
		return amounts
	}

	order := make([]int, len(targets))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})

	n := int64(len(order))
	for k := int64(0); k < residual; k++ {
		idx := order[k%n]
		amounts[idx] = amounts[idx].Add(unit)
	}
	// Division rounding can overshoot by a unit; take it back from the
	// smallest remainders.
	for k := int64(0); k < -residual; k++ {
		idx := order[n-1-k%n]
		amounts[idx] = amounts[idx].Sub(unit)
	}
	return amounts
}

func sortedRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
