package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// EngineMetrics holds the counters of the numbering and amortization engine.
type EngineMetrics struct {
	numbersIssued       *Counter
	reservationFailures *Counter
	reservationDuration *Histogram
	recalculations      *Counter
}

// NewEngineMetrics registers the engine instruments on meter.
func NewEngineMetrics(meter metric.Meter) (*EngineMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &EngineMetrics{}
	var err error

	m.numbersIssued, err = NewCounter(meter,
		"docengine_numbers_issued_total",
		"Total number of document numbers issued",
		"{numbers}")
	if err != nil {
		return nil, err
	}

	m.reservationFailures, err = NewCounter(meter,
		"docengine_sequence_reservation_failures_total",
		"Total number of failed sequence reservations",
		"{failures}")
	if err != nil {
		return nil, err
	}

	m.reservationDuration, err = NewHistogram(meter,
		"docengine_sequence_reservation_duration_seconds",
		"Duration of sequence reservations",
		"s", DBDurationBuckets...)
	if err != nil {
		return nil, err
	}

	m.recalculations, err = NewCounter(meter,
		"docengine_amortization_recalculations_total",
		"Total number of amortization recalculations",
		"{recalculations}")
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NumbersIssued counts issued numbers for a document code
func (m *EngineMetrics) NumbersIssued(ctx context.Context, docCode string, n int) {
	if m == nil {
		return
	}
	m.numbersIssued.Add(ctx, int64(n), AttrDocCode.String(docCode))
}

// ReservationFinished records the duration of one reservation and counts failures
func (m *EngineMetrics) ReservationFinished(ctx context.Context, backend string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.reservationDuration.RecordDuration(ctx, elapsed, AttrBackend.String(backend))
	if err != nil {
		m.reservationFailures.Inc(ctx, AttrBackend.String(backend))
	}
}

// Recalculated counts a finished recalculation by outcome and reason
func (m *EngineMetrics) Recalculated(ctx context.Context, outcome, reason string) {
	if m == nil {
		return
	}
	m.recalculations.Inc(ctx, AttrOutcome.String(outcome), AttrReason.String(reason))
}
