// Package amortization hosts the use cases that recompute purchase
// installment amounts.
package amortization

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/docengine/internal/domain/amortization"
	"github.com/erp/docengine/internal/infrastructure/logger"
	"github.com/erp/docengine/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultActor is the audit identity used when neither the caller nor the
// configuration supplies one
const DefaultActor = "system"

// RecalculationService recomputes the invoice amounts of a purchase schedule
type RecalculationService struct {
	txScope      TransactionScope
	planner      *amortization.Planner
	defaultActor string
	metrics      *telemetry.EngineMetrics
	now          func() time.Time
}

// NewRecalculationService creates a new RecalculationService
func NewRecalculationService(txScope TransactionScope, planner *amortization.Planner, defaultActor string) *RecalculationService {
	if planner == nil {
		planner = amortization.NewPlanner(amortization.DefaultCurrencyScale)
	}
	if strings.TrimSpace(defaultActor) == "" {
		defaultActor = DefaultActor
	}
	return &RecalculationService{
		txScope:      txScope,
		planner:      planner,
		defaultActor: defaultActor,
		now:          time.Now,
	}
}

// SetMetrics sets the engine metrics recorder
func (s *RecalculationService) SetMetrics(metrics *telemetry.EngineMetrics) {
	s.metrics = metrics
}

// Recalculate resolves the base amount of a purchase and redistributes it over
// the unpaid installments. All reads and writes share one transaction, so a
// failure leaves every row as it was. A NoOp result is returned, not an error,
// when there is nothing to do.
func (s *RecalculationService) Recalculate(ctx context.Context, purchaseID uuid.UUID, actor string) (*amortization.RecalculationResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "amortization", "recalculate",
		attribute.String(telemetry.SpanAttrPurchaseID, purchaseID.String()))
	defer span.End()

	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = s.defaultActor
	}
	log := logger.L(ctx).With(
		zap.String("purchase_id", purchaseID.String()),
		zap.String("actor", actor),
	)

	var result *amortization.RecalculationResult
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		totals, err := repos.TotalsReader().GetTotals(ctx, purchaseID)
		if err != nil {
			return fmt.Errorf("load purchase totals: %w", err)
		}
		base := totals.BaseAmount()
		if !base.IsPositive() {
			result = amortization.NoOpResult(purchaseID, amortization.ReasonNonPositiveBaseAmount, base)
			return nil
		}

		terms, err := repos.ScheduleRepo().FindByPurchase(ctx, purchaseID, amortization.KindTerm)
		if err != nil {
			return fmt.Errorf("load term rows: %w", err)
		}
		periods, err := repos.ScheduleRepo().FindByPurchase(ctx, purchaseID, amortization.KindPeriod)
		if err != nil {
			return fmt.Errorf("load period rows: %w", err)
		}

		result = s.planner.Plan(purchaseID, base, terms, periods)
		at := s.now()
		for _, u := range result.Updates {
			if err := repos.ScheduleRepo().UpdateInvoiceAmount(ctx, u.RowID, u.NewAmount, actor, at); err != nil {
				return fmt.Errorf("update row %s: %w", u.RowID, err)
			}
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("Amortization recalculation failed", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String(telemetry.SpanAttrOutcome, string(result.Outcome)),
		attribute.Int(telemetry.SpanAttrRowCount, len(result.Updates)),
	)
	telemetry.SetOK(span)
	s.metrics.Recalculated(ctx, string(result.Outcome), result.Reason)

	if result.IsNoOp() {
		log.Debug("Amortization recalculation skipped", zap.String("reason", result.Reason))
	} else {
		log.Info("Amortization recalculated",
			zap.String("base_amount", result.BaseAmount.String()),
			zap.String("remaining_to_pay", result.RemainingToPay.String()),
			zap.Int("updated_rows", len(result.Updates)),
		)
	}
	return result, nil
}
