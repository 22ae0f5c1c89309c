// Package numbering hosts the document numbering use cases: issuing numbers,
// previewing the next number, and maintaining templates.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/docengine/internal/domain/numbering"
	"github.com/erp/docengine/internal/domain/shared"
	"github.com/erp/docengine/internal/infrastructure/logger"
	"github.com/erp/docengine/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// NumberingService issues document numbers from the active template of a
// document code
type NumberingService struct {
	templates numbering.TemplateReader
	sequences numbering.SequenceStore
	backend   string
	metrics   *telemetry.EngineMetrics
	now       func() time.Time
}

// NewNumberingService creates a new NumberingService. backend names the
// sequence store in metrics.
func NewNumberingService(templates numbering.TemplateReader, sequences numbering.SequenceStore, backend string) *NumberingService {
	return &NumberingService{
		templates: templates,
		sequences: sequences,
		backend:   backend,
		now:       time.Now,
	}
}

// SetMetrics sets the engine metrics recorder
func (s *NumberingService) SetMetrics(metrics *telemetry.EngineMetrics) {
	s.metrics = metrics
}

// GenerateNumbers reserves quantity consecutive sequence values for the
// counter key of docCode in values and returns the formatted numbers in
// sequence order.
func (s *NumberingService) GenerateNumbers(ctx context.Context, docCode string, values map[string]string, quantity int) ([]string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "numbering", "generate_numbers",
		attribute.String(telemetry.SpanAttrDocCode, docCode),
		attribute.Int(telemetry.SpanAttrQuantity, quantity))
	defer span.End()

	if quantity < 1 {
		err := shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Quantity must be at least 1, got %d", quantity))
		telemetry.RecordError(span, err)
		return nil, err
	}

	template, tokens, counterKey, err := s.resolve(ctx, docCode, values)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.SpanAttrCounterKey, counterKey))

	started := time.Now()
	start, err := s.sequences.Reserve(ctx, counterKey, quantity)
	s.metrics.ReservationFinished(ctx, s.backend, time.Since(started), err)
	if err != nil {
		if !errors.Is(err, shared.ErrSequenceReservationFailed) {
			err = numbering.NewSequenceReservationError(counterKey, err)
		}
		telemetry.RecordError(span, err)
		logger.L(ctx).Error("Sequence reservation failed",
			zap.String("doc_code", template.DocCode),
			zap.String("counter_key", counterKey),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
		return nil, err
	}

	numbers := make([]string, quantity)
	for i := range numbers {
		numbers[i] = template.Format(tokens, start+int64(i))
	}

	s.metrics.NumbersIssued(ctx, template.DocCode, quantity)
	telemetry.SetOK(span)
	logger.L(ctx).Debug("Document numbers issued",
		zap.String("doc_code", template.DocCode),
		zap.String("counter_key", counterKey),
		zap.Int64("first_sequence", start),
		zap.Int("quantity", quantity),
	)
	return numbers, nil
}

// GenerateNumber issues a single document number
func (s *NumberingService) GenerateNumber(ctx context.Context, docCode string, values map[string]string) (string, error) {
	numbers, err := s.GenerateNumbers(ctx, docCode, values, 1)
	if err != nil {
		return "", err
	}
	return numbers[0], nil
}

// PreviewNumber formats the number the next reservation would produce
// without reserving it. Another caller may take that number first.
func (s *NumberingService) PreviewNumber(ctx context.Context, docCode string, values map[string]string) (string, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "numbering", "preview_number",
		attribute.String(telemetry.SpanAttrDocCode, docCode))
	defer span.End()

	template, tokens, counterKey, err := s.resolve(ctx, docCode, values)
	if err != nil {
		telemetry.RecordError(span, err)
		return "", err
	}

	next, err := s.sequences.Peek(ctx, counterKey)
	if err != nil {
		err = shared.WrapDomainError(shared.CodeInternal,
			fmt.Sprintf("Failed to read counter %q", counterKey), err)
		telemetry.RecordError(span, err)
		return "", err
	}

	telemetry.SetOK(span)
	return template.Format(tokens, next), nil
}

// resolve loads the active template and derives the token context and
// counter key for one call
func (s *NumberingService) resolve(ctx context.Context, docCode string, values map[string]string) (*numbering.DocumentTemplate, numbering.TokenContext, string, error) {
	docCode = strings.TrimSpace(docCode)
	if docCode == "" {
		return nil, nil, "", shared.NewDomainError(shared.CodeInvalidInput, "Document code is required")
	}

	tokens := numbering.NewTokenContext(values, s.now())

	template, err := s.templates.FindActiveByDocCode(ctx, docCode)
	if err != nil {
		return nil, nil, "", shared.WrapDomainError(shared.CodeInternal,
			fmt.Sprintf("Failed to load template for %q", docCode), err)
	}
	if template == nil || !template.IsActive {
		return nil, nil, "", numbering.NewTemplateNotFoundError(docCode)
	}

	counterKey, err := template.CounterKey(tokens)
	if err != nil {
		return nil, nil, "", err
	}

	if missing := numbering.UnresolvedTokens(template.FormatString, tokens); len(missing) > 0 {
		logger.L(ctx).Debug("Template tokens left unresolved",
			zap.String("doc_code", template.DocCode),
			zap.Strings("tokens", missing),
		)
	}
	return template, tokens, counterKey, nil
}
