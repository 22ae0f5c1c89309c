package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of spans started by this service
const TracerName = "docengine"

// Span attribute keys used by the application services
const (
	SpanAttrDocCode    = "numbering.doc_code"
	SpanAttrCounterKey = "numbering.counter_key"
	SpanAttrQuantity   = "numbering.quantity"
	SpanAttrPurchaseID = "amortization.purchase_id"
	SpanAttrOutcome    = "amortization.outcome"
	SpanAttrRowCount   = "amortization.updated_rows"
)

// StartServiceSpan starts an internal span named "<service>.<method>"
// using the global tracer provider.
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on span and marks the span as failed
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span as successful
func SetOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}
