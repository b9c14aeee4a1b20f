package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/ferrepos/backend/internal/infrastructure/telemetry"
)

// setupTestTracer installs an in-memory span recorder as the global
// provider and returns it with a cleanup function.
func setupTestTracer(t *testing.T) (*tracetest.SpanRecorder, func()) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sr),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		_ = tp.Shutdown(context.Background())
	}

	return sr, cleanup
}

func TestStartSpan(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "sale.create")
	require.NotNil(t, span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "sale.create", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
}

func TestStartSpan_WithOptions(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	tenantID := uuid.New()
	_, span := telemetry.StartSpan(context.Background(), "sale.settle_credit",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())

	attrs := spans[0].Attributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, telemetry.SpanAttrTenantID, string(attrs[0].Key))
	assert.Equal(t, tenantID.String(), attrs[0].Value.AsString())
}

func TestStartServiceSpan(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartServiceSpan(context.Background(), "sale", "create")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "sale.create", spans[0].Name())
}

func TestSetAttributes(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPaymentType, "cash",
		telemetry.SpanAttrQuantity, 3,
		"flag", true,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	got := map[string]interface{}{}
	for _, attr := range spans[0].Attributes() {
		got[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, "cash", got[telemetry.SpanAttrPaymentType])
	assert.Equal(t, int64(3), got[telemetry.SpanAttrQuantity])
	assert.Equal(t, true, got["flag"])
}

func TestSetAttributes_SkipsNonStringKeys(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test")
	telemetry.SetAttributes(span, 42, "dropped", "kept", "value")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Attributes(), 1)
	assert.Equal(t, "kept", string(spans[0].Attributes()[0].Key))
}

func TestSetAttribute_UUIDStringer(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	saleID := uuid.New()
	_, span := telemetry.StartSpan(context.Background(), "test")
	telemetry.SetAttribute(span, telemetry.SpanAttrSaleID, saleID)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Attributes(), 1)
	assert.Equal(t, saleID.String(), spans[0].Attributes()[0].Value.AsString())
}

func TestRecordError(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test")
	telemetry.RecordError(span, errors.New("stock drained"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "stock drained", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestRecordError_NilError(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test")
	telemetry.RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Empty(t, spans[0].Events())
}

func TestSetOK(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test")
	telemetry.SetOK(span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestAddEvent(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	_, span := telemetry.StartSpan(context.Background(), "test")
	telemetry.AddEvent(span, "stock_locked",
		telemetry.SpanAttrProductID, uuid.New(),
		telemetry.SpanAttrQuantity, 2,
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "stock_locked", spans[0].Events()[0].Name)
	assert.Len(t, spans[0].Events()[0].Attributes, 2)
}

func TestGetTraceID(t *testing.T) {
	_, cleanup := setupTestTracer(t)
	defer cleanup()

	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "test")
	defer span.End()

	assert.Len(t, telemetry.GetTraceID(ctx), 32)
	assert.Len(t, telemetry.GetSpanID(ctx), 16)
}

func TestNestedSpans(t *testing.T) {
	sr, cleanup := setupTestTracer(t)
	defer cleanup()

	ctx, parent := telemetry.StartSpan(context.Background(), "sale.create")
	_, child := telemetry.StartSpan(ctx, "sale.lock_stock")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)

	// Same trace, child points at the parent
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestHelpers_NilSpan(t *testing.T) {
	telemetry.SetAttributes(nil, "key", "value")
	telemetry.SetAttribute(nil, "key", "value")
	telemetry.SetOK(nil)
	telemetry.RecordError(nil, errors.New("ignored"))
	telemetry.AddEvent(nil, "event")
}
