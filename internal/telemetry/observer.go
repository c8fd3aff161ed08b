package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName scopes the meter and tracer.
const InstrumentationName = "azure-devops-mcp-server"

// Metric names.
const (
	InvocationsMetric = "azure_devops_mcp.tool.invocations"
	LatencyMetric     = "azure_devops_mcp.tool.latency"
)

// Invocation identifies one tool call.
type Invocation struct {
	ID       string
	ToolName string
	Category string
}

// Outcome is the result of one tool call.
type Outcome struct {
	Success bool
	Error   string
	Elapsed time.Duration
}

// ToolObserver records tool invocations into OpenTelemetry.
// A nil *ToolObserver is valid and records nothing.
type ToolObserver struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewToolObserver creates a tool observer bound to the provided meter/tracer.
func NewToolObserver(meter metric.Meter, tracer trace.Tracer) (*ToolObserver, error) {
	invocations, err := meter.Int64Counter(
		InvocationsMetric,
		metric.WithDescription("Number of tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		LatencyMetric,
		metric.WithDescription("Tool latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &ToolObserver{
		tracer:      tracer,
		invocations: invocations,
		latency:     latency,
	}, nil
}

// NewGlobalToolObserver binds to the globally registered providers.
// Without an SDK installed these are no-ops.
func NewGlobalToolObserver() (*ToolObserver, error) {
	return NewToolObserver(otel.Meter(InstrumentationName), otel.Tracer(InstrumentationName))
}

// Start opens a "tool.invoke" span for the call. The returned function
// closes the span and records the counter and latency.
func (o *ToolObserver) Start(ctx context.Context, inv Invocation) (context.Context, func(Outcome)) {
	if o == nil {
		return ctx, func(Outcome) {}
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool_name", inv.ToolName),
		attribute.String("category", inv.Category),
	}

	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "tool.invoke", trace.WithAttributes(
			append(attrs, attribute.String("invocation_id", inv.ID))...,
		))
	}

	return ctx, func(out Outcome) {
		recorded := append(attrs, attribute.Bool("success", out.Success))
		options := metric.WithAttributes(recorded...)
		o.invocations.Add(context.Background(), 1, options)
		o.latency.Record(context.Background(), out.Elapsed.Seconds(), options)

		if span == nil {
			return
		}
		if out.Success {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, out.Error)
		}
		span.End()
	}
}
