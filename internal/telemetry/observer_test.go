package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return reader, mp
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func TestToolObserverRecordsMetrics(t *testing.T) {
	reader, mp := newTestMeter()
	observer, err := NewToolObserver(mp.Meter("test"), noop.NewTracerProvider().Tracer("test"))
	if err != nil {
		t.Fatalf("NewToolObserver() error = %v", err)
	}

	inv := Invocation{ID: "id-1", ToolName: "list_azure_devops_repositories", Category: "category_repo"}

	_, finish := observer.Start(context.Background(), inv)
	finish(Outcome{Success: true, Elapsed: 120 * time.Millisecond})

	_, finish = observer.Start(context.Background(), inv)
	finish(Outcome{Success: false, Error: "Resource not found", Elapsed: 40 * time.Millisecond})

	rm := collectMetrics(t, reader)

	invocations := findMetric(rm, InvocationsMetric)
	if invocations == nil {
		t.Fatalf("%s metric not found", InvocationsMetric)
	}
	sum, ok := invocations.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s type = %T, want Sum[int64]", InvocationsMetric, invocations.Data)
	}

	var total int64
	var failures int64
	for _, point := range sum.DataPoints {
		total += point.Value
		if success, found := point.Attributes.Value(attribute.Key("success")); found && !success.AsBool() {
			failures += point.Value
		}
	}
	if total != 2 {
		t.Errorf("invocations = %d, want 2", total)
	}
	if failures != 1 {
		t.Errorf("failed invocations = %d, want 1", failures)
	}

	latency := findMetric(rm, LatencyMetric)
	if latency == nil {
		t.Fatalf("%s metric not found", LatencyMetric)
	}
	if _, ok := latency.Data.(metricdata.Histogram[float64]); !ok {
		t.Fatalf("%s type = %T, want Histogram[float64]", LatencyMetric, latency.Data)
	}
}

func TestNilToolObserver(t *testing.T) {
	var observer *ToolObserver

	ctx := context.Background()
	got, finish := observer.Start(ctx, Invocation{ToolName: "x"})
	if got != ctx {
		t.Error("nil observer should return the input context")
	}
	finish(Outcome{Success: true})
}

func TestNewGlobalToolObserver(t *testing.T) {
	observer, err := NewGlobalToolObserver()
	if err != nil {
		t.Fatalf("NewGlobalToolObserver() error = %v", err)
	}
	_, finish := observer.Start(context.Background(), Invocation{ToolName: "x"})
	finish(Outcome{Success: true})
}
