package observe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.AIRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", "gemini"), attribute.String("status", "ok")))
	m.AIRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", "gemini"), attribute.String("status", "ok")))
	m.CorrectionFallbacks.Add(ctx, 1)

	rm := collect(t, reader)

	requests := findMetric(rm, "linguaspeak.ai.requests")
	if requests == nil {
		t.Fatal("linguaspeak.ai.requests not found")
	}
	sum, ok := requests.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("unexpected data type %T", requests.Data)
	}
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
		t.Errorf("expected one data point with value 2, got %+v", sum.DataPoints)
	}

	if findMetric(rm, "linguaspeak.correction.fallbacks") == nil {
		t.Error("linguaspeak.correction.fallbacks not found")
	}
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m, reader := newTestMetrics(t)

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/user/vocabulary/{wordId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := Middleware(m, zap.NewNop())(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/user/vocabulary/42", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rm := collect(t, reader)
	hist := findMetric(rm, "linguaspeak.http.request.duration")
	if hist == nil {
		t.Fatal("linguaspeak.http.request.duration not found")
	}
	data, ok := hist.Data.(metricdata.Histogram[float64])
	if !ok || len(data.DataPoints) != 1 {
		t.Fatalf("expected one histogram data point, got %+v", hist.Data)
	}

	path, _ := data.DataPoints[0].Attributes.Value("path")
	if got := path.AsString(); got != "PUT /api/user/vocabulary/{wordId}" {
		t.Errorf("path attribute = %q", got)
	}
	status, _ := data.DataPoints[0].Attributes.Value("status")
	if got := status.AsString(); got != "404" {
		t.Errorf("status attribute = %q", got)
	}
}

func TestMiddleware_RequestID(t *testing.T) {
	handler := Middleware(Nop(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want inbound value", got)
	}
}

func TestNop(t *testing.T) {
	m := Nop()
	if m == nil || m.AIDuration == nil {
		t.Fatal("Nop returned incomplete metrics")
	}
	m.AIDuration.Record(context.Background(), 1)
}
