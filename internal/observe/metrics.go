// Package observe provides OpenTelemetry metrics for linguaspeak, exported
// in Prometheus format through the /metrics endpoint.
//
// Tests should build a [Metrics] with [NewMetrics] over their own
// [metric.MeterProvider] so recorded values do not leak between tests.
package observe

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name used for all linguaspeak metrics.
const meterName = "linguaspeak"

// Metrics holds the application's metric instruments. The OTel types are
// safe for concurrent use.
type Metrics struct {
	// AIDuration tracks language-model call latency. Attributes: provider, status.
	AIDuration metric.Float64Histogram

	// AIRequests counts language-model calls. Attributes: provider, status.
	AIRequests metric.Int64Counter

	// CorrectionFallbacks counts responses replaced by the fallback record.
	CorrectionFallbacks metric.Int64Counter

	// HTTPRequestDuration tracks request handling time. Attributes: method, path, status.
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets are in seconds; model calls routinely take several seconds.
var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates all instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.AIDuration, err = m.Float64Histogram("linguaspeak.ai.duration",
		metric.WithDescription("Latency of language-model correction calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.AIRequests, err = m.Int64Counter("linguaspeak.ai.requests",
		metric.WithDescription("Language-model calls by provider and status."),
	); err != nil {
		return nil, err
	}
	if met.CorrectionFallbacks, err = m.Int64Counter("linguaspeak.correction.fallbacks",
		metric.WithDescription("Model responses that could not be parsed and were replaced by the fallback record."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("linguaspeak.http.request.duration",
		metric.WithDescription("HTTP request processing time."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// Nop returns instruments that record nothing.
func Nop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}
