package llm

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"linguaspeak/internal/observe"
)

// TimeoutProvider bounds every call to the inner provider.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each Generate call is cancelled after d.
// A non-positive d leaves p unwrapped.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

// InstrumentedProvider logs and measures every call to the inner provider.
type InstrumentedProvider struct {
	inner   Provider
	name    string
	log     *zap.Logger
	metrics *observe.Metrics
}

// WithInstrumentation wraps p with structured logging and metrics.
func WithInstrumentation(p Provider, name string, log *zap.Logger, m *observe.Metrics) Provider {
	return &InstrumentedProvider{inner: p, name: name, log: log, metrics: m}
}

func (i *InstrumentedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := i.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	status := Status(err)
	attrs := metric.WithAttributes(
		attribute.String("provider", i.name),
		attribute.String("status", status),
	)
	i.metrics.AIDuration.Record(ctx, elapsed.Seconds(), attrs)
	i.metrics.AIRequests.Add(ctx, 1, attrs)

	fields := []zap.Field{
		zap.String("provider", i.name),
		zap.String("model", i.inner.ModelID()),
		zap.String("status", status),
		zap.Duration("latency", elapsed),
	}
	if resp != nil {
		fields = append(fields,
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
		)
	}
	if err != nil {
		i.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		i.log.Debug("llm request", fields...)
	}

	return resp, err
}

func (i *InstrumentedProvider) ModelID() string {
	return i.inner.ModelID()
}

// Status classifies a Generate error for metrics and logs.
func Status(err error) string {
	var rl *ErrRateLimit
	var invalid *ErrInvalidResponse
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.As(err, &invalid):
		return "invalid"
	default:
		return "unavailable"
	}
}
