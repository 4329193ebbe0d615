package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"linguaspeak/internal/observe"
)

// slowProvider blocks until its context is done.
type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, &ErrProviderUnavailable{Err: ctx.Err()}
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestWithTimeoutZeroIsPassThrough(t *testing.T) {
	mock := NewMockProvider()
	if WithTimeout(mock, 0) != Provider(mock) {
		t.Fatal("expected unwrapped provider")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&ErrProviderUnavailable{Err: context.DeadlineExceeded}, "timeout"},
		{fmt.Errorf("wrapped: %w", context.Canceled), "canceled"},
		{&ErrRateLimit{Err: errors.New("429")}, "rate_limited"},
		{&ErrInvalidResponse{Err: errors.New("empty")}, "invalid"},
		{&ErrProviderUnavailable{}, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestInstrumentedProviderPassesThrough(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "hello"}, MockResponse{Err: &ErrRateLimit{}})
	p := WithInstrumentation(mock, "mock", zap.NewNop(), observe.Nop())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil || resp.Text != "hello" {
		t.Fatalf("unexpected result: %v, %v", resp, err)
	}

	_, err = p.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("unexpected model id %q", p.ModelID())
	}
}

func TestNewProviderMock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock", Timeout: time.Second}, zap.NewNop(), observe.Nop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != nonJSONReply {
		t.Fatalf("unexpected mock reply %q", resp.Text)
	}
}

func TestNewProviderRejectsMissingKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, zap.NewNop(), observe.Nop()); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
