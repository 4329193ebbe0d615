package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"linguaspeak/internal/observe"
)

// nonJSONReply makes the offline mock exercise the fallback path.
const nonJSONReply = "mock provider: structured output unavailable"

// NewProvider creates a Provider from configuration, wrapped as
// caller → instrumentation → timeout → base.
func NewProvider(ctx context.Context, cfg Config, log *zap.Logger, m *observe.Metrics) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		mock := NewMockProvider()
		mock.Default = &MockResponse{Text: nonJSONReply}
		base = mock
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	timed := WithTimeout(base, cfg.Timeout)
	return WithInstrumentation(timed, cfg.Provider, log, m), nil
}
