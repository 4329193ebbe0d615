package correction

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"linguaspeak/internal/languages"
	"linguaspeak/internal/llm"
	"linguaspeak/internal/observe"
)

// ErrTransport wraps failures reaching the model. No record is produced.
var ErrTransport = errors.New("correction service unavailable")

// maxOutputTokens leaves room for models that spend output budget on reasoning
const maxOutputTokens = 8192

// Client asks a language model for corrections
type Client struct {
	provider llm.Provider
	log      *zap.Logger
	metrics  *observe.Metrics
}

// NewClient creates a correction client over provider
func NewClient(provider llm.Provider, log *zap.Logger, metrics *observe.Metrics) *Client {
	return &Client{provider: provider, log: log, metrics: metrics}
}

// Correct sends text in language to the model and returns the parsed record,
// or the fallback record when the reply is unusable. Only a transport failure
// returns an error, and it wraps ErrTransport.
func (c *Client) Correct(ctx context.Context, text, language string) (Record, error) {
	resp, err := c.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(text, languages.Name(language))},
		},
		JSON:      true,
		MaxTokens: maxOutputTokens,
	})
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if !errors.As(err, &invalid) {
			return Record{}, fmt.Errorf("%w: %w", ErrTransport, err)
		}
		// The model answered, just not usefully.
		return c.fallback(ctx, text, language, err), nil
	}

	rec, err := parse(resp.Text)
	if err != nil {
		return c.fallback(ctx, text, language, err), nil
	}
	return rec, nil
}

func (c *Client) fallback(ctx context.Context, text, language string, reason error) Record {
	c.metrics.CorrectionFallbacks.Add(ctx, 1)
	c.log.Warn("using fallback correction record",
		zap.String("language", language),
		zap.Error(reason),
	)
	return Fallback(text)
}
