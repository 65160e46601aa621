// Package llm sends composed prompts to the configured language model and
// returns the raw plan text.
//
// Two providers are supported: an OpenAI-compatible chat completions endpoint
// and Google Gemini. A missing key is reported as ErrNotConfigured before any
// network call is made.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
	"github.com/Akshaypareek01/DietProject-samsara/internal/observability"
	"github.com/Akshaypareek01/DietProject-samsara/internal/prompt"
	"github.com/Akshaypareek01/DietProject-samsara/internal/retry"
)

var (
	// ErrNotConfigured means the selected provider has no API key.
	ErrNotConfigured = errors.New("llm provider key not configured")
	// ErrEmptyResponse means the provider answered without usable text.
	ErrEmptyResponse = errors.New("llm returned no text")
)

// StatusError is a non-2xx answer from an HTTP provider.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("llm provider status %d", e.Code)
	}
	return fmt.Sprintf("llm provider status %d: %s", e.Code, e.Message)
}

// Generator produces plan text for a prompt.
type Generator interface {
	Generate(ctx context.Context, p prompt.Prompt) (string, error)
	Provider() string
	Configured() bool
}

// backend is one provider's single-shot completion call.
type backend interface {
	complete(ctx context.Context, p prompt.Prompt) (string, error)
	close() error
}

// Client is the Generator used in production.
type Client struct {
	cfg     config.LLMConfig
	backend backend
	policy  retry.Policy
}

var _ Generator = (*Client)(nil)

// New builds a Client for cfg.Provider. When the provider key is missing the
// client is still returned and every Generate call fails fast.
func New(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (*Client, error) {
	c := &Client{
		cfg: cfg,
		policy: retry.Policy{
			MaxAttempts: cfg.MaxAttempts,
			Unit:        config.LLMBackoffUnit,
			Terminal:    terminal,
		},
	}
	if !cfg.Configured() {
		return c, nil
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		b, err := newGemini(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.backend = b
	default:
		if httpClient == nil {
			httpClient = &http.Client{Timeout: cfg.Timeout}
		}
		c.backend = newOpenAI(cfg, httpClient)
	}
	return c, nil
}

// Provider names the selected provider.
func (c *Client) Provider() string { return c.cfg.Provider }

// Configured reports whether a key is present.
func (c *Client) Configured() bool { return c.backend != nil }

// Close releases provider resources.
func (c *Client) Close() error {
	if c.backend == nil {
		return nil
	}
	return c.backend.close()
}

// Generate returns the model's full text. Partial output is never returned:
// the call either yields non-empty text or an error.
func (c *Client) Generate(ctx context.Context, p prompt.Prompt) (string, error) {
	if c.backend == nil {
		return "", ErrNotConfigured
	}

	ctx, span := observability.StartSpan(ctx, "llm", "Generate",
		attribute.String("llm.provider", c.cfg.Provider),
		attribute.Int("llm.max_tokens", c.cfg.MaxTokens),
	)
	var text string
	attempts, err := c.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		start := time.Now()
		out, err := c.backend.complete(actx, p)
		if err == nil && strings.TrimSpace(out) == "" {
			err = ErrEmptyResponse
		}
		if err != nil {
			observability.ObserveLLM(c.cfg.Provider, observability.OutcomeError, time.Since(start))
			zerolog.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Str("provider", c.cfg.Provider).Msg("llm call failed")
			return err
		}
		observability.ObserveLLM(c.cfg.Provider, observability.OutcomeOK, time.Since(start))
		text = out
		return nil
	})
	span.SetAttributes(attribute.Int("llm.attempts", attempts))
	observability.EndSpan(span, err)
	if err != nil {
		return "", err
	}
	return text, nil
}

// terminal marks errors that another attempt cannot fix.
func terminal(err error) bool {
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests && se.Code != http.StatusRequestTimeout
	}
	return false
}
