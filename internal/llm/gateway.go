// Package llm provides a thin gateway over chat-completion APIs.
//
// Providers are called directly over HTTP rather than through vendor
// SDKs: the request surface used here is a single prompt/response
// exchange, and keeping the wire format explicit makes per-request
// credentials trivial to support.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FailurePrefix marks a narrative that could not be generated. Agents
// that receive such a narrative fall back to their rule-based rating.
const FailurePrefix = "AI Analysis failed: "

// Provider identifiers accepted in requests
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// Request describes a single prompt/response exchange
type Request struct {
	Provider string
	APIKey   string
	Model    string
	System   string
	Prompt   string
}

// Gateway dispatches completion requests to the configured provider
type Gateway struct {
	client *http.Client
	log    zerolog.Logger

	// Overridable for tests
	openAIURL    string
	anthropicURL string
	googleURL    string
}

// NewGateway creates a gateway with production endpoints
func NewGateway(log zerolog.Logger) *Gateway {
	return &Gateway{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		log:          log.With().Str("component", "llm").Logger(),
		openAIURL:    "https://api.openai.com/v1/chat/completions",
		anthropicURL: "https://api.anthropic.com/v1/messages",
		googleURL:    "https://generativelanguage.googleapis.com/v1beta",
	}
}

// Complete sends the prompt to the requested provider and returns the
// generated text. The model falls back to the provider default when
// the request leaves it empty.
func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	if req.APIKey == "" {
		return "", fmt.Errorf("no API key configured for provider %q", req.Provider)
	}

	model := req.Model
	if model == "" {
		model = DefaultModel(req.Provider)
	}

	start := time.Now()
	var (
		text string
		err  error
	)

	switch normalizeProvider(req.Provider) {
	case ProviderOpenAI:
		text, err = g.completeOpenAI(ctx, req.APIKey, model, req.System, req.Prompt)
	case ProviderAnthropic:
		text, err = g.completeAnthropic(ctx, req.APIKey, model, req.System, req.Prompt)
	case ProviderGoogle:
		text, err = g.completeGoogle(ctx, req.APIKey, model, req.System, req.Prompt)
	default:
		return "", fmt.Errorf("unsupported LLM provider %q", req.Provider)
	}

	if err != nil {
		g.log.Warn().
			Err(err).
			Str("provider", req.Provider).
			Str("model", model).
			Msg("LLM completion failed")
		return "", err
	}

	g.log.Debug().
		Str("provider", req.Provider).
		Str("model", model).
		Dur("duration", time.Since(start)).
		Int("chars", len(text)).
		Msg("LLM completion done")

	return strings.TrimSpace(text), nil
}

// Narrate returns the completion text, or the failure sentinel when
// the provider could not produce one. This is the only place the
// sentinel is constructed.
func (g *Gateway) Narrate(ctx context.Context, req Request) string {
	text, err := g.Complete(ctx, req)
	if err != nil {
		return Failure(err)
	}
	return text
}

// Failure wraps an error into the sentinel narrative form
func Failure(err error) string {
	return FailurePrefix + err.Error()
}

// IsFailure reports whether a narrative is a failure sentinel
func IsFailure(narrative string) bool {
	return strings.HasPrefix(narrative, FailurePrefix)
}

// DefaultModel returns the default model for a provider
func DefaultModel(provider string) string {
	switch normalizeProvider(provider) {
	case ProviderAnthropic:
		return "claude-3-5-sonnet-20241022"
	case ProviderGoogle:
		return "gemini-1.5-pro"
	default:
		return "gpt-4-turbo-preview"
	}
}

// normalizeProvider maps provider aliases used by older clients
func normalizeProvider(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "claude", ProviderAnthropic:
		return ProviderAnthropic
	case "gemini", ProviderGoogle:
		return ProviderGoogle
	case ProviderOpenAI, "":
		return ProviderOpenAI
	default:
		return strings.ToLower(strings.TrimSpace(provider))
	}
}
