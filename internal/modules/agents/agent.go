// Package agents implements the analysis agents behind the advisor:
// fundamental, technical, risk, sentiment and news scoring, plus the
// advisor that synthesizes their verdicts.
//
// Every agent degrades gracefully: rule-based ratings always work, and
// an LLM narrative replaces the canned summary only when a provider is
// configured and the call succeeds.
package agents

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stockai/advisor/internal/clients/yahoo"
	"github.com/stockai/advisor/internal/llm"
	"github.com/stockai/advisor/internal/modules/market"
)

// Analysis type identifiers, mirrored in the client tabs
const (
	TypeFundamental = "Fundamental"
	TypeTechnical   = "Technical"
	TypeRisk        = "Risk"
	TypeSentiment   = "Sentiment"
	TypeNews        = "News"
	TypeAdvisor     = "Advisor"
)

// AnalysisResult is the response shape for every agent. A result
// carries either rating+summary or error, never both.
type AnalysisResult struct {
	Ticker     string              `json:"ticker"`
	Type       string              `json:"type"`
	Rating     string              `json:"rating,omitempty"`
	Summary    string              `json:"summary,omitempty"`
	KeyMetrics *Metrics            `json:"key_metrics,omitempty"`
	ChartData  *market.PriceSeries `json:"chart_data,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// errorResult builds the failure shape shared by all agents
func errorResult(ticker, analysisType, msg string) *AnalysisResult {
	return &AnalysisResult{
		Ticker: ticker,
		Type:   analysisType,
		Error:  msg,
	}
}

// Options carries the per-request LLM credentials and history period.
// Keys are never stored server-side; each request brings its own.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	Period   string
}

// LLMEnabled reports whether the request carries usable credentials
func (o Options) LLMEnabled() bool {
	return o.APIKey != "" && o.Provider != "" && o.Provider != "none"
}

func (o Options) request(system, user string) llm.Request {
	return llm.Request{
		Provider: o.Provider,
		APIKey:   o.APIKey,
		Model:    o.Model,
		System:   system,
		Prompt:   user,
	}
}

// MarketData is the slice of the market service agents read from
type MarketData interface {
	Info(ticker string) (*yahoo.StockInfo, error)
	Fundamentals(ticker string) (*yahoo.FundamentalData, error)
	Technicals(ticker, period string) (*market.TechnicalData, error)
	Risk(ticker string) (*market.RiskData, error)
	PriceHistory(ticker, period string) (*market.PriceSeries, error)
}

// Narrator produces LLM narratives. Failures come back as the
// llm.FailurePrefix sentinel rather than an error so agents can keep
// their rule-based summary without special error plumbing.
type Narrator interface {
	Narrate(ctx context.Context, req llm.Request) string
}

// Metrics is a string-keyed map that marshals in insertion order, so
// the dashboard renders metric rows in the order agents emit them.
type Metrics struct {
	keys   []string
	values map[string]interface{}
}

// NewMetrics creates an empty ordered metrics map
func NewMetrics() *Metrics {
	return &Metrics{values: make(map[string]interface{})}
}

// Set adds or replaces a metric, preserving first-insertion order
func (m *Metrics) Set(key string, value interface{}) *Metrics {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns a metric value by key
func (m *Metrics) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of metrics
func (m *Metrics) Len() int {
	return len(m.keys)
}

// MarshalJSON emits an object with keys in insertion order
func (m *Metrics) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valJSON, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		b.Write(keyJSON)
		b.WriteByte(':')
		b.Write(valJSON)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON restores the map; key order follows the document
func (m *Metrics) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}

	m.keys = nil
	m.values = make(map[string]interface{})

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return err
		}
		m.Set(key, value)
	}

	return nil
}
