package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/llm"
)

// FundamentalAgent rates a stock on valuation and profitability
type FundamentalAgent struct {
	data     MarketData
	narrator Narrator
	log      zerolog.Logger
}

// NewFundamentalAgent creates a fundamental analysis agent
func NewFundamentalAgent(data MarketData, narrator Narrator, log zerolog.Logger) *FundamentalAgent {
	return &FundamentalAgent{
		data:     data,
		narrator: narrator,
		log:      log.With().Str("agent", "fundamental").Logger(),
	}
}

// Analyze produces a fundamental rating for the ticker.
//
// Rule-based verdict: Buy for a cheap profitable stock (0 < P/E < 15
// and ROE > 15%), Sell for a stretched valuation (P/E > 35), Hold
// otherwise. An LLM narrative replaces the canned summary and may
// upgrade the rating when it names an extreme verdict.
func (a *FundamentalAgent) Analyze(ctx context.Context, ticker string, opts Options) *AnalysisResult {
	metrics, err := a.data.Fundamentals(ticker)
	if err != nil {
		return errorResult(ticker, TypeFundamental, "Could not fetch data")
	}

	pe := metrics.PERatio
	roe := metrics.ROE

	rating := RatingHold
	if pe > 0 && pe < 15 && roe > 0.15 {
		rating = RatingBuy
	} else if pe > 35 {
		rating = RatingSell
	}

	summary := fmt.Sprintf("%s has a P/E ratio of %.2f and ROE of %.2f%%. The valuation logic suggests a %s.",
		ticker, pe, roe*100, rating)

	if opts.LLMEnabled() {
		metricsJSON, _ := json.MarshalIndent(metrics, "", "  ")
		system := fmt.Sprintf(fundamentalPrompt, ticker, string(metricsJSON))
		narrative := a.narrator.Narrate(ctx, opts.request(system, fmt.Sprintf("Analyze the fundamentals for %s.", ticker)))
		if !llm.IsFailure(narrative) {
			summary = narrative
			rating = RatingFromNarrative(narrative, rating)
		}
	}

	keyMetrics := NewMetrics().
		Set("P/E Ratio", round2(pe)).
		Set("ROE", fmt.Sprintf("%.2f%%", roe*100)).
		Set("Debt/Equity", round2(metrics.DebtToEquity)).
		Set("Profit Margin", fmt.Sprintf("%.2f%%", metrics.ProfitMargin*100)).
		Set("Rev Growth", fmt.Sprintf("%.2f%%", metrics.RevenueGrowth*100))

	return &AnalysisResult{
		Ticker:     ticker,
		Type:       TypeFundamental,
		Rating:     rating,
		Summary:    summary,
		KeyMetrics: keyMetrics,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
