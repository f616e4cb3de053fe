package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/llm"
)

// RiskAgent classifies a stock's risk profile
type RiskAgent struct {
	data     MarketData
	narrator Narrator
	log      zerolog.Logger
}

// NewRiskAgent creates a risk analysis agent
func NewRiskAgent(data MarketData, narrator Narrator, log zerolog.Logger) *RiskAgent {
	return &RiskAgent{
		data:     data,
		narrator: narrator,
		log:      log.With().Str("agent", "risk").Logger(),
	}
}

// Analyze classifies the ticker as High Risk (beta > 1.5 or drawdown
// worse than -30%), Low Risk (beta < 0.8 and drawdown better than
// -15%) or Moderate.
func (a *RiskAgent) Analyze(ctx context.Context, ticker string, opts Options) *AnalysisResult {
	metrics, err := a.data.Risk(ticker)
	if err != nil {
		return errorResult(ticker, TypeRisk, "Could not fetch data")
	}

	beta := metrics.Beta
	maxDD := metrics.MaxDrawdown

	rating := RatingModerate
	if beta > 1.5 || maxDD < -30 {
		rating = RatingHighRisk
	} else if beta < 0.8 && maxDD > -15 {
		rating = RatingLowRisk
	}

	relative := "less"
	if beta > 1 {
		relative = "more"
	}
	summary := fmt.Sprintf("%s has a Beta of %.2f, indicating it is %s volatile than the market. Max drawdown is %.2f%%. Sharpe Ratio: %.2f.",
		ticker, beta, relative, maxDD, metrics.SharpeRatio)

	if opts.LLMEnabled() {
		metricsJSON, _ := json.MarshalIndent(metrics, "", "  ")
		system := fmt.Sprintf(riskPrompt, ticker, string(metricsJSON))
		narrative := a.narrator.Narrate(ctx, opts.request(system, fmt.Sprintf("Analyze the risk profile for %s.", ticker)))
		if !llm.IsFailure(narrative) {
			summary = narrative
		}
	}

	keyMetrics := NewMetrics().
		Set("Beta", beta).
		Set("Max Drawdown", fmt.Sprintf("%.2f%%", maxDD)).
		Set("Sharpe Ratio", metrics.SharpeRatio).
		Set("Volatility", fmt.Sprintf("%.2f%%", metrics.Volatility))

	return &AnalysisResult{
		Ticker:     ticker,
		Type:       TypeRisk,
		Rating:     rating,
		Summary:    summary,
		KeyMetrics: keyMetrics,
	}
}
