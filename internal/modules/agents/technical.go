package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/llm"
)

// defaultPeriod is the history window when a request leaves it unset
const defaultPeriod = "6mo"

// TechnicalAgent rates a stock on price trend relative to its moving
// averages and attaches chart-ready history.
type TechnicalAgent struct {
	data     MarketData
	narrator Narrator
	log      zerolog.Logger
}

// NewTechnicalAgent creates a technical analysis agent
func NewTechnicalAgent(data MarketData, narrator Narrator, log zerolog.Logger) *TechnicalAgent {
	return &TechnicalAgent{
		data:     data,
		narrator: narrator,
		log:      log.With().Str("agent", "technical").Logger(),
	}
}

// Analyze produces a technical rating for the ticker.
//
// Trend ladder: price above both SMAs in order is a strong uptrend
// (Strong Buy), above SMA20 alone an uptrend (Buy), below both in
// order a downtrend (Sell), anything else sideways (Hold).
func (a *TechnicalAgent) Analyze(ctx context.Context, ticker string, opts Options) *AnalysisResult {
	period := opts.Period
	if period == "" {
		period = defaultPeriod
	}

	metrics, err := a.data.Technicals(ticker, period)
	if err != nil {
		return errorResult(ticker, TypeTechnical, "Could not fetch data")
	}

	current := metrics.CurrentPrice
	sma20 := metrics.SMA20
	sma50 := metrics.SMA50

	rating := RatingHold
	trend := "sideways"
	switch {
	case current > sma20 && sma20 > sma50:
		rating = RatingStrongBuy
		trend = "strong uptrend"
	case current > sma20:
		rating = RatingBuy
		trend = "uptrend"
	case current < sma20 && sma20 < sma50:
		rating = RatingSell
		trend = "downtrend"
	}

	summary := fmt.Sprintf("%s is currently at $%.2f, showing %s. Trading relative to SMA20 ($%.2f). Volatility: %.2f%%.",
		ticker, current, trend, sma20, metrics.Volatility)

	if opts.LLMEnabled() {
		metricsJSON, _ := json.MarshalIndent(metrics, "", "  ")
		system := fmt.Sprintf(technicalPrompt, ticker, string(metricsJSON), period)
		narrative := a.narrator.Narrate(ctx, opts.request(system, fmt.Sprintf("Analyze the technicals for %s.", ticker)))
		if !llm.IsFailure(narrative) {
			summary = narrative
		}
	}

	keyMetrics := NewMetrics().
		Set("Current Price", fmt.Sprintf("$%.2f", current)).
		Set("SMA 20", fmt.Sprintf("$%.2f", sma20)).
		Set("SMA 50", fmt.Sprintf("$%.2f", sma50)).
		Set("Volatility", fmt.Sprintf("%.2f%%", metrics.Volatility)).
		Set("1W Change", fmt.Sprintf("%.2f%%", metrics.PriceChange1W)).
		Set("1M Change", fmt.Sprintf("%.2f%%", metrics.PriceChange1M))

	// Chart data is best-effort: the rating stands even when the
	// second history fetch fails.
	chart, err := a.data.PriceHistory(ticker, period)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Msg("Chart data fetch failed")
		chart = nil
	}

	return &AnalysisResult{
		Ticker:     ticker,
		Type:       TypeTechnical,
		Rating:     rating,
		Summary:    summary,
		KeyMetrics: keyMetrics,
		ChartData:  chart,
	}
}
