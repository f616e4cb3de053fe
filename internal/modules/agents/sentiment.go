package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/llm"
)

// sentimentScore is a placeholder until a live social/news sentiment
// feed is wired in. TODO: inject the news agent's digest here instead
// of the canned context.
const sentimentScore = 0.65

// SentimentAgent scores market mood for a ticker
type SentimentAgent struct {
	narrator Narrator
	log      zerolog.Logger
}

// NewSentimentAgent creates a sentiment analysis agent
func NewSentimentAgent(narrator Narrator, log zerolog.Logger) *SentimentAgent {
	return &SentimentAgent{
		narrator: narrator,
		log:      log.With().Str("agent", "sentiment").Logger(),
	}
}

// Analyze always rates Positive with a fixed score; it never errors,
// so the advisor's sentiment vote is always present.
func (a *SentimentAgent) Analyze(ctx context.Context, ticker string, opts Options) *AnalysisResult {
	rating := RatingPositive
	summary := fmt.Sprintf("Sentiment for %s is generally positive based on recent market activity.", ticker)

	if opts.LLMEnabled() {
		mockMetrics := map[string]string{
			"social_volume":  "High",
			"news_sentiment": fmt.Sprintf("Positive (%.2f)", sentimentScore),
		}
		metricsJSON, _ := json.MarshalIndent(mockMetrics, "", "  ")
		system := fmt.Sprintf(sentimentPrompt, ticker, string(metricsJSON),
			"Recent financial news indicates steady growth and strong earnings potential.")
		narrative := a.narrator.Narrate(ctx, opts.request(system, fmt.Sprintf("Analyze the market sentiment for %s.", ticker)))
		if !llm.IsFailure(narrative) {
			summary = narrative
		}
	}

	keyMetrics := NewMetrics().
		Set("Sentiment Score", sentimentScore).
		Set("Social Volume", "High")

	return &AnalysisResult{
		Ticker:     ticker,
		Type:       TypeSentiment,
		Rating:     rating,
		Summary:    summary,
		KeyMetrics: keyMetrics,
	}
}
