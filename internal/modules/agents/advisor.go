package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/llm"
)

const verdictHeader = "**AI Advisor Verdict: "

// AdvisorAgent runs the scoring agents and synthesizes a final verdict
type AdvisorAgent struct {
	fundamental *FundamentalAgent
	technical   *TechnicalAgent
	risk        *RiskAgent
	sentiment   *SentimentAgent
	narrator    Narrator
	log         zerolog.Logger
}

// NewAdvisorAgent creates an advisor over the four scoring agents
func NewAdvisorAgent(data MarketData, narrator Narrator, log zerolog.Logger) *AdvisorAgent {
	return &AdvisorAgent{
		fundamental: NewFundamentalAgent(data, narrator, log),
		technical:   NewTechnicalAgent(data, narrator, log),
		risk:        NewRiskAgent(data, narrator, log),
		sentiment:   NewSentimentAgent(narrator, log),
		narrator:    narrator,
		log:         log.With().Str("agent", "advisor").Logger(),
	}
}

// Analyze collects all agent verdicts and votes them into Bullish,
// Bearish or Hold. Fundamental, technical and sentiment vote; risk
// informs the narrative but holds no vote. Agents that errored vote
// with their neutral default, so a partial failure still yields a
// verdict.
func (a *AdvisorAgent) Analyze(ctx context.Context, ticker string, opts Options) *AnalysisResult {
	fundRes := a.fundamental.Analyze(ctx, ticker, opts)
	techRes := a.technical.Analyze(ctx, ticker, opts)
	riskRes := a.risk.Analyze(ctx, ticker, opts)
	sentRes := a.sentiment.Analyze(ctx, ticker, opts)

	ratings := []string{
		ratingOrDefault(fundRes, RatingHold),
		ratingOrDefault(techRes, RatingHold),
		ratingOrDefault(sentRes, RatingNeutral),
	}

	buyVotes, sellVotes := Tally(ratings)
	verdict := Verdict(buyVotes, sellVotes)

	summary := fmt.Sprintf("%s%s**\n\n", verdictHeader, verdict)

	if opts.LLMEnabled() {
		system := fmt.Sprintf(advisorPrompt, ticker,
			summaryOrNA(fundRes),
			summaryOrNA(techRes),
			summaryOrNA(riskRes),
			summaryOrNA(sentRes))
		narrative := a.narrator.Narrate(ctx, opts.request(system, fmt.Sprintf("Provide a final investment decision for %s.", ticker)))
		if !llm.IsFailure(narrative) {
			summary = narrative
		}
	}

	// When no narrative replaced the header, spell out each agent's view
	if strings.HasPrefix(summary, verdictHeader) {
		summary += fmt.Sprintf("• **Fundamental**: %s\n", summaryOrNA(fundRes))
		summary += fmt.Sprintf("• **Technical**: %s\n", summaryOrNA(techRes))
		summary += fmt.Sprintf("• **Risk**: %s\n", summaryOrNA(riskRes))
		summary += fmt.Sprintf("• **Sentiment**: %s\n", summaryOrNA(sentRes))
	}

	confidence := "Medium"
	if buyVotes > 3 || sellVotes > 3 {
		confidence = "High"
	}

	primaryDriver := "Technicals"
	if fundRes.Rating == RatingBuy || fundRes.Rating == RatingSell {
		primaryDriver = "Fundamentals"
	}

	return &AnalysisResult{
		Ticker:  ticker,
		Type:    TypeAdvisor,
		Rating:  verdict,
		Summary: summary,
		KeyMetrics: NewMetrics().
			Set("Overall Score", fmt.Sprintf("%d/5", buyVotes)).
			Set("Confidence", confidence).
			Set("Primary Driver", primaryDriver),
	}
}

func ratingOrDefault(res *AnalysisResult, fallback string) string {
	if res == nil || res.Rating == "" {
		return fallback
	}
	return res.Rating
}

func summaryOrNA(res *AnalysisResult) string {
	if res == nil || res.Summary == "" {
		return "N/A"
	}
	return res.Summary
}
