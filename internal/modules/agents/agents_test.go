package agents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockai/advisor/internal/clients/yahoo"
	"github.com/stockai/advisor/internal/llm"
	"github.com/stockai/advisor/internal/modules/market"
)

type fakeData struct {
	info         *yahoo.StockInfo
	fundamentals *yahoo.FundamentalData
	technicals   *market.TechnicalData
	risk         *market.RiskData
	history      *market.PriceSeries
	err          error
}

func (f *fakeData) Info(string) (*yahoo.StockInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func (f *fakeData) Fundamentals(string) (*yahoo.FundamentalData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fundamentals, nil
}

func (f *fakeData) Technicals(string, string) (*market.TechnicalData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.technicals, nil
}

func (f *fakeData) Risk(string) (*market.RiskData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.risk, nil
}

func (f *fakeData) PriceHistory(string, string) (*market.PriceSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

type fakeNarrator struct {
	reply    string
	requests []llm.Request
}

func (f *fakeNarrator) Narrate(_ context.Context, req llm.Request) string {
	f.requests = append(f.requests, req)
	return f.reply
}

func llmOpts() Options {
	return Options{Provider: "openai", APIKey: "test-key"}
}

func TestFundamentalAgent_Rules(t *testing.T) {
	tests := []struct {
		name string
		pe   float64
		roe  float64
		want string
	}{
		{"cheap and profitable is buy", 12, 0.20, RatingBuy},
		{"cheap but weak roe is hold", 12, 0.10, RatingHold},
		{"zero pe is hold", 0, 0.50, RatingHold},
		{"negative pe is hold", -5, 0.50, RatingHold},
		{"pe at 15 is hold", 15, 0.20, RatingHold},
		{"expensive is sell", 40, 0.30, RatingSell},
		{"pe at 35 is hold", 35, 0.01, RatingHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := &fakeData{fundamentals: &yahoo.FundamentalData{PERatio: tt.pe, ROE: tt.roe}}
			agent := NewFundamentalAgent(data, &fakeNarrator{}, zerolog.Nop())

			res := agent.Analyze(context.Background(), "AAPL", Options{})
			assert.Equal(t, tt.want, res.Rating)
			assert.Empty(t, res.Error)
			assert.Contains(t, res.Summary, tt.want)
		})
	}
}

func TestFundamentalAgent_FetchErrorYieldsErrorResult(t *testing.T) {
	agent := NewFundamentalAgent(&fakeData{err: market.ErrDataUnavailable}, &fakeNarrator{}, zerolog.Nop())

	res := agent.Analyze(context.Background(), "AAPL", Options{})
	assert.Equal(t, "Could not fetch data", res.Error)
	assert.Empty(t, res.Rating)
	assert.Empty(t, res.Summary)
}

func TestFundamentalAgent_NarrativeUpgrade(t *testing.T) {
	data := &fakeData{fundamentals: &yahoo.FundamentalData{PERatio: 12, ROE: 0.20}}
	narrator := &fakeNarrator{reply: "This company is exceptional. RATING: Strong Buy (9/10)."}
	agent := NewFundamentalAgent(data, narrator, zerolog.Nop())

	res := agent.Analyze(context.Background(), "AAPL", llmOpts())
	assert.Equal(t, RatingStrongBuy, res.Rating)
	assert.Equal(t, narrator.reply, res.Summary)
	require.Len(t, narrator.requests, 1)
	assert.Contains(t, narrator.requests[0].System, "Value Investor")
}

func TestFundamentalAgent_GatewayFailureKeepsRuleVerdict(t *testing.T) {
	data := &fakeData{fundamentals: &yahoo.FundamentalData{PERatio: 12, ROE: 0.20}}
	narrator := &fakeNarrator{reply: llm.Failure(errors.New("rate limited"))}
	agent := NewFundamentalAgent(data, narrator, zerolog.Nop())

	res := agent.Analyze(context.Background(), "AAPL", llmOpts())
	assert.Equal(t, RatingBuy, res.Rating)
	assert.Contains(t, res.Summary, "valuation logic suggests")
	assert.NotContains(t, res.Summary, llm.FailurePrefix)
}

func TestFundamentalAgent_NoLLMWithoutKey(t *testing.T) {
	data := &fakeData{fundamentals: &yahoo.FundamentalData{PERatio: 12, ROE: 0.20}}
	narrator := &fakeNarrator{reply: "should not be used"}
	agent := NewFundamentalAgent(data, narrator, zerolog.Nop())

	agent.Analyze(context.Background(), "AAPL", Options{Provider: "openai"})
	agent.Analyze(context.Background(), "AAPL", Options{APIKey: "key", Provider: "none"})
	assert.Empty(t, narrator.requests)
}

func TestTechnicalAgent_TrendLadder(t *testing.T) {
	tests := []struct {
		name                 string
		price, sma20, sma50  float64
		wantRating, wantWord string
	}{
		{"above both in order", 110, 105, 100, RatingStrongBuy, "strong uptrend"},
		{"above sma20 only", 110, 105, 107, RatingBuy, "uptrend"},
		{"below both in order", 90, 95, 100, RatingSell, "downtrend"},
		{"below sma20 above sma50", 90, 95, 85, RatingHold, "sideways"},
		{"price equals sma20", 100, 100, 90, RatingHold, "sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := &fakeData{
				technicals: &market.TechnicalData{CurrentPrice: tt.price, SMA20: tt.sma20, SMA50: tt.sma50},
				history:    &market.PriceSeries{Currency: "USD"},
			}
			agent := NewTechnicalAgent(data, &fakeNarrator{}, zerolog.Nop())

			res := agent.Analyze(context.Background(), "AAPL", Options{})
			assert.Equal(t, tt.wantRating, res.Rating)
			assert.Contains(t, res.Summary, tt.wantWord)
			assert.NotNil(t, res.ChartData)
		})
	}
}

func TestTechnicalAgent_KeyMetricsOrder(t *testing.T) {
	data := &fakeData{
		technicals: &market.TechnicalData{CurrentPrice: 110, SMA20: 105, SMA50: 100, Volatility: 22.5},
		history:    &market.PriceSeries{},
	}
	agent := NewTechnicalAgent(data, &fakeNarrator{}, zerolog.Nop())

	res := agent.Analyze(context.Background(), "AAPL", Options{})
	raw, err := json.Marshal(res.KeyMetrics)
	require.NoError(t, err)

	// Dashboard renders rows in emission order
	assert.Equal(t, `{"Current Price":"$110.00","SMA 20":"$105.00","SMA 50":"$100.00","Volatility":"22.50%","1W Change":"0.00%","1M Change":"0.00%"}`, string(raw))
}

func TestRiskAgent_Classification(t *testing.T) {
	tests := []struct {
		name  string
		beta  float64
		maxDD float64
		want  string
	}{
		{"high beta", 1.6, -10, RatingHighRisk},
		{"deep drawdown", 1.0, -35, RatingHighRisk},
		{"defensive", 0.7, -10, RatingLowRisk},
		{"low beta deep drawdown is not low risk", 0.7, -20, RatingModerate},
		{"boundary beta", 1.5, -10, RatingModerate},
		{"middling", 1.1, -20, RatingModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := &fakeData{risk: &market.RiskData{Beta: tt.beta, MaxDrawdown: tt.maxDD, SharpeRatio: 1.1}}
			agent := NewRiskAgent(data, &fakeNarrator{}, zerolog.Nop())

			res := agent.Analyze(context.Background(), "TSLA", Options{})
			assert.Equal(t, tt.want, res.Rating)
		})
	}
}

func TestSentimentAgent_FixedPositive(t *testing.T) {
	agent := NewSentimentAgent(&fakeNarrator{}, zerolog.Nop())

	res := agent.Analyze(context.Background(), "AAPL", Options{})
	assert.Equal(t, RatingPositive, res.Rating)
	assert.Empty(t, res.Error)

	score, ok := res.KeyMetrics.Get("Sentiment Score")
	require.True(t, ok)
	assert.Equal(t, 0.65, score)
}

func TestAdvisorAgent_BullishQuorum(t *testing.T) {
	// Buy fundamentals + strong technical uptrend + fixed Positive
	// sentiment: 3 buy votes, 0 sell votes
	data := &fakeData{
		fundamentals: &yahoo.FundamentalData{PERatio: 12, ROE: 0.20},
		technicals:   &market.TechnicalData{CurrentPrice: 110, SMA20: 105, SMA50: 100},
		risk:         &market.RiskData{Beta: 1.0, MaxDrawdown: -10},
		history:      &market.PriceSeries{},
	}
	agent := NewAdvisorAgent(data, &fakeNarrator{}, zerolog.Nop())

	res := agent.Analyze(context.Background(), "AAPL", Options{})
	assert.Equal(t, RatingBullish, res.Rating)
	assert.Contains(t, res.Summary, "AI Advisor Verdict: Bullish")
	assert.Contains(t, res.Summary, "• **Fundamental**")
	assert.Contains(t, res.Summary, "• **Risk**")

	score, _ := res.KeyMetrics.Get("Overall Score")
	assert.Equal(t, "3/5", score)
	confidence, _ := res.KeyMetrics.Get("Confidence")
	assert.Equal(t, "Medium", confidence)
	driver, _ := res.KeyMetrics.Get("Primary Driver")
	assert.Equal(t, "Fundamentals", driver)
}

func TestAdvisorAgent_FailedAgentsDefaultToNeutralVotes(t *testing.T) {
	// All data fetches fail: fundamental/technical/risk error out and
	// vote Hold, sentiment still votes Positive. One buy vote is below
	// quorum, so the verdict stays Hold.
	agent := NewAdvisorAgent(&fakeData{err: market.ErrDataUnavailable}, &fakeNarrator{}, zerolog.Nop())

	res := agent.Analyze(context.Background(), "AAPL", Options{})
	assert.Equal(t, RatingHold, res.Rating)
	assert.Empty(t, res.Error)
	assert.Contains(t, res.Summary, "• **Fundamental**: N/A")

	score, _ := res.KeyMetrics.Get("Overall Score")
	assert.Equal(t, "1/5", score)
	driver, _ := res.KeyMetrics.Get("Primary Driver")
	assert.Equal(t, "Technicals", driver)
}

func TestAdvisorAgent_NarrativeReplacesDigest(t *testing.T) {
	data := &fakeData{
		fundamentals: &yahoo.FundamentalData{PERatio: 12, ROE: 0.20},
		technicals:   &market.TechnicalData{CurrentPrice: 110, SMA20: 105, SMA50: 100},
		risk:         &market.RiskData{Beta: 1.0, MaxDrawdown: -10},
		history:      &market.PriceSeries{},
	}
	narrator := &fakeNarrator{reply: "# **STOCK**: AAPL - Apple Inc.\nDetailed synthesis here."}
	agent := NewAdvisorAgent(data, narrator, zerolog.Nop())

	res := agent.Analyze(context.Background(), "AAPL", llmOpts())
	assert.Equal(t, narrator.reply, res.Summary)
	assert.NotContains(t, res.Summary, "AI Advisor Verdict")
	// Verdict comes from the vote, never from the narrative
	assert.Equal(t, RatingBullish, res.Rating)
}

func TestMetricsRoundTrip(t *testing.T) {
	m := NewMetrics().Set("Beta", 1.2).Set("Alpha", "x")
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"Beta":1.2,"Alpha":"x"}`, string(raw))

	var back Metrics
	require.NoError(t, json.Unmarshal(raw, &back))
	v, ok := back.Get("Beta")
	require.True(t, ok)
	assert.Equal(t, 1.2, v)
	assert.Equal(t, 2, back.Len())
}
