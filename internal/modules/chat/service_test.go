package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockai/advisor/internal/clients/yahoo"
	"github.com/stockai/advisor/internal/llm"
)

type fakeQuotes struct {
	info *yahoo.StockInfo
	err  error
}

func (f *fakeQuotes) Info(string) (*yahoo.StockInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

type fakeNarrator struct {
	reply    string
	requests []llm.Request
}

func (f *fakeNarrator) Narrate(_ context.Context, req llm.Request) string {
	f.requests = append(f.requests, req)
	return f.reply
}

func appleQuotes() *fakeQuotes {
	return &fakeQuotes{info: &yahoo.StockInfo{
		Symbol:        "AAPL",
		Price:         189.5,
		ChangePercent: -1.25,
		Sector:        "Technology",
	}}
}

func TestReply_LLMPath(t *testing.T) {
	narrator := &fakeNarrator{reply: "AAPL looks set for a breakout above $195."}
	svc := NewService(appleQuotes(), narrator, zerolog.Nop())

	resp := svc.Reply(context.Background(), Request{
		Message:  "What's the entry point?",
		Ticker:   "AAPL",
		Provider: "openai",
		APIKey:   "key",
	})

	assert.Equal(t, "AI Advisor", resp.Sender)
	assert.Equal(t, narrator.reply, resp.Text)
	assert.NotEmpty(t, resp.Timestamp)

	require.Len(t, narrator.requests, 1)
	assert.Contains(t, narrator.requests[0].Prompt, "Stock: AAPL, Price: $189.50, Change: -1.25%, Sector: Technology")
	assert.Contains(t, narrator.requests[0].Prompt, "User Question: What's the entry point?")
}

func TestReply_LLMFailureFallsThroughToCanned(t *testing.T) {
	narrator := &fakeNarrator{reply: llm.Failure(errors.New("quota exceeded"))}
	svc := NewService(appleQuotes(), narrator, zerolog.Nop())

	resp := svc.Reply(context.Background(), Request{
		Message:  "should I buy?",
		Ticker:   "AAPL",
		Provider: "openai",
		APIKey:   "key",
	})

	assert.NotContains(t, resp.Text, llm.FailurePrefix)
	assert.Contains(t, resp.Text, "I'm analyzing AAPL for you.")
	assert.Contains(t, resp.Text, "down 1.25% today")
	assert.Contains(t, resp.Text, "fundamental and technical analysis tabs")
}

func TestReply_CannedKeywordBranches(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"buy keyword", "should I BUY now?", "fundamental and technical analysis tabs"},
		{"invest keyword", "is it worth investing?", "fundamental and technical analysis tabs"},
		{"risk keyword", "how risky is it?", "Risk Analysis tab"},
		{"price keyword", "what's the price?", "currently trading at $189.50"},
		{"generic", "tell me something", "What specific aspect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(appleQuotes(), &fakeNarrator{}, zerolog.Nop())
			resp := svc.Reply(context.Background(), Request{Message: tt.message, Ticker: "AAPL"})
			assert.Contains(t, resp.Text, tt.want)
		})
	}
}

func TestReply_GenericBranchAddsKeyTipOnlyWithoutKey(t *testing.T) {
	svc := NewService(appleQuotes(), &fakeNarrator{}, zerolog.Nop())

	resp := svc.Reply(context.Background(), Request{Message: "hello", Ticker: "AAPL"})
	assert.Contains(t, resp.Text, "Add an API key in Credentials")

	// A key with provider "none" skips the LLM but also skips the tip
	resp = svc.Reply(context.Background(), Request{Message: "hello", Ticker: "AAPL", APIKey: "key", Provider: "none"})
	assert.NotContains(t, resp.Text, "Add an API key")
}

func TestReply_NoTickerGreeting(t *testing.T) {
	svc := NewService(appleQuotes(), &fakeNarrator{}, zerolog.Nop())

	resp := svc.Reply(context.Background(), Request{Message: "hi"})
	assert.Contains(t, resp.Text, "select a stock ticker")
	assert.Contains(t, resp.Text, "Configure an LLM API key")
}

func TestReply_QuoteFailure(t *testing.T) {
	svc := NewService(&fakeQuotes{err: errors.New("no data")}, &fakeNarrator{}, zerolog.Nop())

	resp := svc.Reply(context.Background(), Request{Message: "hi", Ticker: "XXXX"})
	assert.Contains(t, resp.Text, "trouble fetching data for XXXX")
}
