// Package chat answers free-form questions about a selected stock,
// with an LLM when the request carries credentials and a canned
// data-driven reply otherwise.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/clients/yahoo"
	"github.com/stockai/advisor/internal/llm"
	"github.com/stockai/advisor/internal/modules/agents"
	"github.com/stockai/advisor/internal/modules/market"
)

const senderName = "AI Advisor"

const systemPrompt = `You are a senior hedge fund analyst and expert stock trader.
Your goal is to provide specific, data-driven, and actionable investment advice.

When answering questions:
1. Be direct and concise. Avoid generic disclaimers unless necessary.
2. If asked about "entry points" or "buy levels", analyze the provided stock data (price actions, moving averages, etc.) to suggest specific price ranges.
3. Suggest potential Support (entry) and Resistance (target) levels if data allows.
4. Mention risks clearly but briefly.
5. If the data is insufficient to give a specific price, explain what to look for (e.g., "wait for a pullback to the 20-day SMA").
6. Use professional financial terminology (e.g., consolidation, breakout, RSI divergence) but explain them simply.

Context Data:`

// QuoteSource supplies the stock snapshot woven into replies
type QuoteSource interface {
	Info(ticker string) (*yahoo.StockInfo, error)
}

// Request is one chat turn from the client
type Request struct {
	Message  string
	Ticker   string
	Provider string
	APIKey   string
	Model    string
}

// Response is the advisor's reply
type Response struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Service answers chat messages
type Service struct {
	quotes   QuoteSource
	narrator agents.Narrator
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a chat service
func NewService(quotes QuoteSource, narrator agents.Narrator, log zerolog.Logger) *Service {
	return &Service{
		quotes:   quotes,
		narrator: narrator,
		log:      log.With().Str("component", "chat").Logger(),
		now:      time.Now,
	}
}

// Reply answers a chat message. The LLM path runs only when the
// request carries credentials; any gateway failure falls through to
// the canned reply so chat never surfaces provider errors.
func (s *Service) Reply(ctx context.Context, req Request) Response {
	if req.APIKey != "" && req.Provider != "" && req.Provider != "none" {
		if text, ok := s.llmReply(ctx, req); ok {
			return s.respond(text)
		}
	}
	return s.respond(s.cannedReply(req))
}

func (s *Service) respond(text string) Response {
	return Response{
		Sender:    senderName,
		Text:      text,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
}

func (s *Service) llmReply(ctx context.Context, req Request) (string, bool) {
	stockContext := ""
	if req.Ticker != "" {
		if info, err := s.quotes.Info(req.Ticker); err == nil {
			stockContext = fmt.Sprintf("Stock: %s, Price: $%.2f, Change: %.2f%%, Sector: %s",
				req.Ticker, info.Price, info.ChangePercent, info.Sector)
		}
	}

	narrative := s.narrator.Narrate(ctx, llm.Request{
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Model:    req.Model,
		System:   systemPrompt,
		Prompt:   fmt.Sprintf("%s\n\nUser Question: %s", stockContext, req.Message),
	})
	if llm.IsFailure(narrative) {
		s.log.Warn().Str("provider", req.Provider).Msg("Chat LLM failed, using canned reply")
		return "", false
	}
	return narrative, true
}

// cannedReply builds a data-driven reply without an LLM
func (s *Service) cannedReply(req Request) string {
	if req.Ticker == "" {
		text := "Hello! I'm your AI stock advisor. Please select a stock ticker using the input at the top, and I'll provide detailed analysis and insights."
		if req.APIKey == "" {
			text += " (Tip: Configure an LLM API key in the Credentials page for enhanced AI responses!)"
		}
		return text
	}

	info, err := s.quotes.Info(req.Ticker)
	if err != nil {
		return fmt.Sprintf("I'm having trouble fetching data for %s. Please verify the ticker symbol is correct.", req.Ticker)
	}

	direction := "down"
	if info.ChangePercent > 0 {
		direction = "up"
	}

	price := market.FormatPrice(info.Price, info.Currency)

	var b strings.Builder
	fmt.Fprintf(&b, "I'm analyzing %s for you. ", req.Ticker)
	fmt.Fprintf(&b, "Current price is %s, %s %.2f%% today. ", price, direction, abs(info.ChangePercent))

	message := strings.ToLower(req.Message)
	switch {
	case strings.Contains(message, "buy") || strings.Contains(message, "invest"):
		b.WriteString("Based on current market conditions, I recommend reviewing the fundamental and technical analysis tabs for a comprehensive view before making investment decisions.")
	case strings.Contains(message, "risk"):
		b.WriteString("Check out the Risk Analysis tab to see detailed risk metrics including beta, max drawdown, and Sharpe ratio.")
	case strings.Contains(message, "price") || strings.Contains(message, "cost"):
		fmt.Fprintf(&b, "The stock is currently trading at %s. Historical data shows it's been quite active recently.", price)
	default:
		b.WriteString("What specific aspect would you like to know more about? I can help with fundamentals, technicals, or risk analysis.")
		if req.APIKey == "" {
			b.WriteString(" (Tip: Add an API key in Credentials for AI-powered insights!)")
		}
	}

	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
