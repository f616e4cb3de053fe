package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/stockai/advisor/internal/modules/agents"
	"github.com/stockai/advisor/internal/modules/chat"
)

// analyzeRequest is the body of POST /api/analyze
type analyzeRequest struct {
	Ticker   string `json:"ticker"`
	Type     string `json:"type"`
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model"`
	Period   string `json:"period"`
}

// chatRequest is the body of POST /api/chat
type chatRequest struct {
	Message  string `json:"message"`
	Ticker   string `json:"ticker"`
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model"`
}

// handleAnalyze dispatches one analysis request to the named agent
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	if strings.TrimSpace(req.Type) == "" {
		s.writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	ticker := s.deps.Resolver.Resolve(req.Ticker)
	opts := s.analysisOptions(req)
	ctx := r.Context()

	var result *agents.AnalysisResult
	switch strings.ToLower(req.Type) {
	case "fundamental":
		result = s.deps.Fundamental.Analyze(ctx, ticker, opts)
	case "technical":
		result = s.deps.Technical.Analyze(ctx, ticker, opts)
	case "risk":
		result = s.deps.Risk.Analyze(ctx, ticker, opts)
	case "sentiment":
		result = s.deps.Sentiment.Analyze(ctx, ticker, opts)
	case "news":
		result = s.deps.News.Analyze(ctx, ticker, opts)
	case "advisor":
		result = s.deps.Advisor.Analyze(ctx, ticker, opts)
	default:
		result = &agents.AnalysisResult{
			Ticker:     ticker,
			Type:       req.Type,
			Rating:     agents.RatingNeutral,
			Summary:    fmt.Sprintf("Analysis type '%s' not supported yet.", req.Type),
			KeyMetrics: agents.NewMetrics(),
		}
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleChat answers one chat message
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ticker := ""
	if req.Ticker != "" {
		ticker = s.deps.Resolver.Resolve(req.Ticker)
	}

	provider, apiKey, model := s.fillCredentials(req.Provider, req.APIKey, req.Model)

	resp := s.deps.Chat.Reply(r.Context(), chat.Request{
		Message:  req.Message,
		Ticker:   ticker,
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	})

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) analysisOptions(req analyzeRequest) agents.Options {
	provider, apiKey, model := s.fillCredentials(req.Provider, req.APIKey, req.Model)
	return agents.Options{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
		Period:   req.Period,
	}
}

// fillCredentials applies the server-side fallback key. Per-request
// keys always win; the fallback only covers a request that names no
// key at all, and never changes an explicitly chosen provider.
func (s *Server) fillCredentials(provider, apiKey, model string) (string, string, string) {
	cfg := s.deps.Config
	if apiKey != "" || cfg.DefaultLLMAPIKey == "" {
		return provider, apiKey, model
	}
	if provider != "" && provider != "none" && provider != cfg.DefaultLLMProvider {
		return provider, apiKey, model
	}

	if model == "" {
		model = cfg.DefaultLLMModel
	}
	return cfg.DefaultLLMProvider, cfg.DefaultLLMAPIKey, model
}
