// Package firecrawl is a minimal client for the Firecrawl search API.
package firecrawl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.firecrawl.dev"

// Client calls the Firecrawl v0 search endpoint
type Client struct {
	client  *http.Client
	log     zerolog.Logger
	apiKey  string
	baseURL string
}

// NewClient creates a Firecrawl client with the given API key
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:     log.With().Str("client", "firecrawl").Logger(),
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// SearchResult is a single hit from a Firecrawl search
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Markdown    string `json:"markdown"`
}

// Search runs a web search and returns up to limit results
func (c *Client) Search(query string, limit int) ([]SearchResult, error) {
	payload := map[string]interface{}{
		"query": query,
		"limit": limit,
		"pageOptions": map[string]interface{}{
			"onlyMainContent": true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/v0/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Firecrawl: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Firecrawl API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Success bool           `json:"success"`
		Data    []SearchResult `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("Firecrawl search was not successful")
	}

	c.log.Debug().Str("query", query).Int("results", len(result.Data)).Msg("Firecrawl search completed")

	return result.Data, nil
}
