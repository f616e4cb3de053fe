// Package spider is a minimal client for the Spider Cloud search API.
package spider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.spider.cloud"

// Client calls the Spider Cloud v1 search endpoint
type Client struct {
	client  *http.Client
	log     zerolog.Logger
	apiKey  string
	baseURL string
}

// NewClient creates a Spider Cloud client with the given API key
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:     log.With().Str("client", "spider").Logger(),
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// SearchResult is a single hit from a Spider search
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// Search runs a web search and returns up to limit results.
// The API returns a bare list or an object wrapping the list under
// "content" or "data" depending on plan, so all three shapes are
// accepted.
func (c *Client) Search(query string, limit int) ([]SearchResult, error) {
	payload := map[string]interface{}{
		"search": query,
		"limit":  limit,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Spider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Spider API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var asList []SearchResult
	if err := json.Unmarshal(respBody, &asList); err == nil {
		return asList, nil
	}

	var asObject struct {
		Content []SearchResult `json:"content"`
		Data    []SearchResult `json:"data"`
	}
	if err := json.Unmarshal(respBody, &asObject); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// An object carrying neither list key is an unknown shape; failing
	// here lets the news fallback chain move on instead of rendering an
	// empty digest as a success.
	results := asObject.Content
	if results == nil {
		results = asObject.Data
	}
	if results == nil {
		return nil, fmt.Errorf("unrecognized response shape: %s", string(respBody))
	}

	c.log.Debug().Str("query", query).Int("results", len(results)).Msg("Spider search completed")

	return results, nil
}
