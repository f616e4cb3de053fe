// Package credentials persists the user's provider settings: which
// LLM, web scraping and search tools to use, with their API keys.
// A single trusted caller owns the store, so there is one row and no
// per-user scoping.
package credentials

// LLMProvider selects the chat/analysis model
type LLMProvider struct {
	SelectedProvider string `json:"selectedProvider"`
	APIKey           string `json:"apiKey"`
	Model            string `json:"model"`
}

// WebTools selects the scraping/search backend for the news agent
type WebTools struct {
	SelectedTool string `json:"selectedTool"`
	APIKey       string `json:"apiKey"`
	Mode         string `json:"mode"`
}

// SearchTools selects the general web search provider
type SearchTools struct {
	SelectedProvider string `json:"selectedProvider"`
	APIKey           string `json:"apiKey"`
	Mode             string `json:"mode"`
}

// Credentials is the full provider configuration
type Credentials struct {
	LLMProvider LLMProvider `json:"llmProvider"`
	WebTools    WebTools    `json:"webTools"`
	SearchTools SearchTools `json:"searchTools"`
}

// Defaults returns the configuration for a fresh install
func Defaults() Credentials {
	return Credentials{
		LLMProvider: LLMProvider{
			SelectedProvider: "openai",
			Model:            "gpt-4",
		},
		WebTools: WebTools{
			SelectedTool: "firecrawl",
			Mode:         "Standard",
		},
		SearchTools: SearchTools{
			SelectedProvider: "serper",
			Mode:             "Search",
		},
	}
}
