package agents

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/clients/firecrawl"
	"github.com/stockai/advisor/internal/clients/spider"
)

const (
	searchItemCap  = 5
	defaultItemCap = 8
	snippetLen     = 100
)

// NewsFetcher supplies raw Yahoo news items
type NewsFetcher interface {
	News(symbol string, count int) ([]map[string]interface{}, error)
}

// SearchHit is a normalized web-search result
type SearchHit struct {
	Title   string
	URL     string
	Snippet string
}

// SearchFunc runs one web search with a bound API key
type SearchFunc func(query string, limit int) ([]SearchHit, error)

// newsStrategy is one provider in the fallback chain
type newsStrategy struct {
	name string
	run  func(ctx context.Context, ticker string) (*AnalysisResult, error)
}

// NewsAgent aggregates recent headlines for a ticker.
//
// Providers form an ordered fallback chain: the request's selected
// search provider first (when it carries a key), then the Yahoo
// default. A provider failure cascades to the next entry; only a
// failure of the terminal default produces an error result.
type NewsAgent struct {
	fetcher NewsFetcher
	log     zerolog.Logger

	// Per-request search clients, injectable for tests
	newFirecrawl func(apiKey string) SearchFunc
	newSpider    func(apiKey string) SearchFunc
}

// NewNewsAgent creates a news agent with real search clients
func NewNewsAgent(fetcher NewsFetcher, log zerolog.Logger) *NewsAgent {
	agentLog := log.With().Str("agent", "news").Logger()
	return &NewsAgent{
		fetcher: fetcher,
		log:     agentLog,
		newFirecrawl: func(apiKey string) SearchFunc {
			client := firecrawl.NewClient(apiKey, agentLog)
			return func(query string, limit int) ([]SearchHit, error) {
				results, err := client.Search(query, limit)
				if err != nil {
					return nil, err
				}
				hits := make([]SearchHit, 0, len(results))
				for _, r := range results {
					hits = append(hits, SearchHit{Title: r.Title, URL: r.URL, Snippet: r.Markdown})
				}
				return hits, nil
			}
		},
		newSpider: func(apiKey string) SearchFunc {
			client := spider.NewClient(apiKey, agentLog)
			return func(query string, limit int) ([]SearchHit, error) {
				results, err := client.Search(query, limit)
				if err != nil {
					return nil, err
				}
				hits := make([]SearchHit, 0, len(results))
				for _, r := range results {
					hits = append(hits, SearchHit{Title: r.Title, URL: r.URL, Snippet: r.Content})
				}
				return hits, nil
			}
		},
	}
}

// Analyze walks the provider chain until one produces a digest
func (a *NewsAgent) Analyze(ctx context.Context, ticker string, opts Options) *AnalysisResult {
	var lastErr error
	for _, strategy := range a.chain(opts) {
		result, err := strategy.run(ctx, ticker)
		if err == nil {
			return result
		}
		a.log.Warn().Err(err).Str("provider", strategy.name).Str("ticker", ticker).Msg("News provider failed, falling back")
		lastErr = err
	}
	return errorResult(ticker, TypeNews, lastErr.Error())
}

// chain builds the ordered provider list for one request. The
// crawl4ai provider has no hosted API, so selecting it just means
// the default runs.
func (a *NewsAgent) chain(opts Options) []newsStrategy {
	var chain []newsStrategy

	if opts.APIKey != "" {
		switch opts.Provider {
		case "firecrawl":
			search := a.newFirecrawl(opts.APIKey)
			chain = append(chain, newsStrategy{
				name: "firecrawl",
				run: func(ctx context.Context, ticker string) (*AnalysisResult, error) {
					query := fmt.Sprintf("latest financial news %s stock market", ticker)
					hits, err := search(query, searchItemCap)
					if err != nil {
						return nil, err
					}
					return a.searchDigest(ticker, "Firecrawl", hits), nil
				},
			})
		case "spider":
			search := a.newSpider(opts.APIKey)
			chain = append(chain, newsStrategy{
				name: "spider",
				run: func(ctx context.Context, ticker string) (*AnalysisResult, error) {
					query := fmt.Sprintf("latest financial news %s", ticker)
					hits, err := search(query, searchItemCap)
					if err != nil {
						return nil, err
					}
					return a.searchDigest(ticker, "Spider Cloud", hits), nil
				},
			})
		case "crawl4ai":
			a.log.Info().Msg("crawl4ai requires a local crawler, using default provider")
		}
	}

	chain = append(chain, newsStrategy{name: "yahoo", run: a.yahooDigest})
	return chain
}

// searchDigest renders web-search hits as a numbered markdown digest
func (a *NewsAgent) searchDigest(ticker, source string, hits []SearchHit) *AnalysisResult {
	var b strings.Builder
	fmt.Fprintf(&b, "Latest News for %s (via %s):\n\n", ticker, source)

	count := 0
	for _, hit := range hits {
		if count >= searchItemCap {
			break
		}
		count++

		title := hit.Title
		if title == "" {
			title = "No Title"
		}
		link := hit.URL
		if link == "" {
			link = "#"
		}
		snippet := truncate(hit.Snippet, snippetLen)
		fmt.Fprintf(&b, "%d. **%s**\n%s...\n[Read more](%s)\n\n", count, title, snippet, link)
	}

	return &AnalysisResult{
		Ticker:  ticker,
		Type:    TypeNews,
		Rating:  RatingInformational,
		Summary: b.String(),
		KeyMetrics: NewMetrics().
			Set("Source", source).
			Set("Items", len(hits)).
			Set("Mode", "Search"),
	}
}

// newsItem is a normalized Yahoo headline
type newsItem struct {
	title     string
	publisher string
	dateStr   string
	link      string
}

// yahooDigest builds the default digest from Yahoo Finance headlines
func (a *NewsAgent) yahooDigest(ctx context.Context, ticker string) (*AnalysisResult, error) {
	raw, err := a.fetcher.News(ticker, defaultItemCap)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return &AnalysisResult{
			Ticker:     ticker,
			Type:       TypeNews,
			Rating:     RatingNA,
			Summary:    "No recent news found via Yahoo Finance.",
			KeyMetrics: NewMetrics(),
		}, nil
	}

	items, latestDate := normalizeNewsItems(raw)

	if len(items) == 0 {
		return &AnalysisResult{
			Ticker:     ticker,
			Type:       TypeNews,
			Rating:     RatingNA,
			Summary:    "News found but contained no valid titles.",
			KeyMetrics: NewMetrics(),
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Latest News Analysis for %s (via Yahoo Finance):\n\n", ticker)

	count := 0
	for _, item := range items {
		if count >= defaultItemCap {
			break
		}
		count++
		fmt.Fprintf(&b, "%d. **%s** | _%s_\n%s\n", count, item.dateStr, item.publisher, item.title)
		if item.link != "" {
			fmt.Fprintf(&b, "[Read more](%s)\n\n", item.link)
		} else {
			b.WriteString("\n")
		}
	}

	rating := RatingModerateActivity
	if count >= 5 {
		rating = RatingHighActivity
	}

	if latestDate == "" {
		latestDate = RatingNA
	}

	return &AnalysisResult{
		Ticker:  ticker,
		Type:    TypeNews,
		Rating:  rating,
		Summary: b.String(),
		KeyMetrics: NewMetrics().
			Set("News items retrieved", count).
			Set("Latest Update", latestDate).
			Set("Primary Source", items[0].publisher),
	}, nil
}

// normalizeNewsItems flattens the two item layouts the Yahoo API
// returns: older revisions are flat, newer ones nest everything under
// "content". Items without a title are dropped; malformed timestamps
// degrade to "Date Unknown".
func normalizeNewsItems(raw []map[string]interface{}) ([]newsItem, string) {
	var items []newsItem
	latestDate := ""

	for _, n := range raw {
		content, _ := n["content"].(map[string]interface{})

		title, _ := n["title"].(string)
		if title == "" && content != nil {
			title, _ = content["title"].(string)
		}
		if title == "" {
			continue
		}

		publisher, _ := n["publisher"].(string)
		if publisher == "" && content != nil {
			if provider, ok := content["provider"].(map[string]interface{}); ok {
				publisher, _ = provider["displayName"].(string)
			}
		}
		if publisher == "" {
			publisher = "Unknown Source"
		}

		ts := epochSeconds(n["providerPublishTime"])
		if ts == 0 && content != nil {
			if pubDate, ok := content["pubDate"].(string); ok {
				if parsed, err := time.Parse(time.RFC3339, pubDate); err == nil {
					ts = parsed.Unix()
				}
			}
		}

		dateStr := "Date Unknown"
		if ts > 0 {
			dateStr = time.Unix(ts, 0).Format("2006-01-02 15:04")
			if latestDate == "" {
				latestDate = dateStr
			}
		}

		link, _ := n["link"].(string)
		if link == "" && content != nil {
			if canonical, ok := content["canonicalUrl"].(map[string]interface{}); ok {
				link, _ = canonical["url"].(string)
			}
			if link == "" {
				if clickThrough, ok := content["clickThroughUrl"].(map[string]interface{}); ok {
					link, _ = clickThrough["url"].(string)
				}
			}
		}

		items = append(items, newsItem{
			title:     title,
			publisher: publisher,
			dateStr:   dateStr,
			link:      link,
		})
	}

	return items, latestDate
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// epochSeconds coerces the loosely typed publish time field
func epochSeconds(v interface{}) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	}
	return 0
}
