// Package newsfeed serves the dashboard's market headlines, refreshed
// from public RSS feeds on a schedule so requests never block on the
// publishers.
package newsfeed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const maxItems = 20

// DefaultFeeds are the publishers polled for market headlines
var DefaultFeeds = []string{
	"https://finance.yahoo.com/news/rssindex",
	"http://feeds.marketwatch.com/marketwatch/topstories/",
}

// Item is one headline served to the dashboard
type Item struct {
	Title          string `json:"title"`
	Link           string `json:"link"`
	PubDate        string `json:"pubDate"`
	ContentSnippet string `json:"contentSnippet"`
	Source         string `json:"source"`
	GUID           string `json:"guid"`
}

type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
	GUID        string `xml:"guid"`
}

// Service fetches and caches market headlines
type Service struct {
	client *http.Client
	log    zerolog.Logger
	feeds  []string

	mu       sync.RWMutex
	snapshot []Item
}

// NewService creates a newsfeed service over the default feeds
func NewService(log zerolog.Logger) *Service {
	return &Service{
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		log:   log.With().Str("component", "newsfeed").Logger(),
		feeds: DefaultFeeds,
	}
}

// Latest returns the last good snapshot, newest first
func (s *Service) Latest() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, len(s.snapshot))
	copy(items, s.snapshot)
	return items
}

// Refresh polls all feeds, merges their items newest-first and keeps
// the top entries. A feed that fails is skipped; the refresh errors
// only when every feed failed, and the previous snapshot survives.
func (s *Service) Refresh(ctx context.Context) error {
	var merged []Item
	failures := 0

	for _, feedURL := range s.feeds {
		items, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			s.log.Warn().Err(err).Str("feed", feedURL).Msg("Feed fetch failed")
			failures++
			continue
		}
		merged = append(merged, items...)
	}

	if failures == len(s.feeds) {
		return fmt.Errorf("all %d news feeds failed", len(s.feeds))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return parsePubDate(merged[i].PubDate).After(parsePubDate(merged[j].PubDate))
	})

	if len(merged) > maxItems {
		merged = merged[:maxItems]
	}

	s.mu.Lock()
	s.snapshot = merged
	s.mu.Unlock()

	s.log.Info().Int("items", len(merged)).Msg("News feed refreshed")
	return nil
}

func (s *Service) fetchFeed(ctx context.Context, feedURL string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "stockai-advisor/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	source := sourceName(doc.Channel.Title)
	items := make([]Item, 0, len(doc.Channel.Items))
	for _, ri := range doc.Channel.Items {
		if ri.Title == "" {
			continue
		}
		guid := ri.GUID
		if guid == "" {
			guid = ri.Link
		}
		items = append(items, Item{
			Title:          strings.TrimSpace(ri.Title),
			Link:           ri.Link,
			PubDate:        ri.PubDate,
			ContentSnippet: snippet(ri.Description),
			Source:         source,
			GUID:           guid,
		})
	}

	return items, nil
}

// sourceName maps a channel title onto the dashboard's source labels
func sourceName(channelTitle string) string {
	switch {
	case strings.Contains(channelTitle, "Yahoo"):
		return "Yahoo Finance"
	case strings.Contains(channelTitle, "MarketWatch"):
		return "MarketWatch"
	case channelTitle == "":
		return "Unknown Source"
	default:
		return channelTitle
	}
}

// snippet strips markup from an RSS description
func snippet(description string) string {
	var b strings.Builder
	inTag := false
	for _, r := range description {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// parsePubDate tries the formats RSS publishers actually emit.
// Unparseable dates sort last.
func parsePubDate(value string) time.Time {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
