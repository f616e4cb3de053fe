package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const (
	quoteURL  = "https://query1.finance.yahoo.com/v7/finance/quote"
	chartURL  = "https://query1.finance.yahoo.com/v8/finance/chart/"
	searchURL = "https://query1.finance.yahoo.com/v1/finance/search"

	// Yahoo rejects requests without a browser-looking user agent
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client is a Yahoo Finance API client
type Client struct {
	client    *http.Client
	log       zerolog.Logger
	quoteURL  string
	chartURL  string
	searchURL string
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:       log.With().Str("client", "yahoo").Logger(),
		quoteURL:  quoteURL,
		chartURL:  chartURL,
		searchURL: searchURL,
	}
}

// yahooQuoteResponse represents the response from Yahoo Finance quote API
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// LastPrice returns the last traded price for a symbol. Used by the
// ticker resolver as a cheap existence probe.
func (c *Client) LastPrice(symbol string) (float64, error) {
	info, err := c.getQuoteInfo(symbol)
	if err != nil {
		return 0, err
	}

	if price := getFloat64(info, "currentPrice"); price != nil && *price > 0 {
		return *price, nil
	}
	if price := getFloat64(info, "regularMarketPrice"); price != nil && *price > 0 {
		return *price, nil
	}

	return 0, fmt.Errorf("no usable price for symbol %s", symbol)
}

// StockInfo fetches basic quote information for a symbol
func (c *Client) StockInfo(symbol string) (*StockInfo, error) {
	info, err := c.getQuoteInfo(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote info: %w", err)
	}

	price := getFloat64OrZero(info, "currentPrice")
	if price == 0 {
		price = getFloat64OrZero(info, "regularMarketPrice")
	}

	name := getString(info, "longName", "")
	if name == "" {
		name = getString(info, "shortName", symbol)
	}

	beta := getFloat64OrZero(info, "beta")
	if beta == 0 {
		beta = 1.0
	}

	return &StockInfo{
		Symbol:        symbol,
		Name:          name,
		Price:         price,
		ChangePercent: getFloat64OrZero(info, "regularMarketChangePercent"),
		Volume:        getInt64OrZero(info, "regularMarketVolume"),
		MarketCap:     getInt64OrZero(info, "marketCap"),
		Sector:        getString(info, "sector", "N/A"),
		Industry:      getString(info, "industry", "N/A"),
		Currency:      getString(info, "currency", "USD"),
		Beta:          beta,
	}, nil
}

// Fundamentals fetches fundamental analysis metrics for a symbol
func (c *Client) Fundamentals(symbol string) (*FundamentalData, error) {
	info, err := c.getQuoteInfo(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote info: %w", err)
	}

	return &FundamentalData{
		Symbol:         symbol,
		PERatio:        getFloat64OrZero(info, "trailingPE"),
		ForwardPE:      getFloat64OrZero(info, "forwardPE"),
		PEGRatio:       getFloat64OrZero(info, "pegRatio"),
		PriceToBook:    getFloat64OrZero(info, "priceToBook"),
		DebtToEquity:   getFloat64OrZero(info, "debtToEquity"),
		ROE:            getFloat64OrZero(info, "returnOnEquity"),
		ProfitMargin:   getFloat64OrZero(info, "profitMargins"),
		RevenueGrowth:  getFloat64OrZero(info, "revenueGrowth"),
		EarningsGrowth: getFloat64OrZero(info, "earningsGrowth"),
		DividendYield:  getFloat64OrZero(info, "dividendYield"),
	}, nil
}

// getQuoteInfo fetches quote information from Yahoo Finance API
func (c *Client) getQuoteInfo(symbol string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Add("symbols", symbol)
	params.Add("fields", "symbol,regularMarketPrice,currentPrice,regularMarketChangePercent,"+
		"regularMarketVolume,marketCap,sector,industry,currency,beta,"+
		"trailingPE,forwardPE,pegRatio,priceToBook,revenueGrowth,earningsGrowth,profitMargins,"+
		"returnOnEquity,debtToEquity,dividendYield,longName,shortName")

	reqURL := c.quoteURL + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result yahooQuoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.QuoteResponse.Error)
	}

	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	return result.QuoteResponse.Result[0], nil
}

// HistoricalPrices fetches daily OHLCV bars from the Yahoo chart API.
// Supported periods: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max
func (c *Client) HistoricalPrices(symbol, period string) (*History, error) {
	params := url.Values{}
	params.Add("interval", "1d")
	params.Add("range", period)

	reqURL := c.chartURL + url.PathEscape(symbol) + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result struct {
		Chart struct {
			Result []struct {
				Meta struct {
					Currency string `json:"currency"`
				} `json:"meta"`
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open   []float64 `json:"open"`
						High   []float64 `json:"high"`
						Low    []float64 `json:"low"`
						Close  []float64 `json:"close"`
						Volume []int64   `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error interface{} `json:"error"`
		} `json:"chart"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("Yahoo Finance API error: %v", result.Chart.Error)
	}

	if len(result.Chart.Result) == 0 {
		return &History{Currency: "USD"}, nil
	}

	chartData := result.Chart.Result[0]
	currency := chartData.Meta.Currency
	if currency == "" {
		currency = "USD"
	}

	if len(chartData.Indicators.Quote) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("No quote data in chart response")
		return &History{Currency: currency}, nil
	}

	quote := chartData.Indicators.Quote[0]
	timestamps := chartData.Timestamp

	var prices []HistoricalPrice
	for i := range timestamps {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}

		// Yahoo sometimes returns null values
		if quote.Open[i] == 0 && quote.High[i] == 0 && quote.Low[i] == 0 && quote.Close[i] == 0 {
			continue
		}

		volume := int64(0)
		if i < len(quote.Volume) {
			volume = quote.Volume[i]
		}

		prices = append(prices, HistoricalPrice{
			Date:   time.Unix(timestamps[i], 0),
			Open:   quote.Open[i],
			High:   quote.High[i],
			Low:    quote.Low[i],
			Close:  quote.Close[i],
			Volume: volume,
		})
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("period", period).
		Int("count", len(prices)).
		Msg("Fetched historical prices")

	return &History{Prices: prices, Currency: currency}, nil
}

// News fetches recent news items for a ticker from the Yahoo search API.
// Items are returned raw: the field layout differs between API revisions
// (flat vs nested under "content"), so normalization is left to the caller.
func (c *Client) News(symbol string, count int) ([]map[string]interface{}, error) {
	params := url.Values{}
	params.Add("q", symbol)
	params.Add("newsCount", fmt.Sprintf("%d", count))
	params.Add("quotesCount", "0")

	reqURL := c.searchURL + "?" + params.Encode()

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result struct {
		News []map[string]interface{} `json:"news"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result.News, nil
}

// Helper functions to safely extract values from map

func getFloat64(m map[string]interface{}, key string) *float64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		}
	}
	return nil
}

func getFloat64OrZero(m map[string]interface{}, key string) float64 {
	if val := getFloat64(m, key); val != nil {
		return *val
	}
	return 0
}

func getInt64OrZero(m map[string]interface{}, key string) int64 {
	if val, ok := m[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return int64(v)
		case int:
			return int64(v)
		case int64:
			return v
		}
	}
	return 0
}

func getString(m map[string]interface{}, key string, defaultVal string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok && s != "" {
			return s
		}
	}
	return defaultVal
}
