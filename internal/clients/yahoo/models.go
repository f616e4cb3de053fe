package yahoo

import "time"

// StockInfo contains basic quote information for a ticker
type StockInfo struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"marketCap"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	Currency      string  `json:"currency"`
	Beta          float64 `json:"beta"`
}

// FundamentalData contains fundamental analysis metrics.
// Absent fields are zero, never null, so rule logic downstream
// never branches on presence.
type FundamentalData struct {
	Symbol         string  `json:"symbol"`
	PERatio        float64 `json:"pe_ratio"`
	ForwardPE      float64 `json:"forward_pe"`
	PEGRatio       float64 `json:"peg_ratio"`
	PriceToBook    float64 `json:"price_to_book"`
	DebtToEquity   float64 `json:"debt_to_equity"`
	ROE            float64 `json:"roe"`
	ProfitMargin   float64 `json:"profit_margin"`
	RevenueGrowth  float64 `json:"revenue_growth"`
	EarningsGrowth float64 `json:"earnings_growth"`
	DividendYield  float64 `json:"dividend_yield"`
}

// HistoricalPrice represents a single OHLCV data point
type HistoricalPrice struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// History is the chart API result: ascending daily bars plus the
// quote currency from the chart metadata.
type History struct {
	Prices   []HistoricalPrice
	Currency string
}
