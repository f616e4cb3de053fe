// Package market resolves tickers and computes quote, fundamental,
// technical and risk metrics from Yahoo Finance data.
package market

import (
	"errors"

	"github.com/stockai/advisor/internal/clients/yahoo"
)

// ErrDataUnavailable is returned when the upstream source has no usable
// data for a ticker. Agents translate it into a user-facing error result.
var ErrDataUnavailable = errors.New("market data unavailable")

// TechnicalData contains indicator values computed over daily bars
type TechnicalData struct {
	Symbol         string  `json:"symbol"`
	CurrentPrice   float64 `json:"current_price"`
	SMA20          float64 `json:"sma_20"`
	SMA50          float64 `json:"sma_50"`
	RSI14          float64 `json:"rsi_14"`
	Volatility     float64 `json:"volatility"`
	PriceChange1W  float64 `json:"price_change_1w"`
	PriceChange1M  float64 `json:"price_change_1m"`
	VolumeAvg      int64   `json:"volume_avg"`
	High52W        float64 `json:"high_52w"`
	Low52W         float64 `json:"low_52w"`
}

// RiskData contains portfolio-risk metrics for a single ticker
type RiskData struct {
	Symbol      string  `json:"symbol"`
	Beta        float64 `json:"beta"`
	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	Volatility  float64 `json:"volatility"`
}

// PriceSeries is chart-ready history: parallel arrays in ascending
// date order, plus the quote currency.
type PriceSeries struct {
	Symbol   string    `json:"symbol"`
	Dates    []string  `json:"dates"`
	Open     []float64 `json:"open"`
	High     []float64 `json:"high"`
	Low      []float64 `json:"low"`
	Close    []float64 `json:"close"`
	Volume   []int64   `json:"volume"`
	Currency string    `json:"currency"`
}

// QuoteAPI is the slice of the Yahoo client the market service needs
type QuoteAPI interface {
	LastPrice(symbol string) (float64, error)
	StockInfo(symbol string) (*yahoo.StockInfo, error)
	Fundamentals(symbol string) (*yahoo.FundamentalData, error)
	HistoricalPrices(symbol, period string) (*yahoo.History, error)
	News(symbol string, count int) ([]map[string]interface{}, error)
}
