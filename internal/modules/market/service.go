package market

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/clients/yahoo"
	"github.com/stockai/advisor/pkg/formulas"
)

// Service computes analysis inputs from Yahoo Finance data
type Service struct {
	api QuoteAPI
	log zerolog.Logger
}

// NewService creates a market data service
func NewService(api QuoteAPI, log zerolog.Logger) *Service {
	return &Service{
		api: api,
		log: log.With().Str("component", "market").Logger(),
	}
}

// Info returns the basic quote snapshot for a ticker
func (s *Service) Info(ticker string) (*yahoo.StockInfo, error) {
	info, err := s.api.StockInfo(ticker)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote lookup failed")
		return nil, ErrDataUnavailable
	}
	return info, nil
}

// Fundamentals returns valuation and profitability metrics for a ticker
func (s *Service) Fundamentals(ticker string) (*yahoo.FundamentalData, error) {
	data, err := s.api.Fundamentals(ticker)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Fundamentals lookup failed")
		return nil, ErrDataUnavailable
	}
	return data, nil
}

// Technicals computes indicator values over the given history period
func (s *Service) Technicals(ticker, period string) (*TechnicalData, error) {
	history, err := s.api.HistoricalPrices(ticker, period)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("History lookup failed")
		return nil, ErrDataUnavailable
	}
	if len(history.Prices) == 0 {
		return nil, ErrDataUnavailable
	}

	data := computeTechnicals(history.Prices)
	data.Symbol = ticker
	return data, nil
}

// Risk computes beta, drawdown, Sharpe and volatility from one year of
// daily closes. Beta comes from the quote info and defaults to 1.0.
func (s *Service) Risk(ticker string) (*RiskData, error) {
	info, err := s.api.StockInfo(ticker)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Quote lookup failed")
		return nil, ErrDataUnavailable
	}

	history, err := s.api.HistoricalPrices(ticker, "1y")
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("History lookup failed")
		return nil, ErrDataUnavailable
	}
	if len(history.Prices) == 0 {
		return nil, ErrDataUnavailable
	}

	closes := make([]float64, len(history.Prices))
	for i, p := range history.Prices {
		closes[i] = p.Close
	}

	data := computeRisk(closes, info.Beta)
	data.Symbol = ticker
	return data, nil
}

// PriceHistory returns chart-ready OHLCV series for a ticker
func (s *Service) PriceHistory(ticker, period string) (*PriceSeries, error) {
	history, err := s.api.HistoricalPrices(ticker, period)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("History lookup failed")
		return nil, ErrDataUnavailable
	}
	if len(history.Prices) == 0 {
		return nil, ErrDataUnavailable
	}

	series := &PriceSeries{
		Symbol:   ticker,
		Currency: history.Currency,
		Dates:    make([]string, 0, len(history.Prices)),
		Open:     make([]float64, 0, len(history.Prices)),
		High:     make([]float64, 0, len(history.Prices)),
		Low:      make([]float64, 0, len(history.Prices)),
		Close:    make([]float64, 0, len(history.Prices)),
		Volume:   make([]int64, 0, len(history.Prices)),
	}

	for _, p := range history.Prices {
		series.Dates = append(series.Dates, p.Date.Format("2006-01-02"))
		series.Open = append(series.Open, round2(p.Open))
		series.High = append(series.High, round2(p.High))
		series.Low = append(series.Low, round2(p.Low))
		series.Close = append(series.Close, round2(p.Close))
		series.Volume = append(series.Volume, p.Volume)
	}

	return series, nil
}

// computeTechnicals derives indicator values from daily bars
func computeTechnicals(prices []yahoo.HistoricalPrice) *TechnicalData {
	closes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
	}

	returns := formulas.DailyReturns(closes)

	var volumeSum int64
	high := prices[0].High
	low := prices[0].Low
	for _, p := range prices {
		volumeSum += p.Volume
		if p.High > high {
			high = p.High
		}
		if p.Low < low && p.Low > 0 {
			low = p.Low
		}
	}

	return &TechnicalData{
		CurrentPrice:  round2(closes[len(closes)-1]),
		SMA20:         round2(formulas.SMA(closes, 20)),
		SMA50:         round2(formulas.SMA(closes, 50)),
		RSI14:         round2(formulas.RSI(closes, 14)),
		Volatility:    round2(formulas.AnnualizedVolatility(returns)),
		// 1W spans the last five closes; 1M is measured from the start
		// of the fetched window
		PriceChange1W: round2(formulas.ChangeOverDays(closes, 4)),
		PriceChange1M: round2(formulas.ChangeFromStart(closes)),
		VolumeAvg:     volumeSum / int64(len(prices)),
		High52W:       round2(high),
		Low52W:        round2(low),
	}
}

// computeRisk derives drawdown, Sharpe and volatility from closes
func computeRisk(closes []float64, beta float64) *RiskData {
	if beta == 0 {
		beta = 1.0
	}

	returns := formulas.DailyReturns(closes)

	return &RiskData{
		Beta:        round2(beta),
		MaxDrawdown: round2(formulas.MaxDrawdown(closes)),
		SharpeRatio: round2(formulas.SharpeRatio(returns)),
		Volatility:  round2(formulas.AnnualizedVolatility(returns)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPrice renders a price with its currency symbol
func FormatPrice(price float64, currency string) string {
	symbol := "$"
	switch currency {
	case "INR":
		symbol = "₹"
	case "EUR":
		symbol = "€"
	case "GBP":
		symbol = "£"
	}
	return fmt.Sprintf("%s%.2f", symbol, price)
}
