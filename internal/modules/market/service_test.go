package market

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockai/advisor/internal/clients/yahoo"
)

type fakeAPI struct {
	info    *yahoo.StockInfo
	history *yahoo.History
	err     error
}

func (f *fakeAPI) LastPrice(string) (float64, error) { return 0, errors.New("unused") }

func (f *fakeAPI) StockInfo(string) (*yahoo.StockInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func (f *fakeAPI) Fundamentals(string) (*yahoo.FundamentalData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &yahoo.FundamentalData{PERatio: 12.5}, nil
}

func (f *fakeAPI) HistoricalPrices(string, string) (*yahoo.History, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func (f *fakeAPI) News(string, int) ([]map[string]interface{}, error) {
	return nil, errors.New("unused")
}

func bars(closes ...float64) *yahoo.History {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prices := make([]yahoo.HistoricalPrice, len(closes))
	for i, c := range closes {
		prices[i] = yahoo.HistoricalPrice{
			Date:   start.AddDate(0, 0, i),
			Open:   c * 0.99,
			High:   c * 1.01,
			Low:    c * 0.98,
			Close:  c,
			Volume: 1000,
		}
	}
	return &yahoo.History{Prices: prices, Currency: "USD"}
}

func TestTechnicals_ShortHistoryFallsBackToPrice(t *testing.T) {
	svc := NewService(&fakeAPI{history: bars(100, 101, 102)}, zerolog.Nop())

	data, err := svc.Technicals("AAPL", "6mo")
	require.NoError(t, err)

	// Too few bars for either window: SMAs equal the last close
	assert.Equal(t, 102.0, data.CurrentPrice)
	assert.Equal(t, 102.0, data.SMA20)
	assert.Equal(t, 102.0, data.SMA50)
	assert.Equal(t, int64(1000), data.VolumeAvg)
}

func TestTechnicals_SMAAndChanges(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i) // steady uptrend
	}
	svc := NewService(&fakeAPI{history: bars(closes...)}, zerolog.Nop())

	data, err := svc.Technicals("AAPL", "6mo")
	require.NoError(t, err)

	assert.Equal(t, 159.0, data.CurrentPrice)
	// SMA20 over closes 140..159, SMA50 over 110..159
	assert.Equal(t, 149.5, data.SMA20)
	assert.Equal(t, 134.5, data.SMA50)
	// 1W spans the last five closes (155 -> 159); 1M runs from the
	// first close of the window (100 -> 159)
	assert.Equal(t, 2.58, data.PriceChange1W)
	assert.Equal(t, 59.0, data.PriceChange1M)
	assert.Equal(t, round2(159*1.01), data.High52W)
}

func TestTechnicals_EmptyHistory(t *testing.T) {
	svc := NewService(&fakeAPI{history: &yahoo.History{Currency: "USD"}}, zerolog.Nop())
	_, err := svc.Technicals("AAPL", "6mo")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestRisk_Metrics(t *testing.T) {
	svc := NewService(&fakeAPI{
		info:    &yahoo.StockInfo{Beta: 1.8},
		history: bars(100, 110, 120, 90, 95, 100),
	}, zerolog.Nop())

	data, err := svc.Risk("TSLA")
	require.NoError(t, err)

	assert.Equal(t, 1.8, data.Beta)
	// Worst drop: 120 -> 90 is -25%
	assert.Equal(t, -25.0, data.MaxDrawdown)
	assert.Greater(t, data.Volatility, 0.0)
}

func TestRisk_BetaDefaultsToOne(t *testing.T) {
	data := computeRisk([]float64{100, 101, 102}, 0)
	assert.Equal(t, 1.0, data.Beta)
}

func TestComputeRisk_MonotonicSeriesHasZeroDrawdown(t *testing.T) {
	data := computeRisk([]float64{100, 101, 102, 103}, 1.2)
	assert.Equal(t, 0.0, data.MaxDrawdown)
	assert.Greater(t, data.SharpeRatio, 0.0)
}

func TestPriceHistory(t *testing.T) {
	svc := NewService(&fakeAPI{history: bars(100, 102)}, zerolog.Nop())

	series, err := svc.PriceHistory("AAPL", "1mo")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-02", "2024-01-03"}, series.Dates)
	assert.Equal(t, []float64{100, 102}, series.Close)
	assert.Equal(t, "USD", series.Currency)
	assert.Len(t, series.Volume, 2)
}

func TestFetchFailuresMapToErrDataUnavailable(t *testing.T) {
	svc := NewService(&fakeAPI{err: errors.New("boom")}, zerolog.Nop())

	_, err := svc.Info("AAPL")
	assert.ErrorIs(t, err, ErrDataUnavailable)

	_, err = svc.Fundamentals("AAPL")
	assert.ErrorIs(t, err, ErrDataUnavailable)

	_, err = svc.Risk("AAPL")
	assert.ErrorIs(t, err, ErrDataUnavailable)

	_, err = svc.PriceHistory("AAPL", "1y")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$12.30", FormatPrice(12.3, "USD"))
	assert.Equal(t, "₹2890.55", FormatPrice(2890.55, "INR"))
}
