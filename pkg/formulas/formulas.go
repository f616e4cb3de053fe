// Package formulas holds the quantitative building blocks shared by
// the technical and risk computations: return series, annualized
// volatility, Sharpe ratio, drawdown and indicator values.
package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is used to annualize daily return statistics
const TradingDaysPerYear = 252

// DailyReturns computes simple day-over-day returns from closes.
// Zero or missing closes are skipped rather than producing infinities.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] > 0 {
			returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
		}
	}
	return returns
}

// AnnualizedVolatility is the stddev of daily returns scaled to a
// year, as a percentage
func AnnualizedVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear) * 100
}

// SharpeRatio is the annualized return/volatility ratio over daily
// returns, with the risk-free rate taken as zero
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	stddev := stat.StdDev(returns, nil)
	if stddev == 0 {
		return 0
	}
	return stat.Mean(returns, nil) / stddev * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdown is the worst peak-to-trough move relative to the
// running peak, as a negative percentage (-25 means a 25% drop)
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}

	maxDD := 0.0
	peak := closes[0]
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := (c - peak) / peak * 100
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SMA is the simple moving average over the trailing window. When the
// series is shorter than the window the last close stands in, so trend
// comparisons degrade to neutral instead of erroring.
func SMA(closes []float64, window int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < window {
		return closes[len(closes)-1]
	}
	sma := talib.Sma(closes, window)
	return sma[len(sma)-1]
}

// RSI is the current Relative Strength Index over the given period,
// or 0 when the series is too short
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 0
	}
	rsi := talib.Rsi(closes, period)
	last := rsi[len(rsi)-1]
	if math.IsNaN(last) {
		return 0
	}
	return last
}

// ChangeFromStart is the percent change from the first close of the
// series to the last
func ChangeFromStart(closes []float64) float64 {
	if len(closes) < 2 || closes[0] == 0 {
		return 0
	}
	return (closes[len(closes)-1] - closes[0]) / closes[0] * 100
}

// ChangeOverDays is the percent change across the last n trading days
func ChangeOverDays(closes []float64, n int) float64 {
	if len(closes) <= n {
		return 0
	}
	base := closes[len(closes)-1-n]
	if base == 0 {
		return 0
	}
	return (closes[len(closes)-1] - base) / base * 100
}
