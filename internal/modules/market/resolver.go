package market

import (
	"strings"

	"github.com/rs/zerolog"
)

// QuoteProber is the single lookup the resolver needs
type QuoteProber interface {
	LastPrice(symbol string) (float64, error)
}

// Resolver maps user-typed symbols onto tradable Yahoo tickers.
//
// Plain symbols (no exchange suffix) are first probed on the NSE
// (".NS"); if the probe finds a price the suffixed symbol wins,
// otherwise the input is used as-is. Resolution never fails: a broken
// probe just means no suffix.
type Resolver struct {
	prober QuoteProber
	log    zerolog.Logger
}

// NewResolver creates a ticker resolver backed by the given prober
func NewResolver(prober QuoteProber, log zerolog.Logger) *Resolver {
	return &Resolver{
		prober: prober,
		log:    log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve normalizes and resolves a raw ticker string
func (r *Resolver) Resolve(raw string) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return symbol
	}

	// Already carries an exchange suffix
	if strings.Contains(symbol, ".") {
		return symbol
	}

	candidate := symbol + ".NS"
	price, err := r.prober.LastPrice(candidate)
	if err == nil && price > 0 {
		r.log.Debug().Str("input", symbol).Str("resolved", candidate).Msg("Resolved to NSE listing")
		return candidate
	}

	return symbol
}
