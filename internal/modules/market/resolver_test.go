package market

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeProber struct {
	prices map[string]float64
}

func (f *fakeProber) LastPrice(symbol string) (float64, error) {
	if price, ok := f.prices[symbol]; ok {
		return price, nil
	}
	return 0, errors.New("symbol not found")
}

func TestResolve(t *testing.T) {
	prober := &fakeProber{prices: map[string]float64{
		"RELIANCE.NS": 2890.55,
		"ZERO.NS":     0,
	}}
	r := NewResolver(prober, zerolog.Nop())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nse listing wins when probe succeeds", "reliance", "RELIANCE.NS"},
		{"unknown symbol stays unsuffixed", "AAPL", "AAPL"},
		{"existing suffix is never probed", "AAPL.L", "AAPL.L"},
		{"whitespace and case normalized", "  tsla ", "TSLA"},
		{"zero price probe is not a hit", "ZERO", "ZERO"},
		{"empty input stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.input))
		})
	}
}

func TestResolve_ProbeErrorFallsBack(t *testing.T) {
	r := NewResolver(&fakeProber{}, zerolog.Nop())
	assert.Equal(t, "MSFT", r.Resolve("MSFT"))
}
