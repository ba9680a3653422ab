// Package marketdata fetches daily closing-price histories for tickers.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotFound is returned when the upstream has no prices for a ticker.
	ErrNotFound = errors.New("ticker not found")
	// ErrInvalidTicker is returned for empty or malformed symbols.
	ErrInvalidTicker = errors.New("invalid ticker")
)

// Provider returns closing prices for a ticker, oldest first.
type Provider interface {
	History(ctx context.Context, ticker string) ([]float64, error)
}

var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-^=]{0,14}$`)

// NormalizeTicker trims and upper-cases a symbol and checks it is one the
// chart endpoint can address (e.g. BRK.B, ^GSPC, EURUSD=X).
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrInvalidTicker)
	}
	if t[0] == '^' {
		if tickerPattern.MatchString(t[1:]) {
			return t, nil
		}
	} else if tickerPattern.MatchString(t) {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
}
