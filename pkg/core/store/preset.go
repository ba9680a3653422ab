// Package store persists named valuation input presets and serves the ticker
// search behind the preset picker.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"intrinsic_valuation/pkg/core/marketdata"
	"intrinsic_valuation/pkg/core/valuation"
)

// DefaultSearchLimit is both the default and the maximum number of matches.
const DefaultSearchLimit = 20

// ErrNotFound is returned by Get when no preset exists for the ticker.
var ErrNotFound = errors.New("preset not found")

// Preset is a stored set of valuation inputs for one company.
type Preset struct {
	Ticker    string           `json:"ticker"`
	Name      string           `json:"name"`
	Inputs    valuation.Inputs `json:"inputs"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Match is a search hit.
type Match struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// Repository is implemented by the PostgreSQL and file-backed stores.
type Repository interface {
	Save(ctx context.Context, p Preset) error
	Get(ctx context.Context, ticker string) (Preset, error)
	Search(ctx context.Context, query string, limit int) ([]Match, error)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultSearchLimit {
		return DefaultSearchLimit
	}
	return limit
}

func normalizeTicker(ticker string) (string, error) {
	return marketdata.NormalizeTicker(ticker)
}

// rankMatches orders hits with ticker-prefix matches first, then by ticker
// and name, and truncates to limit.
func rankMatches(matches []Match, query string, limit int) []Match {
	q := strings.ToUpper(query)
	sort.SliceStable(matches, func(i, j int) bool {
		ti := strings.HasPrefix(strings.ToUpper(matches[i].Ticker), q)
		tj := strings.HasPrefix(strings.ToUpper(matches[j].Ticker), q)
		if ti != tj {
			return ti
		}
		if matches[i].Ticker != matches[j].Ticker {
			return matches[i].Ticker < matches[j].Ticker
		}
		return matches[i].Name < matches[j].Name
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
