package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"intrinsic_valuation/pkg/core/config"
)

// closePath locates the close series in a chart response.
const closePath = "$.chart.result[0].indicators.quote[0].close"

// ChartClient reads daily closes from a Yahoo-style chart endpoint.
type ChartClient struct {
	BaseURL  string
	Range    string
	Interval string
	HTTP     *http.Client
}

// NewChartClient builds a client from configuration.
func NewChartClient(cfg config.MarketDataConfig) *ChartClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rng := cfg.Range
	if rng == "" {
		rng = "6mo"
	}
	return &ChartClient{
		BaseURL:  cfg.BaseURL,
		Range:    rng,
		Interval: "1d",
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// History implements Provider. Null and non-finite closes (halted or
// not-yet-settled sessions) are dropped.
func (c *ChartClient) History(ctx context.Context, ticker string) ([]float64, error) {
	symbol, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.BaseURL, url.PathEscape(symbol), url.Values{
		"range":    {c.Range},
		"interval": {c.Interval},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("build chart request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; intrinsic-valuation/1.0)")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("chart for %s: status %d: %s", symbol, resp.StatusCode, body)
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode chart for %s: %w", symbol, err)
	}

	closes, err := extractCloses(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, symbol, err)
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("%w: %s: no closing prices", ErrNotFound, symbol)
	}
	return closes, nil
}

func extractCloses(doc any) ([]float64, error) {
	raw, err := jsonpath.Get(closePath, doc)
	if err != nil {
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("close series is %T, want array", raw)
	}

	closes := make([]float64, 0, len(list))
	for _, v := range list {
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		closes = append(closes, f)
	}
	return closes, nil
}
