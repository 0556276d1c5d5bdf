// Package quote fetches stock quotes from the Yahoo Finance quote API.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Yahoo rejects the default Go user agent; a browser-ish one keeps the
// unauthenticated quote endpoint answering.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Quote is one market snapshot. HasPrice is false when the API answered but
// carried no regular market price (delisted symbol, off-hours gaps, ...);
// callers must not format a price in that case.
type Quote struct {
	Symbol        string
	Price         float64
	ChangePercent float64
	HasPrice      bool
}

type Client struct {
	// BaseURL is overridable for tests; defaults to DefaultBaseURL.
	BaseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves the current quote for symbol.
func (c *Client) Fetch(ctx context.Context, symbol string) (Quote, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u := strings.TrimRight(base, "/") + "/v7/finance/quote?symbols=" + url.QueryEscape(symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	hc := c.http
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("quote API returned %s for %s", resp.Status, symbol)
	}

	var body struct {
		QuoteResponse struct {
			Result []struct {
				Symbol                     string   `json:"symbol"`
				RegularMarketPrice         *float64 `json:"regularMarketPrice"`
				RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
			} `json:"result"`
			Error *struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		} `json:"quoteResponse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("decode quote response: %w", err)
	}
	if e := body.QuoteResponse.Error; e != nil {
		return Quote{}, fmt.Errorf("quote API error for %s: %s: %s", symbol, e.Code, e.Description)
	}

	q := Quote{Symbol: symbol}
	if len(body.QuoteResponse.Result) == 0 {
		return q, nil
	}
	r := body.QuoteResponse.Result[0]
	if r.Symbol != "" {
		q.Symbol = r.Symbol
	}
	if r.RegularMarketPrice == nil {
		return q, nil
	}
	q.Price = *r.RegularMarketPrice
	q.HasPrice = true
	if r.RegularMarketChangePercent != nil {
		q.ChangePercent = *r.RegularMarketChangePercent
	}
	return q, nil
}

// Direction returns the ntfy tag for a percent change: up, down, or the
// neutral indicator for exactly zero.
func Direction(changePercent float64) string {
	switch {
	case changePercent > 0:
		return "arrow_up"
	case changePercent < 0:
		return "arrow_down"
	default:
		return "arrow_up_down"
	}
}
