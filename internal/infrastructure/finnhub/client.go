package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stocksentiment/internal/ports"
)

// Client talks to the Finnhub symbol-search and company-profile endpoints.
// Both lookups are enrichment only; callers degrade gracefully when they
// fail.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ ports.SymbolSearcher = (*Client)(nil)
var _ ports.CompanyProfiler = (*Client)(nil)

// New wires an HTTP client; a nil client gets a 10 second timeout default.
func New(baseURL, apiKey string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), apiKey: apiKey, client: client}
}

// Configured reports whether an API key is present. Without one, search and
// profile lookups fail and callers fall back.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search returns ranked candidate symbols for free-form text.
func (c *Client) Search(ctx context.Context, query string) ([]ports.SymbolMatch, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("finnhub api key not configured")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("token", c.apiKey)

	var payload struct {
		Count  int                 `json:"count"`
		Result []ports.SymbolMatch `json:"result"`
	}
	if err := c.getJSON(ctx, "/search", params, &payload); err != nil {
		return nil, err
	}

	return payload.Result, nil
}

// CompanyName resolves a canonical ticker to its display name.
func (c *Client) CompanyName(ctx context.Context, symbol string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("finnhub api key not configured")
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", c.apiKey)

	var payload struct {
		Name string `json:"name"`
	}
	if err := c.getJSON(ctx, "/stock/profile2", params, &payload); err != nil {
		return "", err
	}

	return strings.TrimSpace(payload.Name), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("finnhub returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
