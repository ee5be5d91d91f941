package stooq

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

const (
	sourceName = "stooq"

	// fieldSelector requests symbol, date, time, open, high, low, close,
	// volume columns from the CSV endpoint.
	fieldSelector = "sd2t2ohlcv"
)

// Client fetches delimited OHLCV snapshots from the Stooq CSV endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ ports.QuoteSource = (*Client)(nil)

// New wires an HTTP client; a nil client gets a 10 second timeout default.
func New(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, client: client}
}

// FetchQuote issues one CSV request for the exchange-suffixed symbol and
// parses the single data row. The fetch timestamp is the current UTC
// instant; the provider's own date/time columns are not trusted for
// recency.
func (c *Client) FetchQuote(ctx context.Context, providerSymbol string) (domain.Quote, error) {
	reqURL, err := c.buildURL(providerSymbol)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("build quote url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Quote{}, &domain.FetchError{Source: sourceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, &domain.FetchError{
			Source: sourceName,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return domain.Quote{}, &domain.FetchError{Source: sourceName, Err: err}
	}

	return parseCSV(string(body))
}

func (c *Client) buildURL(providerSymbol string) (string, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", c.baseURL, err)
	}

	query := parsed.Query()
	query.Set("s", strings.ToLower(providerSymbol))
	query.Set("f", fieldSelector)
	query.Set("h", "")
	query.Set("e", "csv")
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// parseCSV expects a header line and one data row with columns
// Symbol,Date,Time,Open,High,Low,Close,Volume.
func parseCSV(body string) (domain.Quote, error) {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) < 2 {
		return domain.Quote{}, &domain.FormatError{
			Source: sourceName,
			Detail: fmt.Sprintf("expected header and data row, got %d line(s)", len(lines)),
		}
	}

	fields := strings.Split(strings.TrimSpace(lines[1]), ",")
	if len(fields) < 8 {
		return domain.Quote{}, &domain.FormatError{
			Source: sourceName,
			Detail: fmt.Sprintf("expected 8 columns, got %d", len(fields)),
		}
	}

	quote := domain.Quote{
		Symbol:    fields[0],
		FetchedAt: time.Now().UTC(),
		Source:    sourceName,
	}

	var err error
	if quote.Open, err = parseFloat(fields[3]); err != nil {
		return domain.Quote{}, &domain.FormatError{Source: sourceName, Detail: "open: " + err.Error()}
	}
	if quote.High, err = parseFloat(fields[4]); err != nil {
		return domain.Quote{}, &domain.FormatError{Source: sourceName, Detail: "high: " + err.Error()}
	}
	if quote.Low, err = parseFloat(fields[5]); err != nil {
		return domain.Quote{}, &domain.FormatError{Source: sourceName, Detail: "low: " + err.Error()}
	}
	if quote.Close, err = parseFloat(fields[6]); err != nil {
		return domain.Quote{}, &domain.FormatError{Source: sourceName, Detail: "close: " + err.Error()}
	}
	if quote.Volume, err = parseVolume(fields[7]); err != nil {
		return domain.Quote{}, &domain.FormatError{Source: sourceName, Detail: "volume: " + err.Error()}
	}

	return quote, nil
}

// isMissing recognizes the provider's not-available sentinels. These
// normalize to absent, never to zero.
func isMissing(field string) bool {
	switch strings.ToUpper(strings.TrimSpace(field)) {
	case "", "N/A", "N/D", "NA", "ND":
		return true
	}
	return false
}

func parseFloat(field string) (*float64, error) {
	if isMissing(field) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return nil, fmt.Errorf("malformed value %q", field)
	}
	return &v, nil
}

// parseVolume parses via float then truncates, so "123.0"-style values are
// tolerated.
func parseVolume(field string) (*int64, error) {
	if isMissing(field) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return nil, fmt.Errorf("malformed value %q", field)
	}
	n := int64(v)
	return &n, nil
}
