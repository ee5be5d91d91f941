package gdelt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stocksentiment/internal/domain"
	"stocksentiment/internal/ports"
)

const (
	sourceName = "gdelt"

	userAgent = "stocksentiment/1.0 (sentiment scraper)"

	// GDELT asks for at most one request per five seconds; a 429 gets a
	// fixed wait before the single retry.
	throttleWait = 6 * time.Second

	maxAttempts = 2

	// phraseTooShort is the provider error that triggers the quoted
	// company-name-only recovery query.
	phraseTooShort = "phrase is too short"

	previewLimit = 200
)

// Client queries the GDELT DOC 2.0 article-search API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger

	// wait is the throttle backoff, overridable in tests.
	wait time.Duration
}

var _ ports.NewsSource = (*Client)(nil)

// New wires an HTTP client; a nil client gets a 15 second timeout default.
func New(baseURL string, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, client: client, logger: logger, wait: throttleWait}
}

type articleList struct {
	Articles []struct {
		URL      string `json:"url"`
		Title    string `json:"title"`
		SeenDate string `json:"seendate"`
	} `json:"articles"`
}

// FetchArticles runs the search with up to two attempts. A 429 waits the
// provider-mandated interval before retrying; a 429 on the final attempt
// fails without waiting. A non-JSON response that
// mentions the phrase-too-short error is recovered once with a quoted
// company-only query when the hint is long enough; any other non-JSON or
// non-200 response is a hard failure.
func (c *Client) FetchArticles(ctx context.Context, query, companyHint string, maxRecords int) ([]ports.Article, error) {
	params := c.searchParams(query, maxRecords)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := c.get(ctx, params)
		if err != nil {
			return nil, &domain.FetchError{Source: sourceName, Err: err}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			drain(resp)
			if attempt+1 == maxAttempts {
				break
			}
			if err := sleepCtx(ctx, c.wait); err != nil {
				return nil, &domain.FetchError{Source: sourceName, Err: err}
			}
			continue
		}

		if ok := isJSON(resp); !ok || resp.StatusCode != http.StatusOK {
			preview := bodyPreview(resp)
			drain(resp)

			if strings.Contains(strings.ToLower(preview), phraseTooShort) && len(companyHint) >= 4 {
				return c.companyOnlySearch(ctx, companyHint, maxRecords)
			}

			return nil, &domain.FetchError{
				Source: sourceName,
				Err:    fmt.Errorf("non-JSON response: status=%d preview=%q", resp.StatusCode, preview),
			}
		}

		return decodeArticles(resp)
	}

	return nil, &domain.FetchError{
		Source: sourceName,
		Err:    fmt.Errorf("throttled on all %d attempts", maxAttempts),
	}
}

// companyOnlySearch is the single recovery attempt with the quoted company
// name. It is not itself retried on throttling.
func (c *Client) companyOnlySearch(ctx context.Context, company string, maxRecords int) ([]ports.Article, error) {
	if c.logger != nil {
		c.logger.Debug("retrying with company-only query", "company", company)
	}

	params := c.searchParams(`"`+company+`"`, maxRecords)
	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, &domain.FetchError{Source: sourceName, Err: err}
	}

	if ok := isJSON(resp); !ok || resp.StatusCode != http.StatusOK {
		preview := bodyPreview(resp)
		drain(resp)
		return nil, &domain.FetchError{
			Source: sourceName,
			Err:    fmt.Errorf("company-only retry non-JSON: status=%d preview=%q", resp.StatusCode, preview),
		}
	}

	return decodeArticles(resp)
}

func (c *Client) searchParams(query string, maxRecords int) url.Values {
	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "ArtList")
	params.Set("format", "json")
	params.Set("timespan", "1d")
	params.Set("maxrecords", strconv.Itoa(maxRecords))
	params.Set("sort", "DateDesc")
	return params
}

func (c *Client) get(ctx context.Context, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	return c.client.Do(req)
}

func decodeArticles(resp *http.Response) ([]ports.Article, error) {
	defer resp.Body.Close()

	var list articleList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &domain.FormatError{Source: sourceName, Detail: "decode articles: " + err.Error()}
	}

	articles := make([]ports.Article, 0, len(list.Articles))
	for _, a := range list.Articles {
		articles = append(articles, ports.Article{
			URL:      a.URL,
			Title:    a.Title,
			SeenDate: a.SeenDate,
		})
	}
	return articles, nil
}

func isJSON(resp *http.Response) bool {
	return strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "json")
}

// bodyPreview extracts a short plain-text preview of an error response.
// GDELT serves its error messages as HTML pages, so the markup is stripped
// before matching and logging.
func bodyPreview(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<14))
	if err != nil {
		return ""
	}

	text := string(raw)
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
		if extracted := strings.TrimSpace(doc.Text()); extracted != "" {
			text = extracted
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	if len(text) > previewLimit {
		text = text[:previewLimit]
	}
	return text
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<14))
	_ = resp.Body.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
