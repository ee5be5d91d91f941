package stooq

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stocksentiment/internal/domain"
)

const goodCSV = "Symbol,Date,Time,Open,High,Low,Close,Volume\n" +
	"AAPL.US,2026-08-27,22:00:11,230.45,234.10,229.80,233.17,51234567\n"

func TestFetchQuoteParsesRow(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(goodCSV))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	quote, err := client.FetchQuote(context.Background(), "AAPL.US")
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}

	if quote.Symbol != "AAPL.US" {
		t.Errorf("Symbol = %q, want AAPL.US", quote.Symbol)
	}
	if quote.Open == nil || *quote.Open != 230.45 {
		t.Errorf("Open = %v, want 230.45", quote.Open)
	}
	if quote.Close == nil || *quote.Close != 233.17 {
		t.Errorf("Close = %v, want 233.17", quote.Close)
	}
	if quote.Volume == nil || *quote.Volume != 51234567 {
		t.Errorf("Volume = %v, want 51234567", quote.Volume)
	}
	if quote.Source != "stooq" {
		t.Errorf("Source = %q, want stooq", quote.Source)
	}
	if quote.FetchedAt.IsZero() {
		t.Error("FetchedAt is zero")
	}

	req, _ := http.NewRequest(http.MethodGet, "/?"+gotQuery, nil)
	params := req.URL.Query()
	if got := params.Get("s"); got != "aapl.us" {
		t.Errorf("symbol param = %q, want lowercased aapl.us", got)
	}
	if got := params.Get("f"); got != "sd2t2ohlcv" {
		t.Errorf("field selector = %q, want sd2t2ohlcv", got)
	}
	if got := params.Get("e"); got != "csv" {
		t.Errorf("format param = %q, want csv", got)
	}
}

func TestFetchQuoteMissingSentinels(t *testing.T) {
	body := "Symbol,Date,Time,Open,High,Low,Close,Volume\n" +
		"XXXX.US,N/D,N/D,N/D,N/D,N/D,N/D,N/D\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	quote, err := client.FetchQuote(context.Background(), "XXXX.US")
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}

	// Missing values stay absent; they must never collapse to zero.
	if quote.Open != nil || quote.High != nil || quote.Low != nil || quote.Close != nil {
		t.Errorf("missing prices not nil: open=%v high=%v low=%v close=%v",
			quote.Open, quote.High, quote.Low, quote.Close)
	}
	if quote.Volume != nil {
		t.Errorf("missing volume = %v, want nil", quote.Volume)
	}
}

func TestFetchQuoteFractionalVolume(t *testing.T) {
	body := "Symbol,Date,Time,Open,High,Low,Close,Volume\n" +
		"AMD.US,2026-08-27,22:00:11,120.5,121.0,119.9,120.7,123.0\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	quote, err := client.FetchQuote(context.Background(), "AMD.US")
	if err != nil {
		t.Fatalf("FetchQuote: %v", err)
	}
	if quote.Volume == nil || *quote.Volume != 123 {
		t.Errorf("Volume = %v, want 123", quote.Volume)
	}
}

func TestFetchQuoteHeaderOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Symbol,Date,Time,Open,High,Low,Close,Volume\n"))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	_, err := client.FetchQuote(context.Background(), "AAPL.US")

	var formatErr *domain.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("err = %v, want *domain.FormatError", err)
	}
}

func TestFetchQuoteBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	_, err := client.FetchQuote(context.Background(), "AAPL.US")

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want *domain.FetchError", err)
	}
	if fetchErr.Source != "stooq" {
		t.Errorf("Source = %q, want stooq", fetchErr.Source)
	}
}

func TestFetchQuoteMalformedPrice(t *testing.T) {
	body := "Symbol,Date,Time,Open,High,Low,Close,Volume\n" +
		"AAPL.US,2026-08-27,22:00:11,abc,234.10,229.80,233.17,51234567\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := New(server.URL, server.Client())
	_, err := client.FetchQuote(context.Background(), "AAPL.US")

	var formatErr *domain.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("err = %v, want *domain.FormatError", err)
	}
}
