// Package polygon fetches daily OHLCV aggregates from the Polygon.io REST API.
package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Client is a Polygon.io API client with bounded retries. Each attempt is
// bounded by the caller's context and the HTTP client timeout; once the retry
// budget is spent the fetch fails terminally with ErrUpstreamUnavailable.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a Polygon client.
func NewClient(baseURL, apiKey string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: 500 * time.Millisecond,
	}
}

type aggsBar struct {
	Timestamp int64           `json:"t"` // Unix millis of the bar's start
	Open      decimal.Decimal `json:"o"`
	High      decimal.Decimal `json:"h"`
	Low       decimal.Decimal `json:"l"`
	Close     decimal.Decimal `json:"c"`
	Volume    decimal.Decimal `json:"v"`
}

type aggsResponse struct {
	Ticker       string    `json:"ticker"`
	ResultsCount int       `json:"resultsCount"`
	Results      []aggsBar `json:"results"`
}

// FetchDailyPrices returns one record per trading day in [from, to] for the
// ticker. Days the market was closed simply produce no bars.
func (c *Client) FetchDailyPrices(ctx context.Context, ticker string, from, to time.Time) ([]dto.PriceRecord, error) {
	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
		c.baseURL, url.PathEscape(ticker), from.Format(dateLayout), to.Format(dateLayout))
	query := url.Values{"adjusted": {"true"}, "sort": {"asc"}, "apiKey": {c.apiKey}}

	body, err := c.getWithRetries(ctx, endpoint+"?"+query.Encode())
	if err != nil {
		return nil, err
	}
	if body == nil {
		// 404: no data for the range (market closed), not a failure.
		return nil, nil
	}

	var parsed aggsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: polygon returned malformed aggregates: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	records := make([]dto.PriceRecord, 0, len(parsed.Results))
	for _, bar := range parsed.Results {
		records = append(records, dto.PriceRecord{
			Ticker:    ticker,
			TradeDate: time.UnixMilli(bar.Timestamp).UTC().Format(dateLayout),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume.IntPart(),
		})
	}
	return records, nil
}

// getWithRetries performs a GET with exponential backoff on transport errors,
// 429 and 5xx. It returns (nil, nil) on 404.
func (c *Client) getWithRetries(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		body, retryable, err := c.getOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: polygon failed after %d attempts: %v", apperrors.ErrUpstreamUnavailable, c.maxRetries+1, lastErr)
}

func (c *Client) getOnce(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: building polygon request: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("polygon request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
		if err != nil {
			return nil, true, fmt.Errorf("reading polygon response: %w", err)
		}
		return data, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("polygon returned status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: polygon returned status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}
}
