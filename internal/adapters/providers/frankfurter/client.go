// Package frankfurter fetches historical exchange rates from the Frankfurter API.
package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/SscSPs/stock_warehouse/internal/apperrors"
	"github.com/SscSPs/stock_warehouse/internal/dto"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Client is a Frankfurter API client with bounded retries, mirroring the
// polygon client's retry contract.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a Frankfurter client.
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: 500 * time.Millisecond,
	}
}

// rangeResponse is the shape of /v1/{start}..{end}: rates nested per date.
type rangeResponse struct {
	Base  string                                `json:"base"`
	Rates map[string]map[string]decimal.Decimal `json:"rates"`
}

// FetchRates returns one record per (date, target currency) for rates from
// the base currency over [from, to]. Weekends and holidays produce no entries.
func (c *Client) FetchRates(ctx context.Context, baseCurrencyCode string, from, to time.Time) ([]dto.RateRecord, error) {
	endpoint := fmt.Sprintf("%s/v1/%s..%s", c.baseURL, from.Format(dateLayout), to.Format(dateLayout))
	query := url.Values{"from": {baseCurrencyCode}}

	body, err := c.getWithRetries(ctx, endpoint+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var parsed rangeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: frankfurter returned malformed rates: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	dates := make([]string, 0, len(parsed.Rates))
	for date := range parsed.Rates {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var records []dto.RateRecord
	for _, date := range dates {
		byCode := parsed.Rates[date]
		codes := make([]string, 0, len(byCode))
		for code := range byCode {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			records = append(records, dto.RateRecord{
				RateDate:     date,
				FromCurrency: baseCurrencyCode,
				ToCurrency:   code,
				Rate:         byCode[code],
			})
		}
	}
	return records, nil
}

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
	return nil, fmt.Errorf("%w: frankfurter failed after %d attempts: %v", apperrors.ErrUpstreamUnavailable, c.maxRetries+1, lastErr)
}

func (c *Client) getOnce(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: building frankfurter request: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("frankfurter request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
		if err != nil {
			return nil, true, fmt.Errorf("reading frankfurter response: %w", err)
		}
		return data, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("frankfurter returned status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: frankfurter returned status %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}
}
