package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/daily-movers/backend/pkg/config"
	"github.com/daily-movers/backend/pkg/httputil"
	"github.com/daily-movers/backend/pkg/logger"
)

// Client handles communication with the Massive market data API.
// It keeps no credential state: the API key is supplied per call.
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	baseURL     string
	maxAttempts int
	retryDelay  time.Duration
}

// NewClient creates a new Massive API client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		logger:      log.WithField("module", "market"),
		baseURL:     cfg.Market.BaseURL,
		maxAttempts: cfg.Market.MaxAttempts,
		retryDelay:  cfg.Market.RetryDelay,
	}
}

// barsResponse mirrors the Massive daily aggregate payload.
type barsResponse struct {
	Results []dailyBar `json:"results"`
}

type dailyBar struct {
	Open  *float64 `json:"o"`
	Close *float64 `json:"c"`
}

// FetchDailyBar fetches the daily open/close for one ticker and trade date.
//
// Transient conditions (429, 500/502/503/504, timeouts) are retried within
// the attempt budget: 429 with exponential backoff, the rest after a fixed
// delay. Any other non-200 status and connection-level failures are treated
// as non-transient and fail immediately. Every failure mode returns a nil
// quote with an error explaining why the ticker is absent for the day.
func (c *Client) FetchDailyBar(ctx context.Context, ticker, tradeDate, apiKey string) (*Quote, error) {
	url := fmt.Sprintf("%s/aggs/ticker/%s/range/1/day/%s/%s", c.baseURL, ticker, tradeDate, tradeDate)

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request for %s: %w", ticker, err)
		}
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if !isTimeout(err) {
				// Connection failures are non-transient, unlike timeouts
				return nil, fmt.Errorf("%s: connection error: %w", ticker, err)
			}

			c.logger.WithFields(map[string]interface{}{
				"ticker":  ticker,
				"attempt": attempt,
			}).Warn("Request timed out")
			time.Sleep(c.retryDelay)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			quote, err := c.parseDailyBar(ticker, resp.Body)
			resp.Body.Close()
			return quote, err

		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			wait := c.retryDelay * time.Duration(1<<(attempt-1)) // exponential backoff
			c.logger.WithFields(map[string]interface{}{
				"ticker":  ticker,
				"attempt": attempt,
				"wait":    wait,
			}).Warn("Rate limited by upstream")
			time.Sleep(wait)

		case isRetryableServerError(resp.StatusCode):
			resp.Body.Close()
			c.logger.WithFields(map[string]interface{}{
				"ticker":  ticker,
				"status":  resp.StatusCode,
				"attempt": attempt,
			}).Warn("Upstream server error")
			time.Sleep(c.retryDelay)

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
			resp.Body.Close()
			c.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"status": resp.StatusCode,
				"body":   string(body),
			}).Error("Unexpected upstream status")
			return nil, fmt.Errorf("%s: %w: %d", ticker, ErrUnexpectedStatus, resp.StatusCode)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"attempts": c.maxAttempts,
	}).Error("All fetch attempts failed")
	return nil, fmt.Errorf("%s: %w after %d attempts", ticker, ErrRetryExhausted, c.maxAttempts)
}

// parseDailyBar decodes a 200 response and validates the bar.
func (c *Client) parseDailyBar(ticker string, body io.Reader) (*Quote, error) {
	var payload barsResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w: decode response: %v", ticker, ErrBadQuote, err)
	}

	if len(payload.Results) == 0 {
		c.logger.WithField("ticker", ticker).Warn("No results — market may be closed")
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}

	bar := payload.Results[0]
	if bar.Open == nil || bar.Close == nil {
		c.logger.WithField("ticker", ticker).Warn("Missing open/close in response")
		return nil, fmt.Errorf("%s: %w: missing open/close", ticker, ErrBadQuote)
	}

	if *bar.Open == 0 {
		c.logger.WithField("ticker", ticker).Warn("Open price is 0, cannot calculate percent change")
		return nil, fmt.Errorf("%s: %w: zero open price", ticker, ErrBadQuote)
	}

	return &Quote{
		Ticker: ticker,
		Open:   *bar.Open,
		Close:  *bar.Close,
	}, nil
}

func isRetryableServerError(status int) bool {
	switch status {
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// isTimeout reports whether err is a timeout, which is retryable, as
// opposed to a connection failure, which is not.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
