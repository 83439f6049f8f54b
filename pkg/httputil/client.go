package httputil

import (
	"net/http"
	"time"

	"github.com/daily-movers/backend/pkg/logger"
)

// Client is an HTTP client wrapper with request/response logging.
// Retry policy is deliberately not implemented here: callers that retry
// classify responses by status and own their own budgets.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
}

// New creates a new HTTP client with the default timeout.
func New(log *logger.Logger) *Client {
	return NewWithTimeout(log, 30*time.Second)
}

// NewWithTimeout creates a client with a custom timeout.
func NewWithTimeout(log *logger.Logger, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// Do executes a single HTTP request with logging. The request is passed
// through unmodified; transport errors are returned as-is so callers can
// classify timeouts vs connection failures.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	url := req.URL.String()
	method := req.Method

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
	}).Debug("HTTP request started")

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      url,
			"duration": duration,
			"error":    err.Error(),
		}).Debug("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	return resp, nil
}
