// Package nhl provides the HTTP clients for the league's two public feeds:
// the api-web JSON API and the legacy HTML report server.
//
// The report server publishes files a beat behind the live feed and answers
// with transient 404s while a game is being finalized, so every request runs
// through a retrying GET with exponential backoff. Rate limiting is handled
// via a token bucket limiter.
package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"
)

// Default hosts for the two feeds.
const (
	DefaultAPIBase  = "https://api-web.nhle.com/v1"
	DefaultHTMLBase = "https://www.nhl.com/scores/htmlreports"
)

// Retry policy tuned for the report server's publishing lag.
const (
	connectTimeout = 3 * time.Second
	readTimeout    = 10 * time.Second
	maxRetries     = 7
	backoffBase    = 2 * time.Second
	backoffCap     = 120 * time.Second
)

// retryStatuses are the response codes worth waiting out.
var retryStatuses = map[int]bool{
	54: true, 60: true,
	401: true, 403: true, 404: true, 408: true, 429: true,
	500: true, 502: true, 503: true, 504: true,
}

// StatusError is returned when retries are exhausted on a bad status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client fetches from both feeds behind a shared limiter.
type Client struct {
	httpClient *http.Client
	apiBase    string
	htmlBase   string
	limiter    *rate.Limiter
	logger     *slog.Logger
	backoff    time.Duration // base retry sleep, doubled per attempt
}

// NewClient creates a feed client with rate limiting. Empty base URLs fall
// back to the public hosts.
func NewClient(apiBase, htmlBase string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if htmlBase == "" {
		htmlBase = DefaultHTMLBase
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
				ResponseHeaderTimeout: readTimeout,
			},
		},
		apiBase:  apiBase,
		htmlBase: htmlBase,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		logger:   logger,
		backoff:  backoffBase,
	}
}

// WithBackoff overrides the base retry sleep. Zero disables waiting
// between retries.
func (c *Client) WithBackoff(d time.Duration) *Client {
	c.backoff = d
	return c
}

// get performs a rate-limited GET with retries, returning the body.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, c.backoffFor(attempt)); err != nil {
				return nil, err
			}
			c.logger.Debug("retrying request", "url", url, "attempt", attempt)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", "rinkline/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("http request %s: %w", url, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response body: %w", err)
			continue
		}

		if retryStatuses[resp.StatusCode] {
			lastErr = &StatusError{URL: url, StatusCode: resp.StatusCode, Body: truncate(body, 200)}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: truncate(body, 200)}
		}
		return body, nil
	}
	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

// getJSON decodes an api-web response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, c.apiBase+path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}

// getHTML fetches a report and transcodes it from the server's Latin-1 to
// UTF-8 so player names with accents survive.
func (c *Client) getHTML(ctx context.Context, path string) ([]byte, error) {
	body, err := c.get(ctx, c.htmlBase+path)
	if err != nil {
		return nil, err
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("decode latin-1 %s: %w", path, err)
	}
	return decoded, nil
}

// backoffFor returns the sleep before the given retry attempt.
func (c *Client) backoffFor(attempt int) time.Duration {
	if c.backoff <= 0 {
		return 0
	}
	d := c.backoff << (attempt - 1)
	if d > backoffCap || d <= 0 {
		return backoffCap
	}
	return d
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
