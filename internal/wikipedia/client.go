// Package wikipedia fetches the S&P 500 constituent table from the
// Wikipedia article that tracks index membership.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sp500watch/internal/htmltable"

	log "github.com/sirupsen/logrus"
)

const (
	defaultSourceURL    = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	defaultPrintableURL = "https://en.wikipedia.org/w/index.php?title=List_of_S%26P_500_companies&printable=yes"

	// Wikipedia rejects default Go/client UAs; identify ourselves politely.
	userAgent = "Mozilla/5.0 (compatible; sp500watch/1.0; +https://example.org/contact)"

	maxAttempts    = 3
	initialBackoff = 600 * time.Millisecond
)

// FetchError is returned when the source responds with an error status
// after retries and the printable-view fallback.
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: HTTP %d", e.URL, e.StatusCode)
}

// Client fetches and extracts the constituents table.
type Client struct {
	sourceURL    string
	printableURL string
	httpClient   *http.Client
}

// NewClient creates a client against the live Wikipedia article.
func NewClient() *Client {
	return NewClientWithURLs(defaultSourceURL, defaultPrintableURL)
}

// NewClientWithURLs creates a client against custom source URLs (for
// testing, or an env override).
func NewClientWithURLs(sourceURL, printableURL string) *Client {
	return &Client{
		sourceURL:    sourceURL,
		printableURL: printableURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchTable fetches the article and extracts the membership table (the
// one whose header contains "Symbol").
func (c *Client) FetchTable(ctx context.Context) (*htmltable.Table, error) {
	page, err := c.FetchHTML(ctx)
	if err != nil {
		return nil, err
	}
	table, err := htmltable.Parse(strings.NewReader(page), "Symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituents table: %w", err)
	}
	log.Debugf("FetchTable: %d columns, %d rows", len(table.Columns), len(table.Rows))
	return table, nil
}

// FetchHTML retrieves the article HTML, retrying transient failures and
// falling back to the printable view when the primary URL is blocked.
func (c *Client) FetchHTML(ctx context.Context) (string, error) {
	body, status, err := c.get(ctx, c.sourceURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch source page: %w", err)
	}
	if status == http.StatusForbidden || status == http.StatusTooManyRequests {
		log.Debugf("source blocked with HTTP %d, trying printable view", status)
		body, status, err = c.get(ctx, c.printableURL)
		if err != nil {
			return "", fmt.Errorf("failed to fetch printable view: %w", err)
		}
		if status >= 400 {
			return "", &FetchError{StatusCode: status, URL: c.printableURL}
		}
		return string(body), nil
	}
	if status >= 400 {
		return "", &FetchError{StatusCode: status, URL: c.sourceURL}
	}
	return string(body), nil
}

// get performs a GET with up to maxAttempts tries. Network errors and
// retryable statuses (429, 5xx) back off and retry; the last response is
// returned when attempts are exhausted.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if retryableStatus(resp.StatusCode) && attempt < maxAttempts-1 {
			log.Debugf("GET %s: HTTP %d, retrying", rawURL, resp.StatusCode)
			continue
		}
		return body, resp.StatusCode, nil
	}
	return nil, 0, fmt.Errorf("request failed after %d attempts: %w", maxAttempts, lastErr)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
