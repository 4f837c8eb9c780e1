// Package yahoo fetches per-symbol financial metrics from the Yahoo
// Finance quote API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sp500watch/internal/models"

	log "github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	userAgent      = "Mozilla/5.0 (compatible; sp500watch/1.0; +https://example.org/contact)"

	// BatchSize is the maximum symbols per quote request.
	BatchSize = 50
)

// Client is an HTTP client for the Yahoo Finance quote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Yahoo Finance client.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a client with a custom base URL (for testing).
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// quoteEnvelope is the wire shape of the v7 quote response.
type quoteEnvelope struct {
	QuoteResponse struct {
		Result []quoteResult   `json:"result"`
		Error  json.RawMessage `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                      string   `json:"symbol"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice"`
	MarketCap                   *float64 `json:"marketCap"`
	TrailingPE                  *float64 `json:"trailingPE"`
	ForwardPE                   *float64 `json:"forwardPE"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
	Beta                        *float64 `json:"beta"`
	FiftyTwoWeekHigh            *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow             *float64 `json:"fiftyTwoWeekLow"`
	SharesOutstanding           *int64   `json:"sharesOutstanding"`
}

// GetQuoteBatch fetches financials for up to BatchSize symbols in one
// request. The returned map has an entry for every requested symbol; a nil
// value means no usable record (the provider returned neither price nor
// market cap, or omitted the symbol entirely). Callers must treat a
// non-nil error the same way for the whole batch.
func (c *Client) GetQuoteBatch(ctx context.Context, symbols []string) (map[string]*models.Financials, error) {
	out := make(map[string]*models.Financials, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
		out[upper[i]] = nil
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(upper, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env quoteEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	asOf := time.Now().UTC().Truncate(time.Second)
	for _, r := range env.QuoteResponse.Result {
		sym := strings.ToUpper(r.Symbol)
		if _, requested := out[sym]; !requested {
			continue
		}
		// A row with neither price nor market cap is a failed fetch for
		// that symbol, not a partial record.
		if r.RegularMarketPrice == nil && r.MarketCap == nil {
			log.Debugf("GetQuoteBatch: %s has no price or market cap, skipping", sym)
			continue
		}
		out[sym] = &models.Financials{
			Symbol:            sym,
			AsOf:              asOf,
			Price:             r.RegularMarketPrice,
			MarketCap:         r.MarketCap,
			TrailingPE:        r.TrailingPE,
			ForwardPE:         r.ForwardPE,
			DividendYield:     r.TrailingAnnualDividendYield,
			Beta:              r.Beta,
			High52W:           r.FiftyTwoWeekHigh,
			Low52W:            r.FiftyTwoWeekLow,
			SharesOutstanding: r.SharesOutstanding,
		}
	}
	return out, nil
}
