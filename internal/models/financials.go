package models

import "time"

// Financials holds the compact per-symbol metric set refreshed from the
// quote provider. All metrics are nullable; a record only exists at all
// when the provider returned at least a price or a market cap.
type Financials struct {
	Symbol            string    `json:"symbol"`
	AsOf              time.Time `json:"as_of"`
	Price             *float64  `json:"price"`
	MarketCap         *float64  `json:"market_cap"`
	TrailingPE        *float64  `json:"trailing_pe"`
	ForwardPE         *float64  `json:"forward_pe"`
	DividendYield     *float64  `json:"dividend_yield"`
	Beta              *float64  `json:"beta"`
	High52W           *float64  `json:"high_52w"`
	Low52W            *float64  `json:"low_52w"`
	SharesOutstanding *int64    `json:"shares_outstanding"`
}

// EnrichmentResult summarizes one bulk financials refresh.
type EnrichmentResult struct {
	Requested int `json:"requested"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}
