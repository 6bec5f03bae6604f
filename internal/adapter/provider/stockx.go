package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/soletrack/soletrack-backend/internal/httputil"
	"github.com/soletrack/soletrack-backend/internal/usecase/sizing"
)

// StockXClient fetches live bid/ask market data from the exchange.
// The exchange quotes US Men's sizes and major currency units.
type StockXClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

// NewStockXClient creates a new StockXClient instance
func NewStockXClient(baseURL, apiKey string) *StockXClient {
	return &StockXClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      httputil.DefaultRetry,
	}
}

// Provider identifies this fetcher's marketplace
func (c *StockXClient) Provider() domain.Provider {
	return domain.ProviderStockX
}

type stockxMarketResponse struct {
	VariantID    string   `json:"variantId"`
	SizeUS       float64  `json:"size"`
	CurrencyCode string   `json:"currencyCode"`
	LowestAsk    *float64 `json:"lowestAskAmount"`
	HighestBid   *float64 `json:"highestBidAmount"`
	LastSale     *float64 `json:"lastSaleAmount"`
	UpdatedAt    string   `json:"updatedAt"`
}

// FetchSnapshots fetches fresh market data for each variant
func (c *StockXClient) FetchSnapshots(ctx context.Context, catalogKeys []string) ([]domain.PriceSnapshot, error) {
	snapshots := make([]domain.PriceSnapshot, 0, len(catalogKeys))

	for _, key := range catalogKeys {
		endpoint := fmt.Sprintf("%s/v2/variants/%s/market-data", c.baseURL, url.PathEscape(key))

		resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("x-api-key", c.apiKey)
			return req, nil
		})
		if err != nil {
			return nil, fmt.Errorf("stockx fetch %s: %w", key, err)
		}

		snapshot, err := c.decodeMarketData(key, resp)
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			snapshots = append(snapshots, *snapshot)
		}
	}

	return snapshots, nil
}

func (c *StockXClient) decodeMarketData(key string, resp *http.Response) (*domain.PriceSnapshot, error) {
	defer resp.Body.Close()

	// A variant with no market activity is a miss, not an error
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stockx returned status %d for %s", resp.StatusCode, key)
	}

	var data stockxMarketResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("stockx decode %s: %w", key, err)
	}

	capturedAt, err := time.Parse(time.RFC3339, data.UpdatedAt)
	if err != nil {
		capturedAt = time.Now().UTC()
	}

	sizeUK, _ := sizing.ToCanonical(data.SizeUS, sizing.SystemUS, sizing.GenderMens, "", "")

	return &domain.PriceSnapshot{
		Provider:   domain.ProviderStockX,
		CatalogKey: key,
		SizeUK:     sizeUK,
		Currency:   data.CurrencyCode,
		LowestAsk:  majorUnits(data.LowestAsk),
		HighestBid: majorUnits(data.HighestBid),
		LastSale:   majorUnits(data.LastSale),
		CapturedAt: capturedAt,
	}, nil
}

// majorUnits converts an optional JSON amount already in major units
func majorUnits(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
