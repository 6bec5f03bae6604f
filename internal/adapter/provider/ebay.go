package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/soletrack/soletrack-backend/internal/httputil"
	"github.com/soletrack/soletrack-backend/internal/usecase/sizing"
)

// EbayClient fetches aggregated auction pricing.
// The aggregator has no live order book: the lowest active listing stands in
// for the ask and the most recent completed sale is carried as last-sale.
// There is never a bid side.
type EbayClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

// NewEbayClient creates a new EbayClient instance
func NewEbayClient(baseURL, apiKey string) *EbayClient {
	return &EbayClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      httputil.DefaultRetry,
	}
}

// Provider identifies this fetcher's marketplace
func (c *EbayClient) Provider() domain.Provider {
	return domain.ProviderEbay
}

type ebayAggregateResponse struct {
	EPID          string   `json:"epid"`
	SizeValue     float64  `json:"sizeValue"`
	SizeSystem    string   `json:"sizeSystem"`
	SizeGender    string   `json:"sizeGender"`
	Currency      string   `json:"currency"`
	LowestListing *float64 `json:"lowestActiveListing"`
	LastSold      *float64 `json:"lastSoldPrice"`
	AsOf          string   `json:"asOf"`
}

// FetchSnapshots fetches aggregated pricing for each catalog product (EPID)
func (c *EbayClient) FetchSnapshots(ctx context.Context, catalogKeys []string) ([]domain.PriceSnapshot, error) {
	snapshots := make([]domain.PriceSnapshot, 0, len(catalogKeys))

	for _, key := range catalogKeys {
		endpoint := fmt.Sprintf("%s/buy/marketplace_insights/v1/item_sales?epid=%s", c.baseURL, url.QueryEscape(key))

		resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
			return req, nil
		})
		if err != nil {
			return nil, fmt.Errorf("ebay fetch %s: %w", key, err)
		}

		snapshot, err := c.decodeAggregate(key, resp)
		if err != nil {
			return nil, err
		}
		if snapshot != nil {
			snapshots = append(snapshots, *snapshot)
		}
	}

	return snapshots, nil
}

func (c *EbayClient) decodeAggregate(key string, resp *http.Response) (*domain.PriceSnapshot, error) {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ebay returned status %d for %s", resp.StatusCode, key)
	}

	var data ebayAggregateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("ebay decode %s: %w", key, err)
	}

	capturedAt, err := time.Parse(time.RFC3339, data.AsOf)
	if err != nil {
		capturedAt = time.Now().UTC()
	}

	// Listings carry whatever sizing convention the seller picked; the
	// normalizer flags the low-confidence cases
	sizeUK, _ := sizing.ToCanonical(data.SizeValue, sizing.System(data.SizeSystem), parseGender(data.SizeGender), "", "")

	return &domain.PriceSnapshot{
		Provider:   domain.ProviderEbay,
		CatalogKey: key,
		SizeUK:     sizeUK,
		Currency:   data.Currency,
		LowestAsk:  majorUnits(data.LowestListing),
		LastSale:   majorUnits(data.LastSold),
		CapturedAt: capturedAt,
	}, nil
}

func parseGender(s string) sizing.Gender {
	switch s {
	case "MENS", "mens", "men":
		return sizing.GenderMens
	case "WOMENS", "womens", "women":
		return sizing.GenderWomens
	default:
		return sizing.GenderUnknown
	}
}
