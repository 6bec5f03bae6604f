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

var cents = decimal.NewFromInt(100)

// GoatClient fetches consignment listing prices.
// This API reports amounts in cents and US Men's sizes; both are normalized
// here so nothing downstream ever sees minor units.
type GoatClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

// NewGoatClient creates a new GoatClient instance
func NewGoatClient(baseURL, apiKey string) *GoatClient {
	return &GoatClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      httputil.DefaultRetry,
	}
}

// Provider identifies this fetcher's marketplace
func (c *GoatClient) Provider() domain.Provider {
	return domain.ProviderGoat
}

type goatListingResponse struct {
	ProductTemplateID string  `json:"productTemplateId"`
	SizeUS            float64 `json:"size"`
	Currency          string  `json:"currency"`
	LowestPriceCents  *int64  `json:"lowestPriceCents"`
	HighestOfferCents *int64  `json:"highestOfferCents"`
	LastSoldCents     *int64  `json:"lastSoldPriceCents"`
	UpdatedAtUnix     int64   `json:"updatedAt"`
}

// FetchSnapshots fetches current consignment pricing for each product template
func (c *GoatClient) FetchSnapshots(ctx context.Context, catalogKeys []string) ([]domain.PriceSnapshot, error) {
	snapshots := make([]domain.PriceSnapshot, 0, len(catalogKeys))

	for _, key := range catalogKeys {
		endpoint := fmt.Sprintf("%s/api/v1/product_templates/%s/pricing", c.baseURL, url.PathEscape(key))

		resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Token "+c.apiKey)
			return req, nil
		})
		if err != nil {
			return nil, fmt.Errorf("goat fetch %s: %w", key, err)
		}

		batch, err := c.decodePricing(key, resp)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, batch...)
	}

	return snapshots, nil
}

func (c *GoatClient) decodePricing(key string, resp *http.Response) ([]domain.PriceSnapshot, error) {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("goat returned status %d for %s", resp.StatusCode, key)
	}

	var listings []goatListingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, fmt.Errorf("goat decode %s: %w", key, err)
	}

	snapshots := make([]domain.PriceSnapshot, 0, len(listings))
	for _, listing := range listings {
		sizeUK, _ := sizing.ToCanonical(listing.SizeUS, sizing.SystemUS, sizing.GenderMens, "", "")

		snapshots = append(snapshots, domain.PriceSnapshot{
			Provider:   domain.ProviderGoat,
			CatalogKey: key,
			SizeUK:     sizeUK,
			Currency:   listing.Currency,
			LowestAsk:  centsToMajor(listing.LowestPriceCents),
			HighestBid: centsToMajor(listing.HighestOfferCents),
			LastSale:   centsToMajor(listing.LastSoldCents),
			CapturedAt: time.Unix(listing.UpdatedAtUnix, 0).UTC(),
		})
	}

	return snapshots, nil
}

// centsToMajor converts an optional cents amount to major units
func centsToMajor(v *int64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromInt(*v).Div(cents)
	return &d
}
