package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockXClient_NormalizesSizeAndKeepsMajorUnits(t *testing.T) {
	// Setup: exchange quotes US Men's 10 which is UK 9
	var gotAPIKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		assert.Equal(t, "/v2/variants/dunk-uk9/market-data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"variantId": "dunk-uk9",
			"size": 10,
			"currencyCode": "USD",
			"lowestAskAmount": 172.5,
			"highestBidAmount": 158,
			"updatedAt": "2026-08-30T12:00:00Z"
		}`))
	}))
	defer ts.Close()

	client := NewStockXClient(ts.URL, "test-key")

	// Execute
	snapshots, err := client.FetchSnapshots(context.Background(), []string{"dunk-uk9"})

	// Assert
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, domain.ProviderStockX, snapshots[0].Provider)
	assert.Equal(t, 9.0, snapshots[0].SizeUK)
	assert.Equal(t, "USD", snapshots[0].Currency)
	require.NotNil(t, snapshots[0].LowestAsk)
	assert.True(t, snapshots[0].LowestAsk.Equal(decimal.NewFromFloat(172.5)))
	require.NotNil(t, snapshots[0].HighestBid)
	assert.True(t, snapshots[0].HighestBid.Equal(decimal.NewFromInt(158)))
	assert.Nil(t, snapshots[0].LastSale)
}

func TestStockXClient_NotFoundIsAMissNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewStockXClient(ts.URL, "test-key")
	snapshots, err := client.FetchSnapshots(context.Background(), []string{"unknown-variant"})

	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestGoatClient_ConvertsCentsToMajorUnits(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"productTemplateId": "dunk-low",
			"size": 10,
			"currency": "USD",
			"lowestPriceCents": 14000,
			"lastSoldPriceCents": 13250,
			"updatedAt": 1756550400
		}]`))
	}))
	defer ts.Close()

	client := NewGoatClient(ts.URL, "test-key")
	snapshots, err := client.FetchSnapshots(context.Background(), []string{"dunk-low"})

	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	require.NotNil(t, snapshots[0].LowestAsk)
	assert.True(t, snapshots[0].LowestAsk.Equal(decimal.NewFromInt(140)))
	require.NotNil(t, snapshots[0].LastSale)
	assert.True(t, snapshots[0].LastSale.Equal(decimal.NewFromFloat(132.5)))
	assert.Nil(t, snapshots[0].HighestBid)
	assert.Equal(t, 9.0, snapshots[0].SizeUK)
}

func TestEbayClient_AggregateHasNoBidSide(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "epid-123", r.URL.Query().Get("epid"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"epid": "epid-123",
			"sizeValue": 11,
			"sizeSystem": "US",
			"sizeGender": "WOMENS",
			"currency": "GBP",
			"lowestActiveListing": 95.5,
			"lastSoldPrice": 101,
			"asOf": "2026-08-30T09:30:00Z"
		}`))
	}))
	defer ts.Close()

	client := NewEbayClient(ts.URL, "test-key")
	snapshots, err := client.FetchSnapshots(context.Background(), []string{"epid-123"})

	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	// US Women's 11 is UK 9
	assert.Equal(t, 9.0, snapshots[0].SizeUK)
	assert.Equal(t, "GBP", snapshots[0].Currency)
	require.NotNil(t, snapshots[0].LowestAsk)
	assert.True(t, snapshots[0].LowestAsk.Equal(decimal.NewFromFloat(95.5)))
	assert.Nil(t, snapshots[0].HighestBid)
	require.NotNil(t, snapshots[0].LastSale)
}

func TestGoatClient_UpstreamErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	client := NewGoatClient(ts.URL, "bad-key")
	_, err := client.FetchSnapshots(context.Background(), []string{"dunk-low"})

	assert.Error(t, err)
}
