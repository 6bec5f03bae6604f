package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/soletrack/soletrack-backend/internal/usecase/dashboard"
	"github.com/soletrack/soletrack-backend/internal/usecase/refresher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValuationService struct {
	valuation *domain.EnrichedValuation
	portfolio []*domain.EnrichedValuation
	err       error

	gotCurrency string
}

func (s *stubValuationService) ValueItem(ctx context.Context, itemID uuid.UUID, displayCurrency string) (*domain.EnrichedValuation, error) {
	s.gotCurrency = displayCurrency
	return s.valuation, s.err
}

func (s *stubValuationService) ValuePortfolio(ctx context.Context, displayCurrency string) ([]*domain.EnrichedValuation, error) {
	s.gotCurrency = displayCurrency
	return s.portfolio, s.err
}

type stubSummaryService struct {
	summary *dashboard.PortfolioSummary
	err     error
}

func (s *stubSummaryService) GetSummary(ctx context.Context, displayCurrency string) (*dashboard.PortfolioSummary, error) {
	return s.summary, s.err
}

type stubRefreshService struct {
	result *refresher.Result
	err    error
}

func (s *stubRefreshService) RefreshAll(ctx context.Context) (*refresher.Result, error) {
	return s.result, s.err
}

type stubItemRepo struct {
	items []*domain.InventoryItem
	err   error
}

func (s *stubItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	return nil, s.err
}

func (s *stubItemRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	return s.err
}

func (s *stubItemRepo) List(ctx context.Context, statusFilter domain.ItemStatus) ([]*domain.InventoryItem, error) {
	return s.items, s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping() error { return s.err }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(valuations ValuationService, refresh RefreshService, items domain.ItemRepository, apiKey string) *Server {
	if valuations == nil {
		valuations = &stubValuationService{}
	}
	if refresh == nil {
		refresh = &stubRefreshService{result: &refresher.Result{}}
	}
	if items == nil {
		items = &stubItemRepo{}
	}
	summary := &stubSummaryService{summary: &dashboard.PortfolioSummary{Currency: "GBP"}}
	return NewServer(valuations, summary, refresh, items, &stubPinger{}, 0, apiKey, "GBP", quietLogger())
}

func testValuation() *domain.EnrichedValuation {
	pl := decimal.NewFromFloat(12.5)
	return &domain.EnrichedValuation{
		ItemID:       uuid.New(),
		Currency:     "GBP",
		InvestedCost: decimal.NewFromInt(150),
		MarketPrice:  decimal.NewFromFloat(162.5),
		CurrentValue: decimal.NewFromFloat(162.5),
		ProfitLoss:   &pl,
		AskProvider:  domain.ProviderGoat,
		Mapped:       map[domain.Provider]bool{domain.ProviderGoat: true},
	}
}

func TestAuthMiddleware_RejectsMissingAndWrongKey(t *testing.T) {
	server := newTestServer(nil, nil, nil, "secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/items", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/items", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_AcceptsValidKey(t *testing.T) {
	server := newTestServer(nil, nil, nil, "secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/items", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_HealthBypassesAuth(t *testing.T) {
	server := newTestServer(nil, nil, nil, "secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleValuations_RendersTwoDecimalPlaces(t *testing.T) {
	valuations := &stubValuationService{portfolio: []*domain.EnrichedValuation{testValuation()}}
	server := newTestServer(valuations, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/valuations", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []valuationJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "150.00", out[0].InvestedCost)
	assert.Equal(t, "162.50", out[0].CurrentValue)
	require.NotNil(t, out[0].ProfitLoss)
	assert.Equal(t, "12.50", *out[0].ProfitLoss)
	assert.Nil(t, out[0].SpreadPct)
	assert.Equal(t, "GBP", valuations.gotCurrency)
}

func TestHandleValuations_CurrencyQueryOverridesDefault(t *testing.T) {
	valuations := &stubValuationService{portfolio: []*domain.EnrichedValuation{}}
	server := newTestServer(valuations, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/valuations?currency=EUR", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EUR", valuations.gotCurrency)
}

func TestHandleValuations_MalformedCurrencyIsBadRequest(t *testing.T) {
	server := newTestServer(nil, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/valuations?currency=us", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleValuationByID_InvalidUUIDIsBadRequest(t *testing.T) {
	server := newTestServer(nil, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/valuations/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRefresh_PartialFailureIsMultiStatus(t *testing.T) {
	refresh := &stubRefreshService{result: &refresher.Result{
		Stored: 3,
		Errors: map[domain.Provider]string{domain.ProviderStockX: "rate limited"},
	}}
	server := newTestServer(nil, refresh, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/refresh", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
}

func TestHandlePortfolioSummary_RendersTotals(t *testing.T) {
	server := newTestServer(nil, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/portfolio/summary", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out summaryJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "GBP", out.Currency)
	assert.Equal(t, "0.00", out.TotalInvested)
}

func TestHandleItems_InvalidStatusFilterIsBadRequest(t *testing.T) {
	server := newTestServer(nil, nil, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/items?status=BROKEN", nil)
	rec := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
