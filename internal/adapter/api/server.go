package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/soletrack/soletrack-backend/internal/usecase/dashboard"
	"github.com/soletrack/soletrack-backend/internal/usecase/refresher"
)

// ValuationService is the valuation surface the API depends on
type ValuationService interface {
	ValueItem(ctx context.Context, itemID uuid.UUID, displayCurrency string) (*domain.EnrichedValuation, error)
	ValuePortfolio(ctx context.Context, displayCurrency string) ([]*domain.EnrichedValuation, error)
}

// SummaryService aggregates the portfolio into dashboard totals
type SummaryService interface {
	GetSummary(ctx context.Context, displayCurrency string) (*dashboard.PortfolioSummary, error)
}

// RefreshService triggers a snapshot refresh across all providers
type RefreshService interface {
	RefreshAll(ctx context.Context) (*refresher.Result, error)
}

// Pinger is the health-check view of the database
type Pinger interface {
	Ping() error
}

type Server struct {
	valuations ValuationService
	summary    SummaryService
	refresh    RefreshService
	items      domain.ItemRepository
	db         Pinger

	httpServer      *http.Server
	apiKey          string
	displayCurrency string
	log             *logrus.Logger
}

func NewServer(
	valuations ValuationService,
	summary SummaryService,
	refresh RefreshService,
	items domain.ItemRepository,
	db Pinger,
	port int,
	apiKey string,
	displayCurrency string,
	log *logrus.Logger,
) *Server {
	s := &Server{
		valuations:      valuations,
		summary:         summary,
		refresh:         refresh,
		items:           items,
		db:              db,
		apiKey:          apiKey,
		displayCurrency: displayCurrency,
		log:             log,
	}

	mux := http.NewServeMux()

	// Valuation routes
	mux.HandleFunc("GET /v1/valuations", s.handleValuations)
	mux.HandleFunc("GET /v1/valuations/{id}", s.handleValuationByID)

	// Portfolio routes
	mux.HandleFunc("GET /v1/portfolio/summary", s.handlePortfolioSummary)

	// Inventory routes
	mux.HandleFunc("GET /v1/items", s.handleItems)

	// Refresh route
	mux.HandleFunc("POST /v1/refresh", s.handleRefresh)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.authMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.log.WithFields(logrus.Fields{
		"addr":         s.httpServer.Addr,
		"auth_enabled": s.apiKey != "",
	}).Info("REST API server started")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- request helpers ---

// displayCurrencyFrom resolves the display currency for a request.
// Absent means the configured default; a present but malformed code is the
// caller's error.
func (s *Server) displayCurrencyFrom(r *http.Request) (string, error) {
	ccy := r.URL.Query().Get("currency")
	if ccy == "" {
		return s.displayCurrency, nil
	}
	if !domain.ValidCurrencyCode(ccy) {
		return "", fmt.Errorf("invalid currency code %q, expected a 3-letter code", ccy)
	}
	return ccy, nil
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
