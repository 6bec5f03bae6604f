package api

import (
	"net/http"

	"github.com/soletrack/soletrack-backend/internal/domain"
)

type itemJSON struct {
	ID               string  `json:"id"`
	SKU              string  `json:"sku"`
	Brand            string  `json:"brand"`
	Model            string  `json:"model"`
	Colorway         string  `json:"colorway"`
	SizeUK           float64 `json:"sizeUk"`
	PurchaseCurrency string  `json:"purchaseCurrency"`
	InvestedCost     string  `json:"investedCost"`
	Status           string  `json:"status"`
	ManualValue      *string `json:"manualValue"`
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	status := domain.ItemStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.ItemStatusActive, domain.ItemStatusListed, domain.ItemStatusSold, domain.ItemStatusArchived:
	default:
		writeError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, err := s.items.List(r.Context(), status)
	if err != nil {
		s.log.WithError(err).Error("failed to list items")
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	out := make([]itemJSON, len(items))
	for i, item := range items {
		out[i] = itemJSON{
			ID:               item.ID.String(),
			SKU:              item.SKU,
			Brand:            item.Brand,
			Model:            item.Model,
			Colorway:         item.Colorway,
			SizeUK:           item.SizeUK,
			PurchaseCurrency: item.PurchaseCurrency,
			InvestedCost:     item.InvestedCost().StringFixed(2),
			Status:           string(item.Status),
			ManualValue:      fixed2(item.ManualValue),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
