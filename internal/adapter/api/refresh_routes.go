package api

import (
	"net/http"
)

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := s.refresh.RefreshAll(r.Context())
	if err != nil {
		s.log.WithError(err).Error("snapshot refresh failed")
		writeError(w, http.StatusInternalServerError, "snapshot refresh failed")
		return
	}

	status := http.StatusOK
	if len(result.Errors) > 0 {
		// Partial success still stores what the healthy providers returned
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}
