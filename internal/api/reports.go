package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/popis/internal/store"
)

// ReportsHandler serves registry summaries.
type ReportsHandler struct {
	DB *sql.DB
}

// Overview handles GET /api/reports/overview.
func (h *ReportsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	o, err := store.GetOverview(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, o)
}

// ByStatus handles GET /api/reports/status.
func (h *ReportsHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := store.StatusSummary(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(summary))
}

// ByType handles GET /api/reports/types.
func (h *ReportsHandler) ByType(w http.ResponseWriter, r *http.Request) {
	summaries, err := store.TypeSummaries(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(summaries))
}
