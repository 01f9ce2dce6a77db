package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/popis/internal/store"
)

// DefaultMovementLimit is how many movements GET /api/movements returns
// without a limit parameter.
const DefaultMovementLimit = 100

// MovementsHandler handles the global movement log.
type MovementsHandler struct {
	DB *sql.DB
}

// List handles GET /api/movements?limit=N. limit=0 returns everything.
func (h *MovementsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := DefaultMovementLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	list, err := store.ListMovements(r.Context(), h.DB, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(list))
}
