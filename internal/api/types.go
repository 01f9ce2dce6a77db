package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/popis/internal/store"
)

// TypesHandler handles equipment type endpoints.
type TypesHandler struct {
	DB *sql.DB
}

type typeRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/types.
func (h *TypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListTypes(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(types))
}

// Create handles POST /api/types.
func (h *TypesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	t, err := store.CreateType(r.Context(), h.DB, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, t)
}

// Rename handles PUT /api/types/{id}.
func (h *TypesHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid type id")
		return
	}

	var req typeRequest
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	if err := store.RenameType(r.Context(), h.DB, id, req.Name); err != nil {
		writeError(w, r, err)
		return
	}

	t, err := store.GetType(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, t)
}

// Delete handles DELETE /api/types/{id}.
func (h *TypesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid type id")
		return
	}

	if err := store.DeleteType(r.Context(), h.DB, id); err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"message": "equipment type deleted"})
}
