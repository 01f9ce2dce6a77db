package api

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/erazemk/popis/internal/export"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// SessionsRedirect is where the count page goes after a session completes.
const SessionsRedirect = "/sessions"

// SessionsHandler handles inventory session endpoints.
type SessionsHandler struct {
	DB      *sql.DB
	Service *inventory.Service
}

type saveResultsRequest struct {
	Results map[int64]inventory.ResultInput `json:"results"`
	IsFinal bool                            `json:"is_final"`
}

// List handles GET /api/sessions.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := store.ListSessions(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(sessions))
}

// Create handles POST /api/sessions.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.NewSession
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	session, err := h.Service.CreateSession(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, session)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	session, err := store.GetSession(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if session == nil {
		jsonError(w, http.StatusNotFound, "inventory session not found")
		return
	}
	jsonResponse(w, http.StatusOK, session)
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if err := h.Service.DeleteSession(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"message": "Inventory session deleted"})
}

// Sheet handles GET /api/sessions/{id}/sheet.
func (h *SessionsHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	sheet, err := h.Service.Sheet(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"sheet": sheet})
}

// SaveResults handles POST /api/sessions/{id}/results. A final save
// answers with the page to continue on.
func (h *SessionsHandler) SaveResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req saveResultsRequest
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	out, err := h.Service.SaveResults(r.Context(), id, req.Results, req.IsFinal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var redirect any = false
	if out.Status == model.SessionCompleted {
		redirect = SessionsRedirect
	}
	jsonSuccess(w, map[string]any{
		"message":  out.Message,
		"status":   out.Status,
		"redirect": redirect,
	})
}

// AddAdditional handles POST /api/sessions/{id}/additional.
func (h *SessionsHandler) AddAdditional(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req inventory.AdditionalInput
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	item, err := h.Service.AddAdditionalItem(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"message": "Item added", "item": item})
}

// RemoveAdditional handles DELETE /api/sessions/{id}/additional/{itemID}.
func (h *SessionsHandler) RemoveAdditional(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	itemID, ok := pathID(r, "itemID")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Service.RemoveAdditionalItem(r.Context(), id, itemID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"message": "Item removed"})
}

// Report handles GET /api/sessions/{id}/report.
func (h *SessionsHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	report, err := h.Service.Report(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"report": report})
}

// ReportXLSX handles GET /api/sessions/{id}/report.xlsx.
func (h *SessionsHandler) ReportXLSX(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	report, err := h.Service.Report(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.SessionXLSX(&buf, report); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="popis-%d.xlsx"`, id))
	w.Write(buf.Bytes())
}
