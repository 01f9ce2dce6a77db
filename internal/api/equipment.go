package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// EquipmentHandler handles equipment endpoints.
type EquipmentHandler struct {
	DB *sql.DB
}

type moveRequest struct {
	RoomID int64  `json:"room_id"`
	Reason string `json:"reason"`
}

// List handles GET /api/equipment?type=&status=&room=.
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := model.ParseEquipmentFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := store.ListEquipment(r.Context(), h.DB, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(list))
}

// Create handles POST /api/equipment.
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EquipmentInput
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	e, err := store.CreateEquipment(r.Context(), h.DB, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, e)
}

// Get handles GET /api/equipment/{id}.
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	e, err := store.GetEquipment(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if e == nil || e.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

// Update handles PUT /api/equipment/{id}. Changing the room here corrects
// the record and is not logged as a movement.
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	var req model.EquipmentInput
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	if err := store.UpdateEquipment(r.Context(), h.DB, id, req); err != nil {
		writeError(w, r, err)
		return
	}

	e, err := store.GetEquipment(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

// Delete handles DELETE /api/equipment/{id}.
func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	if err := store.DeleteEquipment(r.Context(), h.DB, id); err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"message": "equipment deleted"})
}

// Move handles POST /api/equipment/{id}/move.
func (h *EquipmentHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}
	if req.RoomID <= 0 {
		jsonError(w, http.StatusBadRequest, "room_id required")
		return
	}

	m, err := store.MoveEquipment(r.Context(), h.DB, id, req.RoomID, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"message": "equipment moved", "movement": m})
}

// Movements handles GET /api/equipment/{id}/movements.
func (h *EquipmentHandler) Movements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	list, err := store.ListMovementsByEquipment(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(list))
}

// GroupAdd handles POST /api/equipment/group. Units that fail are listed
// in the result's errors; the request itself only fails on invalid input.
func (h *EquipmentHandler) GroupAdd(w http.ResponseWriter, r *http.Request) {
	var req model.GroupSpec
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	result, err := store.GroupAddEquipment(r.Context(), h.DB, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"results": result})
}
