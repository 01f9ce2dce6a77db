package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// RoomsHandler handles room endpoints.
type RoomsHandler struct {
	DB *sql.DB
}

// List handles GET /api/rooms.
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := store.ListRooms(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(rooms))
}

// Create handles POST /api/rooms.
func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.RoomInput
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	room, err := store.CreateRoom(r.Context(), h.DB, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, room)
}

// Get handles GET /api/rooms/{id}: the room, its equipment and its
// breakdown by type.
func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	room, err := store.GetRoom(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if room == nil || room.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "room not found")
		return
	}

	equipment, err := store.ListEquipmentByRoom(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	breakdown, err := store.RoomTypeBreakdown(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"room":      room,
		"equipment": emptyIfNil(equipment),
		"types":     emptyIfNil(breakdown),
	})
}

// Update handles PUT /api/rooms/{id}.
func (h *RoomsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req model.RoomInput
	if err := decodeJSON(r, &req); err != nil {
		bodyError(w, err)
		return
	}

	if err := store.UpdateRoom(r.Context(), h.DB, id, req); err != nil {
		writeError(w, r, err)
		return
	}

	room, err := store.GetRoom(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, room)
}

// Delete handles DELETE /api/rooms/{id}.
func (h *RoomsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	if err := store.DeleteRoom(r.Context(), h.DB, id); err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, map[string]any{"message": "room deleted"})
}

// Stats handles GET /api/rooms/stats.
func (h *RoomsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.RoomStatistics(r.Context(), h.DB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(stats))
}
