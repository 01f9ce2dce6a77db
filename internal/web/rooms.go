package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

func parseRoomForm(r *http.Request) (model.RoomInput, error) {
	floor, err := formInt(r, "floor")
	if err != nil {
		return model.RoomInput{}, err
	}
	return model.RoomInput{
		Floor:       floor,
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		IsService:   r.FormValue("is_service") != "",
	}, nil
}

// RoomsPage handles GET /rooms: every room with its equipment totals.
func (s *Server) RoomsPage(w http.ResponseWriter, r *http.Request) {
	stats, err := store.RoomStatistics(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to load room statistics", err)
		return
	}

	s.Templates.Render(w, "rooms.html", &struct {
		PageData
		Rooms []model.RoomStats
	}{
		PageData: s.page(r, "Prostori", "rooms"),
		Rooms:    stats,
	})
}

// RoomCreateSubmit handles POST /rooms.
func (s *Server) RoomCreateSubmit(w http.ResponseWriter, r *http.Request) {
	in, err := parseRoomForm(r)
	if err != nil {
		redirectErr(w, r, "/rooms", err)
		return
	}

	room, err := store.CreateRoom(r.Context(), s.DB, in)
	if err != nil {
		redirectErr(w, r, "/rooms", err)
		return
	}

	slog.Info("room created", "id", room.ID, "name", room.Name)
	redirectOK(w, r, "/rooms", "Prostor "+room.Name+" je dodan.")
}

// RoomDetailPage handles GET /rooms/{id}.
func (s *Server) RoomDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID prostora.")
		return
	}

	room, err := store.GetRoom(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "failed to get room", err)
		return
	}
	if room == nil || room.DeletedAt != nil {
		s.renderError(w, r, http.StatusNotFound, "Prostor ne obstaja.")
		return
	}

	equipment, err := store.ListEquipmentByRoom(r.Context(), s.DB, id)
	if err != nil {
		s.serverError(w, r, "failed to list room equipment", err)
		return
	}
	breakdown, err := store.RoomTypeBreakdown(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to load room breakdown", "error", err)
	}

	total := 0
	for _, e := range equipment {
		total += e.Quantity
	}

	s.Templates.Render(w, "room_detail.html", &struct {
		PageData
		Room          *model.Room
		Equipment     []model.Equipment
		Breakdown     []model.TypeBreakdown
		TotalQuantity int
	}{
		PageData:      s.page(r, room.DisplayName(), "rooms"),
		Room:          room,
		Equipment:     equipment,
		Breakdown:     breakdown,
		TotalQuantity: total,
	})
}

// RoomUpdateSubmit handles POST /rooms/{id}.
func (s *Server) RoomUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID prostora.")
		return
	}
	back := fmt.Sprintf("/rooms/%d", id)

	in, err := parseRoomForm(r)
	if err != nil {
		redirectErr(w, r, back, err)
		return
	}
	if err := store.UpdateRoom(r.Context(), s.DB, id, in); err != nil {
		redirectErr(w, r, back, err)
		return
	}

	slog.Info("room updated", "id", id)
	redirectOK(w, r, back, "Spremembe so shranjene.")
}

// RoomDeleteSubmit handles POST /rooms/{id}/delete. Rooms that still hold
// equipment are kept.
func (s *Server) RoomDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID prostora.")
		return
	}

	if err := store.DeleteRoom(r.Context(), s.DB, id); err != nil {
		redirectErr(w, r, fmt.Sprintf("/rooms/%d", id), err)
		return
	}

	slog.Info("room deleted", "id", id)
	redirectOK(w, r, "/rooms", "Prostor je izbrisan.")
}
