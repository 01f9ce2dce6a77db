package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/popis/internal/export"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// SessionsPage handles GET /sessions: the session list and the form to
// open a new one.
func (s *Server) SessionsPage(w http.ResponseWriter, r *http.Request) {
	sessions, err := store.ListSessions(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list sessions", err)
		return
	}
	rooms, err := store.ListRooms(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list rooms", err)
		return
	}

	s.Templates.Render(w, "sessions.html", &struct {
		PageData
		Sessions []model.Session
		Rooms    []model.Room
		Room     string
	}{
		PageData: s.page(r, "Popisi", "sessions"),
		Sessions: sessions,
		Rooms:    rooms,
		Room:     r.URL.Query().Get("room"),
	})
}

// SessionCreateSubmit handles POST /sessions.
func (s *Server) SessionCreateSubmit(w http.ResponseWriter, r *http.Request) {
	roomID, err := formID(r, "room_id")
	if err != nil {
		redirectErr(w, r, "/sessions", err)
		return
	}

	session, err := s.Service.CreateSession(r.Context(), model.NewSession{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		RoomID:      roomID,
		CreatedBy:   r.FormValue("created_by"),
	})
	if err != nil {
		redirectErr(w, r, "/sessions", err)
		return
	}

	slog.Info("inventory session created", "id", session.ID, "room", session.RoomID)
	http.Redirect(w, r, fmt.Sprintf("/sessions/%d", session.ID), http.StatusSeeOther)
}

// sessionError renders the page for an error of the inventory service.
func (s *Server) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, inventory.ErrNotFound) {
		s.renderError(w, r, http.StatusNotFound, "Popis ne obstaja.")
		return
	}
	if msg, ok := userError(err); ok {
		s.renderError(w, r, http.StatusBadRequest, msg)
		return
	}
	s.serverError(w, r, "inventory session request failed", err)
}

// SessionConductPage handles GET /sessions/{id}. Completed sessions show
// their report instead.
func (s *Server) SessionConductPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID popisa.")
		return
	}

	sheet, err := s.Service.Sheet(r.Context(), id)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}
	if sheet.Session.Status.Terminal() {
		http.Redirect(w, r, fmt.Sprintf("/sessions/%d/report", id), http.StatusSeeOther)
		return
	}

	s.Templates.Render(w, "session_conduct.html", &struct {
		PageData
		Sheet *inventory.Sheet
	}{
		PageData: s.page(r, "Popis: "+sheet.Session.Name, "sessions"),
		Sheet:    sheet,
	})
}

// SessionReportPage handles GET /sessions/{id}/report.
func (s *Server) SessionReportPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID popisa.")
		return
	}

	report, err := s.Service.Report(r.Context(), id)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}

	s.Templates.Render(w, "session_report.html", &struct {
		PageData
		Report *inventory.Report
	}{
		PageData: s.page(r, "Poročilo: "+report.Session.Name, "sessions"),
		Report:   report,
	})
}

// SessionExportXLSX handles GET /sessions/{id}/export.xlsx.
func (s *Server) SessionExportXLSX(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID popisa.")
		return
	}

	report, err := s.Service.Report(r.Context(), id)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.SessionXLSX(&buf, report); err != nil {
		s.serverError(w, r, "failed to export session report", err)
		return
	}
	writeDownload(w, xlsxContentType, fmt.Sprintf("popis-%d.xlsx", id), &buf)
}

// SessionDeleteSubmit handles POST /sessions/{id}/delete.
func (s *Server) SessionDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID popisa.")
		return
	}

	if err := s.Service.DeleteSession(r.Context(), id); err != nil {
		redirectErr(w, r, "/sessions", err)
		return
	}

	slog.Info("inventory session deleted", "id", id)
	redirectOK(w, r, "/sessions", "Popis je izbrisan.")
}
