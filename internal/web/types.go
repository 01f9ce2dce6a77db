package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// TypesPage handles GET /types.
func (s *Server) TypesPage(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListTypes(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to list equipment types", err)
		return
	}

	s.Templates.Render(w, "types.html", &struct {
		PageData
		Types []model.EquipmentType
	}{
		PageData: s.page(r, "Vrste opreme", "types"),
		Types:    types,
	})
}

// TypeCreateSubmit handles POST /types.
func (s *Server) TypeCreateSubmit(w http.ResponseWriter, r *http.Request) {
	t, err := store.CreateType(r.Context(), s.DB, r.FormValue("name"))
	if err != nil {
		redirectErr(w, r, "/types", err)
		return
	}

	slog.Info("equipment type created", "id", t.ID, "name", t.Name)
	redirectOK(w, r, "/types", "Vrsta "+t.Name+" je dodana.")
}

// TypeRenameSubmit handles POST /types/{id}.
func (s *Server) TypeRenameSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID vrste.")
		return
	}

	if err := store.RenameType(r.Context(), s.DB, id, r.FormValue("name")); err != nil {
		redirectErr(w, r, "/types", err)
		return
	}

	slog.Info("equipment type renamed", "id", id)
	redirectOK(w, r, "/types", "Vrsta je preimenovana.")
}

// TypeDeleteSubmit handles POST /types/{id}/delete.
func (s *Server) TypeDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderError(w, r, http.StatusBadRequest, "Neveljaven ID vrste.")
		return
	}

	if err := store.DeleteType(r.Context(), s.DB, id); err != nil {
		redirectErr(w, r, "/types", err)
		return
	}

	slog.Info("equipment type deleted", "id", id)
	redirectOK(w, r, "/types", "Vrsta je izbrisana.")
}
