package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := store.GetOverview(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to load overview", err)
		return
	}

	movements, err := store.ListMovements(r.Context(), s.DB, 10)
	if err != nil {
		slog.Error("failed to list movements for dashboard", "error", err)
	}

	sessions, err := store.ListSessions(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list sessions for dashboard", "error", err)
	}
	var open []model.Session
	for _, sess := range sessions {
		if !sess.Status.Terminal() {
			open = append(open, sess)
		}
	}

	s.Templates.Render(w, "dashboard.html", &struct {
		PageData
		Overview     *model.Overview
		Movements    []model.Movement
		OpenSessions []model.Session
	}{
		PageData:     s.page(r, "Nadzorna plošča", "dashboard"),
		Overview:     overview,
		Movements:    movements,
		OpenSessions: open,
	})
}
