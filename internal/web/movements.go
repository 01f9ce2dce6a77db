package web

import (
	"net/http"

	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// movementPageLimit caps the movement log page.
const movementPageLimit = 200

// MovementsPage handles GET /movements.
func (s *Server) MovementsPage(w http.ResponseWriter, r *http.Request) {
	movements, err := store.ListMovements(r.Context(), s.DB, movementPageLimit)
	if err != nil {
		s.serverError(w, r, "failed to list movements", err)
		return
	}

	s.Templates.Render(w, "movements.html", &struct {
		PageData
		Movements []model.Movement
		Limit     int
	}{
		PageData:  s.page(r, "Premiki opreme", "movements"),
		Movements: movements,
		Limit:     movementPageLimit,
	})
}
