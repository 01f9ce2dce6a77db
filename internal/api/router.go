package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB) http.Handler {
	mux := http.NewServeMux()

	repo := store.NewRepository(db)
	service := inventory.NewService(repo, repo, repo)

	roomsHandler := &RoomsHandler{DB: db}
	typesHandler := &TypesHandler{DB: db}
	equipmentHandler := &EquipmentHandler{DB: db}
	movementsHandler := &MovementsHandler{DB: db}
	sessionsHandler := &SessionsHandler{DB: db, Service: service}
	reportsHandler := &ReportsHandler{DB: db}

	// Rooms.
	mux.HandleFunc("GET /api/rooms", roomsHandler.List)
	mux.HandleFunc("POST /api/rooms", roomsHandler.Create)
	mux.HandleFunc("GET /api/rooms/stats", roomsHandler.Stats)
	mux.HandleFunc("GET /api/rooms/{id}", roomsHandler.Get)
	mux.HandleFunc("PUT /api/rooms/{id}", roomsHandler.Update)
	mux.HandleFunc("DELETE /api/rooms/{id}", roomsHandler.Delete)

	// Equipment types.
	mux.HandleFunc("GET /api/types", typesHandler.List)
	mux.HandleFunc("POST /api/types", typesHandler.Create)
	mux.HandleFunc("PUT /api/types/{id}", typesHandler.Rename)
	mux.HandleFunc("DELETE /api/types/{id}", typesHandler.Delete)

	// Equipment.
	mux.HandleFunc("GET /api/equipment", equipmentHandler.List)
	mux.HandleFunc("POST /api/equipment", equipmentHandler.Create)
	mux.HandleFunc("POST /api/equipment/group", equipmentHandler.GroupAdd)
	mux.HandleFunc("GET /api/equipment/{id}", equipmentHandler.Get)
	mux.HandleFunc("PUT /api/equipment/{id}", equipmentHandler.Update)
	mux.HandleFunc("DELETE /api/equipment/{id}", equipmentHandler.Delete)
	mux.HandleFunc("POST /api/equipment/{id}/move", equipmentHandler.Move)
	mux.HandleFunc("GET /api/equipment/{id}/movements", equipmentHandler.Movements)

	// Movement log.
	mux.HandleFunc("GET /api/movements", movementsHandler.List)

	// Inventory sessions.
	mux.HandleFunc("GET /api/sessions", sessionsHandler.List)
	mux.HandleFunc("POST /api/sessions", sessionsHandler.Create)
	mux.HandleFunc("GET /api/sessions/{id}", sessionsHandler.Get)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionsHandler.Delete)
	mux.HandleFunc("GET /api/sessions/{id}/sheet", sessionsHandler.Sheet)
	mux.HandleFunc("POST /api/sessions/{id}/results", sessionsHandler.SaveResults)
	mux.HandleFunc("POST /api/sessions/{id}/additional", sessionsHandler.AddAdditional)
	mux.HandleFunc("DELETE /api/sessions/{id}/additional/{itemID}", sessionsHandler.RemoveAdditional)
	mux.HandleFunc("GET /api/sessions/{id}/report", sessionsHandler.Report)
	mux.HandleFunc("GET /api/sessions/{id}/report.xlsx", sessionsHandler.ReportXLSX)

	// Summary reports.
	mux.HandleFunc("GET /api/reports/overview", reportsHandler.Overview)
	mux.HandleFunc("GET /api/reports/status", reportsHandler.ByStatus)
	mux.HandleFunc("GET /api/reports/types", reportsHandler.ByType)

	return LimitBody(RequireJSON(mux))
}
