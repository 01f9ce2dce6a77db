package web

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/erazemk/popis/internal/csrf"
	"github.com/erazemk/popis/internal/imaging"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/photos"
	"github.com/erazemk/popis/internal/store"
	webembed "github.com/erazemk/popis/web"
)

// Config holds what the page router needs besides the database.
type Config struct {
	Photos     photos.Store
	CSRFSecret string
	// SecureCookies marks cookies Secure; set it when served over HTTPS.
	SecureCookies bool
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, cfg Config) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	repo := store.NewRepository(db)
	s := &Server{
		DB:        db,
		Templates: templates,
		Service:   inventory.NewService(repo, repo, repo),
		Photos:    cfg.Photos,
		CSRF:      csrf.New(cfg.CSRFSecret, cfg.SecureCookies),
	}

	mux := http.NewServeMux()

	// Static assets and photos.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.HandleFunc("GET /photos/{ref}", s.PhotoGet)

	mux.HandleFunc("GET /{$}", s.Dashboard)

	// Equipment.
	mux.HandleFunc("GET /equipment", s.EquipmentPage)
	mux.HandleFunc("POST /equipment", s.EquipmentCreateSubmit)
	mux.HandleFunc("GET /equipment/new", s.EquipmentNewPage)
	mux.HandleFunc("GET /equipment/group", s.GroupAddPage)
	mux.HandleFunc("POST /equipment/group", s.GroupAddSubmit)
	mux.HandleFunc("GET /equipment/import", s.ImportPage)
	mux.HandleFunc("POST /equipment/import", s.ImportSubmit)
	mux.HandleFunc("GET /equipment/export.csv", s.EquipmentExportCSV)
	mux.HandleFunc("GET /equipment/export.xlsx", s.EquipmentExportXLSX)
	mux.HandleFunc("GET /equipment/{id}", s.EquipmentDetailPage)
	mux.HandleFunc("GET /equipment/{id}/edit", s.EquipmentEditPage)
	mux.HandleFunc("POST /equipment/{id}", s.EquipmentUpdateSubmit)
	mux.HandleFunc("POST /equipment/{id}/delete", s.EquipmentDeleteSubmit)
	mux.HandleFunc("POST /equipment/{id}/move", s.EquipmentMoveSubmit)
	mux.HandleFunc("POST /equipment/{id}/photo", s.EquipmentPhotoSubmit)

	// Rooms.
	mux.HandleFunc("GET /rooms", s.RoomsPage)
	mux.HandleFunc("POST /rooms", s.RoomCreateSubmit)
	mux.HandleFunc("GET /rooms/{id}", s.RoomDetailPage)
	mux.HandleFunc("POST /rooms/{id}", s.RoomUpdateSubmit)
	mux.HandleFunc("POST /rooms/{id}/delete", s.RoomDeleteSubmit)

	// Equipment types.
	mux.HandleFunc("GET /types", s.TypesPage)
	mux.HandleFunc("POST /types", s.TypeCreateSubmit)
	mux.HandleFunc("POST /types/{id}", s.TypeRenameSubmit)
	mux.HandleFunc("POST /types/{id}/delete", s.TypeDeleteSubmit)

	// Inventory sessions.
	mux.HandleFunc("GET /sessions", s.SessionsPage)
	mux.HandleFunc("POST /sessions", s.SessionCreateSubmit)
	mux.HandleFunc("GET /sessions/{id}", s.SessionConductPage)
	mux.HandleFunc("GET /sessions/{id}/report", s.SessionReportPage)
	mux.HandleFunc("GET /sessions/{id}/export.xlsx", s.SessionExportXLSX)
	mux.HandleFunc("POST /sessions/{id}/delete", s.SessionDeleteSubmit)

	// Movement log and reports.
	mux.HandleFunc("GET /movements", s.MovementsPage)
	mux.HandleFunc("GET /reports", s.ReportsPage)
	mux.HandleFunc("GET /reports/{kind}", s.ReportExportCSV)

	return LimitBody(s.CSRF.Middleware(s.csrfFailed)(mux)), nil
}

// PhotoGet handles GET /photos/{ref}. Refs are content hashes, so a stored
// photo never changes.
func (s *Server) PhotoGet(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	if !imaging.ValidRef(ref) {
		http.NotFound(w, r)
		return
	}

	rc, err := s.Photos.Open(r.Context(), ref)
	if errors.Is(err, photos.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to open photo", "ref", ref, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to write photo response", "ref", ref, "error", err)
	}
}
