package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/popis/internal/csrf"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/photos"
	webembed "github.com/erazemk/popis/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("02. 01. 2006 15:04")
		},
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Local().Format("02. 01. 2006")
		},
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"roomID": func(p *int64) int64 {
			if p == nil {
				return 0
			}
			return *p
		},
		"statusClass": func(s inventory.Status) string {
			switch s {
			case inventory.StatusMatch:
				return "ok"
			case inventory.StatusDeficit:
				return "warn"
			case inventory.StatusSurplus:
				return "info"
			default:
				return "bad"
			}
		},
		"equipmentStatuses": func() []model.EquipmentStatus { return model.EquipmentStatuses },
	}
}

// pages lists every page template; each is parsed together with the layout.
var pages = []string{
	"dashboard.html",
	"equipment.html",
	"equipment_form.html",
	"equipment_detail.html",
	"equipment_group.html",
	"equipment_import.html",
	"rooms.html",
	"room_detail.html",
	"types.html",
	"sessions.html",
	"session_conduct.html",
	"session_report.html",
	"movements.html",
	"reports.html",
	"error.html",
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with a non-200 status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Nav     string
	CSRF    string
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sql.DB
	Templates *Templates
	Service   *inventory.Service
	Photos    photos.Store
	CSRF      *csrf.Protector
}

// page builds the base page data. Flash messages arrive as the ok and err
// query parameters of a redirect.
func (s *Server) page(r *http.Request, title, nav string) PageData {
	q := r.URL.Query()
	return PageData{
		Title:   title,
		Nav:     nav,
		CSRF:    csrf.Token(r.Context()),
		Error:   q.Get("err"),
		Success: q.Get("ok"),
	}
}
