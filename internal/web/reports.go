package web

import (
	"bytes"
	"net/http"

	"github.com/erazemk/popis/internal/export"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// ReportsPage handles GET /reports: registry totals by status, type and room.
func (s *Server) ReportsPage(w http.ResponseWriter, r *http.Request) {
	byStatus, err := store.StatusSummary(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to load status summary", err)
		return
	}
	byType, err := store.TypeSummaries(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to load type summary", err)
		return
	}
	byRoom, err := store.RoomStatistics(r.Context(), s.DB)
	if err != nil {
		s.serverError(w, r, "failed to load room summary", err)
		return
	}

	s.Templates.Render(w, "reports.html", &struct {
		PageData
		ByStatus []model.StatusCount
		ByType   []model.TypeSummary
		ByRoom   []model.RoomStats
	}{
		PageData: s.page(r, "Poročila", "reports"),
		ByStatus: byStatus,
		ByType:   byType,
		ByRoom:   byRoom,
	})
}

// ReportExportCSV handles GET /reports/{kind} for status.csv, types.csv
// and rooms.csv.
func (s *Server) ReportExportCSV(w http.ResponseWriter, r *http.Request) {
	var (
		buf  bytes.Buffer
		name string
		err  error
	)
	switch r.PathValue("kind") {
	case "status.csv":
		name = "stanje"
		var summary []model.StatusCount
		if summary, err = store.StatusSummary(r.Context(), s.DB); err == nil {
			err = export.StatusCSV(&buf, summary)
		}
	case "types.csv":
		name = "vrste"
		var summaries []model.TypeSummary
		if summaries, err = store.TypeSummaries(r.Context(), s.DB); err == nil {
			err = export.TypeCSV(&buf, summaries)
		}
	case "rooms.csv":
		name = "prostori"
		var stats []model.RoomStats
		if stats, err = store.RoomStatistics(r.Context(), s.DB); err == nil {
			err = export.RoomCSV(&buf, stats)
		}
	default:
		s.renderError(w, r, http.StatusNotFound, "Poročilo ne obstaja.")
		return
	}
	if err != nil {
		s.serverError(w, r, "failed to export report", err)
		return
	}
	writeDownload(w, csvContentType, exportName("porocilo-"+name, "csv"), &buf)
}
