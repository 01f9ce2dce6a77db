package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/erazemk/popis/internal/imaging"
	"github.com/erazemk/popis/internal/inventory"
	"github.com/erazemk/popis/internal/model"
	"github.com/erazemk/popis/internal/store"
)

// maxFormBytes caps request bodies; photo uploads are the largest.
const maxFormBytes = imaging.MaxUploadBytes + 1<<20

// LimitBody caps the size of request bodies.
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// csrfFailed renders the page shown for a rejected form submission.
func (s *Server) csrfFailed(w http.ResponseWriter, r *http.Request) {
	slog.Warn("csrf check failed", "method", r.Method, "path", r.URL.Path)
	s.renderError(w, r, http.StatusForbidden,
		"Obrazec je potekel ali ni veljaven. Osvežite stran in poskusite znova.")
}

// renderError shows the error page.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.Templates.RenderStatus(w, status, "error.html", &struct {
		PageData
		Status  int
		Message string
	}{
		PageData: PageData{Title: "Napaka"},
		Status:   status,
		Message:  message,
	})
}

// serverError logs err and shows a generic error page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "path", r.URL.Path, "error", err)
	s.renderError(w, r, http.StatusInternalServerError, "Prišlo je do notranje napake.")
}

// userError returns the message to show for an error the user can fix, or
// false for unexpected errors.
func userError(err error) (string, bool) {
	var verr *inventory.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message, true
	case errors.Is(err, model.ErrInvalid), errors.Is(err, store.ErrConflict),
		errors.Is(err, model.ErrNotFound), errors.Is(err, imaging.ErrUnsupported):
		return err.Error(), true
	}
	return "", false
}

// redirectOK redirects to path with a success flash.
func redirectOK(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, path+"?ok="+url.QueryEscape(msg), http.StatusSeeOther)
}

// redirectErr redirects back to path with the user-facing message of err.
// Unexpected errors are logged and shown as a generic message.
func redirectErr(w http.ResponseWriter, r *http.Request, path string, err error) {
	msg, ok := userError(err)
	if !ok {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "Prišlo je do notranje napake."
	}
	http.Redirect(w, r, path+"?err="+url.QueryEscape(msg), http.StatusSeeOther)
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// formInt parses an optional integer form value; empty means 0.
func formInt(r *http.Request, name string) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: field %s must be a whole number", model.ErrInvalid, name)
	}
	return n, nil
}

// formID parses an optional id form value; empty means 0.
func formID(r *http.Request, name string) (int64, error) {
	v := r.FormValue(name)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: field %s must be an id", model.ErrInvalid, name)
	}
	return id, nil
}
