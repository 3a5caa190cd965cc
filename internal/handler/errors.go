package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/blogpost/internal/domain"
	"github.com/msomdec/blogpost/internal/view"
)

// renderError answers a browser request for a failed operation. Expected
// domain errors map to their status page; anything else is logged under
// msg and answered with a 500.
func renderError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		redirectToLogin(w, r)
	case errors.Is(err, domain.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		view.ErrorPage(http.StatusForbidden, "Forbidden", "This action is unauthorized.").Render(r.Context(), w)
	case errors.Is(err, domain.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		view.ErrorPage(http.StatusNotFound, "Not Found", "The requested page could not be found.").Render(r.Context(), w)
	default:
		slog.Error(msg, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// apiError is renderError for the JSON API.
func apiError(w http.ResponseWriter, err error, msg string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr)
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, false, "Unauthenticated.")
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, false, "This action is unauthorized.")
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, false, "Resource not found.")
	default:
		slog.Error(msg, "error", err)
		writeMessage(w, http.StatusInternalServerError, false, "An unexpected error occurred. Please try again.")
	}
}

// pathID parses the {id} wildcard. ok is false when a 404 has been written.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		if isAPIRequest(r) {
			writeMessage(w, http.StatusNotFound, false, "Resource not found.")
		} else {
			renderError(w, r, domain.ErrNotFound, "")
		}
		return 0, false
	}
	return id, true
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
