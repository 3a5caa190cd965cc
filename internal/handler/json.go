package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/msomdec/blogpost/internal/domain"
)

const (
	maxFormBytes = 1 << 20 // 1MB
	maxJSONBytes = 1 << 20
)

// envelope is the body of every JSON API response.
type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, envelope{Success: success, Message: message})
}

func writeValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, envelope{
		Message: "The given data was invalid.",
		Errors:  verr.Fields,
	})
}

// readJSON decodes the request body into the given destination.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
