package http

import (
	"encoding/json"
	"net/http"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
)

// errorResponse is the body of every failed assessment.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusForCategory maps an error category to its HTTP status.
func StatusForCategory(c domain.Category) int {
	switch c {
	case domain.CategoryInvalidInput:
		return http.StatusBadRequest
	case domain.CategoryInvalidDomainData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports an assessment failure under its category.
func writeError(w http.ResponseWriter, err error) {
	category := domain.Classify(err)
	details := err.Error()
	if category == domain.CategoryInternal {
		details = "internal server error"
	}
	writeJSON(w, StatusForCategory(category), errorResponse{
		Error:   string(category),
		Details: details,
	})
}

// writeJSON encodes v before touching the response so an encoding failure
// still produces a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorResponse{
			Error:   string(domain.CategoryInternal),
			Details: "response encoding failed",
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n')) //nolint:errcheck // client may have gone away
}
