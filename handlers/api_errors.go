package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/nivedh-git/attendsysbackend/services"
	"gorm.io/gorm"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// missing resources to 404, rejected input to 400, duplicate session to 409
// and everything else to 500. No-match and conflict no-ops never come
// through here; they are successful results.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		WriteAPIError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, services.ErrIdentityNotFound):
		WriteAPIError(w, http.StatusNotFound, "identity_not_found", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		WriteAPIError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, services.ErrDuplicateSession):
		WriteAPIError(w, http.StatusConflict, "duplicate_session", err.Error())
	case errors.Is(err, services.ErrInvalidEmbedding),
		errors.Is(err, services.ErrNoFaceDetected),
		errors.Is(err, services.ErrDecodeFailed):
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		log.Printf("Error handling request: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
