package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nivedh-git/attendsysbackend/database"
	"github.com/nivedh-git/attendsysbackend/models"
	"github.com/nivedh-git/attendsysbackend/services"
)

type AttendanceHandler struct {
	Service   *services.SessionAttendanceService
	Extractor services.EmbeddingExtractor
	SQLDB     *sql.DB
}

func (ah *AttendanceHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClassID     uint   `json:"class_id" validate:"required"`
		SubjectID   uint   `json:"subject_id" validate:"required"`
		SessionDate string `json:"session_date" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "class_id, subject_id and session_date are required")
		return
	}

	sessionDate, err := time.Parse(models.DateLayout, req.SessionDate)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "session_date must be formatted as YYYY-MM-DD")
		return
	}

	session, err := ah.Service.CreateSession(req.ClassID, req.SubjectID, sessionDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// SubmitProbe runs one identification attempt against the session roster.
// A no-match is a 200 with matched=false, not an error.
func (ah *AttendanceHandler) SubmitProbe(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUintParam(r, "session_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	probe, err := embeddingFromRequest(r, ah.Extractor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := ah.Service.SubmitProbe(sessionID, probe)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (ah *AttendanceHandler) FinalizeSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUintParam(r, "session_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	result, err := ah.Service.Finalize(sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (ah *AttendanceHandler) GetSessionRecords(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUintParam(r, "session_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	records, err := ah.Service.SessionRecords(sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (ah *AttendanceHandler) GetSessionSummary(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUintParam(r, "session_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	summary, err := database.GetSessionSummary(ah.SQLDB, sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
