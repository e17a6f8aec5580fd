package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nivedh-git/attendsysbackend/database"
	"github.com/nivedh-git/attendsysbackend/models"
	"github.com/nivedh-git/attendsysbackend/services"
)

type SelfAttendanceHandler struct {
	Service   *services.SelfAttendanceService
	Extractor services.EmbeddingExtractor
	SQLDB     *sql.DB
}

// MarkSelf records today's check-in for a staff identity. All four outcomes
// (marked, already marked, not matched, not enrolled) are 200s with a status
// field; only malformed input or infrastructure failures are errors.
func (sh *SelfAttendanceHandler) MarkSelf(w http.ResponseWriter, r *http.Request) {
	var identityID uint

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		id, err := parseUintFormValue(r, "identity_id")
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		identityID = id
	} else {
		var req struct {
			IdentityID uint      `json:"identity_id" validate:"required"`
			Embedding  []float64 `json:"embedding" validate:"required,min=1"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
			return
		}
		if err := validate.Struct(&req); err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_input", "identity_id and embedding are required")
			return
		}

		status, err := sh.Service.MarkSelf(req.IdentityID, req.Embedding, time.Now())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": status})
		return
	}

	probe, err := embeddingFromRequest(r, sh.Extractor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status, err := sh.Service.MarkSelf(identityID, probe, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": status})
}

func (sh *SelfAttendanceHandler) ListForDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "date must be formatted as YYYY-MM-DD")
		return
	}

	records, err := sh.Service.ListForDate(date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []models.SelfAttendanceRecord{}
	}

	count, err := database.GetDailySelfAttendanceCount(sh.SQLDB, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date,
		"count":   count,
		"records": records,
	})
}
