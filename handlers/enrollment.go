package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/nivedh-git/attendsysbackend/models"
	"github.com/nivedh-git/attendsysbackend/repository"
	"github.com/nivedh-git/attendsysbackend/services"
)

var validate = validator.New()

// maxImageUploadBytes caps probe/enrollment image uploads
const maxImageUploadBytes = 10 << 20

// parseUintParam reads a chi URL parameter as an unsigned integer
func parseUintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return uint(value), nil
}

// parseUintFormValue reads a form field as an unsigned integer
func parseUintFormValue(r *http.Request, name string) (uint, error) {
	raw := r.FormValue(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return uint(value), nil
}

// embeddingFromRequest extracts the probe embedding from a request: a JSON
// body carrying the embedding directly, or a multipart upload whose image is
// sent to the external embedding service
func embeddingFromRequest(r *http.Request, extractor services.EmbeddingExtractor) ([]float64, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			return nil, fmt.Errorf("%w: %v", services.ErrDecodeFailed, err)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, fmt.Errorf("%w: missing image file", services.ErrDecodeFailed)
		}
		defer file.Close()

		imageData, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded image: %w", err)
		}
		return extractor.Extract(r.Context(), imageData)
	}

	var req struct {
		Embedding []float64 `json:"embedding" validate:"required,min=1"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: invalid request body", services.ErrInvalidEmbedding)
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%w: embedding is required", services.ErrInvalidEmbedding)
	}
	return req.Embedding, nil
}

type EnrollmentHandler struct {
	Enrollment       *services.EnrollmentService
	Extractor        services.EmbeddingExtractor
	NotificationRepo repository.NotificationRepositoryInterface
}

func (eh *EnrollmentHandler) CreateIdentity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
		Role string `json:"role" validate:"required,oneof=STUDENT STAFF"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "name and role (STUDENT or STAFF) are required")
		return
	}

	identity, err := eh.Enrollment.CreateIdentity(req.Name, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, identity)
}

func (eh *EnrollmentHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	identityID, err := parseUintParam(r, "identity_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	identity, err := eh.Enrollment.GetIdentity(identityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

func (eh *EnrollmentHandler) DeleteIdentity(w http.ResponseWriter, r *http.Request) {
	identityID, err := parseUintParam(r, "identity_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	if err := eh.Enrollment.DeleteIdentity(identityID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListIdentities returns identities filtered by role
func (eh *EnrollmentHandler) ListIdentities(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != models.RoleStudent && role != models.RoleStaff {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "role query parameter must be STUDENT or STAFF")
		return
	}

	identities, err := eh.Enrollment.ListIdentities(role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if identities == nil {
		identities = []models.Identity{}
	}
	writeJSON(w, http.StatusOK, identities)
}

// RegisterTemplate enrolls or replaces an identity's face template. Accepts
// either a JSON embedding or a multipart image forwarded to the extractor.
func (eh *EnrollmentHandler) RegisterTemplate(w http.ResponseWriter, r *http.Request) {
	identityID, err := parseUintParam(r, "identity_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	embedding, err := embeddingFromRequest(r, eh.Extractor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := eh.Enrollment.RegisterTemplate(identityID, embedding); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"identity_id": identityID,
		"message":     "Face template registered successfully",
	})
}

func (eh *EnrollmentHandler) AddClassMember(w http.ResponseWriter, r *http.Request) {
	classID, err := parseUintParam(r, "class_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	var req struct {
		IdentityID uint `json:"identity_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "Invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", "identity_id is required")
		return
	}

	if err := eh.Enrollment.AddToClass(classID, req.IdentityID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"class_id":    classID,
		"identity_id": req.IdentityID,
	})
}

func (eh *EnrollmentHandler) RemoveClassMember(w http.ResponseWriter, r *http.Request) {
	classID, err := parseUintParam(r, "class_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	identityID, err := parseUintParam(r, "identity_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	if err := eh.Enrollment.RemoveFromClass(classID, identityID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (eh *EnrollmentHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	identityID, err := parseUintParam(r, "identity_id")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	notifications, err := eh.NotificationRepo.ListByIdentity(identityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (eh *EnrollmentHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notification_id")
	if err := eh.NotificationRepo.MarkRead(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
