package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	authsvc "github.com/harryrismananda/lingohub/backend/internal/services/auth"
	progresssvc "github.com/harryrismananda/lingohub/backend/internal/services/progress"
	userssvc "github.com/harryrismananda/lingohub/backend/internal/services/users"
	"github.com/harryrismananda/lingohub/backend/internal/transport/http/dto"
	httperrors "github.com/harryrismananda/lingohub/backend/internal/transport/http/errors"
)

type ProgressHandler struct {
	progress *progresssvc.Service
}

func NewProgressHandler(progress *progresssvc.Service) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.progress.Enroll(r.Context(), userID, req.LanguageID)
	if err != nil {
		if errors.Is(err, progresssvc.ErrAlreadyEnrolled) {
			writeConflict(w, "ALREADY_ENROLLED", "You are already registered for this language!")
			return
		}
		handleProgressError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, progressResponse(record))
}

func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}

	records, err := h.progress.ListByUser(r.Context(), userID)
	if err != nil {
		handleProgressError(w, err)
		return
	}

	out := make([]dto.ProgressResponse, 0, len(records))
	for _, record := range records {
		out = append(out, progressResponse(record))
	}
	httperrors.Write(w, http.StatusOK, out)
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}
	languageID, ok := idParam(r, "languageId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid language id")
		return
	}

	record, err := h.progress.Get(r.Context(), userID, languageID)
	if err != nil {
		handleProgressError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, progressResponse(record))
}

func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}
	languageID, ok := idParam(r, "languageId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid language id")
		return
	}

	var req dto.ProgressUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.progress.Update(r.Context(), userID, languageID, progresssvc.UpdateInput{
		Percentage: req.Percentage,
		Completed:  req.Completed,
		Lessons:    req.Lessons,
	})
	if err != nil {
		handleProgressError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, progressResponse(record))
}

func (h *ProgressHandler) authorizeTarget(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if h.progress == nil {
		writeInternal(w, "PROGRESS_SERVICE_UNAVAILABLE", "progress service is unavailable")
		return 0, false
	}

	userID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return 0, false
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return 0, false
	}
	if err := userssvc.Authorize(identity.UserID, identity.Role, userID); err != nil {
		writeForbidden(w, "FORBIDDEN", "you may only access your own progress")
		return 0, false
	}

	return userID, true
}

func handleProgressError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progresssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid progress payload")
	case errors.Is(err, progresssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "progress not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process progress request")
	}
}

func progressResponse(record pgrepo.ProgressRecord) dto.ProgressResponse {
	lessons := record.Lessons
	if lessons == nil {
		lessons = []string{}
	}
	return dto.ProgressResponse{
		ID:         record.ID,
		UserID:     record.UserID,
		LanguageID: record.LanguageID,
		Percentage: record.Percentage,
		Completed:  record.Completed,
		Lessons:    lessons,
	}
}
