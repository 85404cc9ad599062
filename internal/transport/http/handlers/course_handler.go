package handlers

import (
	"net/http"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	catalogsvc "github.com/harryrismananda/lingohub/backend/internal/services/catalog"
	"github.com/harryrismananda/lingohub/backend/internal/transport/http/dto"
	httperrors "github.com/harryrismananda/lingohub/backend/internal/transport/http/errors"
)

type CourseHandler struct {
	catalog *catalogsvc.Service
}

func NewCourseHandler(catalog *catalogsvc.Service) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	records, err := h.catalog.ListCourses(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list courses")
		return
	}

	httperrors.Write(w, http.StatusOK, courseResponses(records))
}

func (h *CourseHandler) ListByLanguage(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	languageID, ok := idParam(r, "languageId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid language id")
		return
	}

	records, err := h.catalog.ListCoursesByLanguage(r.Context(), languageID)
	if err != nil {
		handleCatalogError(w, err, "course")
		return
	}

	httperrors.Write(w, http.StatusOK, courseResponses(records))
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	courseID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid course id")
		return
	}

	record, err := h.catalog.GetCourse(r.Context(), courseID)
	if err != nil {
		handleCatalogError(w, err, "course")
		return
	}

	httperrors.Write(w, http.StatusOK, courseResponse(record))
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	var req dto.CourseCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.catalog.CreateCourse(r.Context(), catalogsvc.CourseInput{
		LanguageID: req.LanguageID,
		Title:      req.Title,
		Content:    req.Content,
		Level:      req.Level,
	})
	if err != nil {
		handleCatalogError(w, err, "course")
		return
	}

	httperrors.Write(w, http.StatusCreated, courseResponse(record))
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	courseID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid course id")
		return
	}

	var req dto.CourseUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.catalog.UpdateCourse(r.Context(), courseID, catalogsvc.CourseInput{
		Title:   req.Title,
		Content: req.Content,
		Level:   req.Level,
	})
	if err != nil {
		handleCatalogError(w, err, "course")
		return
	}

	httperrors.Write(w, http.StatusOK, courseResponse(record))
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	courseID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid course id")
		return
	}

	if err := h.catalog.DeleteCourse(r.Context(), courseID); err != nil {
		handleCatalogError(w, err, "course")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DeleteResponse{OK: true})
}

func courseResponse(record pgrepo.CourseRecord) dto.CourseResponse {
	return dto.CourseResponse{
		ID:         record.ID,
		LanguageID: record.LanguageID,
		Title:      record.Title,
		Content:    record.Content,
		Level:      record.Level,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func courseResponses(records []pgrepo.CourseRecord) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(records))
	for _, record := range records {
		out = append(out, courseResponse(record))
	}
	return out
}
