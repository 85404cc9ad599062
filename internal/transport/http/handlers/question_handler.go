package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	catalogsvc "github.com/harryrismananda/lingohub/backend/internal/services/catalog"
	contentsvc "github.com/harryrismananda/lingohub/backend/internal/services/content"
	"github.com/harryrismananda/lingohub/backend/internal/transport/http/dto"
	httperrors "github.com/harryrismananda/lingohub/backend/internal/transport/http/errors"
)

type QuestionHandler struct {
	catalog *catalogsvc.Service
	content *contentsvc.Service
}

func NewQuestionHandler(catalog *catalogsvc.Service, content *contentsvc.Service) *QuestionHandler {
	return &QuestionHandler{
		catalog: catalog,
		content: content,
	}
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	records, err := h.catalog.ListQuestions(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list questions")
		return
	}

	httperrors.Write(w, http.StatusOK, questionResponses(records))
}

func (h *QuestionHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	courseID, ok := idParam(r, "courseId")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid course id")
		return
	}

	records, err := h.catalog.ListQuestionsByCourse(r.Context(), courseID)
	if err != nil {
		handleCatalogError(w, err, "question")
		return
	}

	httperrors.Write(w, http.StatusOK, questionResponses(records))
}

func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	questionID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid question id")
		return
	}

	record, err := h.catalog.GetQuestion(r.Context(), questionID)
	if err != nil {
		handleCatalogError(w, err, "question")
		return
	}

	httperrors.Write(w, http.StatusOK, questionResponse(record))
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	var req dto.QuestionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.catalog.CreateQuestion(r.Context(), catalogsvc.QuestionInput{
		CourseID: req.CourseID,
		Prompt:   req.Prompt,
		Options:  req.Options,
		Answer:   req.Answer,
	})
	if err != nil {
		handleCatalogError(w, err, "question")
		return
	}

	httperrors.Write(w, http.StatusCreated, questionResponse(record))
}

func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	questionID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid question id")
		return
	}

	var req dto.QuestionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.catalog.UpdateQuestion(r.Context(), questionID, catalogsvc.QuestionInput{
		Prompt:  req.Prompt,
		Options: req.Options,
		Answer:  req.Answer,
	})
	if err != nil {
		handleCatalogError(w, err, "question")
		return
	}

	httperrors.Write(w, http.StatusOK, questionResponse(record))
}

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	questionID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid question id")
		return
	}

	if err := h.catalog.DeleteQuestion(r.Context(), questionID); err != nil {
		handleCatalogError(w, err, "question")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DeleteResponse{OK: true})
}

// Generate drafts questions for a course through the content generator
// and stores the usable ones.
func (h *QuestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.content == nil {
		writeInternal(w, "CONTENT_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	var req dto.QuestionGenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.content.GenerateQuestions(r.Context(), req.CourseID, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, contentsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid generate payload")
		case errors.Is(err, contentsvc.ErrNotFound):
			writeNotFound(w, "NOT_FOUND", "course not found")
		case errors.Is(err, contentsvc.ErrUnavailable):
			httperrors.Write(w, http.StatusBadGateway, httperrors.APIError{
				Code:    "GENERATOR_UNAVAILABLE",
				Message: "question generator is unavailable",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to generate questions")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.QuestionGenerateResponse{
		Created:   len(created),
		Questions: questionResponses(created),
	})
}

func questionResponse(record pgrepo.QuestionRecord) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:       record.ID,
		CourseID: record.CourseID,
		Prompt:   record.Prompt,
		Options:  record.Options,
		Answer:   record.Answer,
	}
}

func questionResponses(records []pgrepo.QuestionRecord) []dto.QuestionResponse {
	out := make([]dto.QuestionResponse, 0, len(records))
	for _, record := range records {
		out = append(out, questionResponse(record))
	}
	return out
}
