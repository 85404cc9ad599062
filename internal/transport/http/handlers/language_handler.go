package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	catalogsvc "github.com/harryrismananda/lingohub/backend/internal/services/catalog"
	"github.com/harryrismananda/lingohub/backend/internal/transport/http/dto"
	httperrors "github.com/harryrismananda/lingohub/backend/internal/transport/http/errors"
)

type LanguageHandler struct {
	catalog *catalogsvc.Service
}

func NewLanguageHandler(catalog *catalogsvc.Service) *LanguageHandler {
	return &LanguageHandler{catalog: catalog}
}

func (h *LanguageHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	records, err := h.catalog.ListLanguages(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list languages")
		return
	}

	out := make([]dto.LanguageResponse, 0, len(records))
	for _, record := range records {
		out = append(out, languageResponse(record))
	}
	httperrors.Write(w, http.StatusOK, out)
}

func (h *LanguageHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	languageID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid language id")
		return
	}

	record, err := h.catalog.GetLanguage(r.Context(), languageID)
	if err != nil {
		handleCatalogError(w, err, "language")
		return
	}

	httperrors.Write(w, http.StatusOK, languageResponse(record))
}

func (h *LanguageHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}

	var req dto.LanguageCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.catalog.CreateLanguage(r.Context(), req.Name, req.Code, req.FlagURL)
	if err != nil {
		handleCatalogError(w, err, "language")
		return
	}

	httperrors.Write(w, http.StatusCreated, languageResponse(record))
}

func (h *LanguageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeInternal(w, "CATALOG_SERVICE_UNAVAILABLE", "catalog service is unavailable")
		return
	}
	languageID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid language id")
		return
	}

	if err := h.catalog.DeleteLanguage(r.Context(), languageID); err != nil {
		handleCatalogError(w, err, "language")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DeleteResponse{OK: true})
}

func languageResponse(record pgrepo.LanguageRecord) dto.LanguageResponse {
	return dto.LanguageResponse{
		ID:      record.ID,
		Name:    record.Name,
		Code:    record.Code,
		FlagURL: record.FlagURL,
	}
}

func handleCatalogError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, catalogsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid "+resource+" payload")
	case errors.Is(err, catalogsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", resource+" not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process "+resource+" request")
	}
}
