package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	authsvc "github.com/harryrismananda/lingohub/backend/internal/services/auth"
	userssvc "github.com/harryrismananda/lingohub/backend/internal/services/users"
	"github.com/harryrismananda/lingohub/backend/internal/transport/http/dto"
	httperrors "github.com/harryrismananda/lingohub/backend/internal/transport/http/errors"
)

type ProfileHandler struct {
	users *userssvc.Service
}

func NewProfileHandler(users *userssvc.Service) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}

	account, err := h.users.Get(r.Context(), userID)
	if err != nil {
		handleUsersError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, accountResponse(account))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}

	var req dto.ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), userID, userssvc.ProfileInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	if err != nil {
		handleUsersError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

// SetImage accepts a multipart form with an "image" part and binds the
// uploaded file to the profile.
func (h *ProfileHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeTarget(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(userssvc.MaxImageSize); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "image file is required")
		return
	}
	defer func() { _ = file.Close() }()

	profile, err := h.users.SetProfileImage(r.Context(), userID, userssvc.ImageUpload{
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		handleUsersError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.users == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}
	userID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		handleUsersError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DeleteResponse{OK: true})
}

// authorizeTarget resolves the {id} path param and enforces the
// owner-or-admin rule against the request identity.
func (h *ProfileHandler) authorizeTarget(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if h.users == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
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
		writeForbidden(w, "FORBIDDEN", "you may only access your own profile")
		return 0, false
	}

	return userID, true
}

func handleUsersError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile payload")
	case errors.Is(err, userssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "user not found")
	case errors.Is(err, userssvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "access denied")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process profile request")
	}
}

func profileResponse(record pgrepo.ProfileRecord) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:      record.UserID,
		DisplayName: record.DisplayName,
		Bio:         record.Bio,
		ImageURL:    record.ImageURL,
	}
}

func accountResponse(account userssvc.Account) dto.AccountResponse {
	out := dto.AccountResponse{
		ID:        account.User.ID,
		Email:     account.User.Email,
		FullName:  account.User.FullName,
		Role:      account.User.Role,
		IsPremium: account.User.IsPremium,
	}
	if account.Profile != nil {
		profile := profileResponse(*account.Profile)
		out.Profile = &profile
	}
	return out
}
