package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	authsvc "github.com/harryrismananda/lingohub/backend/internal/services/auth"
	progresssvc "github.com/harryrismananda/lingohub/backend/internal/services/progress"
	httperrors "github.com/harryrismananda/lingohub/backend/internal/transport/http/errors"
)

type stubProgressStore struct {
	records map[[2]int64]pgrepo.ProgressRecord
	nextID  int64
}

func newStubProgressStore() *stubProgressStore {
	return &stubProgressStore{records: map[[2]int64]pgrepo.ProgressRecord{}}
}

func (s *stubProgressStore) Create(_ context.Context, userID, languageID int64) (pgrepo.ProgressRecord, error) {
	key := [2]int64{userID, languageID}
	if _, ok := s.records[key]; ok {
		return pgrepo.ProgressRecord{}, pgrepo.ErrAlreadyEnrolled
	}
	s.nextID++
	rec := pgrepo.ProgressRecord{ID: s.nextID, UserID: userID, LanguageID: languageID, Lessons: []string{}}
	s.records[key] = rec
	return rec, nil
}

func (s *stubProgressStore) ListByUser(_ context.Context, userID int64) ([]pgrepo.ProgressRecord, error) {
	var out []pgrepo.ProgressRecord
	for key, rec := range s.records {
		if key[0] == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubProgressStore) Find(_ context.Context, userID, languageID int64) (pgrepo.ProgressRecord, error) {
	rec, ok := s.records[[2]int64{userID, languageID}]
	if !ok {
		return pgrepo.ProgressRecord{}, pgrepo.ErrProgressNotFound
	}
	return rec, nil
}

func (s *stubProgressStore) Update(_ context.Context, userID, languageID int64, percentage int, completed bool, lessons []string) (pgrepo.ProgressRecord, error) {
	key := [2]int64{userID, languageID}
	rec, ok := s.records[key]
	if !ok {
		return pgrepo.ProgressRecord{}, pgrepo.ErrProgressNotFound
	}
	rec.Percentage = percentage
	rec.Completed = completed
	rec.Lessons = lessons
	s.records[key] = rec
	return rec, nil
}

type knownLanguageStore struct{}

func (knownLanguageStore) FindByID(_ context.Context, languageID int64) (pgrepo.LanguageRecord, error) {
	if languageID != 7 {
		return pgrepo.LanguageRecord{}, pgrepo.ErrLanguageNotFound
	}
	return pgrepo.LanguageRecord{ID: languageID, Name: "Spanish", Code: "es"}, nil
}

func newProgressRouter(service *progresssvc.Service) http.Handler {
	handler := NewProgressHandler(service)
	r := chi.NewRouter()
	r.Post("/users/{id}/progress", handler.Enroll)
	return r
}

func enrollRequest(identity authsvc.Identity, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/users/1/progress", strings.NewReader(body))
	return req.WithContext(authsvc.WithIdentity(context.Background(), identity))
}

func TestEnrollConflictMessage(t *testing.T) {
	service := progresssvc.NewService(newStubProgressStore(), knownLanguageStore{})
	router := newProgressRouter(service)
	identity := authsvc.Identity{UserID: 1, SID: "sid-1", Role: "student"}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, enrollRequest(identity, `{"language_id":7}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first enrollment should succeed, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, enrollRequest(identity, `{"language_id":7}`))
	if rr.Code != http.StatusConflict {
		t.Fatalf("second enrollment should conflict, got %d", rr.Code)
	}

	var apiErr httperrors.APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "ALREADY_ENROLLED" {
		t.Fatalf("unexpected error code: %q", apiErr.Code)
	}
	if apiErr.Message != "You are already registered for this language!" {
		t.Fatalf("unexpected error message: %q", apiErr.Message)
	}
}

func TestEnrollRejectsUnknownLanguage(t *testing.T) {
	service := progresssvc.NewService(newStubProgressStore(), knownLanguageStore{})
	router := newProgressRouter(service)
	identity := authsvc.Identity{UserID: 1, SID: "sid-1", Role: "student"}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, enrollRequest(identity, `{"language_id":42}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown language should be rejected, got %d", rr.Code)
	}
}

func TestEnrollForbidsOtherUsersTarget(t *testing.T) {
	service := progresssvc.NewService(newStubProgressStore(), knownLanguageStore{})
	router := newProgressRouter(service)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, enrollRequest(authsvc.Identity{UserID: 2, SID: "sid-2", Role: "student"}, `{"language_id":7}`))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("student must not enroll another user, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, enrollRequest(authsvc.Identity{UserID: 2, SID: "sid-2", Role: "admin"}, `{"language_id":7}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("admin may enroll another user, got %d", rr.Code)
	}
}
