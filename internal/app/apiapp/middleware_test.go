package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	authsvc "github.com/harryrismananda/lingohub/backend/internal/services/auth"
	entsvc "github.com/harryrismananda/lingohub/backend/internal/services/entitlements"
)

func TestRequireRoleAllowsCaseInsensitiveMatch(t *testing.T) {
	mw := RequireRole("admin")

	req := httptest.NewRequest(http.MethodPost, "/languages", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 1,
		SID:    "sid-1",
		Role:   "ADMIN",
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestRequireRoleRejectsForbiddenRole(t *testing.T) {
	mw := RequireRole("admin")

	req := httptest.NewRequest(http.MethodPost, "/languages", nil)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: 2,
		SID:    "sid-2",
		Role:   "student",
	}))
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called for forbidden role")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRequireRoleRejectsMissingIdentity(t *testing.T) {
	mw := RequireRole("admin")

	req := httptest.NewRequest(http.MethodPost, "/languages", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without identity")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

type premiumUserStore struct {
	known map[int64]pgrepo.UserRecord
}

func (s premiumUserStore) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	user, ok := s.known[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func TestRequirePremiumGate(t *testing.T) {
	entitlements := entsvc.NewService(premiumUserStore{known: map[int64]pgrepo.UserRecord{
		1: {ID: 1, IsPremium: true},
		2: {ID: 2},
	}})
	mw := RequirePremium(entitlements)

	call := func(identity *authsvc.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/courses/1", nil)
		if identity != nil {
			req = req.WithContext(authsvc.WithIdentity(context.Background(), *identity))
		}
		rr := httptest.NewRecorder()
		mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})).ServeHTTP(rr, req)
		return rr
	}

	if rr := call(&authsvc.Identity{UserID: 1, SID: "s1", Role: "student"}); rr.Code != http.StatusNoContent {
		t.Fatalf("premium student should pass, got %d", rr.Code)
	}
	if rr := call(&authsvc.Identity{UserID: 2, SID: "s2", Role: "student"}); rr.Code != http.StatusForbidden {
		t.Fatalf("non-premium student should be forbidden, got %d", rr.Code)
	}
	if rr := call(&authsvc.Identity{UserID: 99, SID: "s3", Role: "admin"}); rr.Code != http.StatusNoContent {
		t.Fatalf("admin should bypass the premium gate, got %d", rr.Code)
	}
	if rr := call(nil); rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request should be unauthorized, got %d", rr.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if token, ok := extractBearerToken("Bearer abc123"); !ok || token != "abc123" {
		t.Fatalf("unexpected result: %q %v", token, ok)
	}
	if _, ok := extractBearerToken("bearer abc123"); !ok {
		t.Fatalf("scheme match should be case-insensitive")
	}
	if _, ok := extractBearerToken("Token abc123"); ok {
		t.Fatalf("non-bearer scheme should be rejected")
	}
	if _, ok := extractBearerToken(""); ok {
		t.Fatalf("empty header should be rejected")
	}
}
