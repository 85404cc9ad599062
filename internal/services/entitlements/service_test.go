package entitlements_test

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	"github.com/harryrismananda/lingohub/backend/internal/services/entitlements"
)

type stubUserStore struct {
	known map[int64]pgrepo.UserRecord
}

func (s stubUserStore) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	user, ok := s.known[userID]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func TestIsPremium(t *testing.T) {
	svc := entitlements.NewService(stubUserStore{known: map[int64]pgrepo.UserRecord{
		1: {ID: 1, IsPremium: true},
		2: {ID: 2},
	}})
	ctx := context.Background()

	premium, err := svc.IsPremium(ctx, 1)
	if err != nil || !premium {
		t.Fatalf("user 1 should be premium, got premium=%v err=%v", premium, err)
	}

	premium, err = svc.IsPremium(ctx, 2)
	if err != nil || premium {
		t.Fatalf("user 2 should not be premium, got premium=%v err=%v", premium, err)
	}

	if _, err := svc.IsPremium(ctx, 3); !errors.Is(err, entitlements.ErrNotFound) {
		t.Fatalf("unknown user should be not found, got %v", err)
	}
}
