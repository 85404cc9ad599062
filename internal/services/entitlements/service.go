package entitlements

import (
	"context"
	"errors"
	"fmt"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
)

var ErrNotFound = errors.New("not found")

type UserStore interface {
	FindByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

// Service answers premium-gate checks. Reads go straight to the user
// row; there is no cache, so a webhook grant is visible on the next
// request.
type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

func (s *Service) IsPremium(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, ErrNotFound
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}

	return user.IsPremium, nil
}
