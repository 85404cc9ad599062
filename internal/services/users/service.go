package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

// 5 MiB. Avatars larger than that are rejected before touching storage.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type UserStore interface {
	FindByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	Delete(ctx context.Context, userID int64) error
}

type ProfileStore interface {
	FindByUserID(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
	Upsert(ctx context.Context, userID int64, displayName, bio string) (pgrepo.ProfileRecord, error)
	SetImageURL(ctx context.Context, userID int64, imageURL string) (pgrepo.ProfileRecord, error)
}

type ImageStorage interface {
	PutImage(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service struct {
	users    UserStore
	profiles ProfileStore
	storage  ImageStorage
}

type Account struct {
	User    pgrepo.UserRecord
	Profile *pgrepo.ProfileRecord
}

type ProfileInput struct {
	DisplayName string
	Bio         string
}

type ImageUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

func NewService(users UserStore, profiles ProfileStore, storage ImageStorage) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		storage:  storage,
	}
}

func (s *Service) Get(ctx context.Context, userID int64) (Account, error) {
	if userID <= 0 {
		return Account{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("find user: %w", err)
	}

	account := Account{User: user}
	profile, err := s.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		account.Profile = &profile
	case errors.Is(err, pgrepo.ErrProfileNotFound):
		// a user without a profile row is still a valid account
	default:
		return Account{}, fmt.Errorf("find profile: %w", err)
	}

	return account, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (pgrepo.ProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.ProfileRecord{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		return pgrepo.ProfileRecord{}, fmt.Errorf("display name is required: %w", ErrValidation)
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return pgrepo.ProfileRecord{}, ErrNotFound
		}
		return pgrepo.ProfileRecord{}, fmt.Errorf("find user: %w", err)
	}

	profile, err := s.profiles.Upsert(ctx, userID, displayName, strings.TrimSpace(in.Bio))
	if err != nil {
		return pgrepo.ProfileRecord{}, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

// SetProfileImage uploads the avatar to object storage under a fresh
// uuid key, then binds the resulting URL to the profile row. The row
// binding is transactional in the store so a concurrent first upload
// cannot create a duplicate profile.
func (s *Service) SetProfileImage(ctx context.Context, userID int64, upload ImageUpload) (pgrepo.ProfileRecord, error) {
	if userID <= 0 {
		return pgrepo.ProfileRecord{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if upload.Body == nil || upload.Size <= 0 {
		return pgrepo.ProfileRecord{}, fmt.Errorf("image body is required: %w", ErrValidation)
	}
	if upload.Size > MaxImageSize {
		return pgrepo.ProfileRecord{}, fmt.Errorf("image exceeds %d bytes: %w", MaxImageSize, ErrValidation)
	}
	ext, ok := allowedImageTypes[upload.ContentType]
	if !ok {
		return pgrepo.ProfileRecord{}, fmt.Errorf("unsupported content type %q: %w", upload.ContentType, ErrValidation)
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return pgrepo.ProfileRecord{}, ErrNotFound
		}
		return pgrepo.ProfileRecord{}, fmt.Errorf("find user: %w", err)
	}

	key := fmt.Sprintf("profiles/%d/%s%s", userID, uuid.NewString(), ext)
	if err := s.storage.PutImage(ctx, key, upload.Body, upload.Size, upload.ContentType); err != nil {
		return pgrepo.ProfileRecord{}, fmt.Errorf("upload profile image: %w", err)
	}

	imageURL, err := s.storage.PresignGet(ctx, key, 0)
	if err != nil {
		return pgrepo.ProfileRecord{}, fmt.Errorf("presign profile image: %w", err)
	}

	profile, err := s.profiles.SetImageURL(ctx, userID, imageURL)
	if err != nil {
		return pgrepo.ProfileRecord{}, fmt.Errorf("bind profile image: %w", err)
	}
	return profile, nil
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Authorize enforces owner-or-admin access to profile resources.
func Authorize(actorID int64, actorRole string, targetID int64) error {
	if actorID == targetID {
		return nil
	}
	if actorRole == "admin" {
		return nil
	}
	return ErrForbidden
}
