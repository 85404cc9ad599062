package progress

import (
	"context"
	"errors"
	"fmt"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyEnrolled = errors.New("already enrolled")
)

type ProgressStore interface {
	Create(ctx context.Context, userID, languageID int64) (pgrepo.ProgressRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]pgrepo.ProgressRecord, error)
	Find(ctx context.Context, userID, languageID int64) (pgrepo.ProgressRecord, error)
	Update(ctx context.Context, userID, languageID int64, percentage int, completed bool, lessons []string) (pgrepo.ProgressRecord, error)
}

type LanguageStore interface {
	FindByID(ctx context.Context, languageID int64) (pgrepo.LanguageRecord, error)
}

type Service struct {
	store     ProgressStore
	languages LanguageStore
}

// UpdateInput carries a partial progress update. Nil fields keep the
// stored value.
type UpdateInput struct {
	Percentage *int
	Completed  *bool
	Lessons    []string
}

func NewService(store ProgressStore, languages LanguageStore) *Service {
	return &Service{
		store:     store,
		languages: languages,
	}
}

func (s *Service) Enroll(ctx context.Context, userID, languageID int64) (pgrepo.ProgressRecord, error) {
	if userID <= 0 || languageID <= 0 {
		return pgrepo.ProgressRecord{}, fmt.Errorf("invalid enrollment ids: %w", ErrValidation)
	}

	if _, err := s.languages.FindByID(ctx, languageID); err != nil {
		if errors.Is(err, pgrepo.ErrLanguageNotFound) {
			return pgrepo.ProgressRecord{}, fmt.Errorf("language %d does not exist: %w", languageID, ErrValidation)
		}
		return pgrepo.ProgressRecord{}, fmt.Errorf("check enrollment language: %w", err)
	}

	record, err := s.store.Create(ctx, userID, languageID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrAlreadyEnrolled) {
			return pgrepo.ProgressRecord{}, ErrAlreadyEnrolled
		}
		return pgrepo.ProgressRecord{}, fmt.Errorf("create enrollment: %w", err)
	}
	return record, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]pgrepo.ProgressRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, userID, languageID int64) (pgrepo.ProgressRecord, error) {
	if userID <= 0 || languageID <= 0 {
		return pgrepo.ProgressRecord{}, fmt.Errorf("invalid progress ids: %w", ErrValidation)
	}

	record, err := s.store.Find(ctx, userID, languageID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProgressNotFound) {
			return pgrepo.ProgressRecord{}, ErrNotFound
		}
		return pgrepo.ProgressRecord{}, fmt.Errorf("find progress: %w", err)
	}
	return record, nil
}

// Update merges the provided fields over the stored row. A user must be
// enrolled first; there is no upsert path here.
func (s *Service) Update(ctx context.Context, userID, languageID int64, in UpdateInput) (pgrepo.ProgressRecord, error) {
	if userID <= 0 || languageID <= 0 {
		return pgrepo.ProgressRecord{}, fmt.Errorf("invalid progress ids: %w", ErrValidation)
	}
	if in.Percentage != nil && (*in.Percentage < 0 || *in.Percentage > 100) {
		return pgrepo.ProgressRecord{}, fmt.Errorf("percentage must be within [0,100]: %w", ErrValidation)
	}

	current, err := s.store.Find(ctx, userID, languageID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProgressNotFound) {
			return pgrepo.ProgressRecord{}, ErrNotFound
		}
		return pgrepo.ProgressRecord{}, fmt.Errorf("find progress: %w", err)
	}

	percentage := current.Percentage
	if in.Percentage != nil {
		percentage = *in.Percentage
	}
	completed := current.Completed
	if in.Completed != nil {
		completed = *in.Completed
	}
	lessons := current.Lessons
	if in.Lessons != nil {
		lessons = in.Lessons
	}
	if percentage == 100 && in.Completed == nil {
		completed = true
	}

	record, err := s.store.Update(ctx, userID, languageID, percentage, completed, lessons)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProgressNotFound) {
			return pgrepo.ProgressRecord{}, ErrNotFound
		}
		return pgrepo.ProgressRecord{}, fmt.Errorf("update progress: %w", err)
	}
	return record, nil
}
