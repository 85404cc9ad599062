package progress_test

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	"github.com/harryrismananda/lingohub/backend/internal/services/progress"
)

func TestEnrollOnce(t *testing.T) {
	svc, store := newProgressServiceForTest()
	ctx := context.Background()

	record, err := svc.Enroll(ctx, 1, 7)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if record.Percentage != 0 || record.Completed {
		t.Fatalf("fresh enrollment should start empty, got %+v", record)
	}

	if _, err := svc.Enroll(ctx, 1, 7); !errors.Is(err, progress.ErrAlreadyEnrolled) {
		t.Fatalf("second enrollment should be rejected, got %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("first record must stay untouched, got %d records", len(store.records))
	}

	if _, err := svc.Enroll(ctx, 1, 999); !errors.Is(err, progress.ErrValidation) {
		t.Fatalf("unknown language should be a validation error, got %v", err)
	}
}

func TestUpdateMergesPartialPayload(t *testing.T) {
	svc, _ := newProgressServiceForTest()
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, 1, 7); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	fifty := 50
	updated, err := svc.Update(ctx, 1, 7, progress.UpdateInput{
		Percentage: &fifty,
		Lessons:    []string{"intro", "numbers"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Percentage != 50 || updated.Completed {
		t.Fatalf("unexpected merge result: %+v", updated)
	}

	done := true
	updated, err = svc.Update(ctx, 1, 7, progress.UpdateInput{Completed: &done})
	if err != nil {
		t.Fatalf("update completed: %v", err)
	}
	if updated.Percentage != 50 {
		t.Fatalf("percentage should be kept on partial update, got %d", updated.Percentage)
	}
	if !updated.Completed {
		t.Fatalf("completed flag should be set")
	}
	if len(updated.Lessons) != 2 {
		t.Fatalf("lessons should be kept on partial update, got %v", updated.Lessons)
	}
}

func TestUpdateFullPercentageMarksCompleted(t *testing.T) {
	svc, _ := newProgressServiceForTest()
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, 1, 7); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	hundred := 100
	updated, err := svc.Update(ctx, 1, 7, progress.UpdateInput{Percentage: &hundred})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed {
		t.Fatalf("reaching 100%% should mark the enrollment completed")
	}
}

func TestUpdateRequiresEnrollment(t *testing.T) {
	svc, _ := newProgressServiceForTest()

	ten := 10
	if _, err := svc.Update(context.Background(), 1, 7, progress.UpdateInput{Percentage: &ten}); !errors.Is(err, progress.ErrNotFound) {
		t.Fatalf("update without enrollment should be not found, got %v", err)
	}
}

func TestUpdatePercentageBounds(t *testing.T) {
	svc, _ := newProgressServiceForTest()
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, 1, 7); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	over := 101
	if _, err := svc.Update(ctx, 1, 7, progress.UpdateInput{Percentage: &over}); !errors.Is(err, progress.ErrValidation) {
		t.Fatalf("out-of-range percentage should be a validation error, got %v", err)
	}
}

func newProgressServiceForTest() (*progress.Service, *memProgressStore) {
	store := &memProgressStore{}
	languages := stubLanguageStore{known: map[int64]pgrepo.LanguageRecord{7: {ID: 7, Name: "Spanish", Code: "es"}}}
	return progress.NewService(store, languages), store
}

type stubLanguageStore struct {
	known map[int64]pgrepo.LanguageRecord
}

func (s stubLanguageStore) FindByID(_ context.Context, languageID int64) (pgrepo.LanguageRecord, error) {
	record, ok := s.known[languageID]
	if !ok {
		return pgrepo.LanguageRecord{}, pgrepo.ErrLanguageNotFound
	}
	return record, nil
}

type memProgressStore struct {
	nextID  int64
	records []pgrepo.ProgressRecord
}

func (s *memProgressStore) Create(_ context.Context, userID, languageID int64) (pgrepo.ProgressRecord, error) {
	for _, record := range s.records {
		if record.UserID == userID && record.LanguageID == languageID {
			return pgrepo.ProgressRecord{}, pgrepo.ErrAlreadyEnrolled
		}
	}
	s.nextID++
	record := pgrepo.ProgressRecord{ID: s.nextID, UserID: userID, LanguageID: languageID}
	s.records = append(s.records, record)
	return record, nil
}

func (s *memProgressStore) ListByUser(_ context.Context, userID int64) ([]pgrepo.ProgressRecord, error) {
	var out []pgrepo.ProgressRecord
	for _, record := range s.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *memProgressStore) Find(_ context.Context, userID, languageID int64) (pgrepo.ProgressRecord, error) {
	for _, record := range s.records {
		if record.UserID == userID && record.LanguageID == languageID {
			return record, nil
		}
	}
	return pgrepo.ProgressRecord{}, pgrepo.ErrProgressNotFound
}

func (s *memProgressStore) Update(_ context.Context, userID, languageID int64, percentage int, completed bool, lessons []string) (pgrepo.ProgressRecord, error) {
	for i, record := range s.records {
		if record.UserID == userID && record.LanguageID == languageID {
			record.Percentage = percentage
			record.Completed = completed
			record.Lessons = lessons
			s.records[i] = record
			return record, nil
		}
	}
	return pgrepo.ProgressRecord{}, pgrepo.ErrProgressNotFound
}
