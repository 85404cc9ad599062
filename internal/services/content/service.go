package content

import (
	"context"
	"errors"
	"fmt"

	aiinfra "github.com/harryrismananda/lingohub/backend/internal/infra/ai"
	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("generator unavailable")
)

const maxGeneratedQuestions = 20

type Generator interface {
	GenerateQuestions(ctx context.Context, courseTitle, languageName string, count int) ([]aiinfra.QuestionDraft, error)
}

type CourseStore interface {
	FindByID(ctx context.Context, courseID int64) (pgrepo.CourseRecord, error)
}

type LanguageStore interface {
	FindByID(ctx context.Context, languageID int64) (pgrepo.LanguageRecord, error)
}

type QuestionStore interface {
	Create(ctx context.Context, courseID int64, prompt string, options []string, answer string) (pgrepo.QuestionRecord, error)
}

type Service struct {
	generator Generator
	courses   CourseStore
	languages LanguageStore
	questions QuestionStore
}

func NewService(generator Generator, courses CourseStore, languages LanguageStore, questions QuestionStore) *Service {
	return &Service{
		generator: generator,
		courses:   courses,
		languages: languages,
		questions: questions,
	}
}

// GenerateQuestions asks the content generator for question drafts for a
// course and persists the usable ones. Drafts missing a prompt, an answer,
// or a plausible option set are skipped rather than failing the batch.
func (s *Service) GenerateQuestions(ctx context.Context, courseID int64, count int) ([]pgrepo.QuestionRecord, error) {
	if s.generator == nil {
		return nil, ErrUnavailable
	}
	if courseID <= 0 {
		return nil, fmt.Errorf("invalid course id: %w", ErrValidation)
	}
	if count <= 0 {
		count = 5
	}
	if count > maxGeneratedQuestions {
		count = maxGeneratedQuestions
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCourseNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}

	language, err := s.languages.FindByID(ctx, course.LanguageID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrLanguageNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find course language: %w", err)
	}

	drafts, err := s.generator.GenerateQuestions(ctx, course.Title, language.Name, count)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", ErrUnavailable)
	}

	created := make([]pgrepo.QuestionRecord, 0, len(drafts))
	for _, draft := range drafts {
		if !draftUsable(draft) {
			continue
		}
		record, err := s.questions.Create(ctx, course.ID, draft.Prompt, draft.Options, draft.Answer)
		if err != nil {
			return created, fmt.Errorf("store generated question: %w", err)
		}
		created = append(created, record)
	}

	if len(created) == 0 {
		return nil, fmt.Errorf("generator returned no usable drafts: %w", ErrUnavailable)
	}
	return created, nil
}

func draftUsable(draft aiinfra.QuestionDraft) bool {
	if draft.Prompt == "" || draft.Answer == "" || len(draft.Options) < 2 {
		return false
	}
	for _, option := range draft.Options {
		if option == draft.Answer {
			return true
		}
	}
	return false
}
