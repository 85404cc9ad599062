package content_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	aiinfra "github.com/harryrismananda/lingohub/backend/internal/infra/ai"
	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
	"github.com/harryrismananda/lingohub/backend/internal/services/content"
)

func TestGenerateQuestionsSkipsBrokenDrafts(t *testing.T) {
	generator := &stubGenerator{drafts: []aiinfra.QuestionDraft{
		{Prompt: "How do you say hello?", Options: []string{"hola", "adios"}, Answer: "hola"},
		{Prompt: "", Options: []string{"a", "b"}, Answer: "a"},
		{Prompt: "Answer not in options", Options: []string{"x", "y"}, Answer: "z"},
		{Prompt: "How do you say goodbye?", Options: []string{"hola", "adios"}, Answer: "adios"},
	}}
	questions := &recordingQuestionStore{}
	svc := newContentServiceForTest(generator, questions)

	created, err := svc.GenerateQuestions(context.Background(), 1, 4)
	if err != nil {
		t.Fatalf("generate questions: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 usable drafts persisted, got %d", len(created))
	}
	if questions.created != 2 {
		t.Fatalf("expected 2 store calls, got %d", questions.created)
	}
}

func TestGenerateQuestionsGeneratorFailure(t *testing.T) {
	generator := &stubGenerator{err: fmt.Errorf("upstream 500")}
	svc := newContentServiceForTest(generator, &recordingQuestionStore{})

	if _, err := svc.GenerateQuestions(context.Background(), 1, 3); !errors.Is(err, content.ErrUnavailable) {
		t.Fatalf("generator failure should be unavailable, got %v", err)
	}
}

func TestGenerateQuestionsUnknownCourse(t *testing.T) {
	svc := newContentServiceForTest(&stubGenerator{}, &recordingQuestionStore{})

	if _, err := svc.GenerateQuestions(context.Background(), 42, 3); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("unknown course should be not found, got %v", err)
	}
}

func TestGenerateQuestionsNoUsableDrafts(t *testing.T) {
	generator := &stubGenerator{drafts: []aiinfra.QuestionDraft{
		{Prompt: "", Options: nil, Answer: ""},
	}}
	svc := newContentServiceForTest(generator, &recordingQuestionStore{})

	if _, err := svc.GenerateQuestions(context.Background(), 1, 3); !errors.Is(err, content.ErrUnavailable) {
		t.Fatalf("empty batch should be unavailable, got %v", err)
	}
}

func newContentServiceForTest(generator content.Generator, questions content.QuestionStore) *content.Service {
	courses := stubCourseStore{record: pgrepo.CourseRecord{ID: 1, LanguageID: 7, Title: "Basics"}}
	languages := stubLanguageStore{record: pgrepo.LanguageRecord{ID: 7, Name: "Spanish", Code: "es"}}
	return content.NewService(generator, courses, languages, questions)
}

type stubGenerator struct {
	drafts []aiinfra.QuestionDraft
	err    error
}

func (g *stubGenerator) GenerateQuestions(_ context.Context, _, _ string, _ int) ([]aiinfra.QuestionDraft, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.drafts, nil
}

type stubCourseStore struct {
	record pgrepo.CourseRecord
}

func (s stubCourseStore) FindByID(_ context.Context, courseID int64) (pgrepo.CourseRecord, error) {
	if courseID != s.record.ID {
		return pgrepo.CourseRecord{}, pgrepo.ErrCourseNotFound
	}
	return s.record, nil
}

type stubLanguageStore struct {
	record pgrepo.LanguageRecord
}

func (s stubLanguageStore) FindByID(_ context.Context, languageID int64) (pgrepo.LanguageRecord, error) {
	if languageID != s.record.ID {
		return pgrepo.LanguageRecord{}, pgrepo.ErrLanguageNotFound
	}
	return s.record, nil
}

type recordingQuestionStore struct {
	created int
}

func (s *recordingQuestionStore) Create(_ context.Context, courseID int64, prompt string, options []string, answer string) (pgrepo.QuestionRecord, error) {
	s.created++
	return pgrepo.QuestionRecord{ID: int64(s.created), CourseID: courseID, Prompt: prompt, Options: options, Answer: answer}, nil
}
