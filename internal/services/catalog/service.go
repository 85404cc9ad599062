package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "github.com/harryrismananda/lingohub/backend/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type LanguageStore interface {
	List(ctx context.Context) ([]pgrepo.LanguageRecord, error)
	FindByID(ctx context.Context, languageID int64) (pgrepo.LanguageRecord, error)
	Create(ctx context.Context, name, code string, flagURL *string) (pgrepo.LanguageRecord, error)
	Delete(ctx context.Context, languageID int64) error
}

type CourseStore interface {
	List(ctx context.Context) ([]pgrepo.CourseRecord, error)
	ListByLanguage(ctx context.Context, languageID int64) ([]pgrepo.CourseRecord, error)
	FindByID(ctx context.Context, courseID int64) (pgrepo.CourseRecord, error)
	Create(ctx context.Context, languageID int64, title, content, level string) (pgrepo.CourseRecord, error)
	Update(ctx context.Context, courseID int64, title, content, level string) (pgrepo.CourseRecord, error)
	Delete(ctx context.Context, courseID int64) error
}

type QuestionStore interface {
	List(ctx context.Context) ([]pgrepo.QuestionRecord, error)
	ListByCourse(ctx context.Context, courseID int64) ([]pgrepo.QuestionRecord, error)
	FindByID(ctx context.Context, questionID int64) (pgrepo.QuestionRecord, error)
	Create(ctx context.Context, courseID int64, prompt string, options []string, answer string) (pgrepo.QuestionRecord, error)
	Update(ctx context.Context, questionID int64, prompt string, options []string, answer string) (pgrepo.QuestionRecord, error)
	Delete(ctx context.Context, questionID int64) error
}

type Service struct {
	languages LanguageStore
	courses   CourseStore
	questions QuestionStore
}

type CourseInput struct {
	LanguageID int64
	Title      string
	Content    string
	Level      string
}

type QuestionInput struct {
	CourseID int64
	Prompt   string
	Options  []string
	Answer   string
}

func NewService(languages LanguageStore, courses CourseStore, questions QuestionStore) *Service {
	return &Service{
		languages: languages,
		courses:   courses,
		questions: questions,
	}
}

func (s *Service) ListLanguages(ctx context.Context) ([]pgrepo.LanguageRecord, error) {
	records, err := s.languages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	return records, nil
}

func (s *Service) GetLanguage(ctx context.Context, languageID int64) (pgrepo.LanguageRecord, error) {
	if languageID <= 0 {
		return pgrepo.LanguageRecord{}, fmt.Errorf("invalid language id: %w", ErrValidation)
	}

	record, err := s.languages.FindByID(ctx, languageID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrLanguageNotFound) {
			return pgrepo.LanguageRecord{}, ErrNotFound
		}
		return pgrepo.LanguageRecord{}, fmt.Errorf("find language: %w", err)
	}
	return record, nil
}

func (s *Service) CreateLanguage(ctx context.Context, name, code string, flagURL *string) (pgrepo.LanguageRecord, error) {
	name = strings.TrimSpace(name)
	code = strings.ToLower(strings.TrimSpace(code))
	if name == "" {
		return pgrepo.LanguageRecord{}, fmt.Errorf("language name is required: %w", ErrValidation)
	}

	record, err := s.languages.Create(ctx, name, code, flagURL)
	if err != nil {
		return pgrepo.LanguageRecord{}, fmt.Errorf("create language: %w", err)
	}
	return record, nil
}

func (s *Service) DeleteLanguage(ctx context.Context, languageID int64) error {
	if languageID <= 0 {
		return fmt.Errorf("invalid language id: %w", ErrValidation)
	}

	if err := s.languages.Delete(ctx, languageID); err != nil {
		if errors.Is(err, pgrepo.ErrLanguageNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete language: %w", err)
	}
	return nil
}

func (s *Service) ListCourses(ctx context.Context) ([]pgrepo.CourseRecord, error) {
	records, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return records, nil
}

func (s *Service) ListCoursesByLanguage(ctx context.Context, languageID int64) ([]pgrepo.CourseRecord, error) {
	if languageID <= 0 {
		return nil, fmt.Errorf("invalid language id: %w", ErrValidation)
	}

	records, err := s.courses.ListByLanguage(ctx, languageID)
	if err != nil {
		return nil, fmt.Errorf("list courses by language: %w", err)
	}
	return records, nil
}

func (s *Service) GetCourse(ctx context.Context, courseID int64) (pgrepo.CourseRecord, error) {
	if courseID <= 0 {
		return pgrepo.CourseRecord{}, fmt.Errorf("invalid course id: %w", ErrValidation)
	}

	record, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCourseNotFound) {
			return pgrepo.CourseRecord{}, ErrNotFound
		}
		return pgrepo.CourseRecord{}, fmt.Errorf("find course: %w", err)
	}
	return record, nil
}

func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (pgrepo.CourseRecord, error) {
	normalized, err := normalizeCourseInput(in)
	if err != nil {
		return pgrepo.CourseRecord{}, err
	}
	if normalized.LanguageID <= 0 {
		return pgrepo.CourseRecord{}, fmt.Errorf("invalid language id: %w", ErrValidation)
	}

	if _, err := s.languages.FindByID(ctx, normalized.LanguageID); err != nil {
		if errors.Is(err, pgrepo.ErrLanguageNotFound) {
			return pgrepo.CourseRecord{}, fmt.Errorf("language %d does not exist: %w", normalized.LanguageID, ErrValidation)
		}
		return pgrepo.CourseRecord{}, fmt.Errorf("check course language: %w", err)
	}

	record, err := s.courses.Create(ctx, normalized.LanguageID, normalized.Title, normalized.Content, normalized.Level)
	if err != nil {
		return pgrepo.CourseRecord{}, fmt.Errorf("create course: %w", err)
	}
	return record, nil
}

func (s *Service) UpdateCourse(ctx context.Context, courseID int64, in CourseInput) (pgrepo.CourseRecord, error) {
	if courseID <= 0 {
		return pgrepo.CourseRecord{}, fmt.Errorf("invalid course id: %w", ErrValidation)
	}
	normalized, err := normalizeCourseInput(in)
	if err != nil {
		return pgrepo.CourseRecord{}, err
	}

	record, err := s.courses.Update(ctx, courseID, normalized.Title, normalized.Content, normalized.Level)
	if err != nil {
		if errors.Is(err, pgrepo.ErrCourseNotFound) {
			return pgrepo.CourseRecord{}, ErrNotFound
		}
		return pgrepo.CourseRecord{}, fmt.Errorf("update course: %w", err)
	}
	return record, nil
}

func (s *Service) DeleteCourse(ctx context.Context, courseID int64) error {
	if courseID <= 0 {
		return fmt.Errorf("invalid course id: %w", ErrValidation)
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		if errors.Is(err, pgrepo.ErrCourseNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

func (s *Service) ListQuestions(ctx context.Context) ([]pgrepo.QuestionRecord, error) {
	records, err := s.questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return records, nil
}

func (s *Service) ListQuestionsByCourse(ctx context.Context, courseID int64) ([]pgrepo.QuestionRecord, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("invalid course id: %w", ErrValidation)
	}

	records, err := s.questions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list questions by course: %w", err)
	}
	return records, nil
}

func (s *Service) GetQuestion(ctx context.Context, questionID int64) (pgrepo.QuestionRecord, error) {
	if questionID <= 0 {
		return pgrepo.QuestionRecord{}, fmt.Errorf("invalid question id: %w", ErrValidation)
	}

	record, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrQuestionNotFound) {
			return pgrepo.QuestionRecord{}, ErrNotFound
		}
		return pgrepo.QuestionRecord{}, fmt.Errorf("find question: %w", err)
	}
	return record, nil
}

func (s *Service) CreateQuestion(ctx context.Context, in QuestionInput) (pgrepo.QuestionRecord, error) {
	normalized, err := normalizeQuestionInput(in)
	if err != nil {
		return pgrepo.QuestionRecord{}, err
	}
	if normalized.CourseID <= 0 {
		return pgrepo.QuestionRecord{}, fmt.Errorf("invalid course id: %w", ErrValidation)
	}

	if _, err := s.courses.FindByID(ctx, normalized.CourseID); err != nil {
		if errors.Is(err, pgrepo.ErrCourseNotFound) {
			return pgrepo.QuestionRecord{}, fmt.Errorf("course %d does not exist: %w", normalized.CourseID, ErrValidation)
		}
		return pgrepo.QuestionRecord{}, fmt.Errorf("check question course: %w", err)
	}

	record, err := s.questions.Create(ctx, normalized.CourseID, normalized.Prompt, normalized.Options, normalized.Answer)
	if err != nil {
		return pgrepo.QuestionRecord{}, fmt.Errorf("create question: %w", err)
	}
	return record, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, questionID int64, in QuestionInput) (pgrepo.QuestionRecord, error) {
	if questionID <= 0 {
		return pgrepo.QuestionRecord{}, fmt.Errorf("invalid question id: %w", ErrValidation)
	}
	normalized, err := normalizeQuestionInput(in)
	if err != nil {
		return pgrepo.QuestionRecord{}, err
	}

	record, err := s.questions.Update(ctx, questionID, normalized.Prompt, normalized.Options, normalized.Answer)
	if err != nil {
		if errors.Is(err, pgrepo.ErrQuestionNotFound) {
			return pgrepo.QuestionRecord{}, ErrNotFound
		}
		return pgrepo.QuestionRecord{}, fmt.Errorf("update question: %w", err)
	}
	return record, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, questionID int64) error {
	if questionID <= 0 {
		return fmt.Errorf("invalid question id: %w", ErrValidation)
	}

	if err := s.questions.Delete(ctx, questionID); err != nil {
		if errors.Is(err, pgrepo.ErrQuestionNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

func normalizeCourseInput(in CourseInput) (CourseInput, error) {
	out := CourseInput{
		LanguageID: in.LanguageID,
		Title:      strings.TrimSpace(in.Title),
		Content:    strings.TrimSpace(in.Content),
		Level:      strings.ToLower(strings.TrimSpace(in.Level)),
	}

	if out.Title == "" {
		return CourseInput{}, fmt.Errorf("course title is required: %w", ErrValidation)
	}
	if out.Content == "" {
		return CourseInput{}, fmt.Errorf("course content is required: %w", ErrValidation)
	}

	return out, nil
}

func normalizeQuestionInput(in QuestionInput) (QuestionInput, error) {
	out := QuestionInput{
		CourseID: in.CourseID,
		Prompt:   strings.TrimSpace(in.Prompt),
		Answer:   strings.TrimSpace(in.Answer),
	}

	if out.Prompt == "" {
		return QuestionInput{}, fmt.Errorf("question prompt is required: %w", ErrValidation)
	}
	if out.Answer == "" {
		return QuestionInput{}, fmt.Errorf("question answer is required: %w", ErrValidation)
	}

	options := make([]string, 0, len(in.Options))
	for _, option := range in.Options {
		option = strings.TrimSpace(option)
		if option == "" {
			return QuestionInput{}, fmt.Errorf("empty question option: %w", ErrValidation)
		}
		options = append(options, option)
	}
	if len(options) < 2 {
		return QuestionInput{}, fmt.Errorf("at least two options are required: %w", ErrValidation)
	}
	out.Options = options

	return out, nil
}
