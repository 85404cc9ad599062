package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrQuestionNotFound = errors.New("question not found")

type QuestionRepo struct {
	pool *pgxpool.Pool
}

type QuestionRecord struct {
	ID        int64
	CourseID  int64
	Prompt    string
	Options   []string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

func (r *QuestionRepo) List(ctx context.Context) ([]QuestionRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, course_id, prompt, options, answer, created_at, updated_at
FROM questions
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	return scanQuestionRows(rows)
}

func (r *QuestionRepo) ListByCourse(ctx context.Context, courseID int64) ([]QuestionRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if courseID <= 0 {
		return nil, fmt.Errorf("invalid course id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, course_id, prompt, options, answer, created_at, updated_at
FROM questions
WHERE course_id = $1
ORDER BY id
`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list questions by course: %w", err)
	}
	defer rows.Close()

	return scanQuestionRows(rows)
}

func (r *QuestionRepo) FindByID(ctx context.Context, questionID int64) (QuestionRecord, error) {
	if r.pool == nil {
		return QuestionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if questionID <= 0 {
		return QuestionRecord{}, fmt.Errorf("invalid question id")
	}

	rec, err := scanQuestionRow(r.pool.QueryRow(ctx, `
SELECT id, course_id, prompt, options, answer, created_at, updated_at
FROM questions
WHERE id = $1
`, questionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QuestionRecord{}, ErrQuestionNotFound
		}
		return QuestionRecord{}, fmt.Errorf("find question by id: %w", err)
	}

	return rec, nil
}

func (r *QuestionRepo) Create(ctx context.Context, courseID int64, prompt string, options []string, answer string) (QuestionRecord, error) {
	if r.pool == nil {
		return QuestionRecord{}, fmt.Errorf("postgres pool is nil")
	}

	prompt = strings.TrimSpace(prompt)
	answer = strings.TrimSpace(answer)
	if courseID <= 0 || prompt == "" || len(options) == 0 || answer == "" {
		return QuestionRecord{}, fmt.Errorf("invalid question payload")
	}

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return QuestionRecord{}, fmt.Errorf("marshal question options: %w", err)
	}

	rec, err := scanQuestionRow(r.pool.QueryRow(ctx, `
INSERT INTO questions (course_id, prompt, options, answer, created_at, updated_at)
VALUES ($1, $2, $3::jsonb, $4, NOW(), NOW())
RETURNING id, course_id, prompt, options, answer, created_at, updated_at
`, courseID, prompt, string(optionsJSON), answer))
	if err != nil {
		return QuestionRecord{}, fmt.Errorf("create question: %w", err)
	}

	return rec, nil
}

func (r *QuestionRepo) Update(ctx context.Context, questionID int64, prompt string, options []string, answer string) (QuestionRecord, error) {
	if r.pool == nil {
		return QuestionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if questionID <= 0 || strings.TrimSpace(prompt) == "" || len(options) == 0 {
		return QuestionRecord{}, fmt.Errorf("invalid question payload")
	}

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return QuestionRecord{}, fmt.Errorf("marshal question options: %w", err)
	}

	rec, err := scanQuestionRow(r.pool.QueryRow(ctx, `
UPDATE questions
SET prompt = $2, options = $3::jsonb, answer = $4, updated_at = NOW()
WHERE id = $1
RETURNING id, course_id, prompt, options, answer, created_at, updated_at
`, questionID, strings.TrimSpace(prompt), string(optionsJSON), strings.TrimSpace(answer)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QuestionRecord{}, ErrQuestionNotFound
		}
		return QuestionRecord{}, fmt.Errorf("update question: %w", err)
	}

	return rec, nil
}

func (r *QuestionRepo) Delete(ctx context.Context, questionID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if questionID <= 0 {
		return fmt.Errorf("invalid question id")
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM questions
WHERE id = $1
`, questionID)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}

	return nil
}

func scanQuestionRow(row pgx.Row) (QuestionRecord, error) {
	var rec QuestionRecord
	var optionsRaw []byte
	if err := row.Scan(
		&rec.ID,
		&rec.CourseID,
		&rec.Prompt,
		&optionsRaw,
		&rec.Answer,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return QuestionRecord{}, err
	}
	if len(optionsRaw) > 0 {
		_ = json.Unmarshal(optionsRaw, &rec.Options)
	}
	return rec, nil
}

func scanQuestionRows(rows pgx.Rows) ([]QuestionRecord, error) {
	var out []QuestionRecord
	for rows.Next() {
		rec, err := scanQuestionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question rows: %w", err)
	}
	return out, nil
}
