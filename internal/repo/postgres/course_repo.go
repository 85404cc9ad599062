package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCourseNotFound = errors.New("course not found")

type CourseRepo struct {
	pool *pgxpool.Pool
}

type CourseRecord struct {
	ID         int64
	LanguageID int64
	Title      string
	Content    string
	Level      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

func (r *CourseRepo) List(ctx context.Context) ([]CourseRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, language_id, title, content, level, created_at, updated_at
FROM courses
ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	return scanCourseRows(rows)
}

func (r *CourseRepo) ListByLanguage(ctx context.Context, languageID int64) ([]CourseRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if languageID <= 0 {
		return nil, fmt.Errorf("invalid language id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, language_id, title, content, level, created_at, updated_at
FROM courses
WHERE language_id = $1
ORDER BY id
`, languageID)
	if err != nil {
		return nil, fmt.Errorf("list courses by language: %w", err)
	}
	defer rows.Close()

	return scanCourseRows(rows)
}

func (r *CourseRepo) FindByID(ctx context.Context, courseID int64) (CourseRecord, error) {
	if r.pool == nil {
		return CourseRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if courseID <= 0 {
		return CourseRecord{}, fmt.Errorf("invalid course id")
	}

	var course CourseRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, language_id, title, content, level, created_at, updated_at
FROM courses
WHERE id = $1
`, courseID).Scan(
		&course.ID,
		&course.LanguageID,
		&course.Title,
		&course.Content,
		&course.Level,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CourseRecord{}, ErrCourseNotFound
		}
		return CourseRecord{}, fmt.Errorf("find course by id: %w", err)
	}

	return course, nil
}

func (r *CourseRepo) Create(ctx context.Context, languageID int64, title, content, level string) (CourseRecord, error) {
	if r.pool == nil {
		return CourseRecord{}, fmt.Errorf("postgres pool is nil")
	}

	title = strings.TrimSpace(title)
	if languageID <= 0 || title == "" {
		return CourseRecord{}, fmt.Errorf("invalid course payload")
	}
	if strings.TrimSpace(level) == "" {
		level = "beginner"
	}

	var course CourseRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO courses (language_id, title, content, level, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
RETURNING id, language_id, title, content, level, created_at, updated_at
`, languageID, title, content, level).Scan(
		&course.ID,
		&course.LanguageID,
		&course.Title,
		&course.Content,
		&course.Level,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return CourseRecord{}, fmt.Errorf("create course: %w", err)
	}

	return course, nil
}

func (r *CourseRepo) Update(ctx context.Context, courseID int64, title, content, level string) (CourseRecord, error) {
	if r.pool == nil {
		return CourseRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if courseID <= 0 || strings.TrimSpace(title) == "" {
		return CourseRecord{}, fmt.Errorf("invalid course payload")
	}

	var course CourseRecord
	err := r.pool.QueryRow(ctx, `
UPDATE courses
SET title = $2, content = $3, level = $4, updated_at = NOW()
WHERE id = $1
RETURNING id, language_id, title, content, level, created_at, updated_at
`, courseID, strings.TrimSpace(title), content, level).Scan(
		&course.ID,
		&course.LanguageID,
		&course.Title,
		&course.Content,
		&course.Level,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CourseRecord{}, ErrCourseNotFound
		}
		return CourseRecord{}, fmt.Errorf("update course: %w", err)
	}

	return course, nil
}

func (r *CourseRepo) Delete(ctx context.Context, courseID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if courseID <= 0 {
		return fmt.Errorf("invalid course id")
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM courses
WHERE id = $1
`, courseID)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}

	return nil
}

func scanCourseRows(rows pgx.Rows) ([]CourseRecord, error) {
	var out []CourseRecord
	for rows.Next() {
		var course CourseRecord
		if err := rows.Scan(
			&course.ID,
			&course.LanguageID,
			&course.Title,
			&course.Content,
			&course.Level,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		out = append(out, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course rows: %w", err)
	}
	return out, nil
}
