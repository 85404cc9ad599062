package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProgressNotFound = errors.New("progress not found")
	ErrAlreadyEnrolled  = errors.New("already enrolled")
)

type ProgressRepo struct {
	pool *pgxpool.Pool
}

type ProgressRecord struct {
	ID         int64
	UserID     int64
	LanguageID int64
	Percentage int
	Completed  bool
	Lessons    []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewProgressRepo(pool *pgxpool.Pool) *ProgressRepo {
	return &ProgressRepo{pool: pool}
}

// Create inserts the enrollment row. The (user_id, language_id) pair
// is unique, so a second enrollment surfaces as ErrAlreadyEnrolled and
// the first row is left untouched.
func (r *ProgressRepo) Create(ctx context.Context, userID, languageID int64) (ProgressRecord, error) {
	if r.pool == nil {
		return ProgressRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || languageID <= 0 {
		return ProgressRecord{}, fmt.Errorf("invalid enrollment payload")
	}

	rec, err := scanProgressRow(r.pool.QueryRow(ctx, `
INSERT INTO user_progress (user_id, language_id, percentage, completed, lessons, created_at, updated_at)
VALUES ($1, $2, 0, FALSE, '[]'::jsonb, NOW(), NOW())
RETURNING id, user_id, language_id, percentage, completed, lessons, created_at, updated_at
`, userID, languageID))
	if err != nil {
		if isUniqueViolation(err) {
			return ProgressRecord{}, ErrAlreadyEnrolled
		}
		return ProgressRecord{}, fmt.Errorf("create progress: %w", err)
	}

	return rec, nil
}

func (r *ProgressRepo) ListByUser(ctx context.Context, userID int64) ([]ProgressRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, language_id, percentage, completed, lessons, created_at, updated_at
FROM user_progress
WHERE user_id = $1
ORDER BY language_id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress by user: %w", err)
	}
	defer rows.Close()

	var out []ProgressRecord
	for rows.Next() {
		rec, err := scanProgressRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress rows: %w", err)
	}

	return out, nil
}

func (r *ProgressRepo) Find(ctx context.Context, userID, languageID int64) (ProgressRecord, error) {
	if r.pool == nil {
		return ProgressRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || languageID <= 0 {
		return ProgressRecord{}, fmt.Errorf("invalid progress lookup")
	}

	rec, err := scanProgressRow(r.pool.QueryRow(ctx, `
SELECT id, user_id, language_id, percentage, completed, lessons, created_at, updated_at
FROM user_progress
WHERE user_id = $1 AND language_id = $2
`, userID, languageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProgressRecord{}, ErrProgressNotFound
		}
		return ProgressRecord{}, fmt.Errorf("find progress: %w", err)
	}

	return rec, nil
}

func (r *ProgressRepo) Update(ctx context.Context, userID, languageID int64, percentage int, completed bool, lessons []string) (ProgressRecord, error) {
	if r.pool == nil {
		return ProgressRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || languageID <= 0 {
		return ProgressRecord{}, fmt.Errorf("invalid progress payload")
	}
	if lessons == nil {
		lessons = []string{}
	}

	lessonsJSON, err := json.Marshal(lessons)
	if err != nil {
		return ProgressRecord{}, fmt.Errorf("marshal lessons: %w", err)
	}

	rec, err := scanProgressRow(r.pool.QueryRow(ctx, `
UPDATE user_progress
SET percentage = $3, completed = $4, lessons = $5::jsonb, updated_at = NOW()
WHERE user_id = $1 AND language_id = $2
RETURNING id, user_id, language_id, percentage, completed, lessons, created_at, updated_at
`, userID, languageID, percentage, completed, string(lessonsJSON)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProgressRecord{}, ErrProgressNotFound
		}
		return ProgressRecord{}, fmt.Errorf("update progress: %w", err)
	}

	return rec, nil
}

func scanProgressRow(row pgx.Row) (ProgressRecord, error) {
	var rec ProgressRecord
	var lessonsRaw []byte
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.LanguageID,
		&rec.Percentage,
		&rec.Completed,
		&lessonsRaw,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return ProgressRecord{}, err
	}
	if len(lessonsRaw) > 0 {
		_ = json.Unmarshal(lessonsRaw, &rec.Lessons)
	}
	return rec, nil
}
