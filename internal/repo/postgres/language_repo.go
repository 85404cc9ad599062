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

var ErrLanguageNotFound = errors.New("language not found")

type LanguageRepo struct {
	pool *pgxpool.Pool
}

type LanguageRecord struct {
	ID        int64
	Name      string
	Code      string
	FlagURL   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewLanguageRepo(pool *pgxpool.Pool) *LanguageRepo {
	return &LanguageRepo{pool: pool}
}

func (r *LanguageRepo) List(ctx context.Context) ([]LanguageRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, code, flag_url, created_at, updated_at
FROM languages
ORDER BY name
`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var out []LanguageRecord
	for rows.Next() {
		var lang LanguageRecord
		if err := rows.Scan(&lang.ID, &lang.Name, &lang.Code, &lang.FlagURL, &lang.CreatedAt, &lang.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan language row: %w", err)
		}
		out = append(out, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate language rows: %w", err)
	}

	return out, nil
}

func (r *LanguageRepo) FindByID(ctx context.Context, languageID int64) (LanguageRecord, error) {
	if r.pool == nil {
		return LanguageRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if languageID <= 0 {
		return LanguageRecord{}, fmt.Errorf("invalid language id")
	}

	var lang LanguageRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, name, code, flag_url, created_at, updated_at
FROM languages
WHERE id = $1
`, languageID).Scan(&lang.ID, &lang.Name, &lang.Code, &lang.FlagURL, &lang.CreatedAt, &lang.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LanguageRecord{}, ErrLanguageNotFound
		}
		return LanguageRecord{}, fmt.Errorf("find language by id: %w", err)
	}

	return lang, nil
}

func (r *LanguageRepo) Create(ctx context.Context, name, code string, flagURL *string) (LanguageRecord, error) {
	if r.pool == nil {
		return LanguageRecord{}, fmt.Errorf("postgres pool is nil")
	}

	name = strings.TrimSpace(name)
	code = strings.ToLower(strings.TrimSpace(code))
	if name == "" {
		return LanguageRecord{}, fmt.Errorf("invalid language payload")
	}

	var lang LanguageRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO languages (name, code, flag_url, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING id, name, code, flag_url, created_at, updated_at
`, name, code, flagURL).Scan(&lang.ID, &lang.Name, &lang.Code, &lang.FlagURL, &lang.CreatedAt, &lang.UpdatedAt)
	if err != nil {
		return LanguageRecord{}, fmt.Errorf("create language: %w", err)
	}

	return lang, nil
}

func (r *LanguageRepo) Delete(ctx context.Context, languageID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if languageID <= 0 {
		return fmt.Errorf("invalid language id")
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM languages
WHERE id = $1
`, languageID)
	if err != nil {
		return fmt.Errorf("delete language: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLanguageNotFound
	}

	return nil
}
