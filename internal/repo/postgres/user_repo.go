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

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailConflict = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	AuthProvider string
	IsPremium    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash, fullName, role, provider string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if strings.TrimSpace(role) == "" {
		role = "student"
	}
	if strings.TrimSpace(provider) == "" {
		provider = "local"
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, full_name, role, auth_provider, is_premium, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
RETURNING id, email, password_hash, full_name, role, auth_provider, is_premium, created_at, updated_at
`, email, passwordHash, strings.TrimSpace(fullName), role, provider).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.AuthProvider,
		&user.IsPremium,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return UserRecord{}, ErrEmailConflict
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, full_name, role, auth_provider, is_premium, created_at, updated_at
FROM users
WHERE id = $1
`, userID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.AuthProvider,
		&user.IsPremium,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return UserRecord{}, fmt.Errorf("invalid email")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, full_name, role, auth_provider, is_premium, created_at, updated_at
FROM users
WHERE email = $1
`, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.AuthProvider,
		&user.IsPremium,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

// GetOrCreateByEmail backs the OAuth login path: an existing row wins,
// otherwise a passwordless row is inserted with the given provider.
func (r *UserRepo) GetOrCreateByEmail(ctx context.Context, email, fullName, provider string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return UserRecord{}, fmt.Errorf("invalid email")
	}
	if strings.TrimSpace(provider) == "" {
		provider = "google"
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, full_name, role, auth_provider, is_premium, created_at, updated_at)
VALUES ($1, '', $2, 'student', $3, FALSE, NOW(), NOW())
ON CONFLICT (email) DO UPDATE SET
	updated_at = NOW()
RETURNING id, email, password_hash, full_name, role, auth_provider, is_premium, created_at, updated_at
`, email, strings.TrimSpace(fullName), provider).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.AuthProvider,
		&user.IsPremium,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return UserRecord{}, fmt.Errorf("get or create user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepo) Delete(ctx context.Context, userID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM users
WHERE id = $1
`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
