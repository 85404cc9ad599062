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

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	ID          int64
	UserID      int64
	DisplayName string
	Bio         string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID int64) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}

	var profile ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, display_name, bio, image_url, created_at, updated_at
FROM profiles
WHERE user_id = $1
`, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.ImageURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("find profile by user id: %w", err)
	}

	return profile, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, userID int64, displayName, bio string) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}

	var profile ProfileRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO profiles (user_id, display_name, bio, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	bio = EXCLUDED.bio,
	updated_at = NOW()
RETURNING id, user_id, display_name, bio, image_url, created_at, updated_at
`, userID, strings.TrimSpace(displayName), strings.TrimSpace(bio)).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.ImageURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return ProfileRecord{}, fmt.Errorf("upsert profile: %w", err)
	}

	return profile, nil
}

// SetImageURL runs the find-or-create image binding in its own transaction.
func (r *ProfileRepo) SetImageURL(ctx context.Context, userID int64, imageURL string) (ProfileRecord, error) {
	var profile ProfileRecord
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var txErr error
		profile, txErr = r.SetImageURLTx(ctx, tx, userID, imageURL)
		return txErr
	})
	if err != nil {
		return ProfileRecord{}, err
	}
	return profile, nil
}

// SetImageURLTx finds or creates the profile row and binds the image
// URL inside the caller's transaction. Concurrent uploads for the same
// user race on the insert, so the whole path must run under WithTx.
func (r *ProfileRepo) SetImageURLTx(ctx context.Context, tx pgx.Tx, userID int64, imageURL string) (ProfileRecord, error) {
	if tx == nil {
		return ProfileRecord{}, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || strings.TrimSpace(imageURL) == "" {
		return ProfileRecord{}, fmt.Errorf("invalid profile image payload")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO profiles (user_id, display_name, bio, created_at, updated_at)
VALUES ($1, '', '', NOW(), NOW())
ON CONFLICT (user_id) DO NOTHING
`, userID); err != nil {
		return ProfileRecord{}, fmt.Errorf("ensure profile row: %w", err)
	}

	var profile ProfileRecord
	err := tx.QueryRow(ctx, `
UPDATE profiles
SET image_url = $2, updated_at = NOW()
WHERE user_id = $1
RETURNING id, user_id, display_name, bio, image_url, created_at, updated_at
`, userID, strings.TrimSpace(imageURL)).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&profile.ImageURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("set profile image url: %w", err)
	}

	return profile, nil
}
