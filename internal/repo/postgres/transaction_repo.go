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

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionRepo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

type TransactionRecord struct {
	ID            int64
	UserID        int64
	Provider      string
	OrderID       string
	Amount        int64
	Currency      string
	Status        string
	ResultPayload map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool, now: time.Now}
}

// CreatePending inserts a checkout attempt and derives the
// provider-facing order id from the row id plus a millisecond suffix.
// The order_id column is unique; a collision (possible only if the
// clock repeats within one row id, which serials prevent) is retried
// once with a fresh timestamp.
func (r *TransactionRepo) CreatePending(ctx context.Context, userID, amount int64, currency, provider string) (TransactionRecord, error) {
	if r.pool == nil {
		return TransactionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || amount <= 0 {
		return TransactionRecord{}, fmt.Errorf("invalid transaction payload")
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "IDR"
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = "midtrans"
	}

	var out TransactionRecord
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(txCtx, `
INSERT INTO transactions (user_id, provider, order_id, amount, currency, status, created_at, updated_at)
VALUES ($1, $2, '', $3, $4, 'pending', NOW(), NOW())
RETURNING id
`, userID, provider, amount, currency).Scan(&id); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		orderID := buildOrderID(id, r.now().UTC())
		rec, err := scanTransactionRow(tx.QueryRow(txCtx, `
UPDATE transactions
SET order_id = $2, updated_at = NOW()
WHERE id = $1
RETURNING id, user_id, provider, order_id, amount, currency, status, result_payload, created_at, updated_at
`, id, orderID))
		if err != nil {
			if isUniqueViolation(err) {
				rec, err = scanTransactionRow(tx.QueryRow(txCtx, `
UPDATE transactions
SET order_id = $2, updated_at = NOW()
WHERE id = $1
RETURNING id, user_id, provider, order_id, amount, currency, status, result_payload, created_at, updated_at
`, id, buildOrderID(id, r.now().UTC().Add(time.Millisecond))))
			}
			if err != nil {
				return fmt.Errorf("bind order id: %w", err)
			}
		}

		out = rec
		return nil
	})
	if err != nil {
		return TransactionRecord{}, err
	}

	return out, nil
}

func (r *TransactionRepo) FindByOrderID(ctx context.Context, orderID string) (TransactionRecord, error) {
	if r.pool == nil {
		return TransactionRecord{}, fmt.Errorf("postgres pool is nil")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return TransactionRecord{}, fmt.Errorf("invalid order id")
	}

	rec, err := scanTransactionRow(r.pool.QueryRow(ctx, `
SELECT id, user_id, provider, order_id, amount, currency, status, result_payload, created_at, updated_at
FROM transactions
WHERE order_id = $1
`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TransactionRecord{}, ErrTransactionNotFound
		}
		return TransactionRecord{}, fmt.Errorf("find transaction by order id: %w", err)
	}

	return rec, nil
}

// Resolve moves a pending transaction to its terminal status under a
// row lock. Only rows still pending transition; a redelivered
// notification finds the terminal row and reports changed=false. On a
// success transition the owning user's premium flag is set inside the
// same database transaction.
func (r *TransactionRepo) Resolve(ctx context.Context, orderID, status string, payload map[string]any) (TransactionRecord, bool, error) {
	if r.pool == nil {
		return TransactionRecord{}, false, fmt.Errorf("postgres pool is nil")
	}

	orderID = strings.TrimSpace(orderID)
	status = strings.ToLower(strings.TrimSpace(status))
	if orderID == "" || (status != "success" && status != "failure") {
		return TransactionRecord{}, false, fmt.Errorf("invalid resolve payload")
	}

	var out TransactionRecord
	changed := false
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		rec, err := scanTransactionRow(tx.QueryRow(txCtx, `
SELECT id, user_id, provider, order_id, amount, currency, status, result_payload, created_at, updated_at
FROM transactions
WHERE order_id = $1
FOR UPDATE
`, orderID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("lock transaction by order id: %w", err)
		}

		if rec.Status != "pending" {
			out = rec
			changed = false
			return nil
		}

		payloadJSON, err := marshalResultPayload(payload)
		if err != nil {
			return err
		}

		updated, err := scanTransactionRow(tx.QueryRow(txCtx, `
UPDATE transactions
SET status = $2, result_payload = $3::jsonb, updated_at = NOW()
WHERE id = $1
RETURNING id, user_id, provider, order_id, amount, currency, status, result_payload, created_at, updated_at
`, rec.ID, status, payloadJSON))
		if err != nil {
			return fmt.Errorf("resolve transaction: %w", err)
		}

		if status == "success" {
			if _, err := tx.Exec(txCtx, `
UPDATE users
SET is_premium = TRUE, updated_at = NOW()
WHERE id = $1
`, updated.UserID); err != nil {
				return fmt.Errorf("grant premium flag: %w", err)
			}
		}

		out = updated
		changed = true
		return nil
	})
	if err != nil {
		return TransactionRecord{}, false, err
	}

	return out, changed, nil
}

func buildOrderID(id int64, at time.Time) string {
	return fmt.Sprintf("ORDER-%d-%d", id, at.UnixMilli())
}

func scanTransactionRow(row pgx.Row) (TransactionRecord, error) {
	var rec TransactionRecord
	var payloadRaw []byte
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Provider,
		&rec.OrderID,
		&rec.Amount,
		&rec.Currency,
		&rec.Status,
		&payloadRaw,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return TransactionRecord{}, err
	}
	rec.ResultPayload = decodeResultPayload(payloadRaw)
	return rec, nil
}

func marshalResultPayload(payload map[string]any) (string, error) {
	if payload == nil {
		return "null", nil
	}
	if len(payload) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal result payload: %w", err)
	}
	return string(raw), nil
}

func decodeResultPayload(raw []byte) map[string]any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return payload
}
