package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"stock-arcade/internal/model"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// ClaimRepository handles daily interest claim persistence. The claims table
// carries a primary key on (user_id, claim_day); that constraint, not an
// application-level existence check, is what guarantees at most one
// successful claim per user per UTC day.
type ClaimRepository struct {
	pool *pgxpool.Pool
}

// NewClaimRepository creates a new ClaimRepository instance.
func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

// ClaimDaily attempts the once-per-day interest claim for a user as one
// atomic unit: lock the user row, compute the payout from the live balance,
// insert the claim record conditionally, credit the balance and write the
// ledger entry. If two requests race for the same (user, day), exactly one
// commits; the loser observes granted=false with no side effects.
//
// The payout is balance*rate rounded to one decimal, applied exactly once.
func (r *ClaimRepository) ClaimDaily(ctx context.Context, userID int64, day string, rate float64, round func(float64) float64) (bool, float64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance float64
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, ErrUserNotFound
		}
		return false, 0, fmt.Errorf("failed to lock user row: %w", err)
	}

	amount := round(balance * rate)

	tag, err := tx.Exec(ctx, `
		INSERT INTO daily_claims (user_id, claim_day, amount, claimed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, claim_day) DO NOTHING
	`, userID, day, amount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, 0, ErrConflict
		}
		return false, 0, fmt.Errorf("failed to insert claim record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already claimed today. Rollback discards the row lock.
		return false, 0, nil
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount); err != nil {
		return false, 0, fmt.Errorf("failed to credit claim payout: %w", err)
	}

	if err := insertLedgerTx(ctx, tx, userID, amount, model.LedgerTypeClaim, "daily interest claim for "+day); err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to commit claim: %w", err)
	}

	return true, amount, nil
}

// GetClaim returns the claim record for (user, day) if one exists.
func (r *ClaimRepository) GetClaim(ctx context.Context, userID int64, day string) (*model.ClaimRecord, error) {
	const query = `
		SELECT user_id, claim_day, amount, claimed_at
		FROM daily_claims
		WHERE user_id = $1 AND claim_day = $2
	`

	var rec model.ClaimRecord
	err := r.pool.QueryRow(ctx, query, userID, day).Scan(
		&rec.UserID,
		&rec.ClaimDay,
		&rec.Amount,
		&rec.ClaimedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get claim record: %w", err)
	}

	return &rec, nil
}

// HasClaimed reports whether a claim record exists for (user, day).
func (r *ClaimRepository) HasClaimed(ctx context.Context, userID int64, day string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM daily_claims WHERE user_id = $1 AND claim_day = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check claim existence: %w", err)
	}

	return exists, nil
}
