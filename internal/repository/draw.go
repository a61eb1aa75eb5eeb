package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stock-arcade/internal/model"
)

// DrawRepository handles daily draw pot persistence. Each stake is an
// independent row upsert keyed by (user_id, draw_day), never a
// read-modify-write of a shared aggregate, so concurrent stakes by
// different users cannot lose updates.
type DrawRepository struct {
	pool *pgxpool.Pool
}

// NewDrawRepository creates a new DrawRepository instance.
func NewDrawRepository(pool *pgxpool.Pool) *DrawRepository {
	return &DrawRepository{pool: pool}
}

// Stake debits amount tokens from the user and increments their entry for
// the day in one transaction. A failed write leaves neither effect behind.
// Repeated stakes by the same user accumulate on the same row.
func (r *DrawRepository) Stake(ctx context.Context, userID int64, day string, amount int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin stake transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance float64
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	if balance < float64(amount) {
		return ErrInsufficientBalance
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, float64(amount)); err != nil {
		return fmt.Errorf("failed to debit stake: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO draw_entries (user_id, draw_day, staked_tokens, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, draw_day)
		DO UPDATE SET staked_tokens = draw_entries.staked_tokens + $3, updated_at = NOW()
	`, userID, day, amount); err != nil {
		return fmt.Errorf("failed to upsert draw entry: %w", err)
	}

	if err := insertLedgerTx(ctx, tx, userID, -float64(amount), model.LedgerTypeStake, "daily draw stake for "+day); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stake: %w", err)
	}

	return nil
}

// EntriesForDay returns all stake entries for a day, ordered by user id so
// winner selection walks a stable sequence.
func (r *DrawRepository) EntriesForDay(ctx context.Context, day string) ([]model.DrawEntry, error) {
	const query = `
		SELECT user_id, draw_day, staked_tokens, updated_at
		FROM draw_entries
		WHERE draw_day = $1
		ORDER BY user_id
	`

	rows, err := r.pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw entries: %w", err)
	}
	defer rows.Close()

	var entries []model.DrawEntry
	for rows.Next() {
		var e model.DrawEntry
		if err := rows.Scan(&e.UserID, &e.DrawDay, &e.StakedTokens, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draw entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draw entries: %w", err)
	}

	return entries, nil
}

// Resolve settles the pot for a day: lock the day's entries, pick a winner
// through chooseWinner, credit the whole pot to the winner, record the win
// and delete the entries, all in one transaction. A day with no entries is
// a no-op (resolved=false, not an error) so duplicate triggers are safe —
// the first resolution clears the rows the second one would read.
func (r *DrawRepository) Resolve(ctx context.Context, day string, chooseWinner func(entries []model.DrawEntry) (int64, error)) (bool, int64, int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, 0, 0, fmt.Errorf("failed to begin resolve transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT user_id, draw_day, staked_tokens, updated_at
		FROM draw_entries
		WHERE draw_day = $1
		ORDER BY user_id
		FOR UPDATE
	`, day)
	if err != nil {
		return false, 0, 0, fmt.Errorf("failed to lock draw entries: %w", err)
	}

	var entries []model.DrawEntry
	for rows.Next() {
		var e model.DrawEntry
		if err := rows.Scan(&e.UserID, &e.DrawDay, &e.StakedTokens, &e.UpdatedAt); err != nil {
			rows.Close()
			return false, 0, 0, fmt.Errorf("failed to scan draw entry: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, 0, 0, fmt.Errorf("error iterating draw entries: %w", err)
	}

	if len(entries) == 0 {
		return false, 0, 0, nil
	}

	var totalStaked int64
	for _, e := range entries {
		totalStaked += e.StakedTokens
	}

	winnerID, err := chooseWinner(entries)
	if err != nil {
		return false, 0, 0, fmt.Errorf("failed to choose draw winner: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
	`, winnerID, float64(totalStaked)); err != nil {
		return false, 0, 0, fmt.Errorf("failed to credit draw winner: %w", err)
	}

	if err := insertLedgerTx(ctx, tx, winnerID, float64(totalStaked), model.LedgerTypeDrawWin, "daily draw pot for "+day); err != nil {
		return false, 0, 0, err
	}

	msg := fmt.Sprintf("won the daily draw for %s: %d tokens", day, totalStaked)
	if err := insertActivityTx(ctx, tx, winnerID, model.ActivityDrawWin, msg); err != nil {
		return false, 0, 0, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM draw_entries WHERE draw_day = $1`, day); err != nil {
		return false, 0, 0, fmt.Errorf("failed to clear draw entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, 0, fmt.Errorf("failed to commit resolve: %w", err)
	}

	return true, winnerID, totalStaked, nil
}
