package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stock-arcade/internal/model"
)

// LedgerRepository handles balance-change record persistence.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository instance.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Create creates a new ledger entry.
func (r *LedgerRepository) Create(ctx context.Context, userID int64, amount float64, entryType string, description *string) (*model.LedgerEntry, error) {
	const query = `
		INSERT INTO ledger (user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, amount, type, description, created_at
	`

	var entry model.LedgerEntry
	err := r.pool.QueryRow(ctx, query, userID, amount, entryType, description).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Amount,
		&entry.Type,
		&entry.Description,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return &entry, nil
}

// GetByUserID retrieves ledger entries for a user, newest first.
func (r *LedgerRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*model.LedgerEntry, error) {
	const query = `
		SELECT id, user_id, amount, type, description, created_at
		FROM ledger
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.Type,
			&entry.Description,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}

// insertLedgerTx inserts a ledger entry within an existing transaction.
// Used by composite operations so the record commits or rolls back with the
// balance mutation it describes.
func insertLedgerTx(ctx context.Context, tx pgx.Tx, userID int64, amount float64, entryType string, description string) error {
	const query = `
		INSERT INTO ledger (user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := tx.Exec(ctx, query, userID, amount, entryType, description); err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// insertActivityTx inserts an activity/notification row within an existing
// transaction.
func insertActivityTx(ctx context.Context, tx pgx.Tx, userID int64, kind, message string) error {
	const query = `
		INSERT INTO activities (id, user_id, kind, message, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := tx.Exec(ctx, query, uuid.NewString(), userID, kind, message); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// GetActivities retrieves recent activity entries for a user, newest first.
func (r *LedgerRepository) GetActivities(ctx context.Context, userID int64, limit int) ([]*model.Activity, error) {
	const query = `
		SELECT id, user_id, kind, message, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	defer rows.Close()

	var activities []*model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}
