// Package repository provides data access layer implementations.
// Every composite mutation (claim, stake, resolve, open, scratch) runs as a
// single pgx transaction so no intermediate state is observable to a
// concurrent caller.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stock-arcade/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoInventory         = errors.New("no unopened boxes in inventory")
	ErrConflict            = errors.New("concurrent write conflict")
)

// userColumns is the scan list shared by user queries.
const userColumns = "user_id, username, balance, created_at, updated_at"

// UserRepository handles user account persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new user with the given id, username and starting balance.
func (r *UserRepository) Create(ctx context.Context, userID int64, username string, balance float64) (*model.User, error) {
	const query = `
		INSERT INTO users (user_id, username, balance, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns

	var user model.User
	err := r.pool.QueryRow(ctx, query, userID, username, balance).Scan(
		&user.UserID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by id.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	var user model.User
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetOrCreate retrieves a user by id, creating one with the given starting
// balance if it doesn't exist.
func (r *UserRepository) GetOrCreate(ctx context.Context, userID int64, username string, balance float64) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, userID, username, balance)
	if err != nil {
		// Another request may have created the user first.
		user, err = r.GetByID(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	return user, true, nil
}

// UpdateBalance adds amount (which may be negative) to a user's balance and
// returns the updated user.
func (r *UserRepository) UpdateBalance(ctx context.Context, userID int64, amount float64) (*model.User, error) {
	const query = `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns

	var user model.User
	err := r.pool.QueryRow(ctx, query, userID, amount).Scan(
		&user.UserID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	return &user, nil
}

// TotalCirculating returns the sum of all user balances. Circulation is a
// derived read computed on demand, never a stored aggregate, so it cannot
// drift from the per-user ledger.
func (r *UserRepository) TotalCirculating(ctx context.Context) (float64, error) {
	const query = `SELECT COALESCE(SUM(balance), 0) FROM users`

	var total float64
	err := r.pool.QueryRow(ctx, query).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum balances: %w", err)
	}

	return total, nil
}

// GetHolding returns a user's position in one stock, zero if none.
func (r *UserRepository) GetHolding(ctx context.Context, userID int64, stockID string) (int64, error) {
	const query = `
		SELECT quantity FROM holdings
		WHERE user_id = $1 AND stock_id = $2
	`
	var quantity int64
	err := r.pool.QueryRow(ctx, query, userID, stockID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get holding: %w", err)
	}
	return quantity, nil
}

// GetHoldings returns all of a user's stock positions.
func (r *UserRepository) GetHoldings(ctx context.Context, userID int64) ([]model.Holding, error) {
	const query = `
		SELECT user_id, stock_id, quantity, updated_at
		FROM holdings
		WHERE user_id = $1 AND quantity > 0
		ORDER BY stock_id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer rows.Close()

	var holdings []model.Holding
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.UserID, &h.StockID, &h.Quantity, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}
