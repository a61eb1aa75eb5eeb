package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stock-arcade/internal/lootbox"
	"stock-arcade/internal/model"
)

// LootboxRepository handles per-user box inventory persistence.
type LootboxRepository struct {
	pool *pgxpool.Pool
}

// NewLootboxRepository creates a new LootboxRepository instance.
func NewLootboxRepository(pool *pgxpool.Pool) *LootboxRepository {
	return &LootboxRepository{pool: pool}
}

// AddBoxes adds unopened boxes to a user's inventory.
func (r *LootboxRepository) AddBoxes(ctx context.Context, userID int64, boxID string, count int64) error {
	const query = `
		INSERT INTO lootbox_inventory (user_id, box_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, box_id)
		DO UPDATE SET quantity = lootbox_inventory.quantity + $3, updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, userID, boxID, count); err != nil {
		return fmt.Errorf("failed to add boxes: %w", err)
	}
	return nil
}

// Purchase debits the box price and adds one unopened box to the user's
// inventory in one transaction.
func (r *LootboxRepository) Purchase(ctx context.Context, userID int64, boxID string, price int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin purchase transaction: %w", err)
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

	if balance < float64(price) {
		return ErrInsufficientBalance
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, float64(price)); err != nil {
		return fmt.Errorf("failed to debit box price: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO lootbox_inventory (user_id, box_id, quantity, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_id, box_id)
		DO UPDATE SET quantity = lootbox_inventory.quantity + 1, updated_at = NOW()
	`, userID, boxID); err != nil {
		return fmt.Errorf("failed to add purchased box: %w", err)
	}

	if err := insertLedgerTx(ctx, tx, userID, -float64(price), model.LedgerTypeLootboxBuy, "purchased box "+boxID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit purchase: %w", err)
	}

	return nil
}

// GetQuantity returns the unopened count of one box type, zero if none.
func (r *LootboxRepository) GetQuantity(ctx context.Context, userID int64, boxID string) (int64, error) {
	const query = `
		SELECT quantity FROM lootbox_inventory
		WHERE user_id = $1 AND box_id = $2
	`
	var quantity int64
	err := r.pool.QueryRow(ctx, query, userID, boxID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get box quantity: %w", err)
	}
	return quantity, nil
}

// GetInventory returns all of a user's unopened boxes.
func (r *LootboxRepository) GetInventory(ctx context.Context, userID int64) ([]model.LootboxInventory, error) {
	const query = `
		SELECT user_id, box_id, quantity, updated_at
		FROM lootbox_inventory
		WHERE user_id = $1 AND quantity > 0
		ORDER BY box_id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	defer rows.Close()

	var inv []model.LootboxInventory
	for rows.Next() {
		var item model.LootboxInventory
		if err := rows.Scan(&item.UserID, &item.BoxID, &item.Quantity, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		inv = append(inv, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return inv, nil
}

// Open consumes one unopened box and records the already-rolled reward as
// one atomic unit: decrement the inventory row (deleting it at zero),
// upsert the rewarded stock holding, and write ledger and activity rows.
// All effects commit together or not at all. Returns ErrNoInventory when
// the user holds no unopened unit of the box — the conditional decrement
// itself is the ownership check, so a concurrent open of the last box
// leaves exactly one winner.
func (r *LootboxRepository) Open(ctx context.Context, userID int64, boxID string, reward lootbox.Reward) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin open transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var remaining int64
	err = tx.QueryRow(ctx, `
		UPDATE lootbox_inventory
		SET quantity = quantity - 1, updated_at = NOW()
		WHERE user_id = $1 AND box_id = $2 AND quantity > 0
		RETURNING quantity
	`, userID, boxID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoInventory
		}
		return fmt.Errorf("failed to decrement inventory: %w", err)
	}

	if remaining == 0 {
		if _, err := tx.Exec(ctx, `
			DELETE FROM lootbox_inventory
			WHERE user_id = $1 AND box_id = $2
		`, userID, boxID); err != nil {
			return fmt.Errorf("failed to delete empty inventory row: %w", err)
		}
	}

	if err := upsertHoldingTx(ctx, tx, userID, reward.StockID, reward.Shares); err != nil {
		return err
	}

	desc := fmt.Sprintf("opened %s: %d x %s", boxID, reward.Shares, reward.StockID)
	if err := insertLedgerTx(ctx, tx, userID, 0, model.LedgerTypeLootboxOpen, desc); err != nil {
		return err
	}
	if err := insertActivityTx(ctx, tx, userID, model.ActivityLootboxOpen, desc); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit open: %w", err)
	}

	return nil
}

// upsertHoldingTx increments (or creates) a stock holding within an
// existing transaction.
func upsertHoldingTx(ctx context.Context, tx pgx.Tx, userID int64, stockID string, shares int64) error {
	const query = `
		INSERT INTO holdings (user_id, stock_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, stock_id)
		DO UPDATE SET quantity = holdings.quantity + $3, updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, query, userID, stockID, shares); err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}
