package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stock-arcade/internal/model"
	"stock-arcade/internal/shop"
)

// ScratchRepository persists the purchase-and-scratch flow for daily shop
// tickets. The prize is rolled by the caller before the transaction starts;
// this layer only guarantees the debit and the prize credit land together.
type ScratchRepository struct {
	pool *pgxpool.Pool
}

// NewScratchRepository creates a new ScratchRepository instance.
func NewScratchRepository(pool *pgxpool.Pool) *ScratchRepository {
	return &ScratchRepository{pool: pool}
}

// PurchaseScratch debits the ticket price, credits the rolled prize (tokens
// or stock shares) and writes both ledger entries in one transaction.
// Returns ErrInsufficientBalance before any mutation if the user cannot
// afford the ticket.
func (r *ScratchRepository) PurchaseScratch(ctx context.Context, userID int64, ticket *shop.Ticket, prize shop.Prize) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin scratch transaction: %w", err)
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

	if balance < float64(ticket.Price) {
		return ErrInsufficientBalance
	}

	// Debit the ticket price and credit a token prize in a single balance
	// update so the intermediate debited state is never visible.
	delta := -float64(ticket.Price) + prize.Tokens
	if _, err := tx.Exec(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, delta); err != nil {
		return fmt.Errorf("failed to apply scratch balance change: %w", err)
	}

	purchaseDesc := fmt.Sprintf("scratch ticket %s (%s)", ticket.ID, ticket.Name)
	if err := insertLedgerTx(ctx, tx, userID, -float64(ticket.Price), model.LedgerTypeTicketPurchase, purchaseDesc); err != nil {
		return err
	}

	if prize.Tokens > 0 {
		prizeDesc := fmt.Sprintf("scratch prize from ticket %s", ticket.ID)
		if err := insertLedgerTx(ctx, tx, userID, prize.Tokens, model.LedgerTypeTicketPrize, prizeDesc); err != nil {
			return err
		}
	}

	if prize.Shares > 0 && prize.StockID != "" {
		if err := upsertHoldingTx(ctx, tx, userID, prize.StockID, prize.Shares); err != nil {
			return err
		}
		prizeDesc := fmt.Sprintf("scratch prize from ticket %s: %d x %s", ticket.ID, prize.Shares, prize.StockID)
		if err := insertLedgerTx(ctx, tx, userID, 0, model.LedgerTypeTicketPrize, prizeDesc); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit scratch: %w", err)
	}

	return nil
}
