// Package model defines the data models for the token economy engine.
package model

import "time"

// User represents a platform account holding token balance.
type User struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	Balance   float64   `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LedgerEntry represents a balance change record.
type LedgerEntry struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      float64   `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// ClaimRecord represents a successful daily interest claim.
// At most one record exists per (user_id, claim_day); the unique
// constraint on that pair is what makes the claim race-safe.
type ClaimRecord struct {
	UserID    int64     `db:"user_id"`
	ClaimDay  string    `db:"claim_day"`
	Amount    float64   `db:"amount"`
	ClaimedAt time.Time `db:"claimed_at"`
}

// DrawEntry represents a user's accumulated stake in one day's lottery pot.
// Repeated stakes on the same day increment staked_tokens on the same row.
type DrawEntry struct {
	UserID       int64     `db:"user_id"`
	DrawDay      string    `db:"draw_day"`
	StakedTokens int64     `db:"staked_tokens"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Holding represents a user's position in a simulated stock.
type Holding struct {
	UserID    int64     `db:"user_id"`
	StockID   string    `db:"stock_id"`
	Quantity  int64     `db:"quantity"`
	UpdatedAt time.Time `db:"updated_at"`
}

// LootboxInventory represents a user's count of unopened boxes of one
// definition. The row is deleted when the count reaches zero.
type LootboxInventory struct {
	UserID    int64     `db:"user_id"`
	BoxID     string    `db:"box_id"`
	Quantity  int64     `db:"quantity"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Activity represents a feed entry (draw win, lootbox redemption).
type Activity struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	Kind      string    `db:"kind"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// Ledger entry types for categorizing balance changes.
const (
	LedgerTypeInitial        = "initial"         // Initial balance on account creation
	LedgerTypeClaim          = "claim"           // Daily interest claim
	LedgerTypeStake          = "stake"           // Daily draw stake
	LedgerTypeDrawWin        = "draw_win"        // Daily draw pot payout
	LedgerTypeTicketPurchase = "ticket_purchase" // Scratch ticket purchase
	LedgerTypeTicketPrize    = "ticket_prize"    // Scratch ticket prize credit
	LedgerTypeLootboxBuy     = "lootbox_buy"     // Lootbox purchase
	LedgerTypeLootboxOpen    = "lootbox_open"    // Lootbox redemption
)

// Activity kinds.
const (
	ActivityDrawWin     = "draw_win"
	ActivityLootboxOpen = "lootbox_open"
)
