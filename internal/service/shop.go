package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"stock-arcade/internal/pkg/clock"
	"stock-arcade/internal/repository"
	"stock-arcade/internal/shop"
)

// Shop errors.
var (
	ErrTicketNotFound = errors.New("ticket not in today's shop")
)

// ScratchResult reports a purchased and immediately scratched ticket.
type ScratchResult struct {
	Ticket shop.Ticket
	Prize  shop.Prize
}

// ShopService serves the deterministic daily ticket shop and the
// purchase-and-scratch flow. The catalog itself is regenerated on demand
// (generation is pure, so concurrent regeneration converges without
// locking); only purchases touch storage.
type ShopService struct {
	scratchRepo *repository.ScratchRepository
	clk         clock.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewShopService creates a new ShopService instance. The rng drives prize
// rolls only; the daily catalog is seeded by the day key, never by rng.
func NewShopService(scratchRepo *repository.ScratchRepository, clk clock.Clock, rng *rand.Rand) *ShopService {
	return &ShopService{scratchRepo: scratchRepo, clk: clk, rng: rng}
}

// Today returns the current UTC day's shop.
func (s *ShopService) Today() (*shop.DailyShop, error) {
	return shop.Generate(clock.DayKey(s.clk.Now()))
}

// PurchaseTicket buys one of today's tickets by id and scratches it
// immediately: the price debit, the prize roll and the prize credit land in
// one atomic unit.
func (s *ShopService) PurchaseTicket(ctx context.Context, userID int64, ticketID string) (*ScratchResult, error) {
	day := clock.DayKey(s.clk.Now())

	ticket, found, err := shop.FindTicket(day, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop for %s: %w", day, err)
	}
	if !found {
		return nil, ErrTicketNotFound
	}

	s.mu.Lock()
	prize, err := shop.RollPrize(s.rng, ticket.Type, ticket.IsBonus)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to roll prize: %w", err)
	}

	if err := s.scratchRepo.PurchaseScratch(ctx, userID, ticket, prize); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) || errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to purchase ticket: %w", err)
	}

	return &ScratchResult{Ticket: *ticket, Prize: prize}, nil
}
