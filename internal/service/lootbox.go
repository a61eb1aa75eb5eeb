package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"stock-arcade/internal/lootbox"
	"stock-arcade/internal/model"
	"stock-arcade/internal/pkg/weighted"
	"stock-arcade/internal/repository"
)

// Lootbox errors.
var (
	ErrUnknownBox = errors.New("unknown lootbox")
)

// OpenResult reports the reward from opening one box.
type OpenResult struct {
	BoxID  string
	Reward lootbox.Reward
}

// LootboxService resolves box opens: one weighted reward draw per open,
// converted atomically from an inventory unit into a stock holding.
type LootboxService struct {
	lootboxRepo *repository.LootboxRepository

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLootboxService creates a new LootboxService instance.
func NewLootboxService(lootboxRepo *repository.LootboxRepository, rng *rand.Rand) *LootboxService {
	return &LootboxService{lootboxRepo: lootboxRepo, rng: rng}
}

// Purchase buys one box of the given definition for its configured price.
func (s *LootboxService) Purchase(ctx context.Context, userID int64, boxID string) error {
	def, ok := lootbox.Get(boxID)
	if !ok {
		return ErrUnknownBox
	}

	if err := s.lootboxRepo.Purchase(ctx, userID, boxID, def.Price); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) || errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to purchase box: %w", err)
	}

	return nil
}

// Open consumes one unopened box and awards one stock reward drawn from the
// box's weighted pool. The reward is rolled first, then inventory
// decrement, holding credit and ledger record commit together; a failed
// commit leaves no trace of the roll.
func (s *LootboxService) Open(ctx context.Context, userID int64, boxID string) (*OpenResult, error) {
	def, ok := lootbox.Get(boxID)
	if !ok {
		return nil, ErrUnknownBox
	}

	s.mu.Lock()
	reward, err := weighted.Choose(s.rng, def.RewardPool)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to roll reward: %w", err)
	}

	if err := s.lootboxRepo.Open(ctx, userID, boxID, reward); err != nil {
		if errors.Is(err, repository.ErrNoInventory) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open box: %w", err)
	}

	return &OpenResult{BoxID: boxID, Reward: reward}, nil
}

// Inventory returns the user's unopened boxes.
func (s *LootboxService) Inventory(ctx context.Context, userID int64) ([]model.LootboxInventory, error) {
	return s.lootboxRepo.GetInventory(ctx, userID)
}
