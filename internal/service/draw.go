package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"stock-arcade/internal/model"
	"stock-arcade/internal/pkg/clock"
	"stock-arcade/internal/pkg/weighted"
	"stock-arcade/internal/repository"
)

// Draw errors.
var (
	ErrInvalidAmount = errors.New("amount must be positive")
)

// DrawResult reports a settled daily draw.
type DrawResult struct {
	Resolved bool
	Day      string
	WinnerID int64
	Payout   int64
}

// DrawService runs the daily token lottery: users stake tokens into the
// day's pot and one winner takes the whole pot, with win probability
// exactly proportional to stake.
type DrawService struct {
	drawRepo *repository.DrawRepository
	clk      clock.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDrawService creates a new DrawService instance. The rng drives winner
// selection; tests pass a seeded source.
func NewDrawService(drawRepo *repository.DrawRepository, clk clock.Clock, rng *rand.Rand) *DrawService {
	return &DrawService{drawRepo: drawRepo, clk: clk, rng: rng}
}

// Stake puts amount tokens into today's pot for the user. Rejected before
// any mutation when amount is not positive or exceeds the user's balance;
// repeated stakes accumulate into the user's single entry for the day.
func (s *DrawService) Stake(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	day := clock.DayKey(s.clk.Now())
	if err := s.drawRepo.Stake(ctx, userID, day, amount); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) || errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to stake: %w", err)
	}

	return nil
}

// Pot returns the current entries and total for a day.
func (s *DrawService) Pot(ctx context.Context, day string) ([]model.DrawEntry, int64, error) {
	entries, err := s.drawRepo.EntriesForDay(ctx, day)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.StakedTokens
	}
	return entries, total, nil
}

// Resolve settles the pot for the given day. Picking the winner weights
// each entry by its staked tokens, so P(win) = stake/total exactly. A day
// with no entries resolves to a no-op, which makes duplicate triggers safe:
// the first resolution clears the entries the second would read.
func (s *DrawService) Resolve(ctx context.Context, day string) (*DrawResult, error) {
	resolved, winnerID, payout, err := s.drawRepo.Resolve(ctx, day, s.chooseWinner)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve draw for %s: %w", day, err)
	}

	return &DrawResult{
		Resolved: resolved,
		Day:      day,
		WinnerID: winnerID,
		Payout:   payout,
	}, nil
}

// ResolvePrevious settles yesterday's pot. Intended for the post-midnight
// scheduler, but safe to call from any trigger.
func (s *DrawService) ResolvePrevious(ctx context.Context) (*DrawResult, error) {
	yesterday := clock.DayKey(s.clk.Now().UTC().AddDate(0, 0, -1))
	return s.Resolve(ctx, yesterday)
}

// chooseWinner picks one entry weighted by stake size.
func (s *DrawService) chooseWinner(entries []model.DrawEntry) (int64, error) {
	userIDs := make([]int64, len(entries))
	stakes := make([]int64, len(entries))
	for i, e := range entries {
		userIDs[i] = e.UserID
		stakes[i] = e.StakedTokens
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return weighted.ChooseInt64(s.rng, userIDs, stakes)
}
