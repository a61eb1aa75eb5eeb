package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-arcade/internal/economy"
	"stock-arcade/internal/pkg/clock"
	"stock-arcade/internal/repository"
)

// Claim errors.
var (
	// ErrAlreadyClaimed is a normal outcome of the claim state machine, not
	// a failure: the user already claimed this UTC day. Callers should
	// surface the result's NextEligibleAt.
	ErrAlreadyClaimed = errors.New("daily interest already claimed")

	// ErrClaimConflict means the claim lost a race at the atomic-write
	// boundary. Callers should retry as a fresh attempt, which will then
	// observe ErrAlreadyClaimed or succeed.
	ErrClaimConflict = errors.New("claim conflict, retry")
)

// ClaimResult reports the outcome of a daily interest claim attempt.
type ClaimResult struct {
	Granted        bool
	Amount         float64
	NextEligibleAt time.Time
}

// ClaimService enforces at most one successful interest claim per user per
// UTC calendar day. The payout rate is the fixed product override
// (economy.FixedDailyInterest), independent of the pricing curve's
// informational interest rate.
type ClaimService struct {
	claimRepo *repository.ClaimRepository
	clk       clock.Clock
}

// NewClaimService creates a new ClaimService instance.
func NewClaimService(claimRepo *repository.ClaimRepository, clk clock.Clock) *ClaimService {
	return &ClaimService{claimRepo: claimRepo, clk: clk}
}

// TryClaim attempts the once-per-day claim for the current UTC day. On
// success the result carries the credited amount; when the day is already
// claimed it returns ErrAlreadyClaimed alongside a result whose
// NextEligibleAt is the next UTC midnight, so clients can render a fixed
// countdown without polling.
func (s *ClaimService) TryClaim(ctx context.Context, userID int64) (*ClaimResult, error) {
	now := s.clk.Now()
	day := clock.DayKey(now)

	granted, amount, err := s.claimRepo.ClaimDaily(ctx, userID, day, economy.FixedDailyInterest, economy.RoundPayout)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrClaimConflict
		}
		return nil, fmt.Errorf("failed to claim daily interest: %w", err)
	}

	result := &ClaimResult{
		Granted:        granted,
		Amount:         amount,
		NextEligibleAt: clock.NextMidnight(now),
	}
	if !granted {
		return result, ErrAlreadyClaimed
	}

	return result, nil
}

// HasClaimedToday reports whether the user already claimed this UTC day.
func (s *ClaimService) HasClaimedToday(ctx context.Context, userID int64) (bool, error) {
	return s.claimRepo.HasClaimed(ctx, userID, clock.DayKey(s.clk.Now()))
}
