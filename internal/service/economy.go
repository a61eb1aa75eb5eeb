// Package service provides business logic implementations.
package service

import (
	"context"
	"fmt"

	"stock-arcade/internal/economy"
	"stock-arcade/internal/pkg/clock"
	"stock-arcade/internal/pkg/pricecache"
	"stock-arcade/internal/repository"
)

// EconomyService answers "what is a token worth right now". It derives the
// circulating supply from the authoritative per-user balances on demand and
// runs it through the pricing curve, with a bounded TTL cache in front.
type EconomyService struct {
	userRepo *repository.UserRepository
	curve    *economy.Curve
	cache    *pricecache.Cache
}

// NewEconomyService creates a new EconomyService instance.
func NewEconomyService(
	userRepo *repository.UserRepository,
	curve *economy.Curve,
	cache *pricecache.Cache,
) *EconomyService {
	return &EconomyService{
		userRepo: userRepo,
		curve:    curve,
		cache:    cache,
	}
}

// Quote returns the current token quote, served from cache when fresh.
func (s *EconomyService) Quote(ctx context.Context) (economy.Quote, error) {
	if q, ok := s.cache.Get(); ok {
		return q, nil
	}

	total, err := s.userRepo.TotalCirculating(ctx)
	if err != nil {
		return economy.Quote{}, fmt.Errorf("failed to read circulation: %w", err)
	}

	q := s.curve.Quote(total)
	s.cache.Put(q)
	return q, nil
}

// Circulation returns the current total circulating supply, uncached.
func (s *EconomyService) Circulation(ctx context.Context) (float64, error) {
	return s.userRepo.TotalCirculating(ctx)
}

// DayKey returns the current UTC day key from the given clock. Convenience
// for callers that render shop or claim state.
func DayKey(clk clock.Clock) string {
	return clock.DayKey(clk.Now())
}
