package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-arcade/internal/pkg/clock"
	"stock-arcade/internal/shop"
)

func testShopService() *ShopService {
	clk := clock.Fixed{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewShopService(nil, clk, rand.New(rand.NewSource(1)))
}

func TestShopTodayUsesClockDay(t *testing.T) {
	svc := testShopService()

	daily, err := svc.Today()
	require.NoError(t, err)
	assert.Equal(t, "2025-6-1", daily.DayKey)
	assert.Len(t, daily.Tickets, shop.SlotCount)

	// Every user sees the identical catalog for the day.
	again, err := svc.Today()
	require.NoError(t, err)
	assert.Equal(t, daily, again)
}

func TestPurchaseTicketUnknownID(t *testing.T) {
	svc := testShopService()

	_, err := svc.PurchaseTicket(t.Context(), 1, "ffffffffffffffff")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestPurchaseTicketFromAnotherDayRejected(t *testing.T) {
	svc := testShopService()

	// A valid id from yesterday's shop is not in today's catalog.
	yesterday, err := shop.Generate("2025-5-31")
	require.NoError(t, err)

	_, err = svc.PurchaseTicket(t.Context(), 1, yesterday.Tickets[0].ID)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
