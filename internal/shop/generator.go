package shop

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"

	"stock-arcade/internal/pkg/weighted"
)

// SlotCount is the fixed number of tickets in each day's shop.
const SlotCount = 12

// BonusChance is the per-slot probability of the bonus flag, independent of
// the ticket type roll.
const BonusChance = 0.25

// ErrMissingDay is returned when the day key is empty.
var ErrMissingDay = errors.New("shop: day key is required")

// Ticket is one purchasable entry in a day's shop.
type Ticket struct {
	ID          string
	Type        TicketType
	Price       int64
	IsBonus     bool
	Name        string
	Description string
}

// DailyShop is the fixed catalog for one UTC calendar day.
type DailyShop struct {
	DayKey  string
	Tickets []Ticket
}

// Generate produces the shop for the given day key. The generator is pure:
// the PRNG is seeded from the day key string, so every process and every
// request on the same day derives the identical sequence, identical tickets
// and identical ticket ids. Concurrent regeneration needs no locking;
// convergence comes from determinism.
func Generate(dayKey string) (*DailyShop, error) {
	if dayKey == "" {
		return nil, ErrMissingDay
	}

	rng := rand.New(rand.NewSource(daySeed(dayKey)))

	tickets := make([]Ticket, 0, SlotCount)
	for slot := 0; slot < SlotCount; slot++ {
		// Two draws per slot, in fixed order: type first, bonus second.
		typ, err := weighted.Choose(rng, typeWeights)
		if err != nil {
			return nil, fmt.Errorf("shop: type roll for slot %d: %w", slot, err)
		}
		isBonus := rng.Float64() < BonusChance

		cfg := TicketConfigs[typ]
		tickets = append(tickets, Ticket{
			ID:          TicketID(dayKey, slot, typ),
			Type:        typ,
			Price:       cfg.Price,
			IsBonus:     isBonus,
			Name:        cfg.Name,
			Description: cfg.Description,
		})
	}

	return &DailyShop{DayKey: dayKey, Tickets: tickets}, nil
}

// TicketID derives the stable id for a ticket from its day, slot position
// and resolved type. Never randomly generated, so the same ticket keeps the
// same id across requests and regenerations without persistence.
func TicketID(dayKey string, slot int, typ TicketType) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%s", dayKey, slot, typ)
	return fmt.Sprintf("%016x", h.Sum64())
}

// FindTicket regenerates the day's shop and returns the ticket with the
// given id, if it exists that day.
func FindTicket(dayKey, ticketID string) (*Ticket, bool, error) {
	daily, err := Generate(dayKey)
	if err != nil {
		return nil, false, err
	}
	for i := range daily.Tickets {
		if daily.Tickets[i].ID == ticketID {
			return &daily.Tickets[i], true, nil
		}
	}
	return nil, false, nil
}

// RollPrize resolves a scratch prize for a ticket type. TicketRandom first
// re-rolls uniformly into a concrete type. Bonus tickets double token
// prizes and stock share counts.
func RollPrize(rng *rand.Rand, typ TicketType, isBonus bool) (Prize, error) {
	if typ == TicketRandom {
		concrete, err := weighted.Choose(rng, concreteTypes)
		if err != nil {
			return Prize{}, err
		}
		typ = concrete
	}

	table, ok := prizeTables[typ]
	if !ok {
		return Prize{}, weighted.ErrBadWeightTable
	}
	prize, err := weighted.Choose(rng, table)
	if err != nil {
		return Prize{}, err
	}

	if isBonus {
		prize.Tokens *= 2
		prize.Shares *= 2
	}
	return prize, nil
}

// daySeed hashes the day key into a PRNG seed.
func daySeed(dayKey string) int64 {
	h := fnv.New64a()
	h.Write([]byte(dayKey))
	return int64(h.Sum64())
}
