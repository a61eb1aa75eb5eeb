// Package weighted provides weighted-random selection over arbitrary items.
// It is the single chance-resolution primitive shared by the shop generator
// (ticket type rolls), the lootbox opener (reward draws) and the daily draw
// (winner selection proportional to stake).
package weighted

import "math/rand"

// Item pairs a candidate with its selection weight.
type Item[T any] struct {
	Value  T
	Weight float64
}

// Choose picks one item with probability proportional to its weight.
// The draw is taken from rng so callers control determinism: the shop
// generator passes a day-seeded source, everything else passes a
// process-local one.
//
// Returns ErrNoItems for an empty slice, ErrInvalidWeight if any weight is
// not positive, and ErrZeroTotal if the weights sum to zero or less. A draw
// that lands past the cumulative sum due to floating-point rounding resolves
// to the last item rather than failing.
func Choose[T any](rng *rand.Rand, items []Item[T]) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrNoItems
	}

	var total float64
	for _, it := range items {
		if it.Weight <= 0 {
			return zero, ErrInvalidWeight
		}
		total += it.Weight
	}
	if total <= 0 {
		return zero, ErrZeroTotal
	}

	roll := rng.Float64() * total
	var acc float64
	for _, it := range items {
		acc += it.Weight
		if roll < acc {
			return it.Value, nil
		}
	}

	// Rounding pushed the roll past the final cumulative sum.
	return items[len(items)-1].Value, nil
}

// ChooseInt64 picks one item where weights are integer amounts, such as
// staked tokens. Probability of selection is exactly Weight/total.
func ChooseInt64[T any](rng *rand.Rand, values []T, weights []int64) (T, error) {
	var zero T
	if len(values) == 0 || len(values) != len(weights) {
		return zero, ErrNoItems
	}

	var total int64
	for _, w := range weights {
		if w <= 0 {
			return zero, ErrInvalidWeight
		}
		total += w
	}
	if total <= 0 {
		return zero, ErrZeroTotal
	}

	roll := rng.Int63n(total)
	var acc int64
	for i, w := range weights {
		acc += w
		if roll < acc {
			return values[i], nil
		}
	}

	return values[len(values)-1], nil
}

// ValidateTable checks a weight table at startup so a malformed
// configuration fails loudly instead of biasing draws silently.
func ValidateTable[T any](items []Item[T]) error {
	if len(items) == 0 {
		return ErrBadWeightTable
	}
	var total float64
	for _, it := range items {
		if it.Weight <= 0 {
			return ErrBadWeightTable
		}
		total += it.Weight
	}
	if total <= 0 {
		return ErrBadWeightTable
	}
	return nil
}
