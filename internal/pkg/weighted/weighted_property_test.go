// Property-based tests for weighted selection.
package weighted

import (
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

// TestChooseAlwaysReturnsInputProperty verifies that for any non-empty set
// of positively weighted items, the chosen value is one of the inputs and
// no error is returned.
func TestChooseAlwaysReturnsInputProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		items := make([]Item[int], n)
		for i := range items {
			items[i] = Item[int]{
				Value:  i,
				Weight: rapid.Float64Range(0.001, 1000).Draw(rt, "weight"),
			}
		}

		seed := rapid.Int64().Draw(rt, "seed")
		rng := rand.New(rand.NewSource(seed))

		v, err := Choose(rng, items)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if v < 0 || v >= n {
			rt.Fatalf("chose %d, not one of the %d inputs", v, n)
		}
	})
}

// TestChooseInt64AlwaysReturnsInputProperty is the integer-stake variant of
// the same property.
func TestChooseInt64AlwaysReturnsInputProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		values := make([]int, n)
		weights := make([]int64, n)
		for i := range values {
			values[i] = i
			weights[i] = rapid.Int64Range(1, 1_000_000).Draw(rt, "stake")
		}

		seed := rapid.Int64().Draw(rt, "seed")
		rng := rand.New(rand.NewSource(seed))

		v, err := ChooseInt64(rng, values, weights)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if v < 0 || v >= n {
			rt.Fatalf("chose %d, not one of the %d inputs", v, n)
		}
	})
}

// TestChooseDeterministicPerSeedProperty verifies that the same seed and
// the same items always produce the same choice. This is what lets the shop
// generator derive identical catalogs from identical day keys.
func TestChooseDeterministicPerSeedProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(rt, "n")
		items := make([]Item[int], n)
		for i := range items {
			items[i] = Item[int]{Value: i, Weight: float64(i + 1)}
		}

		seed := rapid.Int64().Draw(rt, "seed")

		a, err := Choose(rand.New(rand.NewSource(seed)), items)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		b, err := Choose(rand.New(rand.NewSource(seed)), items)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if a != b {
			rt.Fatalf("same seed chose %d then %d", a, b)
		}
	})
}
