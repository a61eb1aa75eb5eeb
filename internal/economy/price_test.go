package economy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCurveQuoteZeroSupply(t *testing.T) {
	curve := NewCurve(nil)

	q := curve.Quote(0)
	assert.Equal(t, DefaultMaxTokenValue, q.TokenValueUSD)
	// At maximum value the inverted log-scale rate bottoms out.
	assert.InDelta(t, DefaultMinInterest, q.InterestRate, 1e-9)
}

func TestCurveQuoteClampsFloor(t *testing.T) {
	curve := NewCurve(nil)

	// Supply large enough to push the raw exponential below the floor.
	q := curve.Quote(1e9)
	assert.Equal(t, DefaultMinTokenValue, q.TokenValueUSD)
	assert.InDelta(t, DefaultMaxInterest, q.InterestRate, 1e-9)
}

func TestCurveQuoteNegativeSupplyTreatedAsZero(t *testing.T) {
	curve := NewCurve(nil)

	q := curve.Quote(-500)
	assert.Equal(t, DefaultMaxTokenValue, q.TokenValueUSD)
	assert.False(t, math.IsNaN(q.InterestRate))
}

func TestCurveQuoteBoundsAndMonotonicityProperty(t *testing.T) {
	curve := NewCurve(nil)

	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Float64Range(0, 1e12).Draw(rt, "a")
		b := rapid.Float64Range(0, 1e12).Draw(rt, "b")
		if a > b {
			a, b = b, a
		}

		qa := curve.Quote(a)
		qb := curve.Quote(b)

		// Value is non-increasing in supply and always inside the clamp.
		if qa.TokenValueUSD < qb.TokenValueUSD {
			rt.Fatalf("value increased with supply: quote(%g)=%g < quote(%g)=%g", a, qa.TokenValueUSD, b, qb.TokenValueUSD)
		}
		for _, q := range []Quote{qa, qb} {
			if q.TokenValueUSD < DefaultMinTokenValue || q.TokenValueUSD > DefaultMaxTokenValue {
				rt.Fatalf("value %g outside [%g, %g]", q.TokenValueUSD, DefaultMinTokenValue, DefaultMaxTokenValue)
			}
			if q.InterestRate < DefaultMinInterest || q.InterestRate > DefaultMaxInterest {
				rt.Fatalf("rate %g outside [%g, %g]", q.InterestRate, DefaultMinInterest, DefaultMaxInterest)
			}
			if math.IsNaN(q.TokenValueUSD) || math.IsNaN(q.InterestRate) {
				rt.Fatalf("NaN in quote for supplies %g/%g", a, b)
			}
		}

		// Interest moves inversely to value.
		if qa.TokenValueUSD > qb.TokenValueUSD && qa.InterestRate > qb.InterestRate {
			rt.Fatalf("rate did not move inversely: value %g>%g but rate %g>%g",
				qa.TokenValueUSD, qb.TokenValueUSD, qa.InterestRate, qb.InterestRate)
		}
	})
}

func TestCurveConfigOverrides(t *testing.T) {
	curve := NewCurve(&Config{MaxTokenValue: 1000, MinTokenValue: 1, DecayK: 0.001})

	q := curve.Quote(0)
	require.Equal(t, 1000.0, q.TokenValueUSD)
}

func TestRoundPayout(t *testing.T) {
	// The reference scenario: balance 1000 at the fixed 3% daily rate pays
	// exactly 30.0.
	assert.Equal(t, 30.0, RoundPayout(1000*FixedDailyInterest))

	assert.Equal(t, 33.3, RoundPayout(33.333))
	assert.Equal(t, 33.4, RoundPayout(33.35))
	assert.Equal(t, 0.0, RoundPayout(0))
}

func TestFixedDailyInterestIsIndependentConstant(t *testing.T) {
	// The flat claim rate is a product override and must stay a separate
	// named constant from the curve's informational rate bounds.
	assert.Equal(t, 0.03, FixedDailyInterest)
	assert.NotEqual(t, DefaultMinInterest, FixedDailyInterest)
	assert.NotEqual(t, DefaultMaxInterest, FixedDailyInterest)
}
