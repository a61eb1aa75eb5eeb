// Package economy implements the token pricing curve.
// The token's cash value decays exponentially with circulating supply, and
// the advertised interest rate moves inversely on a log scale: abundant
// (cheap) tokens earn more interest.
package economy

import "math"

// Curve constants. FixedDailyInterest is an intentional product override for
// daily interest payouts; it coexists with the curve-derived rate, which is
// informational elsewhere. The two are independent and must not be unified.
const (
	DefaultMaxTokenValue = 500000.0
	DefaultMinTokenValue = 0.01
	DefaultDecayK        = 0.0001
	DefaultMinInterest   = 0.01
	DefaultMaxInterest   = 0.08

	FixedDailyInterest = 0.03
)

// Quote is the token's current cash value plus the curve-derived interest
// rate for a given circulating supply. Never persisted; callers may cache it.
type Quote struct {
	TokenValueUSD float64
	InterestRate  float64
}

// Curve maps total circulating token supply to a Quote. Stateless.
type Curve struct {
	maxValue    float64
	minValue    float64
	decayK      float64
	minInterest float64
	maxInterest float64
}

// Config holds tunable curve parameters. Zero values fall back to defaults.
type Config struct {
	MaxTokenValue float64
	MinTokenValue float64
	DecayK        float64
	MinInterest   float64
	MaxInterest   float64
}

// NewCurve creates a Curve with the given configuration.
func NewCurve(cfg *Config) *Curve {
	c := &Curve{
		maxValue:    DefaultMaxTokenValue,
		minValue:    DefaultMinTokenValue,
		decayK:      DefaultDecayK,
		minInterest: DefaultMinInterest,
		maxInterest: DefaultMaxInterest,
	}
	if cfg != nil {
		if cfg.MaxTokenValue > 0 {
			c.maxValue = cfg.MaxTokenValue
		}
		if cfg.MinTokenValue > 0 {
			c.minValue = cfg.MinTokenValue
		}
		if cfg.DecayK > 0 {
			c.decayK = cfg.DecayK
		}
		if cfg.MinInterest > 0 {
			c.minInterest = cfg.MinInterest
		}
		if cfg.MaxInterest > 0 {
			c.maxInterest = cfg.MaxInterest
		}
	}
	return c
}

// Quote computes the token value and interest rate for the given circulating
// supply. Monotonically non-increasing in supply; at zero supply the value is
// exactly the clamped maximum. Negative supply is treated as zero.
func (c *Curve) Quote(totalCirculating float64) Quote {
	if totalCirculating < 0 || math.IsNaN(totalCirculating) {
		totalCirculating = 0
	}

	value := c.maxValue * math.Exp(-c.decayK*totalCirculating)
	value = clamp(value, c.minValue, c.maxValue)

	// Normalize the value into [0,1] on a log scale, then invert: cheap
	// tokens pay the maximum rate, expensive tokens the minimum.
	normalized := (math.Log(value) - math.Log(c.minValue)) /
		(math.Log(c.maxValue) - math.Log(c.minValue))
	rate := c.minInterest + (c.maxInterest-c.minInterest)*(1-normalized)
	rate = clamp(rate, c.minInterest, c.maxInterest)

	return Quote{TokenValueUSD: value, InterestRate: rate}
}

// MaxTokenValue returns the configured value ceiling.
func (c *Curve) MaxTokenValue() float64 { return c.maxValue }

// MinTokenValue returns the configured value floor.
func (c *Curve) MinTokenValue() float64 { return c.minValue }

// RoundPayout rounds a token amount to one decimal place. Daily interest
// payouts are rounded exactly once, before the balance credit, so the stored
// balance and the claim record always agree.
func RoundPayout(amount float64) float64 {
	return math.Round(amount*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
