package pricing

import (
	"github.com/shopspring/decimal"
)

// Policy constants for the exchange. Prices move up on every sale and
// drift back toward the base price on a fixed cadence.
var (
	// DefaultIncreaseRate is the fractional price increase per unit sold
	// in a single order (1%).
	DefaultIncreaseRate = decimal.RequireFromString("0.01")

	// DefaultDecayFactor is the fraction of the gap between current and
	// base price that one decay tick closes (5%).
	DefaultDecayFactor = decimal.RequireFromString("0.05")
)

const priceScale = 2

// Rules holds the tunable pricing policy. Zero values fall back to the
// defaults, which match the production policy.
type Rules struct {
	increaseRate decimal.Decimal
	decayFactor  decimal.Decimal
}

// NewRules builds a rule set. Non-positive parameters fall back to the
// default policy constants.
func NewRules(increaseRate, decayFactor decimal.Decimal) Rules {
	if increaseRate.LessThanOrEqual(decimal.Zero) {
		increaseRate = DefaultIncreaseRate
	}
	if decayFactor.LessThanOrEqual(decimal.Zero) {
		decayFactor = DefaultDecayFactor
	}
	return Rules{increaseRate: increaseRate, decayFactor: decayFactor}
}

// DefaultRules returns the production policy (1% increase per unit, 5% decay).
func DefaultRules() Rules {
	return NewRules(DefaultIncreaseRate, DefaultDecayFactor)
}

// IncreaseOnSale returns the price after selling quantity units at oldPrice:
// oldPrice * (1 + rate*quantity), rounded to cents (half up). There is no
// upper bound; compounding growth is only pulled back by decay ticks.
// Callers must reject non-positive quantities before calling.
func (r Rules) IncreaseOnSale(oldPrice decimal.Decimal, quantity int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(r.increaseRate.Mul(decimal.NewFromInt(int64(quantity))))
	return oldPrice.Mul(factor).Round(priceScale)
}

var oneCent = decimal.RequireFromString("0.01")

// DecayStep moves currentPrice one tick toward basePrice, closing the
// configured fraction of the remaining gap. The result never overshoots
// basePrice and is rounded to cents (half up). A price already at base is
// returned unchanged.
//
// Once the remaining gap is small enough that the fractional step rounds
// back to the current price, the step is floored at one cent so repeated
// ticks always reach the base price instead of stalling a few cents away.
func (r Rules) DecayStep(currentPrice, basePrice decimal.Decimal) decimal.Decimal {
	cmp := currentPrice.Cmp(basePrice)
	if cmp == 0 {
		return currentPrice
	}

	var next decimal.Decimal
	if cmp > 0 {
		next = currentPrice.Sub(currentPrice.Sub(basePrice).Mul(r.decayFactor)).Round(priceScale)
		if next.GreaterThanOrEqual(currentPrice) {
			next = currentPrice.Sub(oneCent)
		}
		if next.LessThan(basePrice) {
			next = basePrice
		}
	} else {
		next = currentPrice.Add(basePrice.Sub(currentPrice).Mul(r.decayFactor)).Round(priceScale)
		if next.LessThanOrEqual(currentPrice) {
			next = currentPrice.Add(oneCent)
		}
		if next.GreaterThan(basePrice) {
			next = basePrice
		}
	}
	return next
}
