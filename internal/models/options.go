// Package models provides domain models for the ROI simulator.
package models

import (
	"fmt"
	"strconv"
)

// MarketConfig holds the market inputs for one simulation run.
type MarketConfig struct {
	CurrentPrice float64 `json:"current_price" mapstructure:"current_price"`
	TargetPrice  float64 `json:"target_price" mapstructure:"target_price"`
	RiskFreeRate float64 `json:"risk_free_rate" mapstructure:"risk_free_rate"`
	DaysToExpiry int     `json:"days_to_expiry" mapstructure:"days_to_expiry"`
}

// OptionGreeks are caller-supplied annotations. They are displayed but never
// recomputed from the pricing model.
type OptionGreeks struct {
	Delta float64 `json:"delta" mapstructure:"delta"`
	Gamma float64 `json:"gamma" mapstructure:"gamma"`
	Theta float64 `json:"theta" mapstructure:"theta"`
}

// OptionContract represents a single call leg being simulated.
type OptionContract struct {
	ID                string  `json:"id" mapstructure:"id"`
	Label             string  `json:"label" mapstructure:"label"`
	Strike            float64 `json:"strike" mapstructure:"strike"`
	PremiumPaid       float64 `json:"premium_paid" mapstructure:"premium_paid"`
	ImpliedVolatility float64 `json:"implied_volatility" mapstructure:"implied_volatility"`
	// TargetImpliedVolatility is nil when no volatility change is assumed.
	// A non-nil zero is a valid (if extreme) target and is not treated as unset.
	TargetImpliedVolatility *float64     `json:"target_implied_volatility,omitempty" mapstructure:"target_implied_volatility"`
	Greeks                  OptionGreeks `json:"greeks" mapstructure:"greeks"`
}

// HasTargetVolatility reports whether a target implied volatility was supplied.
func (c OptionContract) HasTargetVolatility() bool {
	return c.TargetImpliedVolatility != nil
}

// EffectiveVolatility returns the volatility used for projection.
func (c OptionContract) EffectiveVolatility() float64 {
	if c.TargetImpliedVolatility != nil {
		return *c.TargetImpliedVolatility
	}
	return c.ImpliedVolatility
}

// SeriesKey is the chart field name for this contract, e.g. "Deep ITM Call (270)".
// Contracts sharing a label and strike share a key, and the later one wins
// in chart points.
func (c OptionContract) SeriesKey() string {
	return fmt.Sprintf("%s (%s)", c.Label, strconv.FormatFloat(c.Strike, 'f', -1, 64))
}

// Float64Ptr returns a pointer to v. Handy for TargetImpliedVolatility literals.
func Float64Ptr(v float64) *float64 {
	return &v
}
