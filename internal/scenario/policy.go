// Package scenario projects option values and ROI across a ladder of future
// day offsets, assuming the underlying reaches a target price.
package scenario

import "sort"

// DaysPerYear converts calendar days to years for pricing.
const DaysPerYear = 365.0

// Policy holds the tunable knobs of a projection run.
type Policy struct {
	// Offsets are the candidate day offsets, e.g. 30, 60, ..., 360.
	Offsets []int `json:"offsets"`
	// MinYearsRemaining floors the time to expiry passed to the pricer so
	// that the continuous-time formula stays active near expiry.
	MinYearsRemaining float64 `json:"min_years_remaining"`
	// CrushThreshold is the absolute IV drop (decimal) beyond which a
	// contract counts as a volatility crush.
	CrushThreshold float64 `json:"crush_threshold"`
}

// DefaultOffsets returns the monthly ladder 30, 60, ..., 360.
func DefaultOffsets() []int {
	offsets := make([]int, 0, 12)
	for d := 30; d <= 360; d += 30 {
		offsets = append(offsets, d)
	}
	return offsets
}

// DefaultPolicy returns the standard projection policy.
func DefaultPolicy() Policy {
	return Policy{
		Offsets:           DefaultOffsets(),
		MinYearsRemaining: 0.0001,
		CrushThreshold:    0.10,
	}
}

// RetainedOffsets returns the offsets that fall on or before expiry, in
// ascending order.
func (p Policy) RetainedOffsets(daysToExpiry int) []int {
	retained := make([]int, 0, len(p.Offsets))
	for _, d := range p.Offsets {
		if d <= daysToExpiry {
			retained = append(retained, d)
		}
	}
	sort.Ints(retained)
	return retained
}

// YearsRemaining returns the floored time to expiry, in years, once offset
// days have elapsed.
func (p Policy) YearsRemaining(daysToExpiry, offset int) float64 {
	daysRemaining := daysToExpiry - offset
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	years := float64(daysRemaining) / DaysPerYear
	if years < p.MinYearsRemaining {
		return p.MinYearsRemaining
	}
	return years
}
