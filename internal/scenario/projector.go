package scenario

import (
	"math"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"roi-simulator/internal/models"
	"roi-simulator/internal/pricing"
)

// Projector runs scenario projections under a fixed policy. It holds no
// per-run state and is safe for concurrent use.
type Projector struct {
	policy Policy
	logger zerolog.Logger
}

// NewProjector creates a projector.
func NewProjector(policy Policy, logger zerolog.Logger) *Projector {
	return &Projector{
		policy: policy,
		logger: logger,
	}
}

// Policy returns the projector's policy.
func (p *Projector) Policy() Policy {
	return p.policy
}

// Project computes the chart series, grouped table and volatility crush flag
// for the given market and contracts. The input slice is not modified.
func Project(cfg models.MarketConfig, contracts []models.OptionContract) models.Projection {
	return NewProjector(DefaultPolicy(), zerolog.Nop()).Project(cfg, contracts)
}

// Project computes the chart series, grouped table and volatility crush flag
// for the given market and contracts. The input slice is not modified.
func (p *Projector) Project(cfg models.MarketConfig, contracts []models.OptionContract) models.Projection {
	sorted := SortByStrike(contracts)
	offsets := p.policy.RetainedOffsets(cfg.DaysToExpiry)

	result := models.Projection{
		Chart:           make([]models.ChartPoint, 0, len(offsets)),
		Table:           make([]models.OffsetGroup, 0, len(offsets)),
		VolatilityCrush: DetectVolatilityCrush(sorted, p.policy.CrushThreshold),
	}

	for _, d := range offsets {
		years := p.policy.YearsRemaining(cfg.DaysToExpiry, d)
		label := models.OffsetLabel(d)

		point := models.ChartPoint{
			Offset: label,
			Days:   d,
			Values: make(map[string]float64, len(sorted)),
		}
		group := models.OffsetGroup{
			Offset:  label,
			Days:    d,
			Details: make([]models.ContractDetail, 0, len(sorted)),
		}

		for _, c := range sorted {
			estimated := pricing.CallPrice(cfg.TargetPrice, c.Strike, years, cfg.RiskFreeRate, c.EffectiveVolatility())
			profit, roi := ROI(estimated, c.PremiumPaid)

			point.Values[c.SeriesKey()] = Round2(roi)
			group.Details = append(group.Details, models.ContractDetail{
				ID:             c.ID,
				Label:          c.Label,
				Strike:         c.Strike,
				EstimatedPrice: estimated,
				ROI:            Fixed2(roi),
				Profit:         Fixed2(profit),
			})
		}

		result.Chart = append(result.Chart, point)
		result.Table = append(result.Table, group)
	}

	p.logger.Debug().
		Str("operation", "project").
		Float64("target_price", cfg.TargetPrice).
		Int("days_to_expiry", cfg.DaysToExpiry).
		Int("offsets", len(offsets)).
		Int("contracts", len(sorted)).
		Bool("volatility_crush", result.VolatilityCrush).
		Msg("Projection computed")

	return result
}

// SortByStrike returns a copy of contracts sorted ascending by strike. Equal
// strikes keep their input order.
func SortByStrike(contracts []models.OptionContract) []models.OptionContract {
	sorted := make([]models.OptionContract, len(contracts))
	copy(sorted, contracts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Strike < sorted[j].Strike
	})
	return sorted
}

// DetectVolatilityCrush reports whether any contract's target IV sits more
// than threshold below its current IV. Contracts without a target never count.
func DetectVolatilityCrush(contracts []models.OptionContract, threshold float64) bool {
	for _, c := range contracts {
		if c.HasTargetVolatility() && *c.TargetImpliedVolatility < c.ImpliedVolatility-threshold {
			return true
		}
	}
	return false
}

// ROI returns profit and percentage return over premium. A zero premium
// yields an ROI of 0.
func ROI(estimated, premium float64) (profit, roi float64) {
	profit = estimated - premium
	if premium > 0 {
		roi = profit / premium * 100
	}
	return profit, roi
}

// Round2 rounds v to 2 decimal places. Non-finite values pass through.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Fixed2 formats v with exactly 2 decimal places.
func Fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
