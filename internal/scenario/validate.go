package scenario

import (
	"fmt"
	"math"

	"roi-simulator/internal/errors"
	"roi-simulator/internal/models"
)

// ValidateInput checks market and contract inputs before projection. The
// projector itself accepts anything; this is for the CLI and HTTP layers.
func ValidateInput(cfg models.MarketConfig, contracts []models.OptionContract) error {
	if err := ValidateMarket(cfg); err != nil {
		return err
	}

	seen := make(map[string]bool, len(contracts))
	series := make(map[string]bool, len(contracts))
	for i, c := range contracts {
		if c.ID == "" {
			return errors.NewValidationError(field(i, "id"), c.ID, "must not be empty")
		}
		if seen[c.ID] {
			return errors.NewValidationError(field(i, "id"), c.ID, "duplicate contract id")
		}
		seen[c.ID] = true

		if err := ValidateContract(i, c); err != nil {
			return err
		}

		// Chart points are keyed by label and strike.
		key := c.SeriesKey()
		if series[key] {
			return errors.NewValidationError(field(i, "label"), key, "duplicate label and strike")
		}
		series[key] = true
	}
	return nil
}

// ValidateMarket checks a market configuration.
func ValidateMarket(cfg models.MarketConfig) error {
	if !positive(cfg.CurrentPrice) {
		return errors.NewValidationError("market.current_price", cfg.CurrentPrice, "must be positive and finite")
	}
	if !positive(cfg.TargetPrice) {
		return errors.NewValidationError("market.target_price", cfg.TargetPrice, "must be positive and finite")
	}
	if !finite(cfg.RiskFreeRate) {
		return errors.NewValidationError("market.risk_free_rate", cfg.RiskFreeRate, "must be finite")
	}
	if cfg.DaysToExpiry < 0 {
		return errors.NewValidationError("market.days_to_expiry", cfg.DaysToExpiry, "must not be negative")
	}
	return nil
}

// ValidateContract checks a single contract. idx is used in field names.
func ValidateContract(idx int, c models.OptionContract) error {
	if !positive(c.Strike) {
		return errors.NewValidationError(field(idx, "strike"), c.Strike, "must be positive and finite")
	}
	if !(c.PremiumPaid >= 0) || math.IsInf(c.PremiumPaid, 1) {
		return errors.NewValidationError(field(idx, "premium_paid"), c.PremiumPaid, "must be finite and not negative")
	}
	if !positive(c.ImpliedVolatility) {
		return errors.NewValidationError(field(idx, "implied_volatility"), c.ImpliedVolatility, "must be positive and finite")
	}
	if c.HasTargetVolatility() && !positive(*c.TargetImpliedVolatility) {
		return errors.NewValidationError(field(idx, "target_implied_volatility"), *c.TargetImpliedVolatility, "must be positive and finite when set")
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func field(idx int, name string) string {
	return fmt.Sprintf("contracts[%d].%s", idx, name)
}
