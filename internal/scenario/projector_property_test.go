package scenario

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"roi-simulator/internal/models"
)

func contractGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.OptionContract{}), map[string]gopter.Gen{
		"Label":             gen.OneConstOf("Deep ITM Call", "ITM Call", "ATM Call", "OTM Call"),
		"Strike":            gen.Float64Range(50, 800),
		"PremiumPaid":       gen.Float64Range(0, 200),
		"ImpliedVolatility": gen.Float64Range(0.05, 1.5),
	})
}

func contractsGen() gopter.Gen {
	return gen.SliceOfN(6, contractGen()).Map(func(cs []models.OptionContract) []models.OptionContract {
		for i := range cs {
			cs[i].ID = fmt.Sprintf("c%d", i)
		}
		return cs
	})
}

// Property: both output shapes carry one entry per retained offset, and every
// group lists contracts in ascending strike order.
func TestProperty_ProjectionShapeAndOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("chart and table align with retained offsets and strike order", prop.ForAll(
		func(days int, target float64, contracts []models.OptionContract) bool {
			cfg := models.MarketConfig{CurrentPrice: 300, TargetPrice: target, RiskFreeRate: 0.045, DaysToExpiry: days}
			result := Project(cfg, contracts)
			offsets := DefaultPolicy().RetainedOffsets(days)

			if len(result.Chart) != len(offsets) || len(result.Table) != len(offsets) {
				return false
			}
			for i, group := range result.Table {
				if group.Days != offsets[i] || result.Chart[i].Days != offsets[i] {
					return false
				}
				if len(group.Details) != len(contracts) {
					return false
				}
				for j := 1; j < len(group.Details); j++ {
					if group.Details[j].Strike < group.Details[j-1].Strike {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 400),
		gen.Float64Range(50, 800),
		contractsGen(),
	))

	properties.Property("ROI is finite for valid inputs, zero premium gives zero", prop.ForAll(
		func(days int, target float64, contracts []models.OptionContract) bool {
			cfg := models.MarketConfig{CurrentPrice: 300, TargetPrice: target, RiskFreeRate: 0.045, DaysToExpiry: days}
			result := Project(cfg, contracts)
			sorted := SortByStrike(contracts)

			for _, point := range result.Chart {
				for _, c := range sorted {
					roi := point.Values[c.SeriesKey()]
					if math.IsNaN(roi) || math.IsInf(roi, 0) {
						return false
					}
					if c.PremiumPaid == 0 && roi != 0 {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(30, 400),
		gen.Float64Range(50, 800),
		contractsGen(),
	))

	properties.Property("projection is deterministic", prop.ForAll(
		func(days int, target float64, contracts []models.OptionContract) bool {
			cfg := models.MarketConfig{CurrentPrice: 300, TargetPrice: target, RiskFreeRate: 0.045, DaysToExpiry: days}
			return reflect.DeepEqual(Project(cfg, contracts), Project(cfg, contracts))
		},
		gen.IntRange(0, 400),
		gen.Float64Range(50, 800),
		contractsGen(),
	))

	properties.TestingRun(t)
}
