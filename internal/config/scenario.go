package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"roi-simulator/internal/errors"
	"roi-simulator/internal/models"
)

// Scenario is a market configuration plus the contracts to project, as read
// from a scenario file.
type Scenario struct {
	Market    models.MarketConfig     `mapstructure:"market" json:"market"`
	Contracts []models.OptionContract `mapstructure:"contracts" json:"contracts"`
}

// LoadScenario reads a TOML, YAML or JSON scenario file. Market fields the
// file omits fall back to defaults. A contract that omits
// target_implied_volatility keeps it unset.
func LoadScenario(path string, defaults models.MarketConfig) (*Scenario, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrScenarioNotFound, "%s", path)
		}
		return nil, errors.Wrap(err, "checking scenario file")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("market.current_price", defaults.CurrentPrice)
	v.SetDefault("market.target_price", defaults.TargetPrice)
	v.SetDefault("market.risk_free_rate", defaults.RiskFreeRate)
	v.SetDefault("market.days_to_expiry", defaults.DaysToExpiry)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading scenario %s", path)
	}

	sc := &Scenario{}
	if err := v.Unmarshal(sc); err != nil {
		return nil, errors.Wrapf(err, "decoding scenario %s", path)
	}

	for i := range sc.Contracts {
		if sc.Contracts[i].ID == "" {
			sc.Contracts[i].ID = defaultContractID(i)
		}
	}

	return sc, nil
}

func defaultContractID(i int) string {
	return fmt.Sprintf("contract-%d", i+1)
}
