package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# ROI Simulator Configuration

[simulation]
# Day offsets at which to project option value (ascending)
offsets = [30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330, 360]
# Floor on time to expiry, in years, passed to the pricer
min_years_remaining = 0.0001
# Absolute IV drop (decimal) that raises the volatility crush warning
crush_threshold = 0.10

[market]
# Defaults used when a scenario file omits them
current_price = 340.0
target_price = 360.0
risk_free_rate = 0.045
days_to_expiry = 365

[server]
addr = ":8080"
allowed_origins = ["http://localhost:5173"]

[logging]
# debug, info, warn, error
level = "info"
console = true
# Rotating log file
file = false
max_size = 20
max_backups = 3
max_age = 14
`

const scenarioTemplate = `# Example scenario
[market]
current_price = 340.0
target_price = 360.0
risk_free_rate = 0.045
days_to_expiry = 365

[[contracts]]
id = "itm"
label = "Deep ITM Call"
strike = 270.0
premium_paid = 129.55
implied_volatility = 0.70

[[contracts]]
id = "atm"
label = "ATM Call"
strike = 340.0
premium_paid = 98.77
implied_volatility = 0.6737
# Omit to assume no volatility change
target_implied_volatility = 0.55

[contracts.greeks]
delta = 0.62
gamma = 0.003
theta = -0.09

[[contracts]]
id = "otm"
label = "OTM Call"
strike = 420.0
premium_paid = 71.30
implied_volatility = 0.66
`

// ScenarioTemplate returns an example scenario file.
func ScenarioTemplate() string {
	return scenarioTemplate
}

func createTemplateConfig(configDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return "", fmt.Errorf("writing config template: %w", err)
	}

	return path, nil
}
