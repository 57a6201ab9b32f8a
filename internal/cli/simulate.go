package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"roi-simulator/internal/config"
	"roi-simulator/internal/logging"
	"roi-simulator/internal/models"
	"roi-simulator/internal/scenario"
	"roi-simulator/pkg/utils"
)

func newSimulateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <scenario-file>",
		Short: "Project option value and ROI for a scenario",
		Long: `Project the value, profit and ROI of each contract in a scenario file
at every configured day offset, assuming the underlying trades at the target
price. Market values in the file can be overridden with flags.`,
		Example: `  roisim simulate scenario.toml
  roisim simulate scenario.toml --target 400 --days 180
  roisim simulate scenario.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			logger := logging.WithOperation(app.Logger, "simulate")

			sc, err := config.LoadScenario(args[0], app.Config.Market)
			if err != nil {
				output.Error("Failed to load scenario: %v", err)
				return err
			}
			applyMarketFlags(cmd, &sc.Market)

			if skip, _ := cmd.Flags().GetBool("no-validate"); !skip {
				if err := scenario.ValidateInput(sc.Market, sc.Contracts); err != nil {
					output.Error("Invalid scenario: %v", err)
					return err
				}
			}

			result := app.Projector.Project(sc.Market, sc.Contracts)
			logging.LogProjection(logger, sc.Market, len(sc.Contracts), len(result.Table), result.VolatilityCrush)

			if output.IsJSON() {
				return output.JSON(result)
			}
			displayProjection(output, sc, result, app.Projector.Policy())
			return nil
		},
	}

	cmd.Flags().Float64("current", 0, "override current underlying price")
	cmd.Flags().Float64("target", 0, "override target underlying price")
	cmd.Flags().Float64("rate", 0, "override annual risk-free rate (decimal)")
	cmd.Flags().Int("days", 0, "override days to expiry")
	cmd.Flags().Bool("no-validate", false, "skip input validation")

	return cmd
}

func applyMarketFlags(cmd *cobra.Command, m *models.MarketConfig) {
	flags := cmd.Flags()
	if flags.Changed("current") {
		m.CurrentPrice, _ = flags.GetFloat64("current")
	}
	if flags.Changed("target") {
		m.TargetPrice, _ = flags.GetFloat64("target")
	}
	if flags.Changed("rate") {
		m.RiskFreeRate, _ = flags.GetFloat64("rate")
	}
	if flags.Changed("days") {
		m.DaysToExpiry, _ = flags.GetInt("days")
	}
}

func displayProjection(output *Output, sc *config.Scenario, result models.Projection, policy scenario.Policy) {
	m := sc.Market
	move := 0.0
	if m.CurrentPrice > 0 {
		move = (m.TargetPrice - m.CurrentPrice) / m.CurrentPrice * 100
	}

	output.Bold("Scenario")
	output.Printf("  Underlying: %s -> %s (%s)\n",
		utils.FormatUSD(m.CurrentPrice), utils.FormatUSD(m.TargetPrice),
		output.ColoredString(output.SignColor(move), utils.FormatPercent(move)))
	output.Printf("  Expiry:     %d days   Risk-free rate: %s\n", m.DaysToExpiry, utils.FormatVolatility(m.RiskFreeRate))
	output.Println()

	contracts := scenario.SortByStrike(sc.Contracts)
	table := NewTable(output, "Contract", "Strike", "Premium", "IV", "Target IV", "Delta", "Gamma", "Theta")
	for _, c := range contracts {
		target := "-"
		if c.HasTargetVolatility() {
			target = utils.FormatVolatility(*c.TargetImpliedVolatility)
		}
		table.AddRow(
			c.Label,
			strconv.FormatFloat(c.Strike, 'f', -1, 64),
			utils.FormatUSD(c.PremiumPaid),
			utils.FormatVolatility(c.ImpliedVolatility),
			target,
			strconv.FormatFloat(c.Greeks.Delta, 'f', 3, 64),
			strconv.FormatFloat(c.Greeks.Gamma, 'f', 4, 64),
			strconv.FormatFloat(c.Greeks.Theta, 'f', 3, 64),
		)
	}
	table.Render()
	output.Println()

	if result.VolatilityCrush {
		output.Warning("WARNING: volatility crush. At least one contract's target IV is more than %.0f points below its current IV.",
			policy.CrushThreshold*100)
		output.Println()
	}

	if len(result.Table) == 0 {
		output.Warning("Expiry is %d days away, before the first scenario offset. Nothing to project.", m.DaysToExpiry)
		return
	}

	for _, group := range result.Table {
		daysLeft := m.DaysToExpiry - group.Days
		output.Bold("Day %d (%d days to expiry)", group.Days, daysLeft)

		t := NewTable(output, "Contract", "Strike", "Est. Value", "Profit", "ROI")
		for _, d := range group.Details {
			t.AddRow(
				d.Label,
				strconv.FormatFloat(d.Strike, 'f', -1, 64),
				utils.FormatUSD(d.EstimatedPrice),
				output.colorBySign(d.Profit, d.Profit),
				output.colorBySign(d.ROI, d.ROI+"%"),
			)
		}
		t.Render()
		output.Println()
	}
}

// colorBySign colors text by the sign of the decimal string value.
func (o *Output) colorBySign(value, text string) string {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return text
	}
	return o.ColoredString(o.SignColor(v), text)
}
