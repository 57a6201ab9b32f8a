package cli

import (
	"github.com/spf13/cobra"

	"roi-simulator/internal/pricing"
	"roi-simulator/internal/scenario"
	"roi-simulator/pkg/utils"
)

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single European call",
		Example: `  roisim price --spot 360 --strike 340 --days 5 --vol 0.6737
  roisim price --spot 100 --strike 100 --days 365 --rate 0.05 --vol 0.2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			flags := cmd.Flags()

			spot, _ := flags.GetFloat64("spot")
			strike, _ := flags.GetFloat64("strike")
			days, _ := flags.GetFloat64("days")
			vol, _ := flags.GetFloat64("vol")
			rate := app.Config.Market.RiskFreeRate
			if flags.Changed("rate") {
				rate, _ = flags.GetFloat64("rate")
			}

			years := days / scenario.DaysPerYear
			price := pricing.CallPrice(spot, strike, years, rate, vol)
			intrinsic := pricing.Intrinsic(spot, strike)

			app.Logger.Debug().
				Float64("spot", spot).
				Float64("strike", strike).
				Float64("years", years).
				Float64("rate", rate).
				Float64("vol", vol).
				Float64("price", price).
				Msg("Call priced")

			if output.IsJSON() {
				return output.JSON(map[string]float64{
					"price":      price,
					"intrinsic":  intrinsic,
					"time_value": price - intrinsic,
				})
			}

			output.Printf("Call value:  %s\n", utils.FormatUSD(price))
			output.Printf("Intrinsic:   %s\n", utils.FormatUSD(intrinsic))
			output.Printf("Time value:  %s\n", utils.FormatUSD(price-intrinsic))
			return nil
		},
	}

	cmd.Flags().Float64("spot", 0, "underlying price")
	cmd.Flags().Float64("strike", 0, "strike price")
	cmd.Flags().Float64("days", 0, "calendar days to expiry")
	cmd.Flags().Float64("rate", 0, "annual risk-free rate (default from config)")
	cmd.Flags().Float64("vol", 0, "annual volatility (decimal)")
	_ = cmd.MarkFlagRequired("spot")
	_ = cmd.MarkFlagRequired("strike")
	_ = cmd.MarkFlagRequired("vol")

	return cmd
}
