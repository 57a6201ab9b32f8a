package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"roi-simulator/internal/config"
	"roi-simulator/internal/logging"
	"roi-simulator/internal/scenario"
)

// Build information, set via -ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Projector *scenario.Projector
}

// NewRootCmd creates the root command for the CLI. Configuration is loaded
// once flags are parsed, before any subcommand runs.
func NewRootCmd() *cobra.Command {
	app := &App{
		Logger: zerolog.Nop(),
	}

	rootCmd := &cobra.Command{
		Use:   "roisim",
		Short: "Option ROI simulator",
		Long: `roisim projects the value and return on investment of call options
if the underlying reaches a target price, across a ladder of future dates.

Pricing uses the Black-Scholes formula for European calls. Contracts can carry
a target implied volatility to model a volatility crush.

Use 'roisim example > scenario.toml' to get started.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/roi-simulator)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newExampleCmd())
	rootCmd.AddCommand(newSimulateCmd(app))
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

func (app *App) init(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.ConsoleOut = cmd.ErrOrStderr()

	app.Config = cfg
	app.Logger = logging.NewLoggerWithConfig(cfg.Logging)
	app.Projector = scenario.NewProjector(cfg.Policy(), app.Logger)

	app.Logger.Debug().
		Ints("offsets", cfg.Simulation.Offsets).
		Float64("min_years_remaining", cfg.Simulation.MinYearsRemaining).
		Msg("Configuration loaded")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("roisim v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example scenario file",
		Run: func(cmd *cobra.Command, args []string) {
			NewOutput(cmd).Printf("%s", config.ScenarioTemplate())
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			dir, _ := cmd.Flags().GetString("config")
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			if output.IsJSON() {
				output.JSON(map[string]string{"path": dir})
			} else {
				output.Println(dir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load already validated; reaching here means the config is good.
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Simulation")
	output.Printf("  Offsets (days):      %v\n", cfg.Simulation.Offsets)
	output.Printf("  Min years remaining: %g\n", cfg.Simulation.MinYearsRemaining)
	output.Printf("  Crush threshold:     %.2f\n", cfg.Simulation.CrushThreshold)
	output.Println()

	output.Bold("Market defaults")
	output.Printf("  Current price:  %.2f\n", cfg.Market.CurrentPrice)
	output.Printf("  Target price:   %.2f\n", cfg.Market.TargetPrice)
	output.Printf("  Risk-free rate: %.4f\n", cfg.Market.RiskFreeRate)
	output.Printf("  Days to expiry: %d\n", cfg.Market.DaysToExpiry)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Printf("  Allowed origins: %v\n", cfg.Server.AllowedOrigins)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level: %s\n", cfg.Logging.Level)
	output.Printf("  File:  %v (%s)\n", cfg.Logging.File, cfg.Logging.FilePath)
}
