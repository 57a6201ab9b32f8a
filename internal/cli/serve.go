package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"roi-simulator/internal/api"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP API that runs projections for a browser front end.

  POST /api/v1/projections   {market, contracts} -> chart, table, volatility_crush
  POST /api/v1/price         single call price
  GET  /api/v1/policy        active offsets and thresholds
  GET  /healthz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				app.Config.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(app.Config.Server, app.Projector, app.Logger)
			color.Cyan("ROI simulator API listening on %s", app.Config.Server.Addr)
			color.White("Press Ctrl+C to stop")
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}
