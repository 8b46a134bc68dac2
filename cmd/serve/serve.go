package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/dasdcalc/internal/api"
	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/observability"
)

// Command creates the serve command which runs the HTTP API.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calculator HTTP API",
		Long: "Serve the conversion, usage and simulation calculators over HTTP under /api/v1,\n" +
			"with Prometheus metrics on /metrics and a health check on /health.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		panic(err)
	}

	return cmd
}

// Run serves the API until ctx is cancelled.
func Run(ctx context.Context, settings *conf.Settings) error {
	var opts []api.ServerOption
	if settings.Metrics.Enabled {
		m, err := observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("error initializing metrics: %w", err)
		}
		opts = append(opts, api.WithMetrics(m))
	}

	server, err := api.New(settings, opts...)
	if err != nil {
		return err
	}

	return server.Run(ctx)
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVarP(&settings.Server.Listen, "listen", "l", settings.Server.Listen, "Address to listen on")
	cmd.Flags().BoolVar(&settings.Metrics.Enabled, "metrics", settings.Metrics.Enabled, "Expose Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&settings.History.Enabled, "history", settings.History.Enabled, "Record calculations in memory")

	if err := viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("metrics.enabled", cmd.Flags().Lookup("metrics")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
