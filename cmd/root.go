package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/dasdcalc/cmd/convert"
	"github.com/tphakala/dasdcalc/cmd/devices"
	"github.com/tphakala/dasdcalc/cmd/history"
	"github.com/tphakala/dasdcalc/cmd/license"
	"github.com/tphakala/dasdcalc/cmd/serve"
	"github.com/tphakala/dasdcalc/cmd/simulate"
	"github.com/tphakala/dasdcalc/cmd/usage"
	"github.com/tphakala/dasdcalc/internal/buildinfo"
	"github.com/tphakala/dasdcalc/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dasdcalc",
		Short:         "DASD geometry converter and storage capacity simulator",
		Version:       buildinfo.NewContext(settings.Version, settings.BuildDate).String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		panic(err)
	}

	subcommands := []*cobra.Command{
		convert.Command(settings),
		devices.Command(settings),
		usage.Command(settings),
		simulate.Command(settings),
		history.Command(settings),
		serve.Command(settings),
		license.Command(),
	}

	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// flags take precedence over config values
		if err := conf.ValidateSettings(settings); err != nil {
			return err
		}
		return initLogging(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output and debug level logging")
	rootCmd.PersistentFlags().StringVar(&settings.Calculator.DefaultDevice, "device", settings.Calculator.DefaultDevice, "Device type used for geometry conversions (3390, 3380, 3350)")
	rootCmd.PersistentFlags().IntVar(&settings.Calculator.Precision, "precision", settings.Calculator.Precision, "Decimal places in output")
	rootCmd.PersistentFlags().StringVar(&settings.Thresholds.Warning, "warning", settings.Thresholds.Warning, "Utilization warning threshold, e.g. 75%")
	rootCmd.PersistentFlags().StringVar(&settings.Thresholds.Critical, "critical", settings.Thresholds.Critical, "Utilization critical threshold, e.g. 90%")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("calculator.defaultdevice", rootCmd.PersistentFlags().Lookup("device")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	if err := viper.BindPFlag("calculator.precision", rootCmd.PersistentFlags().Lookup("precision")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
