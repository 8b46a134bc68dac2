package simulate

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/tphakala/dasdcalc/cmd/internal/stateflags"
	"github.com/tphakala/dasdcalc/cmd/usage"
	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/format"
	"github.com/tphakala/dasdcalc/internal/units"
)

type options struct {
	state      stateflags.StateFlags
	amount     float64
	amountUnit string
	percentOf  float64
}

// Command creates the simulate command and its mode subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project the effect of a capacity change on a volume",
		Long: "Project a capacity change against a volume. With --amount-unit percentage the\n" +
			"amount consumes that share of free space, otherwise it is added to free space.",
		Example: "  dasdcalc simulate --total 1000 --used 500 --amount 20 --amount-unit percentage\n" +
			"  dasdcalc simulate expansion 500 --total 1000 --used 900 --unit mb --percent-of-total 10",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unit := units.Unit(opts.amountUnit)
			if unit != capacity.Percentage && !unit.Valid() {
				return unitError(opts.amountUnit)
			}
			return run(cmd, settings, opts, func(s capacity.State) capacity.Result {
				return capacity.Simulate(s, opts.amount, unit)
			})
		},
	}

	opts.state.Register(cmd.PersistentFlags())
	cmd.Flags().Float64Var(&opts.amount, "amount", 0, "Amount to apply to free space")
	cmd.Flags().StringVar(&opts.amountUnit, "amount-unit", string(units.Bytes), "Unit of --amount (bytes, mb, percentage)")

	cmd.AddCommand(
		consumptionCommand(settings, opts),
		adjustCommand(settings, opts),
		expansionCommand(settings, opts),
	)

	return cmd
}

func consumptionCommand(settings *conf.Settings, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "consumption PERCENT",
		Short: "Consume a percentage of the current free space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return run(cmd, settings, opts, func(s capacity.State) capacity.Result {
				return capacity.SimulateConsumption(s, percent)
			})
		},
	}
}

func adjustCommand(settings *conf.Settings, opts *options) *cobra.Command {
	var amountUnit string

	cmd := &cobra.Command{
		Use:   "adjust AMOUNT",
		Short: "Add an absolute amount to free space, negative amounts consume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			unit := units.Unit(amountUnit)
			if !unit.Valid() {
				return unitError(amountUnit)
			}
			return run(cmd, settings, opts, func(s capacity.State) capacity.Result {
				return capacity.SimulateAdjustment(s, amount, unit)
			})
		},
	}

	cmd.Flags().StringVar(&amountUnit, "amount-unit", string(units.Bytes), "Unit of AMOUNT (bytes, mb)")

	return cmd
}

func expansionCommand(settings *conf.Settings, opts *options) *cobra.Command {
	var amountUnit string

	cmd := &cobra.Command{
		Use:   "expansion AMOUNT",
		Short: "Grow the volume by an amount and optionally a share of its total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			unit := units.Unit(amountUnit)
			if !unit.Valid() {
				return unitError(amountUnit)
			}
			return run(cmd, settings, opts, func(s capacity.State) capacity.Result {
				return capacity.SimulateExpansion(s, amount, unit, opts.percentOf)
			})
		},
	}

	cmd.Flags().StringVar(&amountUnit, "amount-unit", string(units.Bytes), "Unit of AMOUNT (bytes, mb)")
	cmd.Flags().Float64Var(&opts.percentOf, "percent-of-total", 0, "Additional growth as a percentage of the current total")

	return cmd
}

func run(cmd *cobra.Command, settings *conf.Settings, opts *options, simulate func(capacity.State) capacity.Result) error {
	state, err := opts.state.Resolve()
	if err != nil {
		return err
	}
	thresholds, err := settings.AlertThresholds()
	if err != nil {
		return err
	}

	p := format.New(language.English, settings.Calculator.Precision)
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out, "Current")
	usage.PrintState(out, p, state, thresholds)
	_, _ = fmt.Fprintln(out)
	printResult(out, p, simulate(state), thresholds)
	return nil
}

func printResult(out io.Writer, p *format.Printer, r capacity.Result, thresholds capacity.Thresholds) {
	_, _ = fmt.Fprintf(out, "Projected (%s)\n", r.Mode)
	_, _ = fmt.Fprintf(out, "Change:  %s\n", p.Bytes(r.Change))
	_, _ = fmt.Fprintf(out, "Total:   %s\n", p.Bytes(r.ProjectedTotalSpace))
	_, _ = fmt.Fprintf(out, "Used:    %s\n", p.Bytes(r.ProjectedUsedSpace))
	_, _ = fmt.Fprintf(out, "Free:    %s\n", p.Bytes(r.ProjectedFreeSpace))
	_, _ = fmt.Fprintf(out, "Usage:   %s\n", p.Percent(r.ProjectedPercentUsed))
	_, _ = fmt.Fprintf(out, "Level:   %s\n", p.Level(thresholds.Classify(r.ProjectedPercentUsed)))
	if r.ProjectedFreeSpace < 0 {
		_, _ = fmt.Fprintln(out, "Warning: projected free space is negative, the volume is over-committed")
	}
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(err).
			Component("cli").
			Category(errors.CategoryValidation).
			Context("amount", s).
			Build()
	}
	return v, nil
}

func unitError(unit string) error {
	return errors.Newf("unsupported amount unit %q", unit).
		Component("cli").
		Category(errors.CategoryValidation).
		Build()
}
