package usage

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/tphakala/dasdcalc/cmd/internal/stateflags"
	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/format"
)

// Command creates the usage command reporting utilization of a volume.
func Command(settings *conf.Settings) *cobra.Command {
	var state stateflags.StateFlags

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Report utilization of a volume",
		Long: "Report total, used and free space of a volume and its utilization level.\n" +
			"The volume is given with --total/--used or read from the filesystem with --path.",
		Example: "  dasdcalc usage --total 1000 --used 800 --unit mb\n  dasdcalc usage --path /var",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := state.Resolve()
			if err != nil {
				return err
			}
			thresholds, err := settings.AlertThresholds()
			if err != nil {
				return err
			}

			p := format.New(language.English, settings.Calculator.Precision)
			PrintState(cmd.OutOrStdout(), p, s, thresholds)
			return nil
		},
	}

	state.Register(cmd.Flags())

	return cmd
}

// PrintState writes the utilization report for s.
func PrintState(out io.Writer, p *format.Printer, s capacity.State, thresholds capacity.Thresholds) {
	percent := s.PercentUsed()
	_, _ = fmt.Fprintf(out, "Total:   %s\n", p.Bytes(s.TotalSpace))
	_, _ = fmt.Fprintf(out, "Used:    %s\n", p.Bytes(s.UsedSpace()))
	_, _ = fmt.Fprintf(out, "Free:    %s\n", p.Bytes(s.DisplayFreeSpace()))
	_, _ = fmt.Fprintf(out, "Usage:   %s\n", p.Percent(percent))
	_, _ = fmt.Fprintf(out, "Level:   %s\n", p.Level(thresholds.Classify(percent)))
}
