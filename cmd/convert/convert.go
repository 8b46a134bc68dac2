package convert

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/format"
	"github.com/tphakala/dasdcalc/internal/geometry"
)

// Command creates the convert command for DASD unit conversions.
func Command(settings *conf.Settings) *cobra.Command {
	var from, to string
	var all bool

	cmd := &cobra.Command{
		Use:   "convert VALUE",
		Short: "Convert between cylinders, tracks and megabytes",
		Long: "Convert a quantity between cylinders (CYL), tracks (TRKS) and megabytes (MO)\n" +
			"for a DASD device geometry. Zero or negative values convert to 0.",
		Example: "  dasdcalc convert 1 --from CYL --to TRKS\n  dasdcalc convert 500 --from MO --all --device 3380",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.New(err).
					Component("cli").
					Category(errors.CategoryValidation).
					Context("value", args[0]).
					Build()
			}

			fromUnit, toUnit := geometry.ParseUnit(from), geometry.ParseUnit(to)
			if !fromUnit.Valid() || (!all && !toUnit.Valid()) {
				return errors.Newf("units must be CYL, TRKS or MO, got %q -> %q", from, to).
					Component("cli").
					Category(errors.CategoryValidation).
					Build()
			}

			converter, err := geometry.NewConverter(settings.Calculator.DefaultDevice)
			if err != nil {
				return err
			}

			p := format.New(language.English, settings.Calculator.Precision)
			out := cmd.OutOrStdout()
			profile := converter.Profile()

			if all {
				results := converter.ConvertAll(value, fromUnit)
				_, _ = fmt.Fprintf(out, "%s %s on %s:\n", p.Number(value), fromUnit, profile.Name)
				for _, u := range geometry.AllUnits {
					_, _ = fmt.Fprintf(out, "  %-4s %s\n", u, p.Number(results[u]))
				}
				return nil
			}

			result := converter.Convert(value, fromUnit, toUnit)
			_, _ = fmt.Fprintf(out, "%s %s = %s %s (%s)\n",
				p.Number(value), fromUnit, p.Number(result), toUnit, profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", string(geometry.Cylinders), "Source unit (CYL, TRKS, MO)")
	cmd.Flags().StringVarP(&to, "to", "t", string(geometry.Megabytes), "Target unit (CYL, TRKS, MO)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show the value in every unit")

	return cmd
}
