package devices

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/format"
	"github.com/tphakala/dasdcalc/internal/geometry"
)

// Command creates the devices command listing the geometry catalog.
func Command(settings *conf.Settings) *cobra.Command {
	var asYAML, asJSON bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List supported DASD device geometries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := geometry.Profiles()
			out := cmd.OutOrStdout()

			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(profiles)
			case asYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(profiles); err != nil {
					return fmt.Errorf("error encoding device catalog: %w", err)
				}
				return enc.Close()
			}

			return printTable(out, profiles, settings)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the catalog as YAML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	cmd.MarkFlagsMutuallyExclusive("yaml", "json")

	return cmd
}

func printTable(out io.Writer, profiles []geometry.Profile, settings *conf.Settings) error {
	p := format.New(language.English, settings.Calculator.Precision)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "TYPE\tNAME\tTRACKS/CYL\tBYTES/TRACK\tBYTES/CYL\t")
	for _, pr := range profiles {
		marker := ""
		if pr.Key == settings.Calculator.DefaultDevice {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s%s\t%s\t%d\t%s\t%s\t\n",
			pr.Key, marker, pr.Name, pr.TracksPerCylinder,
			p.Number(float64(pr.BytesPerTrack)), p.Number(float64(pr.BytesPerCylinder())))
	}

	return w.Flush()
}
