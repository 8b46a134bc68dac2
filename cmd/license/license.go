package license

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
)

//go:embed LICENSE
var licenseFile embed.FS

// Command creates a new cobra.Command to print the license.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Print the license of dasdcalc",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := fs.ReadFile(licenseFile, "LICENSE")
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), "\n"+string(data)+"\n")
			return err
		},
	}

	return cmd
}
