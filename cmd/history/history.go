package history

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/dasdcalc/internal/api/client"
	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/history"
)

// Command creates the history command which queries a running server.
func Command(settings *conf.Settings) *cobra.Command {
	var server string
	var limit int
	var kind string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show calculations recorded by a running dasdcalc server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(server)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), client.DefaultTimeout)
			defer cancel()

			resp, err := c.History(ctx, limit, history.Kind(kind))
			if err != nil {
				return fmt.Errorf("error fetching history from %s: %w", server, err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			if resp.Count == 0 {
				_, _ = fmt.Fprintln(out, "No calculations recorded")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tTIME\tKIND\tINPUT\t")
			for _, e := range resp.Entries {
				input, _ := json.Marshal(e.Input)
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
					e.ID, e.Timestamp.Local().Format(time.DateTime), e.Kind, input)
			}
			return w.Flush()
		},
	}

	cmd.PersistentFlags().StringVar(&server, "server", settings.Server.Listen, "Address of the dasdcalc server")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries, 0 for all")
	cmd.Flags().StringVar(&kind, "kind", "", "Only show entries of this kind (conversion, usage, simulation)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw API response")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded calculations from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(server)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), client.DefaultTimeout)
			defer cancel()

			if err := c.ClearHistory(ctx); err != nil {
				return fmt.Errorf("error clearing history on %s: %w", server, err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	})

	return cmd
}
