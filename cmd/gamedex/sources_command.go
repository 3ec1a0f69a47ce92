package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List configured metadata sources and their state",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := ctx.ensureAggregator()
			if err != nil {
				return err
			}

			statuses := agg.Sources()

			if jsonOutput {
				type sourceStatus struct {
					Kind      string `json:"kind"`
					Name      string `json:"name"`
					Available bool   `json:"available"`
					Installs  bool   `json:"installs"`
				}
				out := make([]sourceStatus, 0, len(statuses))
				for _, status := range statuses {
					out = append(out, sourceStatus{
						Kind:      string(status.Kind),
						Name:      status.Name,
						Available: status.Available,
						Installs:  status.Installs,
					})
				}
				return writeJSON(cmd, out)
			}

			out := cmd.OutOrStdout()
			if len(statuses) == 0 {
				fmt.Fprintln(out, "No sources configured. Run 'gamedex config init' and set API keys.")
				return nil
			}

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				rows = append(rows, []string{
					string(status.Kind),
					status.Name,
					strings.ToUpper(yesNo(status.Available)),
					yesNo(status.Installs),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"KIND", "NAME", "AVAILABLE", "INSTALL INFO"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit source status as JSON")
	return cmd
}
