package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var appID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search every configured source for a game",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("title is required")
			}

			agg, err := ctx.ensureAggregator()
			if err != nil {
				return err
			}

			results := agg.SearchGames(cmd.Context(), title, strings.TrimSpace(appID))

			if jsonOutput {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No results found.")
				return nil
			}

			rows := make([][]string, 0, len(results))
			for i, result := range results {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					result.Source,
					result.Title,
					result.ID,
					result.SteamAppID,
				})
			}
			if !isTerminal(out) {
				// Keep piped output grep-friendly.
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, "\t"))
				}
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "SOURCE", "TITLE", "ID", "STEAM APP ID"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&appID, "appid", "", "Steam App ID for an exact lookup")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")
	return cmd
}
