package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gamedex/internal/logging"
	"gamedex/internal/metadata"
	"gamedex/internal/textutil"
)

func newArtworkCommand(ctx *commandContext) *cobra.Command {
	var appID string
	var jsonOutput bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "artwork <title>",
		Short: "Aggregate artwork, description, and install info for a game",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("title is required")
			}
			id := strings.TrimSpace(appID)

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var record *metadata.AggregatedMetadata
			cache, cacheErr := ctx.openCache()
			if cacheErr != nil {
				// A locked or broken cache degrades to uncached operation.
				logger.Warn("metadata cache unavailable", logging.Error(cacheErr))
			} else {
				defer cache.Close()
			}

			if cache != nil && !noCache {
				cached, ok, err := cache.Get(cmd.Context(), title, id, cfg.CacheTTL())
				if err != nil {
					logger.Warn("cache read failed", logging.Error(err))
				} else if ok {
					record = cached
				}
			}

			if record == nil {
				agg, err := ctx.ensureAggregator()
				if err != nil {
					return err
				}
				merged := agg.SearchArtwork(cmd.Context(), title, id)
				record = &merged

				if cache != nil && !noCache && !merged.Empty() {
					if err := cache.Put(cmd.Context(), title, id, merged); err != nil {
						logger.Warn("cache write failed", logging.Error(err))
					}
				}
			}

			if jsonOutput {
				return writeJSON(cmd, record)
			}

			out := cmd.OutOrStdout()
			if record.Empty() {
				fmt.Fprintln(out, "No metadata found.")
				return nil
			}
			fmt.Fprintln(out, textutil.DisplayTitle(title))
			fmt.Fprintln(out, renderTable(
				[]string{"FIELD", "VALUE"},
				metadataRows(*record),
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&appID, "appid", "", "Steam App ID for an exact lookup")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the merged record as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the metadata cache")
	return cmd
}

// metadataRows flattens the non-empty fields of a merged record for display.
func metadataRows(record metadata.AggregatedMetadata) [][]string {
	var rows [][]string
	add := func(field, value string) {
		if value != "" {
			rows = append(rows, []string{field, value})
		}
	}

	add("Box Art", record.BoxArtURL)
	add("Banner", record.BannerURL)
	add("Hero", record.HeroURL)
	add("Logo", record.LogoURL)
	add("Icon", record.IconURL)
	if n := len(record.Screenshots); n > 0 {
		add("Screenshots", fmt.Sprintf("%d image(s)", n))
	}

	add("Summary", truncate(record.Summary, 100))
	add("Release Date", record.ReleaseDate)
	add("Genres", strings.Join(record.Genres, ", "))
	add("Developers", strings.Join(record.Developers, ", "))
	add("Publishers", strings.Join(record.Publishers, ", "))
	add("Age Rating", record.AgeRating)
	if record.Rating > 0 {
		add("Rating", fmt.Sprintf("%.0f", record.Rating))
	}
	add("Platforms", strings.Join(record.Platforms, ", "))

	add("Install Path", record.InstallPath)
	if record.InstallSize > 0 {
		add("Install Size", formatBytes(record.InstallSize))
	}
	add("Install Platform", record.Platform)

	return rows
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return strings.TrimSpace(value[:limit]) + "..."
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
