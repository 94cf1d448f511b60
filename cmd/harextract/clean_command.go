package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"harextract/internal/staging"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var root string
	var maxAge time.Duration
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale staging directories",
		Long: `Remove staging directories left behind by earlier runs.

Only directories named "<output>-tmp" that were created by harextract are
considered. By default the directory holding the configured output file is
scanned; directories still locked by a running extraction are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if strings.TrimSpace(root) == "" {
				root = filepath.Dir(cfg.Paths.OutputPath)
			}
			out := cmd.OutOrStdout()

			if dryRun {
				dirs, err := staging.ListDirectories(root)
				if err != nil {
					return fmt.Errorf("list staging directories: %w", err)
				}
				cutoff := time.Now().Add(-maxAge)
				rows := make([][]string, 0, len(dirs))
				for _, dir := range dirs {
					action := "keep"
					switch {
					case dir.Locked:
						action = "in use"
					case dir.ModTime.Before(cutoff):
						action = "remove"
					}
					rows = append(rows, []string{
						dir.Name,
						humanize.Time(dir.ModTime),
						fmt.Sprintf("%d", dir.Files),
						humanize.IBytes(uint64(dir.Size)),
						action,
					})
				}
				if len(rows) == 0 {
					fmt.Fprintf(out, "No staging directories in %s\n", root)
					return nil
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Directory", "Modified", "Files", "Size", "Action"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			}

			result := staging.CleanStale(cmd.Context(), root, maxAge, logger)
			for _, path := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", path)
			}
			for _, path := range result.Skipped {
				fmt.Fprintf(out, "Skipped %s (in use)\n", path)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("failed to remove %d staging director(ies): %w", len(result.Errors), result.Errors[0].Error)
			}
			if len(result.Removed) == 0 && len(result.Skipped) == 0 {
				fmt.Fprintln(out, "No stale staging directories")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Directory to scan (default: directory of the configured output)")
	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Remove staging directories not modified for this long")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without deleting anything")
	return cmd
}
