package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"harextract/internal/preflight"
	"harextract/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check ffmpeg and the output and staging directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(output) == "" {
				output = cfg.Paths.OutputPath
			}

			w := newStatusWriter(cmd.OutOrStdout(), 20, "  ")
			w.section("Configuration")
			w.field("Output", output, statusInfo)
			w.field("Staging", cfg.StagingDirFor(output), statusInfo)
			w.field("Suffixes", strings.Join(cfg.Suffixes(), " "), statusInfo)
			w.field("Missing threshold", strconv.Itoa(cfg.Remux.MissingThreshold), statusInfo)
			fmt.Fprintln(cmd.OutOrStdout())

			w.section("Checks")
			results := preflight.RunAll(cmd.Context(), cfg, output)
			for _, r := range results {
				w.check(r.Name, r.Passed, r.Detail)
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return services.Wrap(services.ErrValidation, "check", "", fmt.Sprintf("%d check(s) failed", len(failed)), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file to check (default from config)")
	return cmd
}
