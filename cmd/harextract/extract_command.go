package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"harextract/internal/logging"
	"harextract/internal/preflight"
	"harextract/internal/services"
	"harextract/internal/workflow"
)

type extractFlags struct {
	output        string
	stagingDir    string
	threshold     int
	skipPreflight bool
}

func (f *extractFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default from config, ./output.mp4)")
	cmd.Flags().StringVar(&f.stagingDir, "staging-dir", "", "Staging directory (default <output>-tmp)")
	cmd.Flags().IntVar(&f.threshold, "threshold", -1, "Largest number of missing segments that still remuxes (default from config, 10)")
	cmd.Flags().BoolVar(&f.skipPreflight, "skip-preflight", false, "Skip the ffmpeg and directory checks")
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var flags extractFlags
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract and remux the HLS stream in an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, ctx, flags, args[0])
		},
	}
	flags.bind(cmd)
	return cmd
}

func runExtract(cmd *cobra.Command, ctx *commandContext, flags extractFlags, archivePath string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	if dir := strings.TrimSpace(flags.stagingDir); dir != "" {
		cfg.Paths.StagingDir = dir
	}

	opts := workflow.OptionsFromConfig(cfg, archivePath, strings.TrimSpace(flags.output), ctx.verbose(), logger)
	if flags.threshold >= 0 {
		opts.MissingThreshold = flags.threshold
	}

	if !flags.skipPreflight {
		results := preflight.RunAll(cmd.Context(), cfg, opts.OutputPath)
		for _, r := range results {
			logger.Debug("preflight check",
				logging.String("check", r.Name),
				logging.Bool("passed", r.Passed),
				logging.String("detail", r.Detail),
			)
		}
		if summary := preflight.Summarize(results); summary != "" {
			return services.Wrap(services.ErrValidation, "preflight", "", summary, nil)
		}
	}

	report, err := workflow.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	if code := report.Outcome.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func printReport(out io.Writer, report workflow.Report) {
	w := newStatusWriter(out, 10, "")
	w.field("Outcome", report.Outcome.String(), outcomeKind(report.Outcome))
	if report.Manifest != "" {
		w.field("Manifest", report.Manifest, statusInfo)
	}
	w.field("Segments", fmt.Sprintf("%d staged (%s) in %s", report.Segments, humanize.IBytes(uint64(report.Bytes)), report.StagingDir), statusInfo)
	if len(report.Missing) > 0 {
		w.field("Missing", fmt.Sprintf("%d (%s)", len(report.Missing), strings.Join(report.Missing, ", ")), statusWarn)
	}
	if report.Outcome.Proceeds() {
		w.field("Output", report.OutputPath, statusInfo)
	}
}
