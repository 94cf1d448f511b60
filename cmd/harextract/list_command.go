package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"harextract/internal/archive"
)

const listURLWidth = 60

func newListCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list FILE",
		Short: "List the manifests and segments an archive contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rc, kind, err := archive.Open(args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			var filter archive.Filter
			if !all {
				filter = archive.SuffixFilter(cfg.Suffixes()...)
			}
			ex := archive.NewExtractor(rc, filter)

			var rows [][]string
			var total int64
			for ex.Next() {
				res := ex.Resource()
				total += int64(len(res.Data))
				rows = append(rows, []string{
					fmt.Sprintf("%d", len(rows)+1),
					res.Name(),
					classify(res, cfg.Extract.ManifestSuffixes, cfg.Extract.SegmentSuffixes),
					humanize.IBytes(uint64(len(res.Data))),
					truncateMiddle(res.URL, listURLWidth),
				})
			}
			if err := ex.Err(); err != nil {
				return fmt.Errorf("scan archive: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "No matching entries (%d entries scanned)\n", ex.Entries())
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Name", "Kind", "Size", "URL"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "\nTotal: %d of %d entries, %s (%s archive)\n",
				len(rows), ex.Entries(), humanize.IBytes(uint64(total)), kind)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every entry with a body, not only manifests and segments")
	return cmd
}

func classify(res archive.Resource, manifestSuffixes, segmentSuffixes []string) string {
	switch {
	case archive.HasSuffix(res.Path, manifestSuffixes...):
		return "manifest"
	case archive.HasSuffix(res.Path, segmentSuffixes...):
		return "segment"
	default:
		return "other"
	}
}
