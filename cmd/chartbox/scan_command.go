package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mmcdole/chartbox/internal/domain"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Reconcile the chart index with the charts on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			errOut := cmd.ErrOrStderr()
			var bar *progressbar.ProgressBar
			onProgress := func(loaded, total int) {
				if !isTerminal(errOut) {
					return
				}
				if bar == nil {
					bar = newProgressBar(errOut, total)
				}
				_ = bar.Set(loaded)
			}

			return ctx.withApp(cmd, onProgress, func(a *app) error {
				if bar != nil {
					_ = bar.Finish()
				}
				out := cmd.OutOrStdout()
				printScanReport(out, a.report)

				if prune {
					removed, err := a.favCmds.PruneDangling(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed %d dangling favorite(s)\n", removed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&prune, "prune-favorites", false, "Drop favorites that point at charts no longer on disk")
	return cmd
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Reading charts"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func printScanReport(w io.Writer, r domain.ScanReport) {
	fmt.Fprintln(w, titleStyle(w).Render("Library scan"))
	for _, c := range r.Added {
		fmt.Fprintf(w, "  %s %s (%s)\n", successStyle(w).Render("+"), c.Title(), c.Path)
	}
	for _, p := range r.Pruned {
		fmt.Fprintf(w, "  %s %s\n", errorStyle(w).Render("-"), p)
	}
	for _, name := range r.Respacks {
		fmt.Fprintf(w, "  %s respack %s\n", successStyle(w).Render("+"), name)
	}
	for _, m := range r.Migrations {
		fmt.Fprintf(w, "  %s\n", dimStyle(w).Render("migrated "+m))
	}
	fmt.Fprintf(w, "Added %d, pruned %d, skipped %d\n", len(r.Added), len(r.Pruned), r.Skipped)
}
