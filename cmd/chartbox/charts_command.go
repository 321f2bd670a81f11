package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmcdole/chartbox/internal/domain"
)

func newChartsCommand(ctx *commandContext) *cobra.Command {
	chartsCmd := &cobra.Command{
		Use:   "charts",
		Short: "Browse the local chart library",
	}

	chartsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every chart in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				printCharts(cmd.OutOrStdout(), a, a.charts.Charts())
				return nil
			})
		},
	})

	chartsCmd.AddCommand(&cobra.Command{
		Use:   "show <local_path>",
		Short: "Show one chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				chart, ok := a.charts.FindByPath(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", domain.ErrChartNotFound, args[0])
				}
				printChart(cmd.OutOrStdout(), a, chart)
				return nil
			})
		},
	})

	chartsCmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search chart titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				results := a.charts.Search(args[0])
				charts := make([]domain.LocalChart, len(results))
				for i, r := range results {
					charts[i] = r.Chart
				}
				printCharts(cmd.OutOrStdout(), a, charts)
				return nil
			})
		},
	})

	return chartsCmd
}

func printCharts(w io.Writer, a *app, charts []domain.LocalChart) {
	if len(charts) == 0 {
		fmt.Fprintln(w, dimStyle(w).Render("No charts"))
		return
	}
	rows := make([][]string, 0, len(charts))
	for _, c := range charts {
		grade := ""
		if rec, ok := a.charts.Record(c.Path.String()); ok {
			grade = rec.Grade()
		}
		rows = append(rows, []string{
			c.Path.String(),
			c.Title(),
			c.Level,
			c.Composer,
			grade,
			favoriteMark(w, a.favs.IsFavorited(c.Path.String())),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Path", "Name", "Level", "Composer", "Grade", "Fav"},
		rows,
		nil,
	))
}

func printChart(w io.Writer, a *app, c domain.LocalChart) {
	path := c.Path.String()
	fmt.Fprintln(w, titleStyle(w).Render(c.Title()))

	rows := [][]string{
		{"Path", path},
		{"Kind", c.Path.Kind().String()},
		{"Level", c.Level},
		{"Difficulty", strconv.FormatFloat(float64(c.Difficulty), 'f', 1, 32)},
		{"Charter", c.Charter},
		{"Composer", c.Composer},
		{"Illustrator", c.Illustrator},
	}
	if id, ok := c.Path.RemoteID(); ok {
		rows = append(rows, []string{"Remote ID", strconv.FormatInt(int64(id), 10)})
	}
	if rec, ok := a.charts.Record(path); ok {
		rows = append(rows, []string{"Best", fmt.Sprintf("%d (%s, %.2f%%)", rec.Score, rec.Grade(), rec.Accuracy*100)})
	}
	if folders := a.favs.FoldersContaining(path); len(folders) > 0 {
		for _, f := range sortFolderNames(folders) {
			rows = append(rows, []string{"Folder", f})
		}
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil))
}
