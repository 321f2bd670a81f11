package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmcdole/chartbox/internal/domain"
)

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	foldersCmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"fav"},
		Short:   "Organize charts into favorite folders",
	}

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				printFolders(cmd.OutOrStdout(), a, sortFolderNames(a.favs.AllFolderNames()))
				return nil
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-match folder names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				printFolders(cmd.OutOrStdout(), a, a.favs.MatchFolders(args[0]))
				return nil
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "List the charts in a folder, most recent last",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				if !a.favs.Exists(args[0]) {
					return fmt.Errorf("%w: %s", domain.ErrFolderNotFound, args[0])
				}
				out := cmd.OutOrStdout()
				paths := a.favs.GetPaths(args[0])
				charts := a.favs.FolderCharts(args[0])
				if missing := len(paths) - len(charts); missing > 0 {
					fmt.Fprintln(out, dimStyle(out).Render(fmt.Sprintf("%d chart(s) no longer on disk", missing)))
				}
				printCharts(out, a, charts)
				return nil
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				if err := a.favCmds.CreateFolder(cmd.Context(), args[0]); err != nil {
					return err
				}
				return done(cmd.OutOrStdout(), "Created folder %q", args[0])
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				if err := a.favCmds.RenameFolder(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				return done(cmd.OutOrStdout(), "Renamed %q to %q", args[0], args[1])
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				if err := a.favCmds.DeleteFolder(cmd.Context(), args[0]); err != nil {
					return err
				}
				return done(cmd.OutOrStdout(), "Deleted folder %q", args[0])
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "add <name> <local_path>",
		Short: "Add a chart to a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				if _, ok := a.charts.FindByPath(args[1]); !ok {
					return fmt.Errorf("%w: %s", domain.ErrChartNotFound, args[1])
				}
				if err := a.favCmds.AddTo(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				return done(cmd.OutOrStdout(), "Added %s to %q", args[1], args[0])
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "remove <name> <local_path>",
		Short: "Remove a chart from a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				if err := a.favCmds.RemoveFrom(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				return done(cmd.OutOrStdout(), "Removed %s from %q", args[1], args[0])
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "toggle <local_path>",
		Short: "Toggle a chart in the default folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				added, err := a.favCmds.ToggleDefault(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if added {
					return done(cmd.OutOrStdout(), "Favorited %s", args[0])
				}
				return done(cmd.OutOrStdout(), "Unfavorited %s", args[0])
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "cover <name> [image]",
		Short: "Show or set the cover of a folder",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				out := cmd.OutOrStdout()
				if len(args) == 2 {
					if err := a.favCmds.SetCover(cmd.Context(), args[0], args[1]); err != nil {
						return err
					}
					return done(out, "Set cover of %q", args[0])
				}
				if !a.favs.Exists(args[0]) {
					return fmt.Errorf("%w: %s", domain.ErrFolderNotFound, args[0])
				}
				cover, ok := a.favs.Cover(args[0])
				switch {
				case !ok:
					fmt.Fprintln(out, dimStyle(out).Render("No cover"))
				case cover.Custom:
					fmt.Fprintf(out, "%s (custom)\n", cover.Ref)
				default:
					fmt.Fprintln(out, cover.Ref)
				}
				return nil
			})
		},
	})

	foldersCmd.AddCommand(&cobra.Command{
		Use:   "uncover <name>",
		Short: "Remove a folder's custom cover",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, nil, func(a *app) error {
				if err := a.favCmds.RemoveCover(cmd.Context(), args[0]); err != nil {
					return err
				}
				return done(cmd.OutOrStdout(), "Removed cover of %q", args[0])
			})
		},
	})

	return foldersCmd
}

func printFolders(w io.Writer, a *app, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, dimStyle(w).Render("No folders"))
		return
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		cover := ""
		if c, ok := a.favs.Cover(name); ok {
			cover = c.Ref
		}
		rows = append(rows, []string{name, strconv.Itoa(len(a.favs.GetPaths(name))), cover})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Folder", "Charts", "Cover"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
}

func done(w io.Writer, format string, args ...any) error {
	fmt.Fprintln(w, successStyle(w).Render(fmt.Sprintf(format, args...)))
	return nil
}
