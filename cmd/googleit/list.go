package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/zotero"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collections, saved searches or recent items",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection", "c"},
		Short:   "List collections with their keys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withLibrary(func(lib *zotero.Library) error {
				collections, err := lib.Collections(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "KEY\tCOLLECTION")
				for _, c := range collections {
					fmt.Fprintf(w, "%s\t%s\n", c.Key, c.Path)
				}
				return w.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "searches",
		Aliases: []string{"saved-searches", "s"},
		Short:   "List saved searches with their conditions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withLibrary(func(lib *zotero.Library) error {
				searches, err := lib.SavedSearches(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "KEY\tSAVED SEARCH\tCONDITIONS")
				for _, s := range searches {
					fmt.Fprintf(w, "%s\t%s\t%d\n", s.Key, s.Title, len(s.Conditions))
				}
				return w.Flush()
			})
		},
	})

	var limit int
	items := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item", "i"},
		Short:   "List recently modified items with their URLs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				limit = a.cfg.RecentItems()
			}
			return a.withLibrary(func(lib *zotero.Library) error {
				recent, err := lib.RecentItems(cmd.Context(), limit)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "KEY\tTYPE\tTITLE\tURL")
				for _, item := range recent {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.Key(), item.Type, truncate(item.Title(), 50), item.Field(host.FieldURL))
				}
				return w.Flush()
			})
		},
	}
	items.Flags().IntVarP(&limit, "limit", "n", 0, "number of items to list (default library.recent_items)")
	cmd.AddCommand(items)

	return cmd
}

func (a *app) withLibrary(fn func(*zotero.Library) error) error {
	lib, err := a.openLibrary()
	if err != nil {
		return err
	}
	defer lib.Close()
	return fn(lib)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
