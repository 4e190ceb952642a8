package main

import (
	"github.com/spf13/cobra"

	"github.com/example/googleit/internal/command"
	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/zotero"
)

func newCollectionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "collection [name-or-key]",
		Short: "Search the URLs of a collection's items",
		Long:  "Selects the collection named by key, path (\"Parent / Child\") or name and launches a Google search restricted to the sites of its items' URLs.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel host.Selection
			if len(args) == 1 {
				lib, err := a.openLibrary()
				if err != nil {
					return err
				}
				defer lib.Close()

				coll, err := lib.FindCollection(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				sel.Collection = coll
			}
			return a.invoke(cmd.Context(), command.CollectionSearchID, sel)
		},
	}
}

func newSavedSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "saved-search [name-or-key]",
		Aliases: []string{"search"},
		Short:   "Search the URLs of the items matched by a saved search",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel host.Selection
			if len(args) == 1 {
				lib, err := a.openLibrary()
				if err != nil {
					return err
				}
				defer lib.Close()

				saved, err := lib.FindSavedSearch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				sel.SavedSearch = saved
			}
			return a.invoke(cmd.Context(), command.CollectionSearchID, sel)
		},
	}
}

func newItemsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "items [key...]",
		Short: "Search the URLs of the given items",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel host.Selection
			if len(args) > 0 {
				lib, err := a.openLibrary()
				if err != nil {
					return err
				}
				defer lib.Close()

				items, err := lib.Items(cmd.Context(), args...)
				if err != nil {
					return err
				}
				sel.Items = zotero.HostItems(items)
			}
			return a.invoke(cmd.Context(), command.ItemSearchID, sel)
		},
	}
}
