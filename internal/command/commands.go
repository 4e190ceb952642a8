package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/googleit/internal/host"
)

const (
	CollectionSearchID = "zgi-good-search-collection-command"
	ItemSearchID       = "zgi-good-search-item-command"

	// DefaultAddonRef names the icon resource namespace when none is configured.
	DefaultAddonRef = "googleit"
)

// NewCollectionSearch searches the URLs of the selected collection, or of the
// selected saved search when no collection is selected.
func NewCollectionSearch(deps Deps) *Command {
	return New(
		CollectionSearchID,
		"Google It - Launch Google search from collection URLs",
		host.ContextCollection,
		collectionURLs(deps.Pane),
		Notice{Title: "No collection selected", Message: "Please select a collection to perform a Google search."},
		Notice{Title: "No URLs found", Message: "No URLs found in the selected collection."},
		deps,
	)
}

// NewItemSearch searches the URLs of the selected items.
func NewItemSearch(deps Deps) *Command {
	return New(
		ItemSearchID,
		"Google It - Launch Google search from item URLs",
		host.ContextItem,
		itemURLs(deps.Pane),
		Notice{Title: "No item(s) selected", Message: "Please select one or more items to perform a Google search."},
		Notice{Title: "No URLs found", Message: "No URLs found in the selected items."},
		deps,
	)
}

func collectionURLs(pane host.Pane) Resolver {
	return func(ctx context.Context) ([]string, error) {
		coll := pane.SelectedCollection()
		if coll == nil {
			coll = pane.SelectedSavedSearch()
		}
		if coll == nil {
			return nil, ErrNoSelection
		}

		items, err := coll.ChildItems(ctx)
		if err != nil {
			return nil, fmt.Errorf("load items of %q: %w", coll.Name(), err)
		}
		return URLs(items), nil
	}
}

func itemURLs(pane host.Pane) Resolver {
	return func(context.Context) ([]string, error) {
		items := pane.SelectedItems()
		if len(items) == 0 {
			return nil, ErrNoSelection
		}
		return URLs(items), nil
	}
}

// IconURI returns the chrome:// resource of the command icon.
func IconURI(addonRef string) string {
	addonRef = strings.TrimSpace(addonRef)
	if addonRef == "" {
		addonRef = DefaultAddonRef
	}
	return fmt.Sprintf("chrome://%s/content/icons/google-icon.png", addonRef)
}

// Register adds the collection and item commands to menu.
func Register(menu host.Menu, deps Deps) ([]*Command, error) {
	icon := IconURI(deps.AddonRef)
	commands := []*Command{NewCollectionSearch(deps), NewItemSearch(deps)}
	for _, cmd := range commands {
		if err := menu.Register(cmd.Context, cmd.MenuItem(icon)); err != nil {
			return nil, fmt.Errorf("register %s: %w", cmd.ID, err)
		}
	}
	return commands, nil
}
