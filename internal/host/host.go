// Package host defines the capabilities a reference-library host hands to
// its commands: menu registration, selection state, field access, alerting
// and URL launching.
package host

import "context"

// FieldURL is the item field holding the item's web address.
const FieldURL = "url"

// Item is a single reference record.
type Item interface {
	Key() string
	Field(name string) string
}

// Collection is anything that can list member items: a collection or a saved
// search.
type Collection interface {
	Name() string
	ChildItems(ctx context.Context) ([]Item, error)
}

// Pane exposes the user's current selection. Nil or empty results mean
// nothing of that kind is selected.
type Pane interface {
	SelectedCollection() Collection
	SelectedSavedSearch() Collection
	SelectedItems() []Item
}

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(ctx context.Context, title, message string) error
}

// Launcher opens a URL in the user's browser.
type Launcher interface {
	Launch(ctx context.Context, rawURL string) error
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, rawURL string) error

// Launch calls f.
func (f LauncherFunc) Launch(ctx context.Context, rawURL string) error {
	return f(ctx, rawURL)
}
