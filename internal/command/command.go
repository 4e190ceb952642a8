// Package command implements the "Google It" menu commands. Both commands
// share one Run path; they differ only in how URLs are resolved from the
// current selection.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/logging"
	"github.com/example/googleit/internal/search"
)

// ErrNoSelection is returned by a Resolver when nothing suitable is selected.
var ErrNoSelection = errors.New("nothing selected")

// Resolver yields the URLs of the current selection.
type Resolver func(ctx context.Context) ([]string, error)

// Notice is the title and body of a user-facing alert.
type Notice struct {
	Title   string
	Message string
}

// Command is a single "Google It" menu command.
type Command struct {
	ID      string
	Label   string
	Context host.MenuContext

	NoSelection Notice
	NoURLs      Notice

	resolve  Resolver
	alerter  host.Alerter
	launcher host.Launcher
	engine   search.Engine
}

// Deps bundles the host collaborators the commands need.
type Deps struct {
	Pane     host.Pane
	Alerter  host.Alerter
	Launcher host.Launcher
	Engine   search.Engine
	AddonRef string
}

// New builds a command around resolve. Most callers want NewCollectionSearch
// or NewItemSearch.
func New(id, label string, menuCtx host.MenuContext, resolve Resolver, noSelection, noURLs Notice, deps Deps) *Command {
	return &Command{
		ID:          id,
		Label:       label,
		Context:     menuCtx,
		NoSelection: noSelection,
		NoURLs:      noURLs,
		resolve:     resolve,
		alerter:     deps.Alerter,
		launcher:    deps.Launcher,
		engine:      deps.Engine,
	}
}

// Run resolves the selection's URLs and launches the search. Missing
// selections and empty URL sets are reported through the alerter and are not
// errors.
func (c *Command) Run(ctx context.Context) error {
	inv := logging.NewInvocation(c.ID)

	urls, err := c.resolve(ctx)
	if errors.Is(err, ErrNoSelection) {
		inv.Debugf("no selection")
		return c.alert(ctx, c.NoSelection)
	}
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		inv.Debugf("selection has no urls")
		return c.alert(ctx, c.NoURLs)
	}

	target := c.engine.URL(search.BuildQuery(urls))
	inv.Debugf("launching search over %d urls: %s", len(urls), logging.SanitizeURL(target))
	if err := c.launcher.Launch(ctx, target); err != nil {
		return fmt.Errorf("launch search: %w", err)
	}
	return nil
}

func (c *Command) alert(ctx context.Context, n Notice) error {
	if err := c.alerter.Alert(ctx, n.Title, n.Message); err != nil {
		return fmt.Errorf("alert %q: %w", n.Title, err)
	}
	return nil
}

// MenuItem describes the command for host menu registration.
func (c *Command) MenuItem(icon string) host.MenuItem {
	return host.MenuItem{
		Tag:      host.TagMenuItem,
		ID:       c.ID,
		Label:    c.Label,
		Icon:     icon,
		Listener: c.Run,
	}
}

// URLs returns the non-empty url fields of items in order.
func URLs(items []host.Item) []string {
	urls := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if u := item.Field(host.FieldURL); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
