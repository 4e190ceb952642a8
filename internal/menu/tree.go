package menu

import (
	"github.com/example/googleit/internal/host"
)

const maxLabelLength = 60

// node is a renderer-independent menu entry.
type node struct {
	Label     string
	Tooltip   string
	Icon      string
	Disabled  bool
	Separator bool
	Action    *invocation
	Children  []node
}

// UpdatePayload is what the tray renders: the registered commands and the
// objects they can act on.
type UpdatePayload struct {
	Entries  []host.Entry
	Snapshot Snapshot
}

// buildTree lays out one parent per registered entry with the selectable
// objects of its context as children.
func buildTree(payload UpdatePayload) []node {
	nodes := make([]node, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		parent := node{Label: entry.Label, Tooltip: entry.Label, Icon: entry.Icon}

		switch entry.Context {
		case host.ContextCollection:
			parent.Children = append(parent.Children, choices(entry.ID, payload.Snapshot.Collections, "Collection")...)
			if len(payload.Snapshot.Collections) > 0 && len(payload.Snapshot.SavedSearches) > 0 {
				parent.Children = append(parent.Children, node{Separator: true})
			}
			parent.Children = append(parent.Children, choices(entry.ID, payload.Snapshot.SavedSearches, "Saved search")...)
			if len(parent.Children) == 0 {
				parent.Children = []node{{Label: "No collections", Disabled: true}}
			}
		case host.ContextItem:
			parent.Children = choices(entry.ID, payload.Snapshot.Items, "Item")
			if len(parent.Children) == 0 {
				parent.Children = []node{{Label: "No items", Disabled: true}}
			}
		}
		nodes = append(nodes, parent)
	}
	return nodes
}

func choices(entryID string, list []Choice, kind string) []node {
	out := make([]node, 0, len(list))
	for _, choice := range list {
		out = append(out, node{
			Label:   truncate(choice.Label, maxLabelLength),
			Tooltip: kind + " " + choice.Key,
			Action:  &invocation{EntryID: entryID, Selection: choice.Selection},
		})
	}
	return out
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
