package host

import (
	"context"
	"testing"
)

type stubItem string

func (s stubItem) Key() string              { return string(s) }
func (s stubItem) Field(name string) string { return "" }

type stubCollection string

func (s stubCollection) Name() string                               { return string(s) }
func (s stubCollection) ChildItems(context.Context) ([]Item, error) { return nil, nil }

func TestStateSelectAndClear(t *testing.T) {
	var state State
	if state.SelectedCollection() != nil || state.SelectedSavedSearch() != nil || state.SelectedItems() != nil {
		t.Fatalf("expected empty selection on zero State")
	}

	items := []Item{stubItem("A"), stubItem("B")}
	state.Select(Selection{Collection: stubCollection("papers"), Items: items})
	items[0] = stubItem("Z")

	if got := state.SelectedCollection(); got == nil || got.Name() != "papers" {
		t.Fatalf("unexpected collection %v", got)
	}
	selected := state.SelectedItems()
	if len(selected) != 2 || selected[0].Key() != "A" {
		t.Fatalf("selection should be isolated from caller slice, got %v", selected)
	}

	state.Clear()
	if state.SelectedCollection() != nil || len(state.SelectedItems()) != 0 {
		t.Fatalf("expected cleared selection")
	}
}
