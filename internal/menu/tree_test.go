package menu

import (
	"strings"
	"testing"

	"github.com/example/googleit/internal/host"
)

func testEntries() []host.Entry {
	return []host.Entry{
		{Context: host.ContextCollection, MenuItem: host.MenuItem{ID: "collection-cmd", Label: "From collection", Icon: "chrome://googleit/content/icons/google-icon.png"}},
		{Context: host.ContextItem, MenuItem: host.MenuItem{ID: "item-cmd", Label: "From items"}},
	}
}

func TestBuildTreeGroupsChoicesByContext(t *testing.T) {
	payload := UpdatePayload{
		Entries: testEntries(),
		Snapshot: Snapshot{
			Collections:   []Choice{{Key: "AAAA0001", Label: "Reading"}},
			SavedSearches: []Choice{{Key: "BBBB0002", Label: "Web pages"}},
			Items:         []Choice{{Key: "CCCC0003", Label: "Attention"}, {Key: "DDDD0004", Label: "Go blog"}},
		},
	}

	nodes := buildTree(payload)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 parents, got %d", len(nodes))
	}

	collection := nodes[0]
	if collection.Label != "From collection" || collection.Icon == "" {
		t.Fatalf("unexpected collection parent: %+v", collection)
	}
	if len(collection.Children) != 3 {
		t.Fatalf("expected collection, separator and saved search, got %+v", collection.Children)
	}
	if !collection.Children[1].Separator {
		t.Fatalf("expected separator between collections and saved searches")
	}
	first := collection.Children[0]
	if first.Action == nil || first.Action.EntryID != "collection-cmd" {
		t.Fatalf("expected collection child to invoke collection-cmd, got %+v", first.Action)
	}
	if first.Tooltip != "Collection AAAA0001" {
		t.Fatalf("unexpected tooltip %q", first.Tooltip)
	}
	if got := collection.Children[2].Tooltip; got != "Saved search BBBB0002" {
		t.Fatalf("unexpected saved search tooltip %q", got)
	}

	items := nodes[1]
	if len(items.Children) != 2 || items.Children[1].Label != "Go blog" {
		t.Fatalf("unexpected item children: %+v", items.Children)
	}
	if items.Children[0].Action.EntryID != "item-cmd" {
		t.Fatalf("expected item child to invoke item-cmd")
	}
}

func TestBuildTreePlaceholders(t *testing.T) {
	nodes := buildTree(UpdatePayload{Entries: testEntries()})
	if len(nodes) != 2 {
		t.Fatalf("expected 2 parents, got %d", len(nodes))
	}
	for idx, want := range []string{"No collections", "No items"} {
		children := nodes[idx].Children
		if len(children) != 1 || children[0].Label != want || !children[0].Disabled {
			t.Fatalf("expected disabled %q placeholder, got %+v", want, children)
		}
		if children[0].Action != nil {
			t.Fatalf("placeholder must not carry an action")
		}
	}
}

func TestBuildTreeOmitsSeparatorWithoutSavedSearches(t *testing.T) {
	nodes := buildTree(UpdatePayload{
		Entries:  testEntries()[:1],
		Snapshot: Snapshot{Collections: []Choice{{Key: "A", Label: "A"}, {Key: "B", Label: "B"}}},
	})
	for _, child := range nodes[0].Children {
		if child.Separator {
			t.Fatalf("unexpected separator in %+v", nodes[0].Children)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"ééééé", 4, "é..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.max); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}

	long := strings.Repeat("x", maxLabelLength+10)
	nodes := buildTree(UpdatePayload{
		Entries:  testEntries()[1:],
		Snapshot: Snapshot{Items: []Choice{{Key: "K", Label: long}}},
	})
	if got := len([]rune(nodes[0].Children[0].Label)); got != maxLabelLength {
		t.Fatalf("expected label truncated to %d runes, got %d", maxLabelLength, got)
	}
}
