package zotero

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/zotero/zoterotest"
)

func openSeeded(t *testing.T) *Library {
	t.Helper()
	b := zoterotest.New(t)
	b.Seed()
	b.Close()

	lib, err := Open(b.Path())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func keys(items []host.Item) []string {
	out := make([]string, len(items))
	for idx, item := range items {
		out[idx] = item.Key()
	}
	return out
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.sqlite"))
	require.Error(t, err)
}

func TestReadOnlyDSN(t *testing.T) {
	assert.Equal(t, "file:///home/me/Zotero/zotero.sqlite?mode=ro&immutable=1", readOnlyDSN("/home/me/Zotero/zotero.sqlite"))
}

func TestCollectionsSkipTrashAndSortByPath(t *testing.T) {
	lib := openSeeded(t)

	colls, err := lib.Collections(context.Background())
	require.NoError(t, err)

	var paths []string
	for _, c := range colls {
		paths = append(paths, c.Path)
	}
	assert.Equal(t, []string{"Books", "Reading", "Reading / Later"}, paths)
	assert.Equal(t, "READ0001", colls[2].ParentKey)
}

func TestCollectionChildItemsOrderAndTrash(t *testing.T) {
	lib := openSeeded(t)
	ctx := context.Background()

	reading, err := lib.FindCollection(ctx, "Reading")
	require.NoError(t, err)
	assert.Equal(t, "Reading", reading.Name())

	items, err := reading.ChildItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GOBL0002", "ATTN0001"}, keys(items))
	assert.Equal(t, "http://go.dev/blog", items[0].Field(host.FieldURL))
	assert.Equal(t, "https://www.arxiv.org/abs/1706.03762", items[1].Field(host.FieldURL))
}

func TestFindCollection(t *testing.T) {
	lib := openSeeded(t)
	ctx := context.Background()

	tests := []struct {
		ref  string
		want string
	}{
		{ref: "READ0001", want: "READ0001"},
		{ref: "reading / later", want: "SUBC0002"},
		{ref: "Later", want: "SUBC0002"},
		{ref: " books ", want: "BKCL0003"},
	}
	for _, tt := range tests {
		c, err := lib.FindCollection(ctx, tt.ref)
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, c.Key, tt.ref)
	}

	_, err := lib.FindCollection(ctx, "Gone")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = lib.FindCollection(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindCollectionAmbiguousName(t *testing.T) {
	b := zoterotest.New(t)
	b.Collection("AAAA0001", "Thesis", "")
	b.Collection("BBBB0002", "Notes", "")
	b.Collection("CCCC0003", "Drafts", "AAAA0001")
	b.Collection("DDDD0004", "Drafts", "BBBB0002")
	b.Close()

	lib, err := Open(b.Path())
	require.NoError(t, err)
	defer lib.Close()

	_, err = lib.FindCollection(context.Background(), "drafts")
	require.ErrorIs(t, err, ErrAmbiguous)

	c, err := lib.FindCollection(context.Background(), "Notes / Drafts")
	require.NoError(t, err)
	assert.Equal(t, "DDDD0004", c.Key)
}

func TestItemsByKey(t *testing.T) {
	lib := openSeeded(t)
	ctx := context.Background()

	items, err := lib.Items(ctx, "gobl0002", "ATTN0001")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "GOBL0002", items[0].Key())
	assert.Equal(t, "webpage", items[0].Type)
	assert.Equal(t, "Go blog", items[0].Title())
	assert.Equal(t, []string{"go"}, items[0].Tags())
	assert.ElementsMatch(t, []string{"READ0001", "SUBC0002"}, items[0].CollectionKeys())
	assert.Equal(t, 2024, items[0].Modified.Year())

	_, err = lib.Items(ctx, "TRSH0004")
	require.ErrorIs(t, err, ErrNotFound)

	none, err := lib.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestItemWithoutURL(t *testing.T) {
	lib := openSeeded(t)

	items, err := lib.Items(context.Background(), "BOOK0003")
	require.NoError(t, err)
	assert.Equal(t, "", items[0].Field(host.FieldURL))
}

func TestRecentItems(t *testing.T) {
	lib := openSeeded(t)
	ctx := context.Background()

	items, err := lib.RecentItems(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ATTN0001", "GOBL0002"}, keys(HostItems(items)))

	none, err := lib.RecentItems(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
