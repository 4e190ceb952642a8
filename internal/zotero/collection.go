package zotero

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/example/googleit/internal/host"
)

// Collection is a Zotero collection.
type Collection struct {
	ID        int64
	Key       string
	Title     string
	ParentKey string
	// Path is the slash-separated chain of ancestor names, e.g. "Thesis / Ch1".
	Path string

	lib *Library
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.Title }

// ChildItems returns the collection's direct, non-trashed member items in
// collection order.
func (c *Collection) ChildItems(ctx context.Context) ([]host.Item, error) {
	items, err := c.lib.queryItems(ctx, `SELECT `+itemColumns+`
		FROM collectionItems ci
		JOIN items i ON i.itemID = ci.itemID
		LEFT JOIN itemTypes t ON t.itemTypeID = i.itemTypeID
		WHERE ci.collectionID = ? AND `+notTrashed+`
		ORDER BY ci.orderIndex, i.itemID`, c.ID)
	if err != nil {
		return nil, err
	}
	return HostItems(items), nil
}

var _ host.Collection = (*Collection)(nil)

// Collections returns all non-trashed collections sorted by path.
func (l *Library) Collections(ctx context.Context) ([]*Collection, error) {
	query := `SELECT c.collectionID, c.key, c.collectionName, COALESCE(p.key, '')
		FROM collections c
		LEFT JOIN collections p ON p.collectionID = c.parentCollectionID`
	trash, err := l.hasTable(ctx, "deletedCollections")
	if err != nil {
		return nil, err
	}
	if trash {
		query += ` WHERE c.collectionID NOT IN (SELECT collectionID FROM deletedCollections)`
	}

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var out []*Collection
	byKey := make(map[string]*Collection)
	for rows.Next() {
		c := &Collection{lib: l}
		if err := rows.Scan(&c.ID, &c.Key, &c.Title, &c.ParentKey); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, c)
		byKey[c.Key] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}

	for _, c := range out {
		c.Path = collectionPath(c, byKey)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Path) < strings.ToLower(out[j].Path)
	})
	return out, nil
}

func collectionPath(c *Collection, byKey map[string]*Collection) string {
	parts := []string{c.Title}
	seen := map[string]bool{c.Key: true}
	for parent := byKey[c.ParentKey]; parent != nil && !seen[parent.Key]; parent = byKey[parent.ParentKey] {
		seen[parent.Key] = true
		parts = append([]string{parent.Title}, parts...)
	}
	return strings.Join(parts, " / ")
}

// FindCollection resolves ref as a collection key, a path or a name.
// Names are matched case-insensitively and must be unique.
func (l *Library) FindCollection(ctx context.Context, ref string) (*Collection, error) {
	all, err := l.Collections(ctx)
	if err != nil {
		return nil, err
	}
	return findNamed(all, ref, func(c *Collection) (string, string, string) {
		return c.Key, c.Path, c.Title
	}, "collection")
}

// findNamed matches by exact key, then by path, then by name.
func findNamed[T any](all []T, ref string, names func(T) (key, path, name string), kind string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%s: empty name: %w", kind, ErrNotFound)
	}

	for _, candidate := range all {
		if key, _, _ := names(candidate); key == ref {
			return candidate, nil
		}
	}

	// field 1 is the path, field 2 the bare name
	for field := 1; field <= 2; field++ {
		var matches []T
		for _, candidate := range all {
			key, path, name := names(candidate)
			if strings.EqualFold([]string{key, path, name}[field], ref) {
				matches = append(matches, candidate)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return zero, fmt.Errorf("%s %q matches %d entries, use its key: %w", kind, ref, len(matches), ErrAmbiguous)
		}
	}
	return zero, fmt.Errorf("%s %q: %w", kind, ref, ErrNotFound)
}
