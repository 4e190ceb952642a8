package zotero

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/googleit/internal/host"
)

const (
	dateLayout = "2006-01-02 15:04:05"
	// sqlite allows 999 bound variables on older builds.
	maxBatch = 500
)

// Item is a Zotero library item with its field values.
type Item struct {
	ID       int64
	ItemKey  string
	Type     string
	Modified time.Time

	fields      map[string]string
	tags        []string
	collections []string
}

// Key returns the item key.
func (i *Item) Key() string { return i.ItemKey }

// Field returns the value of the named field, or "" when unset.
func (i *Item) Field(name string) string { return i.fields[name] }

// Title returns the title field.
func (i *Item) Title() string { return i.fields["title"] }

// Tags returns the item's tag names.
func (i *Item) Tags() []string { return append([]string(nil), i.tags...) }

// CollectionKeys returns the keys of the collections containing the item.
func (i *Item) CollectionKeys() []string { return append([]string(nil), i.collections...) }

var _ host.Item = (*Item)(nil)

const itemColumns = `i.itemID, i.key, COALESCE(t.typeName, ''), COALESCE(i.dateModified, '')`

const itemFrom = `FROM items i
	LEFT JOIN itemTypes t ON t.itemTypeID = i.itemTypeID`

const notTrashed = `i.itemID NOT IN (SELECT itemID FROM deletedItems)`

// queryItems runs a query selecting itemColumns and loads each item's
// fields, tags and collections.
func (l *Library) queryItems(ctx context.Context, query string, args ...interface{}) ([]*Item, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var (
			item     Item
			modified string
		)
		if err := rows.Scan(&item.ID, &item.ItemKey, &item.Type, &modified); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Modified, _ = time.Parse(dateLayout, modified)
		item.fields = make(map[string]string)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	rows.Close()

	if err := l.hydrate(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (l *Library) hydrate(ctx context.Context, items []*Item) error {
	byID := make(map[int64]*Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for start := 0; start < len(items); start += maxBatch {
		end := start + maxBatch
		if end > len(items) {
			end = len(items)
		}
		ids := make([]interface{}, 0, end-start)
		for _, item := range items[start:end] {
			ids = append(ids, item.ID)
		}
		in := placeholders(len(ids))

		err := l.eachRow(ctx, `SELECT d.itemID, f.fieldName, v.value
			FROM itemData d
			JOIN fields f ON f.fieldID = d.fieldID
			JOIN itemDataValues v ON v.valueID = d.valueID
			WHERE d.itemID IN (`+in+`)`, ids, func(id int64, name, value string) {
			byID[id].fields[name] = value
		})
		if err != nil {
			return fmt.Errorf("load item fields: %w", err)
		}

		err = l.eachRow(ctx, `SELECT it.itemID, t.name, ''
			FROM itemTags it
			JOIN tags t ON t.tagID = it.tagID
			WHERE it.itemID IN (`+in+`)
			ORDER BY t.name`, ids, func(id int64, name, _ string) {
			byID[id].tags = append(byID[id].tags, name)
		})
		if err != nil {
			return fmt.Errorf("load item tags: %w", err)
		}

		err = l.eachRow(ctx, `SELECT ci.itemID, c.key, ''
			FROM collectionItems ci
			JOIN collections c ON c.collectionID = ci.collectionID
			WHERE ci.itemID IN (`+in+`)`, ids, func(id int64, key, _ string) {
			byID[id].collections = append(byID[id].collections, key)
		})
		if err != nil {
			return fmt.Errorf("load item collections: %w", err)
		}
	}
	return nil
}

// eachRow scans (itemID, text, text) rows.
func (l *Library) eachRow(ctx context.Context, query string, args []interface{}, fn func(id int64, a, b string)) error {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			a, b sql.NullString
		)
		if err := rows.Scan(&id, &a, &b); err != nil {
			return err
		}
		fn(id, a.String, b.String)
	}
	return rows.Err()
}

// Items returns the items with the given keys, in the order requested.
// Trashed items count as missing.
func (l *Library) Items(ctx context.Context, keys ...string) ([]*Item, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	args := make([]interface{}, len(keys))
	for idx, key := range keys {
		args[idx] = strings.ToUpper(strings.TrimSpace(key))
	}
	found, err := l.queryItems(ctx, `SELECT `+itemColumns+` `+itemFrom+`
		WHERE `+notTrashed+` AND i.key IN (`+placeholders(len(args))+`)`, args...)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*Item, len(found))
	for _, item := range found {
		byKey[item.ItemKey] = item
	}
	out := make([]*Item, 0, len(keys))
	for _, key := range args {
		item, ok := byKey[key.(string)]
		if !ok {
			return nil, fmt.Errorf("item %s: %w", key, ErrNotFound)
		}
		out = append(out, item)
	}
	return out, nil
}

// RecentItems returns up to limit items ordered by most recent modification.
func (l *Library) RecentItems(ctx context.Context, limit int) ([]*Item, error) {
	if limit <= 0 {
		return nil, nil
	}
	return l.queryItems(ctx, `SELECT `+itemColumns+` `+itemFrom+`
		WHERE `+notTrashed+`
		ORDER BY i.dateModified DESC, i.itemID DESC
		LIMIT ?`, limit)
}

func (l *Library) allItems(ctx context.Context) ([]*Item, error) {
	return l.queryItems(ctx, `SELECT `+itemColumns+` `+itemFrom+`
		WHERE `+notTrashed+`
		ORDER BY i.itemID`)
}

// HostItems converts items for use as a host selection.
func HostItems(items []*Item) []host.Item {
	out := make([]host.Item, len(items))
	for idx, item := range items {
		out[idx] = item
	}
	return out
}
