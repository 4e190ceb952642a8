// Package zoterotest builds small Zotero databases for tests.
package zoterotest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE itemTypes (itemTypeID INTEGER PRIMARY KEY, typeName TEXT);
CREATE TABLE fields (fieldID INTEGER PRIMARY KEY, fieldName TEXT, fieldFormatID INT);
CREATE TABLE items (
	itemID INTEGER PRIMARY KEY,
	itemTypeID INT NOT NULL,
	dateAdded TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	dateModified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	libraryID INT NOT NULL DEFAULT 1,
	key TEXT NOT NULL,
	UNIQUE (libraryID, key)
);
CREATE TABLE itemDataValues (valueID INTEGER PRIMARY KEY, value UNIQUE);
CREATE TABLE itemData (itemID INT, fieldID INT, valueID, PRIMARY KEY (itemID, fieldID));
CREATE TABLE deletedItems (itemID INTEGER PRIMARY KEY, dateDeleted DEFAULT CURRENT_TIMESTAMP NOT NULL);
CREATE TABLE tags (tagID INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE);
CREATE TABLE itemTags (itemID INT NOT NULL, tagID INT NOT NULL, type INT NOT NULL DEFAULT 0, PRIMARY KEY (itemID, tagID));
CREATE TABLE collections (
	collectionID INTEGER PRIMARY KEY,
	collectionName TEXT NOT NULL,
	parentCollectionID INT DEFAULT NULL,
	libraryID INT NOT NULL DEFAULT 1,
	key TEXT NOT NULL
);
CREATE TABLE collectionItems (collectionID INT NOT NULL, itemID INT NOT NULL, orderIndex INT NOT NULL DEFAULT 0, PRIMARY KEY (collectionID, itemID));
CREATE TABLE deletedCollections (collectionID INTEGER PRIMARY KEY, dateDeleted DEFAULT CURRENT_TIMESTAMP NOT NULL);
CREATE TABLE savedSearches (savedSearchID INTEGER PRIMARY KEY, savedSearchName TEXT NOT NULL, libraryID INT NOT NULL DEFAULT 1, key TEXT NOT NULL);
CREATE TABLE savedSearchConditions (
	savedSearchID INT NOT NULL,
	searchConditionID INT NOT NULL,
	condition TEXT NOT NULL,
	operator TEXT,
	value TEXT,
	required INT,
	PRIMARY KEY (savedSearchID, searchConditionID)
);
CREATE TABLE deletedSearches (savedSearchID INTEGER PRIMARY KEY, dateDeleted DEFAULT CURRENT_TIMESTAMP NOT NULL);
`

// Condition is a saved-search condition row.
type Condition struct {
	Name     string
	Operator string
	Value    string
	Required bool
}

// Builder writes fixture rows into a fresh database.
type Builder struct {
	t    testing.TB
	path string
	db   *sql.DB
}

// New creates an empty Zotero-shaped database in a temp dir.
func New(t testing.TB) *Builder {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zotero.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("create fixture schema: %v", err)
	}
	b := &Builder{t: t, path: path, db: db}
	t.Cleanup(func() { _ = db.Close() })
	return b
}

// Path returns the database file path.
func (b *Builder) Path() string { return b.path }

// Close flushes and closes the writable handle. Call before opening the
// library read-only.
func (b *Builder) Close() {
	b.t.Helper()
	if err := b.db.Close(); err != nil {
		b.t.Fatalf("close fixture db: %v", err)
	}
}

func (b *Builder) exec(query string, args ...interface{}) sql.Result {
	b.t.Helper()
	res, err := b.db.Exec(query, args...)
	if err != nil {
		b.t.Fatalf("fixture %q: %v", query, err)
	}
	return res
}

func (b *Builder) id(query string, args ...interface{}) int64 {
	b.t.Helper()
	var id int64
	if err := b.db.QueryRow(query, args...).Scan(&id); err != nil {
		b.t.Fatalf("fixture %q: %v", query, err)
	}
	return id
}

// Item inserts an item with the given type, fields and modification time
// ("2006-01-02 15:04:05") and returns its ID.
func (b *Builder) Item(key, itemType, modified string, fields map[string]string) int64 {
	b.t.Helper()
	b.exec(`INSERT INTO itemTypes (typeName) SELECT ? WHERE NOT EXISTS (SELECT 1 FROM itemTypes WHERE typeName = ?)`, itemType, itemType)
	typeID := b.id(`SELECT itemTypeID FROM itemTypes WHERE typeName = ?`, itemType)

	res := b.exec(`INSERT INTO items (itemTypeID, dateModified, key) VALUES (?, ?, ?)`, typeID, modified, key)
	itemID, err := res.LastInsertId()
	if err != nil {
		b.t.Fatalf("fixture item id: %v", err)
	}

	for name, value := range fields {
		b.exec(`INSERT INTO fields (fieldName) SELECT ? WHERE NOT EXISTS (SELECT 1 FROM fields WHERE fieldName = ?)`, name, name)
		fieldID := b.id(`SELECT fieldID FROM fields WHERE fieldName = ?`, name)
		b.exec(`INSERT OR IGNORE INTO itemDataValues (value) VALUES (?)`, value)
		valueID := b.id(`SELECT valueID FROM itemDataValues WHERE value = ?`, value)
		b.exec(`INSERT INTO itemData (itemID, fieldID, valueID) VALUES (?, ?, ?)`, itemID, fieldID, valueID)
	}
	return itemID
}

// Field registers a field name without any values.
func (b *Builder) Field(name string) {
	b.t.Helper()
	b.exec(`INSERT INTO fields (fieldName) SELECT ? WHERE NOT EXISTS (SELECT 1 FROM fields WHERE fieldName = ?)`, name, name)
}

// Trash moves an item to the trash.
func (b *Builder) Trash(itemID int64) {
	b.t.Helper()
	b.exec(`INSERT INTO deletedItems (itemID) VALUES (?)`, itemID)
}

// Tag attaches a tag to an item.
func (b *Builder) Tag(itemID int64, name string) {
	b.t.Helper()
	b.exec(`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name)
	tagID := b.id(`SELECT tagID FROM tags WHERE name = ?`, name)
	b.exec(`INSERT INTO itemTags (itemID, tagID) VALUES (?, ?)`, itemID, tagID)
}

// Collection inserts a collection under parentKey ("" for top level).
func (b *Builder) Collection(key, name, parentKey string) int64 {
	b.t.Helper()
	var parent interface{}
	if parentKey != "" {
		parent = b.id(`SELECT collectionID FROM collections WHERE key = ?`, parentKey)
	}
	res := b.exec(`INSERT INTO collections (collectionName, parentCollectionID, key) VALUES (?, ?, ?)`, name, parent, key)
	id, err := res.LastInsertId()
	if err != nil {
		b.t.Fatalf("fixture collection id: %v", err)
	}
	return id
}

// AddToCollection places an item in a collection at orderIndex.
func (b *Builder) AddToCollection(collectionKey string, itemID int64, orderIndex int) {
	b.t.Helper()
	collectionID := b.id(`SELECT collectionID FROM collections WHERE key = ?`, collectionKey)
	b.exec(`INSERT INTO collectionItems (collectionID, itemID, orderIndex) VALUES (?, ?, ?)`, collectionID, itemID, orderIndex)
}

// TrashCollection moves a collection to the trash.
func (b *Builder) TrashCollection(key string) {
	b.t.Helper()
	b.exec(`INSERT INTO deletedCollections (collectionID) SELECT collectionID FROM collections WHERE key = ?`, key)
}

// TrashSavedSearch moves a saved search to the trash.
func (b *Builder) TrashSavedSearch(key string) {
	b.t.Helper()
	b.exec(`INSERT INTO deletedSearches (savedSearchID) SELECT savedSearchID FROM savedSearches WHERE key = ?`, key)
}

// SavedSearch inserts a saved search with its conditions.
func (b *Builder) SavedSearch(key, name string, conds ...Condition) int64 {
	b.t.Helper()
	res := b.exec(`INSERT INTO savedSearches (savedSearchName, key) VALUES (?, ?)`, name, key)
	id, err := res.LastInsertId()
	if err != nil {
		b.t.Fatalf("fixture saved search id: %v", err)
	}
	for idx, cond := range conds {
		required := 0
		if cond.Required {
			required = 1
		}
		b.exec(`INSERT INTO savedSearchConditions (savedSearchID, searchConditionID, condition, operator, value, required)
			VALUES (?, ?, ?, ?, ?, ?)`, id, idx, cond.Name, cond.Operator, cond.Value, required)
	}
	return id
}

// Seed fills the database with a small library:
//
//	ATTN0001 journalArticle "Attention"  https://www.arxiv.org/abs/1706.03762  tag ml
//	GOBL0002 webpage        "Go blog"    http://go.dev/blog                    tag go
//	BOOK0003 book           "Offline"    (no url)
//	TRSH0004 webpage        "Trashed"    https://trash.example                 (in trash)
//
// Collections: READ0001 "Reading" (GOBL0002, ATTN0001, TRSH0004),
// SUBC0002 "Reading / Later" (GOBL0002), BKCL0003 "Books" (BOOK0003),
// GONE0004 "Gone" (trashed). Saved searches: WEBP0001 "Web pages",
// MLGO0002 "ML or Go", FULL0003 "Fulltext" (unsupported condition).
func (b *Builder) Seed() {
	b.t.Helper()
	attention := b.Item("ATTN0001", "journalArticle", "2024-01-03 10:00:00", map[string]string{
		"title": "Attention",
		"url":   "https://www.arxiv.org/abs/1706.03762",
	})
	goBlog := b.Item("GOBL0002", "webpage", "2024-01-02 10:00:00", map[string]string{
		"title": "Go blog",
		"url":   "http://go.dev/blog",
	})
	offline := b.Item("BOOK0003", "book", "2024-01-01 10:00:00", map[string]string{
		"title": "Offline",
	})
	trashed := b.Item("TRSH0004", "webpage", "2024-01-04 10:00:00", map[string]string{
		"title": "Trashed",
		"url":   "https://trash.example",
	})
	b.Trash(trashed)
	b.Tag(attention, "ml")
	b.Tag(goBlog, "go")

	b.Collection("READ0001", "Reading", "")
	b.Collection("SUBC0002", "Later", "READ0001")
	b.Collection("BKCL0003", "Books", "")
	b.Collection("GONE0004", "Gone", "")
	b.AddToCollection("READ0001", goBlog, 0)
	b.AddToCollection("READ0001", attention, 1)
	b.AddToCollection("READ0001", trashed, 2)
	b.AddToCollection("SUBC0002", goBlog, 0)
	b.AddToCollection("BKCL0003", offline, 0)
	b.TrashCollection("GONE0004")

	b.SavedSearch("WEBP0001", "Web pages",
		Condition{Name: "itemType", Operator: "is", Value: "webpage"})
	b.SavedSearch("MLGO0002", "ML or Go",
		Condition{Name: "joinMode", Operator: "any"},
		Condition{Name: "tag", Operator: "is", Value: "ml"},
		Condition{Name: "tag", Operator: "is", Value: "go"})
	b.SavedSearch("FULL0003", "Fulltext",
		Condition{Name: "fulltextContent", Operator: "contains", Value: "transformer"})
}
