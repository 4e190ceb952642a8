package menu

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/zotero"
)

// Choice is one selectable object shown under a menu entry.
type Choice struct {
	Key       string         `json:"key"`
	Label     string         `json:"label"`
	Selection host.Selection `json:"-"`
}

// Snapshot is the part of the library the tray offers for selection.
type Snapshot struct {
	Collections   []Choice `json:"collections"`
	SavedSearches []Choice `json:"savedSearches"`
	Items         []Choice `json:"items"`
}

// Digest identifies the visible content of the snapshot.
func (s Snapshot) Digest() string {
	payload, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Source produces library snapshots.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// LibrarySource snapshots a Zotero database. Each snapshot reopens the file
// so edits made in Zotero show up. The selections of a returned snapshot stay
// bound to its handle: when a reload has the same digest the previous
// snapshot and handle are kept, otherwise the previous handle is closed.
type LibrarySource struct {
	Path        string
	RecentItems int

	lib  *zotero.Library
	last Snapshot
}

// Snapshot implements Source.
func (s *LibrarySource) Snapshot(ctx context.Context) (Snapshot, error) {
	lib, err := zotero.Open(s.Path)
	if err != nil {
		return Snapshot{}, err
	}

	snap, err := loadSnapshot(ctx, lib, s.RecentItems)
	if err != nil {
		lib.Close()
		return Snapshot{}, err
	}

	if s.lib != nil && snap.Digest() == s.last.Digest() {
		_ = lib.Close()
		return s.last, nil
	}

	if s.lib != nil {
		_ = s.lib.Close()
	}
	s.lib = lib
	s.last = snap
	return snap, nil
}

// Close releases the current library handle.
func (s *LibrarySource) Close() error {
	if s.lib == nil {
		return nil
	}
	err := s.lib.Close()
	s.lib = nil
	s.last = Snapshot{}
	return err
}

func loadSnapshot(ctx context.Context, lib *zotero.Library, recent int) (Snapshot, error) {
	var snap Snapshot

	collections, err := lib.Collections(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load collections: %w", err)
	}
	for _, c := range collections {
		snap.Collections = append(snap.Collections, Choice{
			Key:       c.Key,
			Label:     c.Path,
			Selection: host.Selection{Collection: c},
		})
	}

	searches, err := lib.SavedSearches(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load saved searches: %w", err)
	}
	for _, s := range searches {
		snap.SavedSearches = append(snap.SavedSearches, Choice{
			Key:       s.Key,
			Label:     s.Title,
			Selection: host.Selection{SavedSearch: s},
		})
	}

	items, err := lib.RecentItems(ctx, recent)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load recent items: %w", err)
	}
	for _, item := range items {
		label := item.Title()
		if label == "" {
			label = item.Key()
		}
		snap.Items = append(snap.Items, Choice{
			Key:       item.Key(),
			Label:     label,
			Selection: host.Selection{Items: []host.Item{item}},
		})
	}
	return snap, nil
}
