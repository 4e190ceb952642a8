package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MenuContext names the kind of object a menu entry acts on.
type MenuContext string

const (
	ContextCollection MenuContext = "collection"
	ContextItem       MenuContext = "item"
)

// TagMenuItem is the only supported entry tag.
const TagMenuItem = "menuitem"

var (
	// ErrDuplicateID is returned when an entry id is registered twice.
	ErrDuplicateID = errors.New("menu entry already registered")
	// ErrUnknownEntry is returned when invoking an id that was never registered.
	ErrUnknownEntry = errors.New("unknown menu entry")
)

// Listener runs when a menu entry is clicked.
type Listener func(ctx context.Context) error

// MenuItem describes a single context-menu entry.
type MenuItem struct {
	Tag      string
	ID       string
	Label    string
	Icon     string
	Listener Listener
}

// Entry is a registered MenuItem together with its context.
type Entry struct {
	Context MenuContext
	MenuItem
}

// Menu accepts context-menu registrations.
type Menu interface {
	Register(ctx MenuContext, item MenuItem) error
}

// Registry is an in-memory Menu. Entries keep registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Register validates and stores item under the given context.
func (r *Registry) Register(ctx MenuContext, item MenuItem) error {
	if item.Tag == "" {
		item.Tag = TagMenuItem
	}
	if item.Tag != TagMenuItem {
		return fmt.Errorf("unsupported menu tag %q", item.Tag)
	}
	if item.ID == "" {
		return errors.New("menu entry requires an id")
	}
	if item.Listener == nil {
		return fmt.Errorf("menu entry %s has no listener", item.ID)
	}
	switch ctx {
	case ContextCollection, ContextItem:
	default:
		return fmt.Errorf("unsupported menu context %q", ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[item.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
	}
	r.byID[item.ID] = len(r.entries)
	r.entries = append(r.entries, Entry{Context: ctx, MenuItem: item})
	return nil
}

// Entries returns the entries registered for ctx, or all entries when ctx is
// empty.
func (r *Registry) Entries(ctx MenuContext) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if ctx == "" || entry.Context == ctx {
			out = append(out, entry)
		}
	}
	return out
}

// Lookup returns the entry registered under id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Invoke runs the listener registered under id.
func (r *Registry) Invoke(ctx context.Context, id string) error {
	entry, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}
	return entry.Listener(ctx)
}
