package host

import "sync"

// Selection is a snapshot of what the user picked.
type Selection struct {
	Collection  Collection
	SavedSearch Collection
	Items       []Item
}

// State is a mutable Pane. Hosts call Select right before invoking a
// listener.
type State struct {
	mu  sync.RWMutex
	sel Selection
}

// Select replaces the current selection.
func (s *State) Select(sel Selection) {
	items := make([]Item, len(sel.Items))
	copy(items, sel.Items)
	sel.Items = items

	s.mu.Lock()
	s.sel = sel
	s.mu.Unlock()
}

// Clear drops the current selection.
func (s *State) Clear() {
	s.Select(Selection{})
}

func (s *State) SelectedCollection() Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.Collection
}

func (s *State) SelectedSavedSearch() Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel.SavedSearch
}

func (s *State) SelectedItems() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.sel.Items) == 0 {
		return nil
	}
	out := make([]Item, len(s.sel.Items))
	copy(out, s.sel.Items)
	return out
}

var _ Pane = (*State)(nil)
