package zotero

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/example/googleit/internal/host"
)

// ErrUnsupportedCondition is returned for saved-search conditions this
// package cannot evaluate.
var ErrUnsupportedCondition = errors.New("unsupported saved search condition")

// Condition is one row of a saved search.
type Condition struct {
	Name     string
	Operator string
	Value    string
	Required bool
}

// SavedSearch is a stored query over the library.
type SavedSearch struct {
	ID         int64
	Key        string
	Title      string
	Conditions []Condition

	lib *Library
}

// Name returns the saved search name.
func (s *SavedSearch) Name() string { return s.Title }

// ChildItems returns the non-trashed items matching the search, ordered by
// item ID.
func (s *SavedSearch) ChildItems(ctx context.Context) ([]host.Item, error) {
	fields, err := s.lib.fieldNames(ctx)
	if err != nil {
		return nil, err
	}
	matcher, err := compile(s.Conditions, fields)
	if err != nil {
		return nil, fmt.Errorf("saved search %q: %w", s.Title, err)
	}

	all, err := s.lib.allItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]host.Item, 0)
	for _, item := range all {
		if matcher.match(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

var _ host.Collection = (*SavedSearch)(nil)

// SavedSearches returns all saved searches sorted by name.
func (l *Library) SavedSearches(ctx context.Context) ([]*SavedSearch, error) {
	query := `SELECT savedSearchID, key, savedSearchName FROM savedSearches`
	trash, err := l.hasTable(ctx, "deletedSearches")
	if err != nil {
		return nil, err
	}
	if trash {
		query += ` WHERE savedSearchID NOT IN (SELECT savedSearchID FROM deletedSearches)`
	}

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query saved searches: %w", err)
	}
	defer rows.Close()

	var out []*SavedSearch
	byID := make(map[int64]*SavedSearch)
	for rows.Next() {
		s := &SavedSearch{lib: l}
		if err := rows.Scan(&s.ID, &s.Key, &s.Title); err != nil {
			return nil, fmt.Errorf("scan saved search: %w", err)
		}
		out = append(out, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query saved searches: %w", err)
	}
	rows.Close()

	condRows, err := l.db.QueryContext(ctx, `SELECT savedSearchID, condition, COALESCE(operator, ''), COALESCE(value, ''), COALESCE(required, 0)
		FROM savedSearchConditions
		ORDER BY savedSearchID, searchConditionID`)
	if err != nil {
		return nil, fmt.Errorf("query saved search conditions: %w", err)
	}
	defer condRows.Close()

	for condRows.Next() {
		var (
			id       int64
			cond     Condition
			required int
		)
		if err := condRows.Scan(&id, &cond.Name, &cond.Operator, &cond.Value, &required); err != nil {
			return nil, fmt.Errorf("scan saved search condition: %w", err)
		}
		cond.Required = required != 0
		if s, ok := byID[id]; ok {
			s.Conditions = append(s.Conditions, cond)
		}
	}
	if err := condRows.Err(); err != nil {
		return nil, fmt.Errorf("query saved search conditions: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

// FindSavedSearch resolves ref as a saved-search key or name.
func (l *Library) FindSavedSearch(ctx context.Context, ref string) (*SavedSearch, error) {
	all, err := l.SavedSearches(ctx)
	if err != nil {
		return nil, err
	}
	return findNamed(all, ref, func(s *SavedSearch) (string, string, string) {
		return s.Key, s.Title, s.Title
	}, "saved search")
}

func (l *Library) fieldNames(ctx context.Context) (map[string]bool, error) {
	l.mu.Lock()
	cached := l.fields
	l.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	rows, err := l.db.QueryContext(ctx, `SELECT fieldName FROM fields`)
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		names[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}

	l.mu.Lock()
	l.fields = names
	l.mu.Unlock()
	return names, nil
}

// flags that tune how Zotero presents results but do not filter items here.
var ignoredConditions = map[string]bool{
	"noChildren":                true,
	"includeParentsAndChildren": true,
	"recursive":                 true,
}

type predicate struct {
	required bool
	test     func(*Item) bool
}

type matcher struct {
	any        bool
	predicates []predicate
}

func compile(conds []Condition, fields map[string]bool) (*matcher, error) {
	m := &matcher{}
	for _, cond := range conds {
		if cond.Name == "joinMode" {
			m.any = strings.EqualFold(cond.Operator, "any")
			continue
		}
		if ignoredConditions[cond.Name] {
			continue
		}

		test, err := conditionTest(cond, fields)
		if err != nil {
			return nil, err
		}
		m.predicates = append(m.predicates, predicate{required: cond.Required, test: test})
	}
	return m, nil
}

// match applies Zotero's join semantics: in "any" mode required conditions
// must still hold and at least one optional condition must match.
func (m *matcher) match(item *Item) bool {
	if len(m.predicates) == 0 {
		return true
	}

	optional, optionalHit := 0, false
	for _, p := range m.predicates {
		ok := p.test(item)
		if !m.any || p.required {
			if !ok {
				return false
			}
			continue
		}
		optional++
		if ok {
			optionalHit = true
		}
	}
	return optional == 0 || optionalHit
}

func conditionTest(cond Condition, fields map[string]bool) (func(*Item) bool, error) {
	switch {
	case cond.Name == "collection":
		key := collectionRef(cond.Value)
		return membership(cond, func(item *Item) []string { return item.collections }, func(v string) bool {
			return v == key
		})
	case cond.Name == "tag":
		return textMatch(cond, func(item *Item) []string { return item.tags })
	case cond.Name == "itemType":
		return textMatch(cond, func(item *Item) []string { return []string{item.Type} })
	case fields[cond.Name]:
		name := cond.Name
		return textMatch(cond, func(item *Item) []string { return []string{item.fields[name]} })
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCondition, cond.Name)
	}
}

// collectionRef accepts a bare key or Zotero's "C"-prefixed form.
func collectionRef(value string) string {
	value = strings.TrimSpace(value)
	if len(value) == 9 && value[0] == 'C' {
		return value[1:]
	}
	return value
}

func membership(cond Condition, values func(*Item) []string, eq func(string) bool) (func(*Item) bool, error) {
	contains := func(item *Item) bool {
		for _, v := range values(item) {
			if eq(v) {
				return true
			}
		}
		return false
	}
	switch cond.Operator {
	case "is":
		return contains, nil
	case "isNot":
		return func(item *Item) bool { return !contains(item) }, nil
	default:
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedCondition, cond.Name, cond.Operator)
	}
}

func textMatch(cond Condition, values func(*Item) []string) (func(*Item) bool, error) {
	want := strings.ToLower(cond.Value)
	var positive func(string) bool
	negate := false

	switch cond.Operator {
	case "is":
		positive = func(v string) bool { return strings.ToLower(v) == want }
	case "isNot":
		positive = func(v string) bool { return strings.ToLower(v) == want }
		negate = true
	case "contains":
		positive = func(v string) bool { return strings.Contains(strings.ToLower(v), want) }
	case "doesNotContain":
		positive = func(v string) bool { return strings.Contains(strings.ToLower(v), want) }
		negate = true
	case "beginsWith":
		positive = func(v string) bool { return strings.HasPrefix(strings.ToLower(v), want) }
	default:
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedCondition, cond.Name, cond.Operator)
	}

	return func(item *Item) bool {
		hit := false
		for _, v := range values(item) {
			if positive(v) {
				hit = true
				break
			}
		}
		return hit != negate
	}, nil
}
