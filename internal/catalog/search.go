package catalog

import "strings"

// Scope selects which fields a search term is matched against.
type Scope int

const (
	// ScopeListing matches name and code, as the storefront and seller
	// dashboards do.
	ScopeListing Scope = iota
	// ScopeAdmin also matches owner names and descriptions.
	ScopeAdmin
)

// Matches reports whether term occurs, case-insensitively, in one of the
// fields covered by scope. An empty term matches everything.
func Matches(it Item, term string, scope Scope) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	fields := []string{it.Name, it.Code}
	if scope == ScopeAdmin {
		fields = append(fields, it.Description, it.FirstName, it.LastName)
	}

	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Filter returns the items accepted by keep that match term. The input slice
// is never modified; the result is always a fresh slice.
func Filter(items []Item, term string, scope Scope, keep func(Item) bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if keep != nil && !keep(it) {
			continue
		}
		if !Matches(it, term, scope) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FindByID returns the item with id, if present.
func FindByID(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
