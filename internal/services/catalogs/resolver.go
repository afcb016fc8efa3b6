// -----------------------------------------------------------------------
// Package catalogs resolves selections against externally sourced
// allowed-value snapshots and fetches those snapshots
// -----------------------------------------------------------------------

package catalogs

import (
	"strings"

	"github.com/ternarybob/rogo/internal/models"
)

// Resolver is a thin per-call adapter over one catalog snapshot. It
// builds id/slug/name indices on demand and holds no state across
// calls: snapshot freshness is the caller's responsibility.
type Resolver struct {
	entries []models.CatalogEntry
	byID    map[string]int
	bySlug  map[string]int
	byName  map[string]int
}

// NewResolver indexes the supplied snapshot. A nil snapshot resolves
// nothing.
func NewResolver(snapshot *models.CatalogSnapshot) *Resolver {
	r := &Resolver{
		byID:   make(map[string]int),
		bySlug: make(map[string]int),
		byName: make(map[string]int),
	}
	if snapshot == nil {
		return r
	}

	r.entries = snapshot.Entries
	for i, entry := range snapshot.Entries {
		if entry.ID != "" {
			r.byID[entry.ID] = i
		}
		if entry.Slug != "" {
			r.bySlug[strings.ToLower(entry.Slug)] = i
		}
		if entry.Name != "" {
			r.byName[strings.ToLower(entry.Name)] = i
		}
	}
	return r
}

// ResolveSelection resolves caller-selected items by identifier first,
// then by slug. Unresolved items are dropped. The result preserves the
// selection order with duplicates removed.
func (r *Resolver) ResolveSelection(selected []string) []models.CatalogEntry {
	var resolved []models.CatalogEntry
	seen := make(map[string]bool)

	for _, item := range selected {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		i, ok := r.byID[item]
		if !ok {
			i, ok = r.bySlug[strings.ToLower(item)]
		}
		if !ok {
			continue
		}

		entry := r.entries[i]
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		resolved = append(resolved, entry)
	}

	return resolved
}

// ResolveNames maps catalog names (as returned by the semantic layer)
// back to full entries, case-insensitively. Unmapped names are
// discarded; duplicates collapse to the first occurrence.
func (r *Resolver) ResolveNames(names []string) []models.CatalogEntry {
	var resolved []models.CatalogEntry
	seen := make(map[string]bool)

	for _, name := range names {
		i, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		entry := r.entries[i]
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		resolved = append(resolved, entry)
	}

	return resolved
}

// Names returns the canonical entry names, in snapshot order. Used as
// the closed target vocabulary for semantic resolution.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.Name)
	}
	return names
}

// Len returns the snapshot size.
func (r *Resolver) Len() int {
	return len(r.entries)
}
