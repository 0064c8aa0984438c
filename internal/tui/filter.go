package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"trolley/internal/domain"
)

// entrySource implements fuzzy.Source over item display names for
// zero-allocation fuzzy matching.
type entrySource struct {
	names []string
}

func (s entrySource) String(i int) string { return s.names[i] }
func (s entrySource) Len() int            { return len(s.names) }

// entryDisplayName is the searchable text for an item: brand, product, and
// store when a snapshot is available.
func entryDisplayName(e domain.ListEntry) string {
	if e.Snapshot == nil {
		return e.Item.ProductID
	}
	return strings.TrimSpace(e.Snapshot.ProductBrand + " " + e.Snapshot.ProductName + " " + e.Snapshot.StoreName)
}

// filterEntries returns the indexes of entries matching query, best match
// first. An empty query matches everything in original order.
func filterEntries(entries []domain.ListEntry, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		idx := make([]int, len(entries))
		for i := range entries {
			idx[i] = i
		}
		return idx
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = strings.ToLower(entryDisplayName(e))
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), entrySource{names: names})
	idx := make([]int, 0, len(matches))
	for _, m := range matches {
		idx = append(idx, m.Index)
	}
	return idx
}
