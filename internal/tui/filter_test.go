package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trolley/internal/domain"
)

func entryWith(brand, name, store string) domain.ListEntry {
	return domain.ListEntry{
		Snapshot: &domain.PriceSnapshot{ProductBrand: brand, ProductName: name, StoreName: store},
	}
}

func TestFilterEntriesEmptyQueryKeepsOrder(t *testing.T) {
	entries := []domain.ListEntry{
		entryWith("Arla", "Milk", "Netto"),
		entryWith("Schulstad", "Rye Bread", "Rema"),
	}
	assert.Equal(t, []int{0, 1}, filterEntries(entries, ""))
	assert.Equal(t, []int{0, 1}, filterEntries(entries, "   "))
}

func TestFilterEntriesMatchesAcrossFields(t *testing.T) {
	entries := []domain.ListEntry{
		entryWith("Arla", "Milk", "Netto"),
		entryWith("Schulstad", "Rye Bread", "Rema"),
		entryWith("Thise", "Butter", "Netto"),
	}

	idx := filterEntries(entries, "bread")
	require.Len(t, idx, 1)
	assert.Equal(t, 1, idx[0])

	idx = filterEntries(entries, "netto")
	assert.ElementsMatch(t, []int{0, 2}, idx)
}

func TestFilterEntriesFallsBackToProductID(t *testing.T) {
	entries := []domain.ListEntry{
		{Item: domain.ShoppingListItem{ProductID: "4711"}},
		entryWith("Arla", "Milk", "Netto"),
	}

	idx := filterEntries(entries, "4711")
	require.Len(t, idx, 1)
	assert.Equal(t, 0, idx[0])
}
