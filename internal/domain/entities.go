package domain

import "time"

// ShoppingList is a named, user-owned collection of product/store pairings.
type ShoppingList struct {
	ID          string
	Name        string
	Description string
	LastUpdated time.Time
}

// ShoppingListItem is one product-at-a-store entry within a shopping list.
type ShoppingListItem struct {
	ID        string
	ListID    string
	ProductID string
	StoreID   string
	IsNeeded  bool
}

// PriceSnapshot is a read-only, derived view of the latest known price and
// descriptive metadata for a product at a store. It is never persisted by the
// synchronizer and is recomputed whenever the item set changes.
type PriceSnapshot struct {
	ProductName   string
	ProductBrand  string
	ProductAmount string
	ProductImage  string
	StoreName     string
	StoreAddress  string
	StoreRegion   string
	StoreImage    string
	Price         string
}

// Sanitize normalizes raw snapshot fields for display. The upstream bulk
// importer leaves the literal string "nan" in empty columns; those collapse
// to "" except the amount, which renders as "None". Idempotent.
func (p PriceSnapshot) Sanitize() PriceSnapshot {
	p.ProductName = scrubNaN(p.ProductName, "")
	p.ProductBrand = scrubNaN(p.ProductBrand, "")
	p.ProductAmount = scrubNaN(p.ProductAmount, "None")
	p.StoreAddress = scrubNaN(p.StoreAddress, "")
	p.StoreRegion = scrubNaN(p.StoreRegion, "")
	return p
}

func scrubNaN(value, empty string) string {
	if value == "nan" {
		return empty
	}
	return value
}

// ListEntry pairs a shopping list item with its enrichment result.
// Snapshot is nil when the lookup returned no match; Unavailable is set when
// the lookup itself failed. The distinction is kept so the UI can render
// "no price recorded" differently from "price lookup failed".
type ListEntry struct {
	Item        ShoppingListItem
	Snapshot    *PriceSnapshot
	Unavailable bool
}

// PriceListing is a search result row: a price snapshot plus the identifiers
// needed to add it to a shopping list.
type PriceListing struct {
	ID        string
	ProductID string
	StoreID   string
	DateAdded time.Time
	Snapshot  PriceSnapshot
}

// Profile is the authenticated user's account data.
type Profile struct {
	Email     string
	Name      string
	Region    string
	Superuser bool
}

// Session carries the ambient authenticated context. It is created once at
// startup and passed by reference; nothing reaches into process-wide state.
type Session struct {
	ServerURL string
	Token     string
	Username  string
	Region    string
}

// IsAuthenticated reports whether the session carries a token.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}
