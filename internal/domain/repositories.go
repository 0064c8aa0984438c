package domain

import "context"

// ItemPatch is a partial update for a shopping list item. Nil fields are
// left unchanged by the server.
type ItemPatch struct {
	IsNeeded *bool
}

// ShoppingListRepository is the remote collection contract for shopping
// lists and their items. Implementations aggregate nothing: pagination is
// surfaced per page and full-collection assembly is the caller's concern.
type ShoppingListRepository interface {
	// GetLists returns one page of shopping lists. pageURL is the opaque
	// "next" link from the previous page, or "" for the first page.
	GetLists(ctx context.Context, pageURL string) (lists []ShoppingList, next string, err error)

	CreateList(ctx context.Context, name, description string) (*ShoppingList, error)
	UpdateList(ctx context.Context, id, name, description string) (*ShoppingList, error)
	DeleteList(ctx context.Context, id string) error

	// GetItems returns one page of items belonging to listID.
	GetItems(ctx context.Context, listID, pageURL string) (items []ShoppingListItem, next string, err error)

	CreateItem(ctx context.Context, listID, productID, storeID string, isNeeded bool) (*ShoppingListItem, error)
	PatchItem(ctx context.Context, id string, patch ItemPatch) (*ShoppingListItem, error)
	DeleteItem(ctx context.Context, id string) error
}

// SearchQuery describes a price listing search.
type SearchQuery struct {
	Text     string
	Region   string
	Ordering string
	Page     int
}

// PriceRepository looks up price listings.
type PriceRepository interface {
	// FindSnapshot returns the latest snapshot for a product at a store, or
	// nil when no listing exists. First match wins.
	FindSnapshot(ctx context.Context, productID, storeID string) (*PriceSnapshot, error)

	// SearchListings returns one page of listings matching the query along
	// with whether a further page exists.
	SearchListings(ctx context.Context, q SearchQuery) (listings []PriceListing, hasMore bool, err error)
}

// AccountRepository manages the authenticated user's profile.
type AccountRepository interface {
	GetProfile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, name, region string) (*Profile, error)
}

// SnapshotCache is a read-through cache for price snapshots keyed by
// (product, store). Implementations decide freshness.
type SnapshotCache interface {
	GetSnapshot(productID, storeID string) (*PriceSnapshot, bool)
	SaveSnapshot(productID, storeID string, snap *PriceSnapshot) error
}
