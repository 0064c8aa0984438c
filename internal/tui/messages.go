package tui

import "trolley/internal/domain"

// Message types for the TUI

// ErrMsg represents an error surfaced by an async operation
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ListsLoadedMsg signals that the shopping list collection has been loaded
type ListsLoadedMsg struct {
	Lists    []domain.ShoppingList
	Selected string // list whose items should load next, "" for none
}

// ItemsLoadedMsg signals that the selected list's items have been committed
type ItemsLoadedMsg struct {
	ListID string
}

// ListCreatedMsg signals that a new list was created and prepended
type ListCreatedMsg struct {
	List *domain.ShoppingList
}

// ListUpdatedMsg signals that a list was updated in place
type ListUpdatedMsg struct {
	List *domain.ShoppingList
}

// ListDeletedMsg signals a deletion and carries the fallback selection
type ListDeletedMsg struct {
	DeletedID string
	Selected  string // new selection, "" when the collection is empty
}

// ItemToggledMsg signals a needed/not-needed toggle completed. Err is set
// when the update failed and the flag was rolled back; the item's control is
// re-enabled either way (state is read from the synchronizer).
type ItemToggledMsg struct {
	ItemID string
	Err    error
}

// ItemRemovedMsg signals an item was removed from the selected list
type ItemRemovedMsg struct {
	ItemID string
}

// ListingAddedMsg reports the aggregate outcome of an add-to-lists fan-out
type ListingAddedMsg struct {
	Added int
	Total int
}

// SearchDebounceMsg fires when the debounce window for a query elapses; it
// is dropped unless Seq still matches the newest typed query
type SearchDebounceMsg struct {
	Seq uint64
}

// SearchResultsMsg signals that search results were committed
type SearchResultsMsg struct {
	Seq uint64
}

// MoreResultsMsg signals that an additional result page was appended
type MoreResultsMsg struct{}

// ProfileLoadedMsg signals that the user profile is available
type ProfileLoadedMsg struct {
	Profile *domain.Profile
}

// ProfileSavedMsg signals a profile update completed
type ProfileSavedMsg struct {
	Profile *domain.Profile
}

// TickMsg drives the spinner animation
type TickMsg struct{}
