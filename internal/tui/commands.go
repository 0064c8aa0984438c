package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"trolley/internal/domain"
	"trolley/internal/service"
)

// Command factories for async operations

// LoadListsCmd loads the full shopping list collection
func LoadListsCmd(sync *service.ListSynchronizer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		lists, err := sync.LoadLists(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading shopping lists"}
		}
		return ListsLoadedMsg{Lists: lists, Selected: sync.SelectedID()}
	}
}

// LoadItemsCmd loads and enriches the items of a list
func LoadItemsCmd(sync *service.ListSynchronizer, listID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := sync.LoadItems(ctx, listID); err != nil {
			return ErrMsg{Err: err, Context: "loading list items"}
		}
		return ItemsLoadedMsg{ListID: listID}
	}
}

// CreateListCmd creates a new shopping list
func CreateListCmd(sync *service.ListSynchronizer, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		list, err := sync.CreateList(ctx, name)
		if err != nil {
			return ErrMsg{Err: err, Context: "creating shopping list"}
		}
		return ListCreatedMsg{List: list}
	}
}

// UpdateListCmd updates a list's name and description
func UpdateListCmd(sync *service.ListSynchronizer, id, name, description string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		list, err := sync.UpdateList(ctx, id, name, description)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating shopping list"}
		}
		return ListUpdatedMsg{List: list}
	}
}

// DeleteListCmd deletes a list after confirmation
func DeleteListCmd(sync *service.ListSynchronizer, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		selected, err := sync.DeleteList(ctx, id)
		if err != nil {
			return ErrMsg{Err: err, Context: "deleting shopping list"}
		}
		return ListDeletedMsg{DeletedID: id, Selected: selected}
	}
}

// ToggleNeededCmd flips an item's needed flag with rollback on failure
func ToggleNeededCmd(sync *service.ListSynchronizer, itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		err := sync.ToggleNeeded(ctx, itemID)
		return ItemToggledMsg{ItemID: itemID, Err: err}
	}
}

// RemoveItemCmd removes an item after confirmation
func RemoveItemCmd(sync *service.ListSynchronizer, itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := sync.RemoveItem(ctx, itemID); err != nil {
			return ErrMsg{Err: err, Context: "removing item"}
		}
		return ItemRemovedMsg{ItemID: itemID}
	}
}

// AddListingCmd adds a listing to the selected lists; partial success is
// reported with aggregate counts
func AddListingCmd(sync *service.ListSynchronizer, listIDs []string, productID, storeID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		added, err := sync.AddListing(ctx, listIDs, productID, storeID)
		if err != nil {
			var batch *domain.PartialBatchError
			if errors.As(err, &batch) {
				return ListingAddedMsg{Added: batch.Succeeded, Total: batch.Total}
			}
			return ErrMsg{Err: err, Context: "adding to shopping lists"}
		}
		return ListingAddedMsg{Added: added, Total: len(listIDs)}
	}
}

// DebounceSearchCmd schedules a search after the debounce window; the
// resulting message is dropped by Update unless seq is still the newest
func DebounceSearchCmd(seq uint64) tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Seq: seq}
	})
}

// RunSearchCmd executes the query registered under seq
func RunSearchCmd(search *service.SearchService, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := search.Run(ctx, seq); err != nil {
			return ErrMsg{Err: err, Context: "searching"}
		}
		return SearchResultsMsg{Seq: seq}
	}
}

// LoadMoreCmd appends the next page of search results
func LoadMoreCmd(search *service.SearchService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := search.LoadMore(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading more results"}
		}
		return MoreResultsMsg{}
	}
}

// LoadProfileCmd fetches the user's profile
func LoadProfileCmd(sessions *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		profile, err := sessions.LoadProfile(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading profile"}
		}
		return ProfileLoadedMsg{Profile: profile}
	}
}

// SaveProfileCmd updates the display name and region
func SaveProfileCmd(sessions *service.SessionService, name, region string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		profile, err := sessions.UpdateProfile(ctx, name, region)
		if err != nil {
			return ErrMsg{Err: err, Context: "saving profile"}
		}
		return ProfileSavedMsg{Profile: profile}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
