package service

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"trolley/internal/domain"
)

// enrichLimit caps concurrent price lookups during item enrichment.
const enrichLimit = 8

// ListSynchronizer owns the shopping list collection, the current selection,
// and the selected list's items enriched with live price data. All mutation
// goes through its operations; the presentation layer reads snapshots and
// dispatches intents.
//
// Reads are guarded against stale async results with a generation counter:
// any operation that changes the selection bumps the generation, and an item
// fetch commits only if the generation it started under is still current.
//
// Mutations on different items may be outstanding simultaneously. Mutations
// on the same item must be serialized by the caller (disable the control
// while a request is in flight); the synchronizer does not enforce this.
type ListSynchronizer struct {
	lists  domain.ShoppingListRepository
	prices domain.PriceRepository
	cache  domain.SnapshotCache // optional; nil disables snapshot caching
	logger *slog.Logger

	mu         sync.Mutex
	collection []domain.ShoppingList
	selectedID string
	entries    []domain.ListEntry
	itemGen    uint64
}

// NewListSynchronizer creates a new list synchronizer. cache may be nil.
func NewListSynchronizer(lists domain.ShoppingListRepository, prices domain.PriceRepository, cache domain.SnapshotCache, logger *slog.Logger) *ListSynchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListSynchronizer{
		lists:  lists,
		prices: prices,
		cache:  cache,
		logger: logger,
	}
}

// LoadLists fetches every page of the shopping list collection, sorts it
// most-recently-updated first, and replaces the authoritative collection.
// If nothing is selected and the result is non-empty, the head of the
// collection becomes the selection; the caller is expected to follow up with
// LoadItems for SelectedID. A page failure aborts the whole call and leaves
// prior state untouched.
func (s *ListSynchronizer) LoadLists(ctx context.Context) ([]domain.ShoppingList, error) {
	var all []domain.ShoppingList
	next := ""
	for {
		page, nextURL, err := s.lists.GetLists(ctx, next)
		if err != nil {
			s.logger.Error("failed to fetch shopping lists", "error", err)
			return nil, &domain.FetchError{Op: "load shopping lists", Err: err}
		}
		all = append(all, page...)
		if nextURL == "" {
			break
		}
		next = nextURL
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].LastUpdated.After(all[j].LastUpdated)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection = all
	if s.selectedID == "" && len(all) > 0 {
		s.selectedID = all[0].ID
		s.entries = nil
		s.itemGen++
	}
	s.logger.Debug("loaded shopping lists", "count", len(all), "selected", s.selectedID)
	return append([]domain.ShoppingList(nil), all...), nil
}

// LoadItems selects listID, clears the current item collection so a stale
// view is never shown, fetches every page of the list's items, enriches each
// item with a price snapshot, and commits the result. If the selection
// changed while the fetch was in flight, the result is discarded silently. A listID not present in the collection is a no-op with
// empty items.
func (s *ListSynchronizer) LoadItems(ctx context.Context, listID string) error {
	s.mu.Lock()
	s.selectedID = listID
	s.entries = nil
	s.itemGen++
	gen := s.itemGen
	known := s.listIndex(listID) >= 0
	s.mu.Unlock()

	if listID == "" || !known {
		return nil
	}

	items, err := s.collectItems(ctx, listID)
	if err != nil {
		s.logger.Error("failed to fetch list items", "error", err, "listID", listID)
		return &domain.FetchError{Op: "load list items", Err: err}
	}

	entries := s.enrich(ctx, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.itemGen != gen || s.selectedID != listID {
		s.logger.Debug("discarding stale item fetch", "listID", listID)
		return nil
	}
	s.entries = entries
	s.logger.Debug("loaded list items", "count", len(entries), "listID", listID)
	return nil
}

// collectItems aggregates every page of items for a list.
func (s *ListSynchronizer) collectItems(ctx context.Context, listID string) ([]domain.ShoppingListItem, error) {
	var all []domain.ShoppingListItem
	next := ""
	for {
		page, nextURL, err := s.lists.GetItems(ctx, listID, next)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if nextURL == "" {
			break
		}
		next = nextURL
	}
	return all, nil
}

// enrich pairs each item with its price snapshot. Lookups run concurrently
// but the result keeps the primary fetch order; a failed lookup marks only
// its own entry unavailable.
func (s *ListSynchronizer) enrich(ctx context.Context, items []domain.ShoppingListItem) []domain.ListEntry {
	entries := make([]domain.ListEntry, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)
	for i, item := range items {
		entries[i].Item = item
		g.Go(func() error {
			snap, err := s.lookupSnapshot(ctx, item.ProductID, item.StoreID)
			if err != nil {
				s.logger.Warn("price lookup failed", "error", err, "product", item.ProductID, "store", item.StoreID)
				entries[i].Unavailable = true
				return nil
			}
			if snap != nil {
				sanitized := snap.Sanitize()
				entries[i].Snapshot = &sanitized
			}
			return nil
		})
	}
	g.Wait()

	return entries
}

// lookupSnapshot reads through the snapshot cache when one is configured.
func (s *ListSynchronizer) lookupSnapshot(ctx context.Context, productID, storeID string) (*domain.PriceSnapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.GetSnapshot(productID, storeID); ok {
			return snap, nil
		}
	}

	snap, err := s.prices.FindSnapshot(ctx, productID, storeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && snap != nil {
		if err := s.cache.SaveSnapshot(productID, storeID, snap); err != nil {
			s.logger.Warn("failed to cache snapshot", "error", err)
		}
	}
	return snap, nil
}

// ToggleNeeded optimistically flips the item's needed flag, then issues a
// partial update for that single field. On failure the flag is rolled back
// to the value captured before the flip; no other item is touched, so
// concurrent toggles of different items cannot interfere with each other's
// rollback.
func (s *ListSynchronizer) ToggleNeeded(ctx context.Context, itemID string) error {
	s.mu.Lock()
	idx := s.entryIndex(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ValidationError{Field: "item", Reason: "not in the current list"}
	}
	prev := s.entries[idx].Item.IsNeeded
	next := !prev
	s.entries[idx].Item.IsNeeded = next
	s.mu.Unlock()

	if _, err := s.lists.PatchItem(ctx, itemID, domain.ItemPatch{IsNeeded: &next}); err != nil {
		s.logger.Error("failed to toggle item", "error", err, "itemID", itemID)
		s.mu.Lock()
		// The item may be gone if the selection changed mid-flight; the
		// rollback then has nothing to restore.
		if i := s.entryIndex(itemID); i >= 0 {
			s.entries[i].Item.IsNeeded = prev
		}
		s.mu.Unlock()
		return &domain.MutationError{Op: "toggle item", Err: err}
	}
	return nil
}

// RemoveItem deletes an item. Unlike ToggleNeeded this is not optimistic:
// the entry leaves the collection only after the server confirms, so a
// failed delete never shows a removed-then-restored item.
func (s *ListSynchronizer) RemoveItem(ctx context.Context, itemID string) error {
	if err := s.lists.DeleteItem(ctx, itemID); err != nil {
		s.logger.Error("failed to remove item", "error", err, "itemID", itemID)
		return &domain.MutationError{Op: "remove item", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.entryIndex(itemID); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
	return nil
}

// CreateList creates a new shopping list and inserts it at the head of the
// collection. An empty (or all-whitespace) name fails with a
// ValidationError before any network call.
func (s *ListSynchronizer) CreateList(ctx context.Context, name string) (*domain.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	list, err := s.lists.CreateList(ctx, name, "A Shopping List for "+name)
	if err != nil {
		s.logger.Error("failed to create shopping list", "error", err, "name", name)
		return nil, &domain.MutationError{Op: "create shopping list", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection = append([]domain.ShoppingList{*list}, s.collection...)
	s.logger.Info("created shopping list", "name", name, "id", list.ID)
	return list, nil
}

// UpdateList performs a full-record update of name and description and
// replaces the matching list in place. The sort position is intentionally
// not recomputed; the server-returned record is used verbatim.
func (s *ListSynchronizer) UpdateList(ctx context.Context, id, name, description string) (*domain.ShoppingList, error) {
	list, err := s.lists.UpdateList(ctx, id, name, description)
	if err != nil {
		s.logger.Error("failed to update shopping list", "error", err, "id", id)
		return nil, &domain.MutationError{Op: "update shopping list", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.listIndex(id); i >= 0 {
		s.collection[i] = *list
	}
	return list, nil
}

// DeleteList deletes a shopping list. If the deleted list was selected, the
// selection falls back to the new head of the collection, or to no
// selection when the collection is empty; either way the item collection is
// cleared and any in-flight item fetch loses its ability to commit. The new
// selection is returned ("" when none) so the caller can reload its items.
func (s *ListSynchronizer) DeleteList(ctx context.Context, id string) (string, error) {
	if err := s.lists.DeleteList(ctx, id); err != nil {
		s.logger.Error("failed to delete shopping list", "error", err, "id", id)
		return "", &domain.MutationError{Op: "delete shopping list", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.listIndex(id); i >= 0 {
		s.collection = append(s.collection[:i], s.collection[i+1:]...)
	}
	if s.selectedID != id {
		return s.selectedID, nil
	}

	s.entries = nil
	s.itemGen++
	if len(s.collection) > 0 {
		s.selectedID = s.collection[0].ID
	} else {
		s.selectedID = ""
	}
	s.logger.Info("deleted selected shopping list", "id", id, "fallback", s.selectedID)
	return s.selectedID, nil
}

// AddListing creates an item referencing product/store in each target list.
// Creations run concurrently and independently; partial success is reported
// as a PartialBatchError carrying aggregate counts, never rolled back.
// Returns the number of lists the listing was added to.
func (s *ListSynchronizer) AddListing(ctx context.Context, listIDs []string, productID, storeID string) (int, error) {
	if len(listIDs) == 0 {
		return 0, &domain.ValidationError{Field: "lists", Reason: "select at least one shopping list"}
	}

	errs := make([]error, len(listIDs))
	var g errgroup.Group
	for i, listID := range listIDs {
		g.Go(func() error {
			if _, err := s.lists.CreateItem(ctx, listID, productID, storeID, true); err != nil {
				s.logger.Error("failed to add listing", "error", err, "listID", listID)
				errs[i] = err
			}
			return nil
		})
	}
	g.Wait()

	succeeded := 0
	var failures []error
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			failures = append(failures, err)
		}
	}

	if len(failures) > 0 {
		return succeeded, &domain.PartialBatchError{
			Op:        "add to shopping lists",
			Succeeded: succeeded,
			Total:     len(listIDs),
			Errs:      failures,
		}
	}
	return succeeded, nil
}

// === snapshots for the presentation layer ===

// Lists returns a copy of the current list collection.
func (s *ListSynchronizer) Lists() []domain.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ShoppingList(nil), s.collection...)
}

// SelectedID returns the identifier of the selected list, or "".
func (s *ListSynchronizer) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// SelectedList returns the selected list, or nil when there is no selection.
func (s *ListSynchronizer) SelectedList() *domain.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.listIndex(s.selectedID); i >= 0 {
		list := s.collection[i]
		return &list
	}
	return nil
}

// Entries returns a copy of the committed item collection.
func (s *ListSynchronizer) Entries() []domain.ListEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ListEntry(nil), s.entries...)
}

// Summary reports how many items are still needed, the total item count,
// and the summed price of needed items that have a snapshot.
func (s *ListSynchronizer) Summary() (needed, total int, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total = len(s.entries)
	for _, e := range s.entries {
		if !e.Item.IsNeeded {
			continue
		}
		needed++
		if e.Snapshot != nil {
			if p, err := strconv.ParseFloat(e.Snapshot.Price, 64); err == nil {
				price += p
			}
		}
	}
	return needed, total, price
}

// listIndex and entryIndex are called with s.mu held.

func (s *ListSynchronizer) listIndex(id string) int {
	for i, l := range s.collection {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *ListSynchronizer) entryIndex(itemID string) int {
	for i, e := range s.entries {
		if e.Item.ID == itemID {
			return i
		}
	}
	return -1
}
