package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"trolley/internal/domain"
	"trolley/internal/service"
	"trolley/internal/tui/components"
	"trolley/internal/tui/styles"
)

// Screen identifies the active top-level view
type Screen int

const (
	ScreenLists Screen = iota
	ScreenSearch
	ScreenProfile
)

// Pane identifies the focused pane on the lists screen
type Pane int

const (
	PaneLists Pane = iota
	PaneItems
)

// Model is the main Bubble Tea model for the application
type Model struct {
	Screen Screen
	Pane   Pane
	Keys   KeyMap
	Ready  bool

	// Services
	Sync     *service.ListSynchronizer
	Search   *service.SearchService
	Sessions *service.SessionService

	// Lists screen
	listCursor int
	itemCursor int
	itemFilter textinput.Model
	filtering  bool
	// Caller-side serialization of same-item mutations: a toggle control is
	// disabled while its request is in flight.
	togglePending map[string]bool

	// Search screen
	searchInput   textinput.Model
	searchSeq     uint64
	searchCursor  int
	searchLoading bool

	// Profile screen
	profile     *domain.Profile
	editingName bool // InputModal repurposed for the profile name

	// Modals
	InputModal   components.InputModal
	EditModal    components.EditModal
	ConfirmModal components.ConfirmModal
	ListPicker   components.ListPickerModal

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	LoadingLists bool
	LoadingItems bool
	SpinnerFrame int
	Width        int
	Height       int
}

// NewModel creates a new application model
func NewModel(sync *service.ListSynchronizer, search *service.SearchService, sessions *service.SessionService) Model {
	si := textinput.New()
	si.Placeholder = "Search products and stores..."
	si.Prompt = "/ "
	si.CharLimit = 80

	fi := textinput.New()
	fi.Placeholder = "Filter items..."
	fi.Prompt = "f "
	fi.CharLimit = 50

	return Model{
		Screen:        ScreenLists,
		Keys:          DefaultKeyMap(),
		Sync:          sync,
		Search:        search,
		Sessions:      sessions,
		searchInput:   si,
		itemFilter:    fi,
		togglePending: make(map[string]bool),
		InputModal:    components.NewInputModal(),
		EditModal:     components.NewEditModal(),
		ConfirmModal:  components.NewConfirmModal(),
		ListPicker:    components.NewListPickerModal(),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadListsCmd(m.Sync),
		LoadProfileCmd(m.Sessions),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		if m.LoadingLists || m.LoadingItems || m.searchLoading {
			return m, TickCmd(100 * time.Millisecond)
		}
		return m, TickCmd(250 * time.Millisecond)

	case ListsLoadedMsg:
		m.LoadingLists = false
		m.clampListCursor()
		if msg.Selected != "" {
			m.LoadingItems = true
			return m, LoadItemsCmd(m.Sync, msg.Selected)
		}
		return m, nil

	case ItemsLoadedMsg:
		// A stale fetch commits nothing; the snapshot read below reflects
		// whatever is authoritative now.
		if msg.ListID == m.Sync.SelectedID() {
			m.LoadingItems = false
		}
		m.itemCursor = 0
		return m, nil

	case ListCreatedMsg:
		m.setStatus(fmt.Sprintf("Created %q", msg.List.Name), false)
		if m.ListPicker.IsVisible() {
			m.ListPicker.AddList(*msg.List)
		}
		m.clampListCursor()
		return m, nil

	case ListUpdatedMsg:
		m.setStatus(fmt.Sprintf("Updated %q", msg.List.Name), false)
		return m, nil

	case ListDeletedMsg:
		m.setStatus("Shopping list deleted", false)
		m.clampListCursor()
		if msg.Selected != "" {
			m.LoadingItems = true
			return m, LoadItemsCmd(m.Sync, msg.Selected)
		}
		return m, nil

	case ItemToggledMsg:
		delete(m.togglePending, msg.ItemID)
		if msg.Err != nil {
			m.setStatus("Could not update item: "+msg.Err.Error(), true)
		}
		return m, nil

	case ItemRemovedMsg:
		m.setStatus("Item removed", false)
		m.clampItemCursor()
		return m, nil

	case ListingAddedMsg:
		m.ListPicker.Hide()
		if msg.Added == msg.Total {
			m.setStatus(fmt.Sprintf("Added to %d shopping list(s)", msg.Added), false)
		} else {
			m.setStatus(fmt.Sprintf("Added to %d of %d shopping lists", msg.Added, msg.Total), true)
		}
		return m, nil

	case SearchDebounceMsg:
		// Superseded queries die here; only the newest one runs.
		if msg.Seq != m.searchSeq {
			return m, nil
		}
		m.searchLoading = true
		return m, RunSearchCmd(m.Search, msg.Seq)

	case SearchResultsMsg:
		if msg.Seq == m.searchSeq {
			m.searchLoading = false
			m.searchCursor = 0
		}
		return m, nil

	case MoreResultsMsg:
		m.searchLoading = false
		return m, nil

	case ProfileLoadedMsg:
		m.profile = msg.Profile
		m.Search.SetRegion(m.Sessions.Session().Region)
		return m, nil

	case ProfileSavedMsg:
		m.profile = msg.Profile
		m.Search.SetRegion(m.Sessions.Session().Region)
		m.setStatus("Profile saved", false)
		return m, nil

	case ErrMsg:
		m.LoadingLists = false
		m.LoadingItems = false
		m.searchLoading = false
		m.setStatus(msg.Error(), true)
		return m, nil
	}

	return m, nil
}

// handleKeyMsg routes key events to modals first, then the active screen
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal layer swallows input while visible
	if m.ConfirmModal.IsVisible() {
		var confirmed bool
		m.ConfirmModal, confirmed = m.ConfirmModal.Update(msg)
		if confirmed {
			kind, id := m.ConfirmModal.Target()
			switch kind {
			case "list":
				return m, DeleteListCmd(m.Sync, id)
			case "item":
				return m, RemoveItemCmd(m.Sync, id)
			}
		}
		return m, nil
	}

	if m.ListPicker.IsVisible() {
		handled, submit, create := m.ListPicker.HandleKeyMsg(msg)
		if create {
			return m, CreateListCmd(m.Sync, m.ListPicker.NewListName())
		}
		if submit {
			listing := m.ListPicker.Listing()
			ids := m.ListPicker.CheckedIDs()
			if listing == nil || len(ids) == 0 {
				m.setStatus("Select at least one shopping list", true)
				return m, nil
			}
			return m, AddListingCmd(m.Sync, ids, listing.ProductID, listing.StoreID)
		}
		if handled {
			return m, nil
		}
	}

	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			value := m.InputModal.Value()
			m.InputModal.Hide()
			if m.editingName {
				m.editingName = false
				region := ""
				if m.profile != nil {
					region = m.profile.Region
				}
				return m, SaveProfileCmd(m.Sessions, value, region)
			}
			return m, CreateListCmd(m.Sync, value)
		}
		return m, cmd
	}

	if m.EditModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.EditModal, cmd, submitted = m.EditModal.Update(msg)
		if submitted {
			name, description := m.EditModal.Values()
			id := m.EditModal.ListID()
			m.EditModal.Hide()
			return m, UpdateListCmd(m.Sync, id, name, description)
		}
		return m, cmd
	}

	// Text inputs on the search screen / item filter
	if m.Screen == ScreenSearch && m.searchInput.Focused() {
		return m.handleSearchInput(msg)
	}
	if m.filtering && m.itemFilter.Focused() {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.itemFilter.Blur()
			m.itemFilter.SetValue("")
			return m, nil
		case "enter":
			m.itemFilter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.itemFilter, cmd = m.itemFilter.Update(msg)
		m.itemCursor = 0
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Search):
		m.Screen = ScreenSearch
		m.searchInput.Focus()
		return m, nil
	case key.Matches(msg, m.Keys.Lists):
		m.Screen = ScreenLists
		return m, nil
	case key.Matches(msg, m.Keys.Profile):
		m.Screen = ScreenProfile
		return m, nil
	}

	switch m.Screen {
	case ScreenLists:
		return m.handleListsKeys(msg)
	case ScreenSearch:
		return m.handleSearchKeys(msg)
	case ScreenProfile:
		return m.handleProfileKeys(msg)
	}
	return m, nil
}

func (m Model) handleListsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lists := m.Sync.Lists()
	entries := m.visibleEntries()

	switch {
	case key.Matches(msg, m.Keys.Left):
		m.Pane = PaneLists
		return m, nil

	case key.Matches(msg, m.Keys.Right):
		m.Pane = PaneItems
		return m, nil

	case key.Matches(msg, m.Keys.Up):
		if m.Pane == PaneLists && m.listCursor > 0 {
			m.listCursor--
		} else if m.Pane == PaneItems && m.itemCursor > 0 {
			m.itemCursor--
		}
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		if m.Pane == PaneLists && m.listCursor < len(lists)-1 {
			m.listCursor++
		} else if m.Pane == PaneItems && m.itemCursor < len(entries)-1 {
			m.itemCursor++
		}
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if m.Pane == PaneLists && m.listCursor < len(lists) {
			m.LoadingItems = true
			m.filtering = false
			m.itemFilter.SetValue("")
			return m, LoadItemsCmd(m.Sync, lists[m.listCursor].ID)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Refresh):
		m.LoadingLists = true
		return m, LoadListsCmd(m.Sync)

	case key.Matches(msg, m.Keys.NewList):
		m.editingName = false
		m.InputModal.Show("New Shopping List")
		return m, nil

	case key.Matches(msg, m.Keys.EditList):
		if m.Pane == PaneLists && m.listCursor < len(lists) {
			m.EditModal.Show(lists[m.listCursor])
		}
		return m, nil

	case key.Matches(msg, m.Keys.Delete):
		if m.Pane == PaneLists && m.listCursor < len(lists) {
			l := lists[m.listCursor]
			m.ConfirmModal.Show(
				"Delete Shopping List",
				fmt.Sprintf("Delete %q? This cannot be undone.", l.Name),
				"list", l.ID,
			)
		} else if m.Pane == PaneItems && m.itemCursor < len(entries) {
			e := entries[m.itemCursor]
			m.ConfirmModal.Show(
				"Remove Item",
				"Remove this item from the shopping list?",
				"item", e.Item.ID,
			)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Toggle):
		if m.Pane == PaneItems && m.itemCursor < len(entries) {
			id := entries[m.itemCursor].Item.ID
			if m.togglePending[id] {
				return m, nil
			}
			m.togglePending[id] = true
			return m, ToggleNeededCmd(m.Sync, id)
		}
		return m, nil
	}

	if msg.String() == "f" && m.Pane == PaneItems {
		m.filtering = true
		m.itemFilter.Focus()
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searchInput.Blur()
		m.searchSeq = m.Search.Begin(m.searchInput.Value(), "")
		m.searchLoading = true
		return m, RunSearchCmd(m.Search, m.searchSeq)
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		// Register the query now; run it only if no newer keystroke lands
		// within the debounce window.
		m.searchSeq = m.Search.Begin(m.searchInput.Value(), "")
		return m, tea.Batch(cmd, DebounceSearchCmd(m.searchSeq))
	}
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := m.Search.Results()

	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		if m.searchCursor < len(results)-1 {
			m.searchCursor++
		}
		// Nearing the bottom pulls the next page, like the browser's
		// scroll-triggered paging.
		if m.Search.HasMore() && m.searchCursor >= len(results)-3 && !m.searchLoading {
			m.searchLoading = true
			return m, LoadMoreCmd(m.Search)
		}
		return m, nil

	case key.Matches(msg, m.Keys.LoadMore):
		if m.Search.HasMore() && !m.searchLoading {
			m.searchLoading = true
			return m, LoadMoreCmd(m.Search)
		}
		return m, nil

	case key.Matches(msg, m.Keys.AddToList):
		if m.searchCursor < len(results) {
			listing := results[m.searchCursor]
			m.ListPicker.Show(m.Sync.Lists(), &listing)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		m.searchInput.Focus()
		return m, nil
	}
	return m, nil
}

func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		m.editingName = true
		m.InputModal.Show("Display Name")
		return m, nil
	case "r":
		return m, LoadProfileCmd(m.Sessions)
	}
	return m, nil
}

// visibleEntries applies the local item filter to the committed collection
func (m Model) visibleEntries() []domain.ListEntry {
	entries := m.Sync.Entries()
	if !m.filtering || m.itemFilter.Value() == "" {
		return entries
	}
	idx := filterEntries(entries, m.itemFilter.Value())
	out := make([]domain.ListEntry, 0, len(idx))
	for _, i := range idx {
		out = append(out, entries[i])
	}
	return out
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
}

func (m *Model) clampListCursor() {
	if n := len(m.Sync.Lists()); m.listCursor >= n {
		m.listCursor = max(0, n-1)
	}
}

func (m *Model) clampItemCursor() {
	if n := len(m.Sync.Entries()); m.itemCursor >= n {
		m.itemCursor = max(0, n-1)
	}
}

// spinner returns the current spinner frame
func (m Model) spinner() string {
	return styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
}
