package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trolley/internal/domain"
	"trolley/internal/tui/styles"
)

// ListPickerModal selects the shopping lists a price listing should be added
// to. Multiple lists may be checked; each creation is an independent request
// downstream, so partial success is possible.
type ListPickerModal struct {
	visible bool
	listing *domain.PriceListing
	lists   []domain.ShoppingList
	checked map[string]bool

	cursor     int
	createMode bool
	newName    textinput.Model
}

// NewListPickerModal creates a new list picker modal
func NewListPickerModal() ListPickerModal {
	ti := textinput.New()
	ti.Placeholder = "List name..."
	ti.Prompt = "> "
	ti.CharLimit = 50

	return ListPickerModal{
		checked: make(map[string]bool),
		newName: ti,
	}
}

// Show displays the modal for a listing. The most recently updated list is
// pre-checked.
func (m *ListPickerModal) Show(lists []domain.ShoppingList, listing *domain.PriceListing) {
	m.visible = true
	m.lists = lists
	m.listing = listing
	m.cursor = 0
	m.createMode = false
	m.newName.SetValue("")
	m.newName.Blur()

	m.checked = make(map[string]bool)
	if len(lists) > 0 {
		m.checked[lists[0].ID] = true
	}
}

// Hide dismisses the modal
func (m *ListPickerModal) Hide() {
	m.visible = false
	m.createMode = false
	m.newName.Blur()
}

// IsVisible returns whether the modal is shown
func (m *ListPickerModal) IsVisible() bool {
	return m.visible
}

// IsCreateMode returns whether the inline create input is active
func (m *ListPickerModal) IsCreateMode() bool {
	return m.createMode
}

// Listing returns the price listing being added
func (m *ListPickerModal) Listing() *domain.PriceListing {
	return m.listing
}

// NewListName returns the name entered for inline list creation
func (m *ListPickerModal) NewListName() string {
	return m.newName.Value()
}

// CheckedIDs returns the identifiers of all checked lists, in display order
func (m *ListPickerModal) CheckedIDs() []string {
	var ids []string
	for _, l := range m.lists {
		if m.checked[l.ID] {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// AddList appends a freshly created list and checks it
func (m *ListPickerModal) AddList(list domain.ShoppingList) {
	m.lists = append([]domain.ShoppingList{list}, m.lists...)
	m.checked[list.ID] = true
	m.createMode = false
	m.newName.Blur()
}

// HandleKeyMsg processes a key message, returns (handled, submit, create)
func (m *ListPickerModal) HandleKeyMsg(msg tea.KeyMsg) (handled, submit, create bool) {
	if !m.visible {
		return false, false, false
	}

	key := msg.String()

	if m.createMode {
		switch key {
		case "esc":
			m.createMode = false
			m.newName.Blur()
			m.newName.SetValue("")
			return true, false, false
		case "enter":
			if strings.TrimSpace(m.newName.Value()) != "" {
				return true, false, true
			}
			return true, false, false
		}
		var cmd tea.Cmd
		m.newName, cmd = m.newName.Update(msg)
		_ = cmd
		return true, false, false
	}

	switch key {
	case "esc":
		m.Hide()
		return true, false, false
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, false, false
	case "down", "j":
		if m.cursor < len(m.lists)-1 {
			m.cursor++
		}
		return true, false, false
	case " ":
		if m.cursor < len(m.lists) {
			id := m.lists[m.cursor].ID
			m.checked[id] = !m.checked[id]
		}
		return true, false, false
	case "n":
		m.createMode = true
		m.newName.Focus()
		return true, false, false
	case "enter":
		return true, true, false
	}

	return true, false, false
}

// View renders the list picker
func (m *ListPickerModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 44

	var b strings.Builder
	title := "Add to Shopping Lists"
	if m.listing != nil {
		name := strings.TrimSpace(m.listing.Snapshot.ProductBrand + " " + m.listing.Snapshot.ProductName)
		title = "Add \"" + name + "\""
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.lists) == 0 {
		b.WriteString(styles.DimStyle.Render("No shopping lists yet."))
		b.WriteString("\n")
	}

	for i, l := range m.lists {
		check := "[ ]"
		if m.checked[l.ID] {
			check = "[x]"
		}
		line := check + " " + l.Name
		if i == m.cursor && !m.createMode {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.createMode {
		b.WriteString(m.newName.View())
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("enter create · esc back"))
	} else {
		b.WriteString(styles.DimStyle.Render("space check · n new list · enter add · esc cancel"))
	}

	return styles.ActiveBorder.
		Padding(1, 2).
		Width(modalWidth + 4).
		Render(lipgloss.NewStyle().Width(modalWidth).Render(b.String()))
}
