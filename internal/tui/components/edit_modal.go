package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trolley/internal/domain"
	"trolley/internal/tui/styles"
)

// EditModal edits a shopping list's name and description
type EditModal struct {
	visible     bool
	listID      string
	name        textinput.Model
	description textinput.Model
	focusIdx    int
}

// NewEditModal creates a new edit modal
func NewEditModal() EditModal {
	name := textinput.New()
	name.Placeholder = "List name..."
	name.CharLimit = 50
	name.Width = 34
	name.Prompt = ""

	desc := textinput.New()
	desc.Placeholder = "Description..."
	desc.CharLimit = 120
	desc.Width = 34
	desc.Prompt = ""

	return EditModal{name: name, description: desc}
}

// Show displays the modal pre-filled with the list's current values
func (m *EditModal) Show(list domain.ShoppingList) {
	m.visible = true
	m.listID = list.ID
	m.name.SetValue(list.Name)
	m.description.SetValue(list.Description)
	m.focusIdx = 0
	m.name.Focus()
	m.description.Blur()
}

// Hide dismisses the modal
func (m *EditModal) Hide() {
	m.visible = false
	m.name.Blur()
	m.description.Blur()
}

// IsVisible returns whether the modal is shown
func (m EditModal) IsVisible() bool {
	return m.visible
}

// ListID returns the identifier of the list being edited
func (m EditModal) ListID() string {
	return m.listID
}

// Values returns the edited name and description
func (m EditModal) Values() (name, description string) {
	return m.name.Value(), m.description.Value()
}

// Update handles input events, returns (modal, cmd, submitted)
func (m EditModal) Update(msg tea.Msg) (EditModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		case "tab", "shift+tab", "up", "down":
			m.focusIdx = (m.focusIdx + 1) % 2
			if m.focusIdx == 0 {
				m.name.Focus()
				m.description.Blur()
			} else {
				m.name.Blur()
				m.description.Focus()
			}
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	if m.focusIdx == 0 {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.description, cmd = m.description.Update(msg)
	}
	return m, cmd, false
}

// View renders the edit modal
func (m EditModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 40

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Edit Shopping List"),
		"",
		styles.SubtitleStyle.Render("Name"),
		m.name.View(),
		"",
		styles.SubtitleStyle.Render("Description"),
		m.description.View(),
		"",
		styles.DimStyle.Render("tab switch · enter save · esc cancel"),
	)

	return styles.ActiveBorder.
		Padding(1, 2).
		Width(modalWidth + 4).
		Render(body)
}
