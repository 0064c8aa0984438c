package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trolley/internal/tui/styles"
)

// ConfirmModal asks a yes/no question before a destructive action
type ConfirmModal struct {
	visible  bool
	title    string
	question string
	targetID string
	kind     string // "list" or "item"
}

// NewConfirmModal creates a new confirm modal
func NewConfirmModal() ConfirmModal {
	return ConfirmModal{}
}

// Show displays the modal for a target
func (m *ConfirmModal) Show(title, question, kind, targetID string) {
	m.visible = true
	m.title = title
	m.question = question
	m.kind = kind
	m.targetID = targetID
}

// Hide dismisses the modal
func (m *ConfirmModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// Target returns the kind and identifier of the pending action
func (m ConfirmModal) Target() (kind, id string) {
	return m.kind, m.targetID
}

// Update handles key events, returns (modal, confirmed)
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, bool) {
	if !m.visible {
		return m, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "enter":
			m.Hide()
			return m, true
		case "n", "esc":
			m.Hide()
			return m, false
		}
	}
	return m, false
}

// View renders the confirm modal
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 44

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(m.title),
		"",
		lipgloss.NewStyle().Width(modalWidth).Render(m.question),
		"",
		styles.DimStyle.Render("y confirm · n cancel"),
	)

	return styles.ActiveBorder.
		BorderForeground(styles.Red).
		Padding(1, 2).
		Width(modalWidth + 4).
		Render(body)
}
