package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trolley/internal/domain"
	"trolley/internal/tui/styles"
)

const chromeHeight = 2 // header + status bar

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	switch m.Screen {
	case ScreenLists:
		body = m.viewLists()
	case ScreenSearch:
		body = m.viewSearch()
	case ScreenProfile:
		body = m.viewProfile()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewStatusBar(),
	)

	// Modal overlay
	if modal := m.activeModalView(); modal != "" {
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal)
	}
	return screen
}

func (m Model) activeModalView() string {
	switch {
	case m.ConfirmModal.IsVisible():
		return m.ConfirmModal.View()
	case m.ListPicker.IsVisible():
		return m.ListPicker.View()
	case m.InputModal.IsVisible():
		return m.InputModal.View()
	case m.EditModal.IsVisible():
		return m.EditModal.View()
	}
	return ""
}

func (m Model) viewHeader() string {
	tabs := []string{"[L]ists", "[/]Search", "[P]rofile"}
	active := map[Screen]int{ScreenLists: 0, ScreenSearch: 1, ScreenProfile: 2}[m.Screen]

	var parts []string
	for i, t := range tabs {
		if i == active {
			parts = append(parts, styles.AccentStyle.Bold(true).Render(t))
		} else {
			parts = append(parts, styles.DimStyle.Render(t))
		}
	}

	title := styles.TitleStyle.Render("trolley")
	return title + "  " + strings.Join(parts, "  ")
}

func (m Model) viewStatusBar() string {
	if m.StatusMsg == "" {
		return styles.DimStyle.Render("q quit · r refresh · n new list · space toggle · d delete · a add to list")
	}
	if m.StatusIsErr {
		return styles.ErrorStyle.Render(m.StatusMsg)
	}
	return styles.SuccessStyle.Render(m.StatusMsg)
}

// viewLists renders the two-pane shopping list screen
func (m Model) viewLists() string {
	height := m.Height - chromeHeight - 2
	listWidth := m.Width * 2 / 5
	itemWidth := m.Width - listWidth - 4

	left := m.viewListColumn(listWidth, height)
	right := m.viewItemColumn(itemWidth, height)

	leftBorder := styles.InactiveBorder
	rightBorder := styles.InactiveBorder
	if m.Pane == PaneLists {
		leftBorder = styles.ActiveBorder
	} else {
		rightBorder = styles.ActiveBorder
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		leftBorder.Width(listWidth).Height(height).Render(left),
		rightBorder.Width(itemWidth).Height(height).Render(right),
	)
}

func (m Model) viewListColumn(width, height int) string {
	lists := m.Sync.Lists()
	selected := m.Sync.SelectedID()

	var b strings.Builder
	header := fmt.Sprintf("%d Shopping Lists", len(lists))
	if m.LoadingLists {
		header = m.spinner() + " " + header
	}
	b.WriteString(styles.TitleStyle.Render(header))
	b.WriteString("\n\n")

	if len(lists) == 0 && !m.LoadingLists {
		b.WriteString(styles.DimStyle.Render("No shopping lists yet. Press n to create one."))
		return b.String()
	}

	for i, l := range lists {
		marker := "  "
		if l.ID == selected {
			marker = styles.AccentStyle.Render("▸ ")
		}
		name := l.Name
		line := marker + name
		if i == m.listCursor && m.Pane == PaneLists {
			line = marker + styles.SelectedStyle.Render(name)
		}
		b.WriteString(truncate(line, width))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(truncate("  "+l.LastUpdated.Format("Jan 2 15:04"), width)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewItemColumn(width, height int) string {
	entries := m.visibleEntries()
	needed, total, price := m.Sync.Summary()

	var b strings.Builder
	title := "Select a Shopping List"
	if list := m.Sync.SelectedList(); list != nil {
		title = list.Name
	}
	if m.LoadingItems {
		title = m.spinner() + " " + title
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("(%d/%d)", needed, total)))
	b.WriteString("  ")
	b.WriteString(styles.PriceStyle.Render(fmt.Sprintf("$%.2f", price)))
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.itemFilter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(entries) == 0 && !m.LoadingItems {
		b.WriteString(styles.DimStyle.Render("No shopping list items yet."))
		return b.String()
	}

	for i, e := range entries {
		line := renderEntry(e)
		if i == m.itemCursor && m.Pane == PaneItems {
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		b.WriteString(truncate(line, width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderEntry formats a single item row with its enrichment result
func renderEntry(e domain.ListEntry) string {
	check := "○"
	if !e.Item.IsNeeded {
		check = styles.DimStyle.Render("✓")
	}

	switch {
	case e.Unavailable:
		return fmt.Sprintf("%s %s", check, styles.DimStyle.Render("price unavailable"))
	case e.Snapshot == nil:
		return fmt.Sprintf("%s %s", check, styles.DimStyle.Render("no price recorded"))
	}

	snap := e.Snapshot
	name := strings.TrimSpace(snap.ProductBrand + " " + snap.ProductName)
	if snap.ProductAmount != "" && snap.ProductAmount != "None" {
		name += " · " + snap.ProductAmount
	}
	row := fmt.Sprintf("%s %s  %s  %s",
		check, name,
		styles.SubtitleStyle.Render(snap.StoreName),
		styles.PriceStyle.Render("$"+snap.Price),
	)
	if !e.Item.IsNeeded {
		return check + " " + styles.CheckedOffStyle.Render(name)
	}
	return row
}

// viewSearch renders the price search screen
func (m Model) viewSearch() string {
	results := m.Search.Results()

	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if m.searchLoading {
		b.WriteString(m.spinner() + " Searching...\n")
	}

	for i, r := range results {
		name := strings.TrimSpace(r.Snapshot.ProductBrand + " " + r.Snapshot.ProductName)
		line := fmt.Sprintf("%s  %s  %s",
			name,
			styles.SubtitleStyle.Render(r.Snapshot.StoreName),
			styles.PriceStyle.Render("$"+r.Snapshot.Price),
		)
		if i == m.searchCursor {
			line = "▸ " + line
		} else {
			line = "  " + line
		}
		b.WriteString(truncate(line, m.Width-2))
		b.WriteString("\n")
	}

	if len(results) == 0 && !m.searchLoading && m.searchInput.Value() != "" {
		b.WriteString(styles.DimStyle.Render("No results."))
		b.WriteString("\n")
	}
	if m.Search.HasMore() {
		b.WriteString(styles.DimStyle.Render("m more results"))
		b.WriteString("\n")
	}

	return b.String()
}

// viewProfile renders the profile screen
func (m Model) viewProfile() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Profile"))
	b.WriteString("\n\n")

	if m.profile == nil {
		b.WriteString(styles.DimStyle.Render("Loading profile..."))
		return b.String()
	}

	b.WriteString("Email:  " + m.profile.Email + "\n")
	b.WriteString("Name:   " + m.profile.Name + "\n")
	b.WriteString("Region: " + m.profile.Region + "\n")
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("e edit name · r reload"))
	return b.String()
}

// truncate cuts a line to fit a width, rune-aware
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
