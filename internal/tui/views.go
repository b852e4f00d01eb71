package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/tui/components"
	"github.com/mmcdole/dex/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	if m.screen == screenDetail {
		content = m.renderDetailScreen()
	} else {
		content = m.renderListScreen()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.renderFooter(),
	)
}

func (m Model) renderHeader(title, right string) string {
	header := styles.HeaderStyle.Render(title)
	if right == "" {
		return header
	}
	gap := max(m.width-lipgloss.Width(header)-lipgloss.Width(right)-1, 1)
	return header + strings.Repeat(" ", gap) + styles.DimStyle.Render(right)
}

func (m Model) renderListScreen() string {
	entries := m.list.Entries

	count := fmt.Sprintf("%d loaded", len(entries))
	if m.list.IsSearching {
		count = fmt.Sprintf("%d matches", len(entries))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader("Dex", count))
	b.WriteString("\n")
	b.WriteString(m.renderSearchLine())
	b.WriteString("\n")

	rows := m.visibleRows()
	end := min(m.offset+rows, len(entries))
	lines := 0
	for i := m.offset; i < end; i++ {
		b.WriteString(styles.BrowserStyle.Render(
			components.RenderEntryRow(entries[i], m.highlights[i], i == m.cursor, m.width-2),
		))
		b.WriteString("\n")
		lines++
	}

	if len(entries) == 0 {
		if msg := m.emptyMessage(); msg != "" {
			b.WriteString(styles.BrowserStyle.Render(msg))
			b.WriteString("\n")
			lines++
		}
	}

	for ; lines < rows; lines++ {
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderSearchLine() string {
	if m.input.Focused() || m.query != "" {
		return m.input.View()
	}
	return styles.DimStyle.Render("/ search")
}

func (m Model) emptyMessage() string {
	switch {
	case m.list.IsSearching && len(m.suggestions) > 0:
		names := make([]string, len(m.suggestions))
		for i, s := range m.suggestions {
			names[i] = s.DisplayName
		}
		return styles.DimStyle.Render("No matches. Did you mean ") +
			styles.AccentStyle.Render(strings.Join(names, ", ")) +
			styles.DimStyle.Render("?")
	case m.list.IsSearching:
		return styles.DimStyle.Render("No matches")
	case m.list.IsLoading:
		return ""
	case m.list.ErrorMessage == "" && m.list.EndReached:
		return styles.DimStyle.Render("The index is empty")
	}
	return ""
}

func (m Model) renderDetailScreen() string {
	title := m.detailName
	if record, ok := m.detail.Payload(); ok && record.Name != "" {
		title = domain.Capitalize(record.Name)
	}

	body := domain.MatchResult(m.detail,
		func(*domain.DetailRecord) string {
			return styles.DetailStyle.Render(m.spinner.View() + " " + styles.DimStyle.Render("Loading..."))
		},
		func(domain.DetailRecord) string {
			return m.viewport.View()
		},
		func(message string, _ *domain.DetailRecord) string {
			return styles.DetailStyle.Render(components.RenderRetry(message))
		},
	)

	body = lipgloss.NewStyle().Height(m.viewport.Height).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(title, ""), body)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: list status
	var left string
	switch {
	case m.screen == screenDetail:
		left = styles.AccentStyle.Render("esc") + styles.DimStyle.Render(" back")
	case m.list.IsLoading:
		left = m.spinner.View() + " " + styles.DimStyle.Render("Loading...")
	case m.list.ErrorMessage != "":
		left = components.RenderRetry(m.list.ErrorMessage)
	case m.list.EndReached && !m.list.IsSearching:
		left = styles.DimStyle.Render("End of index")
	}

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHelp() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.TitleStyle.Render("Keys"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		styles.DimStyle.Render("press any key to close"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
