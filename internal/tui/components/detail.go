package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/tui/styles"
)

const (
	statLabelWidth = 6
	statValueWidth = 4
	minBarWidth    = 10
)

var titleCaser = cases.Title(language.English)

// RenderDetail renders a detail record. accent tints the header; nil uses
// the default header color.
func RenderDetail(record domain.DetailRecord, accent *lipgloss.Color, width int) string {
	var b strings.Builder

	header := styles.HeaderStyle
	if accent != nil {
		header = header.Background(*accent)
	}
	title := fmt.Sprintf("%s  %s", FormatNumber(record.ID), domain.Capitalize(record.Name))
	b.WriteString(header.Render(title))
	b.WriteString("\n\n")

	if len(record.Types) > 0 {
		badges := make([]string, 0, len(record.Types))
		for _, t := range record.Types {
			badges = append(badges, styles.BadgeStyle.
				Background(styles.TypeColor(t.Name)).
				Render(titleCaser.String(t.Name)))
		}
		b.WriteString(strings.Join(badges, " "))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf(
		"Height %.1f m    Weight %.1f kg",
		record.HeightMetres(),
		record.WeightKilograms(),
	)))
	b.WriteString("\n\n")

	if len(record.Stats) > 0 {
		b.WriteString(styles.TitleStyle.Render("Base stats"))
		b.WriteString("\n")

		barWidth := width - statLabelWidth - statValueWidth - 2
		if barWidth < minBarWidth {
			barWidth = minBarWidth
		}
		max := record.MaxBaseStat()
		for _, s := range record.Stats {
			label := fmt.Sprintf("%-*s", statLabelWidth, styles.StatAbbr(s.Name))
			value := fmt.Sprintf("%*d ", statValueWidth, s.Value)
			b.WriteString(styles.DimStyle.Render(label))
			b.WriteString(value)
			b.WriteString(styles.RenderBar(s.Value, max, barWidth, styles.StatColor(s.Name)))
			b.WriteString("\n")
		}
	}

	if ref := record.ImageRef(); ref != "" {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(ref))
	}

	return b.String()
}

// RenderRetry renders an error message with a retry hint
func RenderRetry(message string) string {
	return styles.ErrorStyle.Render(message) + "  " +
		styles.HelpKeyStyle.Render("r") + styles.HelpDescStyle.Render(" retry")
}
