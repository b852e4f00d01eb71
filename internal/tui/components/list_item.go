package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/tui/styles"
)

// FormatNumber renders an entry number as #NNN
func FormatNumber(n int) string {
	return fmt.Sprintf("#%03d", n)
}

// RenderEntryRow renders one list row. highlights are byte offsets of the
// runes in the display name that matched the active query.
func RenderEntryRow(entry domain.DisplayEntry, highlights []int, selected bool, width int) string {
	number := styles.DimGray
	parts := []styles.RowPart{
		{Text: FormatNumber(entry.Number), Foreground: &number},
		{Text: "  "},
	}

	name := styles.Truncate(entry.DisplayName, width-len(FormatNumber(entry.Number))-4)
	parts = append(parts, highlightParts(name, highlights)...)

	return styles.RenderListRow(parts, selected, width)
}

// highlightParts splits name into runs of matched and unmatched text
func highlightParts(name string, highlights []int) []styles.RowPart {
	if len(highlights) == 0 {
		return []styles.RowPart{{Text: name}}
	}

	matched := make(map[int]bool, len(highlights))
	for _, i := range highlights {
		matched[i] = true
	}

	accent := styles.DexRed
	var parts []styles.RowPart
	var run strings.Builder
	runMatched := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runMatched {
			part.Foreground = &accent
			part.Bold = true
		}
		parts = append(parts, part)
		run.Reset()
	}

	for i, r := range name {
		if matched[i] != runMatched {
			flush()
			runMatched = matched[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}
