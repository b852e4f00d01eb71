package search

import (
	"strconv"
	"strings"

	"github.com/mmcdole/dex/internal/domain"
)

// Matches reports whether an entry satisfies a query: the trimmed query is
// a case-insensitive substring of the display name, or equals the number.
func Matches(entry domain.DisplayEntry, query string) bool {
	q := strings.TrimSpace(query)
	if strings.Contains(strings.ToLower(entry.DisplayName), strings.ToLower(q)) {
		return true
	}
	return strconv.Itoa(entry.Number) == q
}

// Filter returns the entries matching query in source order.
// The result is a new slice; source is never modified.
func Filter(entries []domain.DisplayEntry, query string) []domain.DisplayEntry {
	out := make([]domain.DisplayEntry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, query) {
			out = append(out, e)
		}
	}
	return out
}
