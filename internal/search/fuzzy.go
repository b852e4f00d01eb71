package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/dex/internal/domain"
)

// maxTypoDistance bounds edit distance for suggestions that are not subsequences
const maxTypoDistance = 2

// Suggest proposes up to max entries whose names are close to query.
// It is used when Filter finds nothing: subsequence matches come first
// (ranked by distance), then names within a small edit distance.
func Suggest(entries []domain.DisplayEntry, query string, max int) []domain.DisplayEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || max <= 0 || len(entries) == 0 {
		return nil
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = strings.ToLower(e.DisplayName)
	}

	ranks := lfuzzy.RankFindFold(q, names)
	sort.Stable(ranks)

	seen := make(map[int]bool)
	var out []domain.DisplayEntry
	for _, r := range ranks {
		if len(out) == max {
			return out
		}
		if seen[r.OriginalIndex] {
			continue
		}
		seen[r.OriginalIndex] = true
		out = append(out, entries[r.OriginalIndex])
	}

	type typo struct {
		index    int
		distance int
	}
	var typos []typo
	for i, name := range names {
		if seen[i] {
			continue
		}
		if d := lfuzzy.LevenshteinDistance(q, name); d <= maxTypoDistance {
			typos = append(typos, typo{index: i, distance: d})
		}
	}
	sort.SliceStable(typos, func(i, j int) bool {
		return typos[i].distance < typos[j].distance
	})
	for _, t := range typos {
		if len(out) == max {
			break
		}
		out = append(out, entries[t.index])
	}
	return out
}

// entrySource adapts display entries to fuzzy.Source
type entrySource []domain.DisplayEntry

func (s entrySource) String(i int) string { return s[i].DisplayName }
func (s entrySource) Len() int            { return len(s) }

// Highlights returns, per entry index, the byte offsets of the runes in
// DisplayName that match query. Entries matched only by number have no
// highlights.
func Highlights(entries []domain.DisplayEntry, query string) map[int][]int {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	out := make(map[int][]int)
	for i, e := range entries {
		if idx := foldIndex(e.DisplayName, q); idx != nil {
			out[i] = idx
		}
	}
	// Subsequence matches for the rest; sahilm matches case-insensitively
	// and reports offsets into the string it was given
	for _, m := range fuzzy.FindFrom(q, entrySource(entries)) {
		if _, ok := out[m.Index]; !ok {
			out[m.Index] = m.MatchedIndexes
		}
	}
	return out
}

// foldIndex finds the first case-insensitive occurrence of q in name and
// returns the byte offset of each matched rune, or nil.
func foldIndex(name, q string) []int {
	want := []rune(q)
	for start := range name {
		idx := make([]int, 0, len(want))
		pos := start
		for _, w := range want {
			if pos >= len(name) {
				break
			}
			r, size := utf8.DecodeRuneInString(name[pos:])
			if !strings.EqualFold(string(r), string(w)) {
				break
			}
			idx = append(idx, pos)
			pos += size
		}
		if len(idx) == len(want) {
			return idx
		}
	}
	return nil
}
