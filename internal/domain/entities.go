package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultAssetURL is the sprite template used when none is configured.
// The {number} placeholder is replaced with the entry's numeric id.
const DefaultAssetURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/{number}.png"

// NumberPlaceholder marks where the entry number goes in an asset template
const NumberPlaceholder = "{number}"

// IndexEntry is one row of the raw paginated listing
type IndexEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"` // Ends in the numeric id, optionally followed by "/"
}

// PageResult is one page of the index listing
type PageResult struct {
	TotalCount int          `json:"count"`
	Entries    []IndexEntry `json:"results"`
}

// DisplayEntry is a UI-ready row derived from an IndexEntry
type DisplayEntry struct {
	DisplayName string
	Number      int
	ImageURL    string
}

// DetailRecord is the full record returned by the detail endpoint
type DetailRecord struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`
	Height  int        `json:"height"` // Decimetres
	Weight  int        `json:"weight"` // Hectograms
	Types   []TypeSlot `json:"types"`
	Stats   []BaseStat `json:"stats"`
	Sprites Sprites    `json:"sprites"`
}

// TypeSlot is one of the record's typed categories
type TypeSlot struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

// BaseStat is a named base-stat value
type BaseStat struct {
	Name   string `json:"name"`
	Value  int    `json:"base_stat"`
	Effort int    `json:"effort"`
}

// Sprites holds the record's image references
type Sprites struct {
	FrontDefault string `json:"front_default"`
	Artwork      string `json:"artwork"`
}

// HeightMetres converts the record height to metres
func (d DetailRecord) HeightMetres() float64 {
	return float64(d.Height) / 10
}

// WeightKilograms converts the record weight to kilograms
func (d DetailRecord) WeightKilograms() float64 {
	return float64(d.Weight) / 10
}

// MaxBaseStat returns the highest base stat value (0 when there are no stats)
func (d DetailRecord) MaxBaseStat() int {
	max := 0
	for _, s := range d.Stats {
		if s.Value > max {
			max = s.Value
		}
	}
	return max
}

// ImageRef returns the best available image URL for the record
func (d DetailRecord) ImageRef() string {
	if d.Sprites.Artwork != "" {
		return d.Sprites.Artwork
	}
	return d.Sprites.FrontDefault
}

// ParseNumber extracts the trailing decimal id from an entry URL.
// A single trailing slash is ignored, so ".../25/" and ".../25" both yield 25.
func ParseNumber(rawURL string) (int, bool) {
	trimmed := strings.TrimSuffix(rawURL, "/")

	start := len(trimmed)
	for start > 0 && trimmed[start-1] >= '0' && trimmed[start-1] <= '9' {
		start--
	}
	if start == len(trimmed) {
		return 0, false
	}

	n, err := strconv.Atoi(trimmed[start:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Capitalize upper-cases the first letter and leaves the rest untouched
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	head := name[:size]
	upper := cases.Upper(language.Und).String(head)
	if upper == head {
		return name
	}
	return upper + name[size:]
}

// ImageURLFor substitutes the entry number into an asset template
func ImageURLFor(template string, number int) string {
	if template == "" {
		template = DefaultAssetURL
	}
	return strings.ReplaceAll(template, NumberPlaceholder, strconv.Itoa(number))
}

// ToDisplayEntry derives the UI row for an index entry.
// Entries whose URL carries no number get Number 0.
func ToDisplayEntry(e IndexEntry, assetTemplate string) DisplayEntry {
	number, _ := ParseNumber(e.URL)
	return DisplayEntry{
		DisplayName: Capitalize(e.Name),
		Number:      number,
		ImageURL:    ImageURLFor(assetTemplate, number),
	}
}

// ToDisplayEntries maps a page of entries, preserving order
func ToDisplayEntries(entries []IndexEntry, assetTemplate string) []DisplayEntry {
	out := make([]DisplayEntry, len(entries))
	for i, e := range entries {
		out[i] = ToDisplayEntry(e, assetTemplate)
	}
	return out
}
