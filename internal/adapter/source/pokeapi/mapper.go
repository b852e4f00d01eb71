package pokeapi

import (
	"github.com/mmcdole/dex/internal/domain"
)

// MapPage converts a list response to a domain page, preserving order
func MapPage(resp ListResponse) *domain.PageResult {
	entries := make([]domain.IndexEntry, 0, len(resp.Results))
	for _, r := range resp.Results {
		entries = append(entries, domain.IndexEntry{
			Name: r.Name,
			URL:  r.URL,
		})
	}
	return &domain.PageResult{
		TotalCount: resp.Count,
		Entries:    entries,
	}
}

// MapDetail converts a pokemon response to a domain detail record
func MapDetail(resp PokemonResponse) *domain.DetailRecord {
	record := &domain.DetailRecord{
		ID:     resp.ID,
		Name:   resp.Name,
		Height: resp.Height,
		Weight: resp.Weight,
		Types:  make([]domain.TypeSlot, 0, len(resp.Types)),
		Stats:  make([]domain.BaseStat, 0, len(resp.Stats)),
		Sprites: domain.Sprites{
			FrontDefault: deref(resp.Sprites.FrontDefault),
			Artwork:      deref(resp.Sprites.Other.OfficialArtwork.FrontDefault),
		},
	}

	for _, t := range resp.Types {
		record.Types = append(record.Types, domain.TypeSlot{
			Slot: t.Slot,
			Name: t.Type.Name,
		})
	}

	for _, s := range resp.Stats {
		record.Stats = append(record.Stats, domain.BaseStat{
			Name:   s.Stat.Name,
			Value:  s.BaseStat,
			Effort: s.Effort,
		})
	}

	return record
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
