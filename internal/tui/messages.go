package tui

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/service"
)

// Message types for the TUI

// ListStateMsg carries a newly published list state
type ListStateMsg struct {
	State service.ListState
}

// DetailLoadedMsg carries the outcome of a detail fetch
type DetailLoadedMsg struct {
	Name   string
	Result domain.Result[domain.DetailRecord]
}

// AccentLoadedMsg carries the accent color derived from a record's artwork
type AccentLoadedMsg struct {
	Name  string
	Color colorful.Color
	Err   error
}
