package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/palette"
	"github.com/mmcdole/dex/internal/service"
)

// Command factories for async operations

// WaitForListStateCmd blocks until the list coordinator publishes a state
func WaitForListStateCmd(states <-chan service.ListState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return nil
		}
		return ListStateMsg{State: s}
	}
}

// LoadDetailCmd fetches one detail record
func LoadDetailCmd(detail *service.DetailCoordinator, name string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return DetailLoadedMsg{Name: name, Result: detail.GetDetail(ctx, name)}
	}
}

// LoadAccentCmd downloads artwork and derives its accent color
func LoadAccentCmd(images domain.ImageFetcher, name, imageURL string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		data, err := images.FetchImage(ctx, imageURL)
		if err != nil {
			return AccentLoadedMsg{Name: name, Err: err}
		}

		c, err := palette.Dominant(data)
		if err != nil {
			return AccentLoadedMsg{Name: name, Err: err}
		}
		return AccentLoadedMsg{Name: name, Color: palette.Accent(c)}
	}
}
