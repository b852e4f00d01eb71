package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/dex/internal/adapter"
	"github.com/mmcdole/dex/internal/adapter/source"
	"github.com/mmcdole/dex/internal/domain"
	"github.com/mmcdole/dex/internal/repository"
	"github.com/mmcdole/dex/internal/service"
	"github.com/mmcdole/dex/internal/tui"
	"github.com/mmcdole/dex/internal/tui/components"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearProgressLine clears the progress line from the terminal
const clearProgressLine = "\r                                    \r"

type options struct {
	configPath string
	initConfig bool
	clearCache bool
	refresh    bool
	listAll    bool
}

func main() {
	var (
		showVersion bool
		opts        options
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configPath, "config", "", "path to config file")
	flag.BoolVar(&opts.initConfig, "init", false, "write a default config file and exit")
	flag.BoolVar(&opts.clearCache, "clear-cache", false, "drop cached responses and exit")
	flag.BoolVar(&opts.refresh, "refresh", false, "drop cached index pages before starting")
	flag.BoolVar(&opts.listAll, "all", false, "print the whole index (non-interactive output only)")
	flag.Parse()

	if showVersion {
		fmt.Printf("dex %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.initConfig {
		path, err := adapter.SaveConfig(adapter.DefaultConfig(), opts.configPath)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Configuration written to %s\n", path)
		return nil
	}

	// Load configuration
	cfg, err := adapter.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if opts.clearCache {
		if err := clearCache(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Cache cleared")
		return nil
	}

	// Setup logger
	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, logCloser = adapter.NullLogger(), io.NopCloser(nil)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("starting dex", "version", Version, "api", cfg.API.URL)

	src, err := source.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create index source: %w", err)
	}
	defer src.Close()

	if opts.refresh {
		src.Refresh()
	}

	repo := repository.New(src.Gateway, logger)
	listCfg := service.ListConfig{
		PageSize:       cfg.API.PageSize,
		AssetURL:       cfg.API.AssetURL,
		RequestTimeout: cfg.API.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return printIndex(ctx, repo, listCfg, opts.listAll)
	}

	scheduler := service.NewTaskScheduler()
	list := service.NewListCoordinator(ctx, repo, scheduler, listCfg, logger)
	detail := service.NewDetailCoordinator(repo, logger)

	// Create TUI model
	model := tui.NewModel(tui.Options{
		List:           list,
		Detail:         detail,
		Images:         src.Images,
		AccentColors:   cfg.UI.AccentColors,
		RequestTimeout: cfg.API.Timeout,
		Logger:         logger,
	})
	defer model.Close()

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	logger.Info("starting TUI")

	_, runErr := p.Run()

	list.Close()
	scheduler.Wait()

	if runErr != nil {
		logger.Error("TUI error", "error", runErr)
		return fmt.Errorf("TUI error: %w", runErr)
	}

	logger.Info("shutting down")
	return nil
}

// clearCache empties the open cache for the configured API host, or removes
// the cache directory when caching is turned off
func clearCache(cfg *adapter.Config) error {
	if !cfg.Cache.Enabled {
		return adapter.ClearCache(cfg.Cache.Dir)
	}

	src, err := source.NewClient(cfg, adapter.NullLogger())
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	src.Purge()
	return src.Close()
}

// printIndex writes "#NNN Name" lines for piping into other tools.
// Without all only the first page is printed.
func printIndex(ctx context.Context, repo domain.IndexRepository, cfg service.ListConfig, all bool) error {
	var (
		entries []domain.DisplayEntry
		failure string
	)

	if all {
		showProgress := term.IsTerminal(int(os.Stderr.Fd()))
		entries, failure = service.ListAll(ctx, repo, cfg, func(loaded, total int) {
			if showProgress {
				fmt.Fprintf(os.Stderr, "\rLoading %d/%d...", loaded, total)
			}
		})
		if showProgress {
			fmt.Fprint(os.Stderr, clearProgressLine)
		}
	} else {
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()

		repo.FetchIndexPage(fetchCtx, cfg.PageSize, 0).Handle(
			func(*domain.PageResult) { failure = domain.UnknownErrorMessage },
			func(page domain.PageResult) {
				entries = domain.ToDisplayEntries(page.Entries, cfg.AssetURL)
			},
			func(message string, _ *domain.PageResult) { failure = message },
		)
	}

	if failure != "" {
		return errors.New(failure)
	}

	for _, e := range entries {
		fmt.Printf("%s %s\n", components.FormatNumber(e.Number), e.DisplayName)
	}
	return nil
}
