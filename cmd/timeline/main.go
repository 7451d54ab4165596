// Command timeline shows a chat history in a terminal timeline that loads
// older and newer messages as it is scrolled.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ayn2op/timeline"
	"github.com/ayn2op/timeline/help"
	"github.com/ayn2op/timeline/internal/config"
	"github.com/ayn2op/timeline/internal/history"
	"github.com/ayn2op/timeline/scroller"
	"github.com/gdamore/tcell/v3"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("timeline: %v", err)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("timeline: %v", err)
	}
	defer closeLog()

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting", "err", err)
		closeLog()
		log.Fatalf("timeline: %v", err)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "timeline", "config.yaml")
}

func newLogger(cfg config.Log) (*slog.Logger, func(), error) {
	if cfg.File == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Seed(ctx, cfg.History.Seed, time.Now()); err != nil {
		return err
	}

	window := history.NewWindow(store, cfg.History.PageSize)
	if err := window.Load(ctx); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	screen.EnableMouse()

	app := timeline.NewApplication().SetScreen(screen)
	scrollKeys := cfg.Keys.ScrollKeys()
	c := newChat(store, window, app.PostUpdateDraw, logger,
		scroller.WithTuning(cfg.Timeline),
		scroller.WithStickyBottom(cfg.StickyBottom),
		scroller.WithKeys(scrollKeys),
	)
	defer c.panel.Close()
	c.render()

	keys := appKeys{
		ToggleHelp: config.Keybind(cfg.Keys.ToggleHelp, "help"),
		Quit:       config.Keybind(cfg.Keys.Quit, "quit"),
	}
	app.SetRoot(newView(c.panel, help.KeyMaps{scrollKeys}, keys))

	if cfg.History.LiveInterval > 0 {
		go c.simulate(ctx, cfg.History.LiveInterval)
	}

	logger.Info("starting", "history", cfg.History.Path, "loaded", len(window.Messages()))
	return app.Run()
}
