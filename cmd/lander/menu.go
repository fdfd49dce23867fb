package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/engine"
	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/session"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the lander with a difficulty picker",
	Long: `Start the lander in interactive menu mode.

Use arrow keys or j/k to pick a difficulty, Enter to fly.
Esc during a flight pauses it and returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Fly
  Tab          - Landing history
  Q            - Quit

Examples:
  lander menu
  lander menu --fps 30
  lander menu --db ./lander.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	lcfg := loadConfig()
	cfg := runtimeConfig()

	logOut, closeLog := openLogFile()
	defer closeLog()
	logger := newLogger(logOut, "lander")

	// Open lander storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open lander database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	sess := session.New(session.LocalID, lcfg, 4, tui.EngineOptions(cfg, store, logger, string(session.LocalID))...)
	defer sess.Close()

	if store != nil {
		if _, err := engine.Resume(sess.Engine(), store, sess.Slot()); err != nil {
			logger.Warn("discarding suspended flight", "err", err)
		}
	}

	sess.Start(context.Background())
	runErr := tui.RunApp(sess, store, lcfg, cfg, logger)

	if store != nil {
		if err := engine.Suspend(sess.Engine(), store, sess.Slot()); err != nil {
			logger.Warn("cannot suspend flight", "err", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
