package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/engine"
	"github.com/vovakirdan/tui-lander/internal/platform/tui"
	"github.com/vovakirdan/tui-lander/internal/session"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

var (
	flagDifficulty string
	flagFresh      bool
	flagTilt       string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Fly the lander",
	Long: `Start a flight right away.

A flight suspended on quit is resumed paused; press Space to continue.

Controls:
  Space/Enter  - Start, pause, resume
  Up/W         - Engine on/off
  Left/A       - Rotate left (press again to stop)
  Right/D      - Rotate right (press again to stop)
  X            - Abort the flight
  N            - New flight
  1/2/3        - Easy/medium/hard for the next flight
  Q/Ctrl+C     - Save and quit

Examples:
  lander play
  lander play --difficulty easy
  lander play --fresh --seed 42
  lander play --tilt /tmp/lander-tilt
  lander play --config ./my-lander.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, medium, hard")
	playCmd.Flags().BoolVar(&flagFresh, "fresh", false, "Discard the suspended flight")
	playCmd.Flags().StringVar(&flagTilt, "tilt", "", "Read \"ax ay\" tilt readings from a file or FIFO")
}

func runPlay(_ *cobra.Command, _ []string) {
	lcfg := loadConfig()
	cfg := runtimeConfig()

	logOut, closeLog := openLogFile()
	defer closeLog()
	logger := newLogger(logOut, "lander")

	// Open lander storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open lander database: %v\n", err)
		// Continue without storage - flying still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	sess := session.New(session.LocalID, lcfg, 4, tui.EngineOptions(cfg, store, logger, string(session.LocalID))...)
	defer sess.Close()

	resumed := false
	switch {
	case store != nil && flagFresh:
		if err := store.DeleteSnapshot(sess.Slot()); err != nil {
			logger.Warn("cannot discard suspended flight", "err", err)
		}
	case store != nil:
		resumed, err = engine.Resume(sess.Engine(), store, sess.Slot())
		if err != nil {
			logger.Warn("discarding suspended flight", "err", err)
		}
	}
	if flagDifficulty != "" {
		d, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		//nolint:errcheck // d is already validated
		sess.Engine().SetDifficulty(d)
		if resumed && sess.Engine().Frame().Difficulty != d {
			// The suspended flight was flown with another profile
			sess.Engine().NewGame()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess.Start(ctx)

	if flagTilt != "" {
		feed, err := os.Open(flagTilt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer feed.Close()
		go func() {
			if err := tui.FeedTilt(ctx, feed, sess.Engine(), tui.DefaultTiltDeadzone, logger); err != nil && ctx.Err() == nil {
				logger.Warn("tilt feed stopped", "err", err)
			}
		}()
	}

	runErr := tui.Run(sess, cfg, logger)

	if store != nil {
		if err := engine.Suspend(sess.Engine(), store, sess.Slot()); err != nil {
			logger.Warn("cannot suspend flight", "err", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running lander: %v\n", runErr)
		os.Exit(1)
	}
}
