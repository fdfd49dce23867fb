package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-lander/internal/engine"
	"github.com/vovakirdan/tui-lander/internal/lander"
)

// DefaultTiltDeadzone is the sideways tilt below which the lander does not
// rotate.
const DefaultTiltDeadzone = 0.15

// FeedTilt reads display-normalized tilt readings, one "ax ay" pair per
// line, and turns them into control intents while the flight is running.
// Malformed lines are logged and skipped. It returns when r is exhausted or
// ctx ends.
func FeedTilt(ctx context.Context, r io.Reader, eng *engine.Engine, deadzone float64, logger *log.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ax, ay, err := parseTilt(line)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping tilt reading", "line", line, "err", err)
			}
			continue
		}
		if eng.Mode() != engine.ModeRunning {
			continue
		}
		c := lander.ControlsFromTilt(ax, ay, deadzone)
		eng.SetControlIntent(c.Firing, c.Rotating)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("tui: cannot read tilt feed: %w", err)
	}
	return nil
}

func parseTilt(line string) (float64, float64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want 2 values, got %d", len(fields))
	}
	ax, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, err
	}
	ay, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return ax, ay, nil
}
