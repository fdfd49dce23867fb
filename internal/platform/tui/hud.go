package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/vovakirdan/tui-lander/internal/engine"
)

// HUD layout constants
const (
	hudWidth       = 28  // Width of the side panel including border
	minWidthForHUD = 70  // Narrower terminals get a status line instead
	telemetrySize  = 120 // Samples kept for the altitude plot
)

var (
	hudStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(hudWidth - 2)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// Telemetry keeps a short altitude history of the current flight.
type Telemetry struct {
	altitude []float64
	last     time.Duration
	interval time.Duration
}

// NewTelemetry creates a history sampled every interval of flight time.
func NewTelemetry(interval time.Duration) *Telemetry {
	return &Telemetry{interval: interval}
}

// Observe records f if enough flight time has passed since the last sample.
// A frame from an earlier point in time starts a new history.
func (t *Telemetry) Observe(f engine.Frame) {
	if f.Elapsed < t.last || (f.Elapsed == 0 && len(t.altitude) > 0) {
		t.altitude = t.altitude[:0]
		t.last = 0
	}
	if len(t.altitude) > 0 && f.Elapsed-t.last < t.interval {
		return
	}
	t.last = f.Elapsed
	t.altitude = append(t.altitude, math.Max(0, f.Altitude))
	if len(t.altitude) > telemetrySize {
		t.altitude = t.altitude[len(t.altitude)-telemetrySize:]
	}
}

// Len returns the number of samples.
func (t *Telemetry) Len() int {
	return len(t.altitude)
}

// Plot renders the altitude history, or an empty string with too few samples.
func (t *Telemetry) Plot(width, height int) string {
	if len(t.altitude) < 2 || width < 8 || height < 2 {
		return ""
	}
	return asciigraph.Plot(t.altitude,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.Caption("altitude"),
	)
}

// RenderHUD renders the side panel for f.
func RenderHUD(f engine.Frame, t *Telemetry, height int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("LUNAR LANDER"))
	b.WriteString("\n\n")

	diff := f.Difficulty.Title()
	if f.Selected != f.Difficulty {
		diff += " → " + f.Selected.Title()
	}
	writeField(&b, "Difficulty", valueStyle.Render(diff))
	writeField(&b, "Status", valueStyle.Render(f.Mode.String()))
	b.WriteString("\n")

	writeField(&b, "Fuel", fuelGauge(f.State.Fuel, f.Profile.Fuel, 12))
	writeField(&b, "Altitude", valueStyle.Render(fmt.Sprintf("%6.1f", f.Altitude)))
	writeField(&b, "Vert speed", limitStyle(math.Abs(f.State.VY), f.Profile.MaxLandingVY).
		Render(fmt.Sprintf("%6.1f", f.State.VY)))
	writeField(&b, "Horiz speed", limitStyle(math.Abs(f.State.VX), f.Profile.MaxLandingVX).
		Render(fmt.Sprintf("%6.1f", f.State.VX)))
	writeField(&b, "Heading", limitStyle(math.Abs(f.State.Heading), f.Profile.MaxLandingAngle).
		Render(fmt.Sprintf("%5.0f°", f.State.Heading)))
	b.WriteString("\n")

	writeField(&b, "Flight time", valueStyle.Render(formatElapsed(f.Elapsed)))
	writeField(&b, "Streak", valueStyle.Render(fmt.Sprintf("%d", f.WinStreak)))
	if f.Score > 0 {
		writeField(&b, "Score", okStyle.Render(fmt.Sprintf("%d", f.Score)))
	}

	// Whatever height is left goes to the plot
	used := strings.Count(b.String(), "\n")
	if plotH := height - used - 6; t != nil && plotH >= 3 {
		if plot := t.Plot(hudWidth-12, plotH); plot != "" {
			b.WriteString("\n")
			b.WriteString(plot)
		}
	}

	return hudStyle.Height(max(0, height-2)).Render(b.String())
}

// RenderStatusLine renders a one-line HUD for narrow terminals.
func RenderStatusLine(f engine.Frame) string {
	return fmt.Sprintf("%s %s | fuel %.0f | alt %.0f | vy %.1f vx %.1f | %s",
		f.Difficulty.Title(), f.Mode, f.State.Fuel, f.Altitude, f.State.VY, f.State.VX, formatElapsed(f.Elapsed))
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
	b.WriteString(value)
	b.WriteString("\n")
}

// limitStyle highlights values beyond the landing tolerance.
func limitStyle(v, limit float64) lipgloss.Style {
	if limit > 0 && v > limit {
		return warnStyle
	}
	return okStyle
}

func fuelGauge(fuel, capacity float64, width int) string {
	if capacity <= 0 {
		return ""
	}
	filled := int(math.Round(fuel / capacity * float64(width)))
	filled = max(0, min(width, filled))
	style := okStyle
	if fuel/capacity < 0.2 {
		style = warnStyle
	}
	return style.Render(strings.Repeat("█", filled)) +
		labelStyle.Render(strings.Repeat("░", width-filled))
}

func formatElapsed(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	return fmt.Sprintf("%d:%04.1f", int(d.Minutes()), math.Mod(d.Seconds(), 60))
}
