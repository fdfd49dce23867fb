package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-lander/internal/core"
	"github.com/vovakirdan/tui-lander/internal/engine"
	"github.com/vovakirdan/tui-lander/internal/lander"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Scene glyphs.
const (
	glyphGround = '▓'
	glyphPad    = '='
	glyphFlame  = '*'
	glyphStar   = '.'
)

// DrawScene draws the site and the lander of f into area.
func DrawScene(s *core.Screen, area core.Rect, f engine.Frame) {
	s.DrawBox(area, core.ColorGray)
	inner := area.Inset(1)
	if inner.W <= 0 || inner.H <= 0 || f.Site == nil {
		return
	}
	vp := core.Viewport{WorldW: f.Profile.WorldWidth, WorldH: f.Profile.WorldHeight, Area: inner}

	drawStars(s, inner, f.Site.Seed)
	drawTerrain(s, vp, f.Site)
	drawLander(s, vp, f)

	if f.Mode != engine.ModeRunning && f.Message != "" {
		drawBanner(s, inner, f.Message, modeColor(f.Mode))
	}
}

// drawStars scatters a fixed star field derived from the site seed.
func drawStars(s *core.Screen, area core.Rect, seed int64) {
	h := uint64(seed) | 1
	n := area.W * area.H / 40
	for i := 0; i < n; i++ {
		// xorshift keeps the field stable across frames
		h ^= h << 13
		h ^= h >> 7
		h ^= h << 17
		x := area.X + int(h%uint64(area.W))
		y := area.Y + int((h>>20)%uint64(max(1, area.H*2/3)))
		s.SetColored(x, y, glyphStar, core.ColorGray)
	}
}

func drawTerrain(s *core.Screen, vp core.Viewport, site *lander.Site) {
	for col := vp.Area.X; col < vp.Area.Right(); col++ {
		x := vp.ColumnX(col)
		_, top := vp.ToCell(x, site.HeightAt(x))
		top = core.Clamp(top, vp.Area.Y, vp.Area.Bottom()-1)

		onPad := x >= site.PadX && x <= site.PadX+site.PadWidth
		for row := top; row < vp.Area.Bottom(); row++ {
			if onPad && row == top {
				s.SetColored(col, row, glyphPad, core.ColorBrightGreen)
				continue
			}
			s.SetColored(col, row, glyphGround, core.ColorGray)
		}
	}
}

func drawLander(s *core.Screen, vp core.Viewport, f engine.Frame) {
	st := f.State
	x, y := vp.ToCell(st.X, st.Y)

	if st.Firing {
		rad := st.Heading * math.Pi / 180
		fx := x - int(math.Round(math.Sin(rad)))
		fy := y + int(math.Round(math.Cos(rad)))
		s.SetColored(fx, fy, glyphFlame, core.ColorOrange)
	}

	c := core.ColorBrightWhite
	switch f.Mode {
	case engine.ModeWin:
		c = core.ColorBrightGreen
	case engine.ModeLose:
		c = core.ColorBrightRed
	}
	s.SetColored(x, y, headingGlyph(st.Heading), c)
}

// headingGlyph picks the character pointing closest to the lander's nose.
func headingGlyph(heading float64) rune {
	glyphs := [...]rune{'^', '/', '>', '\\', 'v', '/', '<', '\\'}
	i := int(math.Round(heading/45)) % 8
	if i < 0 {
		i += 8
	}
	return glyphs[i]
}

func drawBanner(s *core.Screen, area core.Rect, msg string, c core.Color) {
	lines := strings.Split(msg, "\n")
	y := area.Y + area.H/3 - len(lines)/2
	for i, line := range lines {
		x := area.X + (area.W-len([]rune(line)))/2
		s.DrawTextColored(x, y+i, line, c)
	}
}

func modeColor(m engine.Mode) core.Color {
	switch m {
	case engine.ModeWin:
		return core.ColorBrightGreen
	case engine.ModeLose:
		return core.ColorBrightRed
	case engine.ModePaused:
		return core.ColorBrightYellow
	default:
		return core.ColorBrightCyan
	}
}
