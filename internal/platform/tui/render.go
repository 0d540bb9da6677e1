package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixelcrush/internal/core"
)

// palette maps core colors to terminal colors.
var palette = map[core.Color]lipgloss.Color{
	core.ColorRed:         lipgloss.Color("9"),
	core.ColorGreen:       lipgloss.Color("10"),
	core.ColorYellow:      lipgloss.Color("11"),
	core.ColorBlue:        lipgloss.Color("12"),
	core.ColorMagenta:     lipgloss.Color("13"),
	core.ColorCyan:        lipgloss.Color("14"),
	core.ColorWhite:       lipgloss.Color("7"),
	core.ColorBrightWhite: lipgloss.Color("15"),
	core.ColorGray:        lipgloss.Color("245"),
}

type styleKey struct {
	fg core.Color
	bg core.Color
}

// styleFor returns the lipgloss style for a foreground/background pair.
// ColorDefault leaves that side of the cell unstyled.
func styleFor(fg, bg core.Color) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c, ok := palette[fg]; ok {
		style = style.Foreground(c)
	}
	if c, ok := palette[bg]; ok {
		style = style.Background(c)
	}
	return style
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells sharing both colors are rendered as one run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	styles := make(map[styleKey]lipgloss.Style)
	var run strings.Builder

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)
			k := styleKey{fg: start.Color, bg: start.Bg}

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != k.fg || cell.Bg != k.bg {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if k.fg == core.ColorDefault && k.bg == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			style, ok := styles[k]
			if !ok {
				style = styleFor(k.fg, k.bg)
				styles[k] = style
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
