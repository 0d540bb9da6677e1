package pixelcrush

import (
	"fmt"
	"strconv"

	platformcore "github.com/vovakirdan/pixelcrush/internal/core"
	"github.com/vovakirdan/pixelcrush/internal/games/pixelcrush/core"
)

const (
	hudHeight    = 2
	footerHeight = 5 // Blank line, slots, basket (2 rows), controls
)

// screenColor maps a game color to a terminal color.
func screenColor(c core.Color) platformcore.Color {
	switch c {
	case core.ColorRed:
		return platformcore.ColorRed
	case core.ColorBlue:
		return platformcore.ColorBlue
	case core.ColorGreen:
		return platformcore.ColorGreen
	case core.ColorYellow:
		return platformcore.ColorYellow
	case core.ColorPurple:
		return platformcore.ColorMagenta
	default:
		return platformcore.ColorGray
	}
}

// layout is the placement of the board on screen.
type layout struct {
	x, y  int
	cellW int // Terminal columns per pixel
	rows  int // Terminal rows; two pixel rows share one terminal row
}

func (g *Game) layout(dst *platformcore.Screen, side int) (layout, bool) {
	rows := (side + 1) / 2
	if dst.Height() < hudHeight+rows+footerHeight {
		return layout{}, false
	}
	for _, cellW := range []int{2, 1} {
		w := side * cellW
		if w+2 <= dst.Width() {
			return layout{
				x:     (dst.Width() - w) / 2,
				y:     hudHeight,
				cellW: cellW,
				rows:  rows,
			}, true
		}
	}
	return layout{}, false
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.err != nil {
		g.renderOverlay(dst, "Configuration error", g.err.Error())
		return
	}
	if g.session == nil {
		return
	}

	snap := g.session.Snapshot()
	g.renderHUD(dst, snap)

	if snap.Phase == core.PhaseIntro {
		g.renderIntro(dst)
		return
	}

	lay, ok := g.layout(dst, snap.Side)
	if !ok {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderBoard(dst, snap, lay)
	g.renderSlots(dst, snap, lay.y+lay.rows+1)
	g.renderBasket(dst, snap, lay.y+lay.rows+2)
	g.renderControls(dst, snap)

	switch snap.Phase {
	case core.PhasePaused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	case core.PhaseLost:
		g.renderOverlay(dst, "Out of moves", "Press R to retry the stage")
	case core.PhaseWon:
		if snap.Finished {
			g.renderOverlay(dst, "All stages cleared!", fmt.Sprintf("Score %d - press R to play again", snap.Cleared*PointsPerPixel))
		} else {
			g.renderOverlay(dst, fmt.Sprintf("Stage %d cleared!", snap.Stage), "Press Enter for the next stage")
		}
	}
}

func (g *Game) renderHUD(dst *platformcore.Screen, snap core.Snapshot) {
	hud := " " + g.title
	if snap.Phase != core.PhaseIntro {
		hud += " | Stage " + strconv.Itoa(snap.Stage) + "/" + strconv.Itoa(snap.MaxStage) +
			" | Score " + strconv.Itoa(snap.Cleared*PointsPerPixel) +
			" | Pixels " + strconv.Itoa(snap.Remaining()) + "/" + strconv.Itoa(snap.Side*snap.Side)
	}
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorCyan)
	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)
}

// renderBoard draws pixels as half blocks: the upper pixel of each pair is the
// foreground of '▀', the lower one its background.
func (g *Game) renderBoard(dst *platformcore.Screen, snap core.Snapshot, lay layout) {
	side := snap.Side
	colors := make([]platformcore.Color, side*side)
	filled := make([]bool, side*side)
	for _, p := range snap.Pixels {
		colors[p.Y*side+p.X] = screenColor(p.Color)
		filled[p.Y*side+p.X] = true
	}
	for _, f := range g.flashes {
		i := f.pixel.Y*side + f.pixel.X
		if i >= 0 && i < len(colors) && !filled[i] {
			colors[i] = platformcore.ColorBrightWhite
			filled[i] = true
		}
	}

	for row := 0; row < lay.rows; row++ {
		top := 2 * row
		bottom := top + 1
		for x := 0; x < side; x++ {
			ti := top*side + x
			topOn := filled[ti]
			bottomOn := bottom < side && filled[bottom*side+x]

			var cell platformcore.Cell
			switch {
			case topOn && bottomOn:
				cell = platformcore.Cell{Rune: '▀', Color: colors[ti], Bg: colors[bottom*side+x]}
			case topOn:
				cell = platformcore.Cell{Rune: '▀', Color: colors[ti]}
			case bottomOn:
				cell = platformcore.Cell{Rune: '▄', Color: colors[bottom*side+x]}
			default:
				cell = platformcore.Cell{Rune: ' '}
			}
			for cx := 0; cx < lay.cellW; cx++ {
				dst.SetCell(lay.x+x*lay.cellW+cx, lay.y+row, cell)
			}
		}
	}
}

func (g *Game) renderSlots(dst *platformcore.Screen, snap core.Snapshot, y int) {
	x := 1
	dst.DrawTextWithColor(x, y, "Slots", platformcore.ColorGray)
	x += 7
	for _, slot := range snap.Slots {
		if !slot.Occupied {
			dst.DrawTextWithColor(x, y, "[ -- ]", platformcore.ColorGray)
			x += 7
			continue
		}
		label := fmt.Sprintf("[%c %2d]", '●', slot.Ball.Count)
		dst.DrawTextWithColor(x, y, label, screenColor(slot.Ball.Color))
		x += len([]rune(label)) + 1
	}
}

func (g *Game) renderBasket(dst *platformcore.Screen, snap core.Snapshot, y int) {
	dst.DrawTextWithColor(1, y, "Basket", platformcore.ColorGray)
	if len(snap.Basket) == 0 {
		dst.DrawTextWithColor(8, y, "empty", platformcore.ColorGray)
		return
	}

	x, row := 8, y
	for i, ball := range snap.Basket {
		label := "●" + strconv.Itoa(ball.Count)
		width := len([]rune(label)) + 2
		if x+width > dst.Width() && row == y {
			x, row = 8, y+1
		}
		if i == g.cursor && snap.Phase == core.PhasePlaying {
			dst.DrawTextWithColor(x, row, ">", platformcore.ColorBrightWhite)
		}
		dst.DrawTextWithColor(x+1, row, label, screenColor(ball.Color))
		x += width
	}
}

func (g *Game) renderControls(dst *platformcore.Screen, snap core.Snapshot) {
	hint := " ←/→: Choose | Enter/1-9: Drop ball | P: Pause | Q: Quit"
	if snap.EmptySlot() < 0 {
		hint = " Slots full, waiting for a ball to run out | P: Pause | Q: Quit"
	}
	dst.DrawTextWithColor(0, dst.Height()-1, hint, platformcore.ColorGray)
}

func (g *Game) renderIntro(dst *platformcore.Screen) {
	lines := []string{
		"Clear the board by feeding colored balls into the slots.",
		"Each slotted ball removes pixels of its color, one per tick,",
		"until its count runs out. Keep the slots busy and never let",
		"them fill with balls that have nothing left to clear.",
	}
	mid := dst.Height() / 2
	dst.DrawTextCentered(mid-4, "P I X E L   C R U S H", platformcore.ColorBrightWhite)
	for i, line := range lines {
		dst.DrawTextCentered(mid-2+i, line, platformcore.ColorDefault)
	}
	dst.DrawTextCentered(mid+3, "Press Enter to start", platformcore.ColorYellow)
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *platformcore.Screen, title, subtitle string) {
	w := platformcore.Max(len([]rune(title)), len([]rune(subtitle))) + 6
	w = platformcore.Min(w, dst.Width())
	h := 5
	box := platformcore.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	dst.DrawRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box, platformcore.ColorWhite)
	dst.DrawTextCentered(box.Y+1, title, platformcore.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, subtitle, platformcore.ColorGray)
}
