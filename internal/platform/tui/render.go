package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakearena/internal/core"
	"github.com/vovakirdan/snakearena/internal/game"
)

// Glyphs used to draw the board.
const (
	glyphHead  = '@'
	glyphBody  = 'o'
	glyphApple = '*'
	glyphEmpty = ' '
)

// appleColor is the colour apples are drawn in.
const appleColor = "red"

var (
	stylesMu sync.Mutex
	styles   = map[string]lipgloss.Style{"": lipgloss.NewStyle()}
)

// styleFor returns a foreground style for a colour name or hex string.
func styleFor(color string) lipgloss.Style {
	stylesMu.Lock()
	defer stylesMu.Unlock()

	if s, ok := styles[color]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(core.ColorHex(color)))
	styles[color] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
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

			sb.WriteString(styleFor(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// DrawBoard draws a framed board into dst: the frame occupies the outer
// ring, so dst should be (board width + 2) x (board height + 2). Snakes are
// drawn in their own colour with the head marked. The head of the snake
// owned by self points in its direction of travel.
func DrawBoard(dst *core.Screen, v *game.View, self string) {
	dst.Clear()
	dst.DrawBox(core.NewRect(0, 0, v.Board.Width+2, v.Board.Height+2))

	for _, t := range v.Tiles {
		dst.SetColored(t.Pos.X+1, t.Pos.Y+1, glyphApple, appleColor)
	}

	for _, s := range v.Snakes {
		segs := s.Segments()
		// Tail first so the head wins on stacked segments
		for i := len(segs) - 1; i >= 0; i-- {
			glyph := glyphBody
			if i == 0 {
				glyph = glyphHead
			}
			dst.SetColored(segs[i].X+1, segs[i].Y+1, glyph, s.Color())
		}
	}

	if self != "" {
		for _, s := range v.Snakes {
			if s.ID() == self {
				dst.SetColored(s.Head().X+1, s.Head().Y+1, headGlyph(s.Facing()), s.Color())
			}
		}
	}
}

// headGlyph points the player's own head in its direction of travel.
func headGlyph(d core.Direction) rune {
	switch d {
	case core.Up:
		return '^'
	case core.Down:
		return 'v'
	case core.Left:
		return '<'
	case core.Right:
		return '>'
	}
	return glyphHead
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
