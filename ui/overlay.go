package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Overlay draws box on top of base with its top-left corner at column x,
// row y. Both may contain ANSI styling; base lines keep their styling on
// either side of the box.
func Overlay(base, box string, x, y int) string {
	if box == "" {
		return base
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(box, "\n") {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		baseLines[row] = overlayLine(baseLines[row], line, x)
	}
	return strings.Join(baseLines, "\n")
}

func overlayLine(base, over string, x int) string {
	w := ansi.StringWidth(over)
	left := ansi.Truncate(base, x, "")
	if gap := x - ansi.StringWidth(left); gap > 0 {
		left += strings.Repeat(" ", gap)
	}
	right := ansi.TruncateLeft(base, x+w, "")
	return left + "\x1b[0m" + over + "\x1b[0m" + right
}

// Center overlays box in the middle of a width x height base.
func Center(base, box string, width, height int) string {
	x := (width - lipgloss.Width(box)) / 2
	y := (height - lipgloss.Height(box)) / 2
	return Overlay(base, box, x, y)
}
