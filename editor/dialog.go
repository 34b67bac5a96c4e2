package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/cornish/marktivus/ui"
)

// dialogBuilder assembles the rows of a modal box. Rows are padded to the
// inner width so highlighted items span the whole box.
type dialogBuilder struct {
	styles ui.Styles
	width  int // Inner width
	lines  []string
}

// Box frame around the rows: border plus one column of padding each side.
const (
	dialogFrameX = 2
	dialogFrameY = 1
)

func newDialogBuilder(styles ui.Styles, width int) *dialogBuilder {
	return &dialogBuilder{styles: styles, width: max(width, 10)}
}

// Title adds a centered title row
func (db *dialogBuilder) Title(title string) {
	db.lines = append(db.lines, db.styles.DialogTitle.Render(db.center(title)))
}

// Empty adds a blank row
func (db *dialogBuilder) Empty() {
	db.lines = append(db.lines, strings.Repeat(" ", db.width))
}

// Text adds a left-aligned row, truncated to fit
func (db *dialogBuilder) Text(text string) {
	db.lines = append(db.lines, db.styles.DialogText.Render(db.pad(text)))
}

// Wrapped adds text broken into as many rows as it needs
func (db *dialogBuilder) Wrapped(text string) {
	for _, line := range strings.Split(ansi.Wrap(text, db.width, ""), "\n") {
		db.Text(line)
	}
}

// Centered adds a centered row
func (db *dialogBuilder) Centered(text string) {
	db.lines = append(db.lines, db.styles.DialogText.Render(db.center(text)))
}

// Item adds a padded row drawn in style
func (db *dialogBuilder) Item(text string, style lipgloss.Style) {
	db.lines = append(db.lines, style.Render(db.pad(text)))
}

// Raw adds an already styled row; the caller keeps it within the width
func (db *dialogBuilder) Raw(row string) {
	if w := ansi.StringWidth(row); w < db.width {
		row += strings.Repeat(" ", db.width-w)
	}
	db.lines = append(db.lines, row)
}

// Separator adds a horizontal rule
func (db *dialogBuilder) Separator() {
	rule := "─"
	if db.styles.ASCII {
		rule = "-"
	}
	db.lines = append(db.lines, db.styles.Subtle.Render(strings.Repeat(rule, db.width)))
}

// Buttons adds a centered row of buttons with focus on one of them
func (db *dialogBuilder) Buttons(labels []string, focus int) {
	parts := make([]string, len(labels))
	for i, label := range labels {
		style := db.styles.DialogButton
		if i == focus {
			style = db.styles.DialogButtonFocus
		}
		parts[i] = style.Render("[ " + label + " ]")
	}
	row := strings.Join(parts, " ")
	left := max((db.width-ansi.StringWidth(row))/2, 0)
	db.Raw(strings.Repeat(" ", left) + row)
}

// Len returns the number of rows added so far
func (db *dialogBuilder) Len() int {
	return len(db.lines)
}

// Render draws the rows inside the dialog border
func (db *dialogBuilder) Render(isError bool) string {
	box := db.styles.DialogBox
	if isError {
		box = db.styles.DialogErrorBox
	}
	return box.Render(strings.Join(db.lines, "\n"))
}

func (db *dialogBuilder) pad(s string) string {
	w := runewidth.StringWidth(s)
	if w > db.width {
		return runewidth.Truncate(s, db.width, "…")
	}
	return s + strings.Repeat(" ", db.width-w)
}

func (db *dialogBuilder) center(s string) string {
	w := runewidth.StringWidth(s)
	if w >= db.width {
		return runewidth.Truncate(s, db.width, "…")
	}
	left := (db.width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", db.width-w-left)
}

// dialogPosition locates a centered box on the screen for mouse handling
type dialogPosition struct {
	x, y          int // Top-left corner, screen coordinates
	width, height int
}

// centered places a box of the given size in the middle of an area whose
// top-left corner is at (originX, originY).
func centered(box string, originX, originY, areaWidth, areaHeight int) dialogPosition {
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return dialogPosition{
		x:      originX + max((areaWidth-w)/2, 0),
		y:      originY + max((areaHeight-h)/2, 0),
		width:  w,
		height: h,
	}
}

// row converts a screen position to a row index inside the box, or -1
func (p dialogPosition) row(x, y int) int {
	if x < p.x || x >= p.x+p.width || y < p.y+dialogFrameY || y >= p.y+p.height-dialogFrameY {
		return -1
	}
	return y - p.y - dialogFrameY
}
