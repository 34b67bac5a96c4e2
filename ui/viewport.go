package ui

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/cornish/marktivus/syntax"
)

// SelectionRange is the selected part of one line, in rune columns
type SelectionRange struct {
	Start int // Inclusive
	End   int // Exclusive, -1 for end of line including the newline
}

func (r SelectionRange) contains(col int) bool {
	return col >= r.Start && (r.End == -1 || col < r.End)
}

// Row is one screen row of the document: runes [Start, End) of Line.
// Without word wrap every line is a single row.
type Row struct {
	Line  int
	Start int
	End   int
	Last  bool // Final row of its line
}

// Viewport handles the scrollable view of the text. With word wrap off
// long lines scroll horizontally; with it on they continue on the next
// screen row, breaking after a space where one fits.
type Viewport struct {
	width       int
	height      int
	scrollY     int // First visible row
	scrollX     int // First visible display column, always 0 when wrapping
	showLineNum bool
	wordWrap    bool
	tabWidth    int
	styles      Styles

	cache rowCache
}

// rowCache remembers the rows of the last lines slice seen
type rowCache struct {
	lines []string
	width int
	tab   int
	wrap  bool
	rows  []Row
}

func (c *rowCache) get(lines []string, width, tab int, wrap bool) ([]Row, bool) {
	if c.rows == nil || len(lines) != len(c.lines) || width != c.width || tab != c.tab || wrap != c.wrap {
		return nil, false
	}
	if len(lines) > 0 && &lines[0] != &c.lines[0] {
		return nil, false
	}
	return c.rows, true
}

// NewViewport creates a new viewport
func NewViewport(styles Styles) *Viewport {
	return &Viewport{
		width:    80,
		height:   24,
		tabWidth: 4,
		styles:   styles,
	}
}

// SetSize sets the viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
}

// Width returns the viewport width
func (v *Viewport) Width() int {
	return v.width
}

// Height returns the viewport height
func (v *Viewport) Height() int {
	return v.height
}

// SetWordWrap enables or disables word wrap
func (v *Viewport) SetWordWrap(wrap bool) {
	v.wordWrap = wrap
	if wrap {
		v.scrollX = 0
	}
}

// WordWrap returns whether word wrap is enabled
func (v *Viewport) WordWrap() bool {
	return v.wordWrap
}

// SetTabWidth sets how many columns a tab stop spans
func (v *Viewport) SetTabWidth(n int) {
	if n > 0 {
		v.tabWidth = n
	}
}

// ScrollY returns the first visible row
func (v *Viewport) ScrollY() int {
	return v.scrollY
}

// SetScrollY sets the first visible row
func (v *Viewport) SetScrollY(y int) {
	v.scrollY = max(y, 0)
}

// ScrollX returns the first visible column
func (v *Viewport) ScrollX() int {
	return v.scrollX
}

// ShowLineNumbers enables or disables the line number gutter
func (v *Viewport) ShowLineNumbers(show bool) {
	v.showLineNum = show
}

// ShowLineNum returns whether line numbers are enabled
func (v *Viewport) ShowLineNum() bool {
	return v.showLineNum
}

// LineNumberWidth returns the gutter width for a document of total lines
func (v *Viewport) LineNumberWidth(total int) int {
	if !v.showLineNum {
		return 0
	}
	return max(len(strconv.Itoa(total)), 3) + 1
}

// TextWidth returns the columns available for text
func (v *Viewport) TextWidth(total int) int {
	return max(v.width-v.LineNumberWidth(total), 1)
}

// DisplayCol converts a rune column of line to a display column, expanding
// tabs and counting wide characters as two.
func DisplayCol(line string, col, tabWidth int) int {
	dc := 0
	i := 0
	for _, r := range line {
		if i >= col {
			break
		}
		dc += runeCells(r, dc, tabWidth)
		i++
	}
	return dc
}

// RuneCol converts a display column back to the rune column it falls in.
func RuneCol(line string, displayCol, tabWidth int) int {
	dc := 0
	i := 0
	for _, r := range line {
		w := runeCells(r, dc, tabWidth)
		if dc+w > displayCol {
			return i
		}
		dc += w
		i++
	}
	return i
}

func runeCells(r rune, at, tabWidth int) int {
	if r == '\t' {
		return tabWidth - at%tabWidth
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// wrapLine returns the rune column each screen row of line starts at.
// A row ends after the last space that fits in width cells, or mid-word
// when a word is longer than a row.
func wrapLine(line string, width, tabWidth int) []int {
	starts := []int{0}
	start, rowDC := 0, 0
	brk, brkDC := -1, 0
	dc, col := 0, 0
	for _, r := range line {
		w := runeCells(r, dc, tabWidth)
		if dc+w-rowDC > width && col > start {
			if brk > start {
				start, rowDC = brk, brkDC
				starts = append(starts, start)
			}
			if dc+w-rowDC > width && col > start {
				start, rowDC = col, dc
				starts = append(starts, start)
			}
		}
		dc += w
		col++
		if r == ' ' || r == '\t' {
			brk, brkDC = col, dc
		}
	}
	return starts
}

// Rows lays lines out on screen rows
func (v *Viewport) Rows(lines []string) []Row {
	width := v.TextWidth(len(lines))
	if rows, ok := v.cache.get(lines, width, v.tabWidth, v.wordWrap); ok {
		return rows
	}

	rows := make([]Row, 0, len(lines))
	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		if !v.wordWrap {
			rows = append(rows, Row{Line: i, End: n, Last: true})
			continue
		}
		starts := wrapLine(line, width, v.tabWidth)
		for j, start := range starts {
			end := n
			if j+1 < len(starts) {
				end = starts[j+1]
			}
			rows = append(rows, Row{Line: i, Start: start, End: end, Last: j == len(starts)-1})
		}
	}
	v.cache = rowCache{lines: lines, width: width, tab: v.tabWidth, wrap: v.wordWrap, rows: rows}
	return rows
}

// TotalRows returns how many screen rows lines take up
func (v *Viewport) TotalRows(lines []string) int {
	if !v.wordWrap {
		return len(lines)
	}
	return len(v.Rows(lines))
}

// RowOf returns the screen row holding the rune at line, col
func (v *Viewport) RowOf(lines []string, line, col int) int {
	if !v.wordWrap {
		return line
	}
	rows := v.Rows(lines)
	i := sort.Search(len(rows), func(i int) bool {
		return rows[i].Line > line || (rows[i].Line == line && rows[i].Start > col)
	})
	return max(i-1, 0)
}

// RowX returns the display column of line, col within its screen row
func (v *Viewport) RowX(lines []string, line, col int) int {
	if line < 0 || line >= len(lines) {
		return 0
	}
	dc := DisplayCol(lines[line], col, v.tabWidth)
	if !v.wordWrap {
		return dc
	}
	r := v.Rows(lines)[v.RowOf(lines, line, col)]
	return dc - DisplayCol(lines[line], r.Start, v.tabWidth)
}

// PositionAtRow returns the line and rune column x display columns into
// screen row row. Positions past the end of a wrapped row stay on it.
func (v *Viewport) PositionAtRow(lines []string, row, x int) (line, col int) {
	if len(lines) == 0 {
		return 0, 0
	}
	rows := v.Rows(lines)
	r := rows[min(max(row, 0), len(rows)-1)]
	text := lines[r.Line]
	base := DisplayCol(text, r.Start, v.tabWidth)
	col = RuneCol(text, base+max(x, 0), v.tabWidth)
	switch {
	case r.Last:
		col = min(col, r.End)
	case r.End > r.Start:
		col = min(col, r.End-1)
	}
	return r.Line, max(col, r.Start)
}

// EnsureCursorVisible scrolls so the cursor cell is on screen
func (v *Viewport) EnsureCursorVisible(lines []string, cursorLine, cursorCol int) {
	row := v.RowOf(lines, cursorLine, cursorCol)
	if row < v.scrollY {
		v.scrollY = row
	}
	if row >= v.scrollY+v.height {
		v.scrollY = row - v.height + 1
	}
	if v.wordWrap {
		v.scrollX = 0
		return
	}

	dc := 0
	if cursorLine >= 0 && cursorLine < len(lines) {
		dc = DisplayCol(lines[cursorLine], cursorCol, v.tabWidth)
	}
	textWidth := v.TextWidth(len(lines))
	if dc < v.scrollX {
		v.scrollX = dc
	}
	if dc >= v.scrollX+textWidth {
		v.scrollX = dc - textWidth + 1
	}
}

// ScrollUp scrolls up by n rows
func (v *Viewport) ScrollUp(n int) {
	v.scrollY = max(v.scrollY-n, 0)
}

// ScrollDown scrolls down by n rows, keeping the last row on screen
func (v *Viewport) ScrollDown(n, totalRows int) {
	v.scrollY = min(v.scrollY+n, max(totalRows-v.height, 0))
}

// PositionFromClick converts a click inside the viewport to a line and rune column
func (v *Viewport) PositionFromClick(lines []string, x, y int) (line, col int) {
	if len(lines) == 0 {
		return 0, 0
	}
	x -= v.LineNumberWidth(len(lines))
	if v.wordWrap {
		return v.PositionAtRow(lines, v.scrollY+max(y, 0), x)
	}
	line = min(v.scrollY+max(y, 0), len(lines)-1)
	return line, RuneCol(lines[line], max(v.scrollX+x, 0), v.tabWidth)
}

// Render renders the visible part of the document. colors may be nil or
// hold one entry per line.
func (v *Viewport) Render(lines []string, cursorLine, cursorCol int, selection map[int]SelectionRange, colors [][]syntax.ColorSpan) string {
	out := make([]string, 0, v.height)
	gutter := v.LineNumberWidth(len(lines))
	textWidth := v.TextWidth(len(lines))
	rows := v.Rows(lines)

	for i := v.scrollY; i < v.scrollY+v.height; i++ {
		var sb strings.Builder
		if i >= len(rows) {
			if gutter > 0 {
				sb.WriteString(strings.Repeat(" ", gutter))
			}
			sb.WriteString(v.styles.Filler.Render("~"))
			sb.WriteString(strings.Repeat(" ", textWidth-1))
			out = append(out, sb.String())
			continue
		}

		r := rows[i]
		if gutter > 0 {
			style := v.styles.LineNumber
			if r.Line == cursorLine {
				style = v.styles.LineNumberActive
			}
			num := ""
			if r.Start == 0 {
				num = strconv.Itoa(r.Line + 1)
			}
			sb.WriteString(style.Render(strings.Repeat(" ", gutter-1-len(num)) + num + " "))
		}

		var spans []syntax.ColorSpan
		if r.Line < len(colors) {
			spans = colors[r.Line]
		}
		sel, hasSel := selection[r.Line]
		cursor := -1
		if r.Line == cursorLine {
			cursor = cursorCol
		}
		left, end := v.scrollX, -1
		if v.wordWrap {
			left = DisplayCol(lines[r.Line], r.Start, v.tabWidth)
			if !r.Last {
				end = r.End
			}
		}
		sb.WriteString(v.renderLine(lines[r.Line], textWidth, left, end, cursor, sel, hasSel, spans))
		out = append(out, sb.String())
	}
	return strings.Join(out, "\n")
}

// cell kinds, in priority order
const (
	kindPlain = iota
	kindSyntax
	kindSelection
	kindCursor
)

type run struct {
	kind  int
	span  int // Syntax span index for kindSyntax
	style lipgloss.Style
	text  strings.Builder
}

// renderLine draws one line textWidth cells wide, starting at display
// column left and stopping before rune column end unless end is -1.
// Consecutive cells with the same styling are rendered together.
func (v *Viewport) renderLine(line string, textWidth, left, end, cursor int, sel SelectionRange, hasSel bool, spans []syntax.ColorSpan) string {
	var runs []*run
	add := func(kind, span int, style lipgloss.Style, s string) {
		if n := len(runs); n > 0 && runs[n-1].kind == kind && runs[n-1].span == span {
			runs[n-1].text.WriteString(s)
			return
		}
		r := &run{kind: kind, span: span, style: style}
		r.text.WriteString(s)
		runs = append(runs, r)
	}

	classify := func(col int) (int, int, lipgloss.Style) {
		switch {
		case col == cursor:
			return kindCursor, 0, v.styles.Cursor
		case hasSel && sel.contains(col):
			return kindSelection, 0, v.styles.Selection
		}
		for i, sp := range spans {
			if col >= sp.Start && col < sp.End {
				return kindSyntax, i, sp.Style
			}
		}
		return kindPlain, 0, v.styles.Editor
	}

	dc, out, col := 0, 0, 0
	for _, r := range line {
		if end >= 0 && col >= end {
			break
		}
		w := runeCells(r, dc, v.tabWidth)
		start := dc
		dc += w
		if dc <= left {
			col++
			continue
		}
		if out >= textWidth {
			break
		}

		text := string(r)
		if r == '\t' || start < left {
			// Tabs and wide runes cut by the left edge become spaces
			text = strings.Repeat(" ", dc-max(start, left))
		}
		if out+lipgloss.Width(text) > textWidth {
			text = strings.Repeat(" ", textWidth-out)
		}

		kind, span, style := classify(col)
		add(kind, span, style, text)
		out += lipgloss.Width(text)
		col++
	}

	// Cursor or selection past the last character
	if out < textWidth && dc >= left && end < 0 {
		if col == cursor {
			add(kindCursor, 0, v.styles.Cursor, " ")
			out++
		} else if hasSel && sel.contains(col) {
			add(kindSelection, 0, v.styles.Selection, " ")
			out++
		}
	}

	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.style.Render(r.text.String()))
	}
	if out < textWidth {
		sb.WriteString(strings.Repeat(" ", textWidth-out))
	}
	return sb.String()
}
