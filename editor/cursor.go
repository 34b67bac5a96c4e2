package editor

import (
	"unicode"
)

// Cursor is an offset into a buffer. goal remembers the column vertical
// moves aim for, so moving through a short line does not lose the column.
type Cursor struct {
	buf  *Buffer
	pos  int
	goal int // -1 when unset
}

// NewCursor creates a cursor at the start of buf.
func NewCursor(buf *Buffer) *Cursor {
	return &Cursor{buf: buf, goal: -1}
}

// Offset returns the cursor offset.
func (c *Cursor) Offset() int {
	return c.pos
}

// SetOffset moves the cursor to pos, clamped to the buffer.
func (c *Cursor) SetOffset(pos int) {
	c.pos = c.buf.clamp(pos)
	c.goal = -1
}

// SetLineCol moves the cursor to line and col, clamped.
func (c *Cursor) SetLineCol(line, col int) {
	c.SetOffset(c.buf.Offset(line, col))
}

// LineCol returns the cursor line and column.
func (c *Cursor) LineCol() (int, int) {
	return c.buf.LineCol(c.pos)
}

// Left moves one rune left
func (c *Cursor) Left() bool {
	if c.pos == 0 {
		return false
	}
	c.SetOffset(c.pos - 1)
	return true
}

// Right moves one rune right
func (c *Cursor) Right() bool {
	if c.pos >= c.buf.Len() {
		return false
	}
	c.SetOffset(c.pos + 1)
	return true
}

// Up moves n lines up keeping the goal column
func (c *Cursor) Up(n int) bool {
	return c.vertical(-n)
}

// Down moves n lines down keeping the goal column
func (c *Cursor) Down(n int) bool {
	return c.vertical(n)
}

func (c *Cursor) vertical(delta int) bool {
	line, col := c.LineCol()
	target := min(max(line+delta, 0), c.buf.LineCount()-1)
	if target == line {
		return false
	}
	if c.goal < 0 {
		c.goal = col
	}
	goal := c.goal
	c.pos = c.buf.Offset(target, goal)
	c.goal = goal
	return true
}

// Home moves to the first non-blank rune of the line, or to column 0 when
// already there.
func (c *Cursor) Home() {
	line, col := c.LineCol()
	start := c.buf.LineStart(line)
	indent := 0
	for indent < c.buf.LineLen(line) && isBlank(c.buf.RuneAt(start+indent)) {
		indent++
	}
	if col == indent {
		indent = 0
	}
	c.SetOffset(start + indent)
}

// End moves to the end of the line
func (c *Cursor) End() {
	line, _ := c.LineCol()
	c.SetOffset(c.buf.LineEnd(line))
}

// DocStart moves to the start of the buffer
func (c *Cursor) DocStart() {
	c.SetOffset(0)
}

// DocEnd moves to the end of the buffer
func (c *Cursor) DocEnd() {
	c.SetOffset(c.buf.Len())
}

// WordLeft moves to the start of the previous word
func (c *Cursor) WordLeft() bool {
	if c.pos == 0 {
		return false
	}
	p := c.pos
	for p > 0 && !isWordChar(c.buf.RuneAt(p-1)) {
		p--
	}
	for p > 0 && isWordChar(c.buf.RuneAt(p-1)) {
		p--
	}
	c.SetOffset(p)
	return true
}

// WordRight moves to the start of the next word
func (c *Cursor) WordRight() bool {
	n := c.buf.Len()
	if c.pos >= n {
		return false
	}
	p := c.pos
	for p < n && isWordChar(c.buf.RuneAt(p)) {
		p++
	}
	for p < n && !isWordChar(c.buf.RuneAt(p)) {
		p++
	}
	c.SetOffset(p)
	return true
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}
