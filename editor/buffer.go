package editor

import (
	"strings"
)

// Buffer is a gap buffer of runes. Offsets and columns everywhere in the
// editor are rune indices, so a column lines up with what the viewport draws.
// Line start offsets are cached and rebuilt lazily after an edit.
type Buffer struct {
	data     []rune
	gapStart int
	gapEnd   int // Exclusive

	lineStarts []int // nil when stale
}

const initialGapSize = 1024

// NewBuffer creates a buffer holding s.
func NewBuffer(s string) *Buffer {
	b := &Buffer{data: make([]rune, initialGapSize), gapEnd: initialGapSize}
	b.Insert(0, s)
	return b
}

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int {
	return len(b.data) - (b.gapEnd - b.gapStart)
}

func (b *Buffer) grow(n int) {
	if b.gapEnd-b.gapStart >= n {
		return
	}
	size := max(initialGapSize, 2*n, len(b.data)/2)
	data := make([]rune, len(b.data)+size)
	copy(data, b.data[:b.gapStart])
	copy(data[b.gapEnd+size:], b.data[b.gapEnd:])
	b.data = data
	b.gapEnd += size
}

// moveGap places the gap at pos.
func (b *Buffer) moveGap(pos int) {
	switch {
	case pos < b.gapStart:
		n := b.gapStart - pos
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[pos:b.gapStart])
		b.gapStart -= n
		b.gapEnd -= n
	case pos > b.gapStart:
		n := pos - b.gapStart
		copy(b.data[b.gapStart:b.gapStart+n], b.data[b.gapEnd:b.gapEnd+n])
		b.gapStart += n
		b.gapEnd += n
	}
}

func (b *Buffer) clamp(pos int) int {
	return min(max(pos, 0), b.Len())
}

// Insert inserts s at pos and returns the offset just after it.
func (b *Buffer) Insert(pos int, s string) int {
	pos = b.clamp(pos)
	if s == "" {
		return pos
	}
	runes := []rune(s)
	b.grow(len(runes))
	b.moveGap(pos)
	copy(b.data[b.gapStart:], runes)
	b.gapStart += len(runes)
	b.lineStarts = nil
	return pos + len(runes)
}

// Delete removes the runes in [start, end) and returns them.
func (b *Buffer) Delete(start, end int) string {
	start, end = b.clamp(start), b.clamp(end)
	if start > end {
		start, end = end, start
	}
	if start == end {
		return ""
	}
	removed := b.Slice(start, end)
	b.moveGap(start)
	b.gapEnd += end - start
	b.lineStarts = nil
	return removed
}

// Replace swaps [start, end) for text and returns what was removed.
func (b *Buffer) Replace(start, end int, text string) string {
	removed := b.Delete(start, end)
	b.Insert(min(start, end), text)
	return removed
}

// RuneAt returns the rune at pos, or 0 outside the buffer.
func (b *Buffer) RuneAt(pos int) rune {
	if pos < 0 || pos >= b.Len() {
		return 0
	}
	if pos < b.gapStart {
		return b.data[pos]
	}
	return b.data[pos+b.gapEnd-b.gapStart]
}

// Slice returns the text in [start, end).
func (b *Buffer) Slice(start, end int) string {
	start, end = b.clamp(start), b.clamp(end)
	if start >= end {
		return ""
	}
	var sb strings.Builder
	if start < b.gapStart {
		sb.WriteString(string(b.data[start:min(end, b.gapStart)]))
	}
	if end > b.gapStart {
		gap := b.gapEnd - b.gapStart
		sb.WriteString(string(b.data[max(start, b.gapStart)+gap : end+gap]))
	}
	return sb.String()
}

// String returns the whole text.
func (b *Buffer) String() string {
	return string(b.data[:b.gapStart]) + string(b.data[b.gapEnd:])
}

func (b *Buffer) index() []int {
	if b.lineStarts != nil {
		return b.lineStarts
	}
	starts := []int{0}
	n := b.Len()
	for i := 0; i < n; i++ {
		if b.RuneAt(i) == '\n' {
			starts = append(starts, i+1)
		}
	}
	b.lineStarts = starts
	return starts
}

// LineCount returns the number of lines; an empty buffer has one.
func (b *Buffer) LineCount() int {
	return len(b.index())
}

// LineStart returns the offset of the first rune of line.
func (b *Buffer) LineStart(line int) int {
	idx := b.index()
	if line <= 0 {
		return 0
	}
	if line >= len(idx) {
		return b.Len()
	}
	return idx[line]
}

// LineEnd returns the offset of the newline ending line, or the buffer end.
func (b *Buffer) LineEnd(line int) int {
	idx := b.index()
	if line < 0 {
		line = 0
	}
	if line+1 >= len(idx) {
		return b.Len()
	}
	return idx[line+1] - 1
}

// LineLen returns the number of runes on line, excluding the newline.
func (b *Buffer) LineLen(line int) int {
	return b.LineEnd(line) - b.LineStart(line)
}

// Line returns the text of line without its newline.
func (b *Buffer) Line(line int) string {
	return b.Slice(b.LineStart(line), b.LineEnd(line))
}

// Lines returns every line.
func (b *Buffer) Lines() []string {
	return strings.Split(b.String(), "\n")
}

// LineCol converts an offset to a line and column.
func (b *Buffer) LineCol(pos int) (line, col int) {
	pos = b.clamp(pos)
	idx := b.index()
	lo, hi := 0, len(idx)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, pos - idx[lo]
}

// Offset converts a line and column to an offset, clamping both.
func (b *Buffer) Offset(line, col int) int {
	line = min(max(line, 0), b.LineCount()-1)
	return b.LineStart(line) + min(max(col, 0), b.LineLen(line))
}
