package editor

import (
	"github.com/cornish/marktivus/ui"
)

// Selection spans from an anchor to the cursor; the cursor end moves with
// the caret, so either end may be the lower one.
type Selection struct {
	active bool
	anchor int
}

// Begin anchors a selection at pos unless one is already active.
func (s *Selection) Begin(pos int) {
	if !s.active {
		s.active = true
		s.anchor = pos
	}
}

// Set selects [anchor, cursor) explicitly; the caller moves the cursor.
func (s *Selection) Set(anchor int) {
	s.active = true
	s.anchor = anchor
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.active = false
}

// Range returns the ordered bounds given the cursor offset. ok is false
// when nothing is selected.
func (s *Selection) Range(cursor int) (start, end int, ok bool) {
	if !s.active || s.anchor == cursor {
		return cursor, cursor, false
	}
	return min(s.anchor, cursor), max(s.anchor, cursor), true
}

// Text returns the selected text.
func (s *Selection) Text(buf *Buffer, cursor int) string {
	start, end, ok := s.Range(cursor)
	if !ok {
		return ""
	}
	return buf.Slice(start, end)
}

// WordAt returns the bounds of the word, blank run or symbol run at pos.
func WordAt(buf *Buffer, pos int) (start, end int) {
	if buf.Len() == 0 {
		return 0, 0
	}
	pos = min(max(pos, 0), buf.Len()-1)

	var same func(rune) bool
	switch r := buf.RuneAt(pos); {
	case isWordChar(r):
		same = isWordChar
	case isBlank(r):
		same = isBlank
	default:
		same = func(r rune) bool { return !isWordChar(r) && !isBlank(r) && r != '\n' }
	}

	start, end = pos, pos
	for start > 0 && same(buf.RuneAt(start-1)) {
		start--
	}
	for end < buf.Len() && same(buf.RuneAt(end)) {
		end++
	}
	return start, end
}

// LineRanges converts the selection into per-line ranges for the viewport.
// A line whose newline is selected extends to the end of the row.
func (s *Selection) LineRanges(buf *Buffer, cursor int) map[int]ui.SelectionRange {
	start, end, ok := s.Range(cursor)
	if !ok {
		return nil
	}
	sl, sc := buf.LineCol(start)
	el, ec := buf.LineCol(end)

	ranges := make(map[int]ui.SelectionRange, el-sl+1)
	for line := sl; line <= el; line++ {
		r := ui.SelectionRange{Start: 0, End: -1}
		if line == sl {
			r.Start = sc
		}
		if line == el {
			r.End = ec
		}
		ranges[line] = r
	}
	return ranges
}
