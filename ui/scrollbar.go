package ui

import (
	"strings"
)

// Scrollbar is a one-column vertical scrollbar drawn right of the text
type Scrollbar struct {
	height int
	styles Styles
}

// NewScrollbar creates a new scrollbar
func NewScrollbar(styles Styles) *Scrollbar {
	return &Scrollbar{height: 24, styles: styles}
}

// SetHeight sets the scrollbar height
func (s *Scrollbar) SetHeight(height int) {
	if height > 0 {
		s.height = height
	}
}

// Needed reports whether the document is taller than the view
func Needed(viewportHeight, totalLines int) bool {
	return totalLines > viewportHeight
}

// thumb returns the first row and size of the thumb
func (s *Scrollbar) thumb(start, viewportHeight, totalLines int) (int, int) {
	if totalLines <= viewportHeight || viewportHeight <= 0 {
		return 0, s.height
	}
	size := max(viewportHeight*s.height/totalLines, 1)
	maxScroll := totalLines - viewportHeight
	start = min(max(start, 0), maxScroll)
	return start * (s.height - size) / maxScroll, size
}

// View renders the scrollbar as a column of rows joined by newlines
func (s *Scrollbar) View(start, viewportHeight, totalLines int) string {
	top, size := s.thumb(start, viewportHeight, totalLines)
	rows := make([]string, s.height)
	for i := range rows {
		if i >= top && i < top+size {
			rows[i] = s.styles.ScrollThumb.Render(string(s.styles.ThumbRune))
		} else {
			rows[i] = s.styles.ScrollTrack.Render(string(s.styles.TrackRune))
		}
	}
	return strings.Join(rows, "\n")
}

// RowToLine converts a clicked row to the first line to show
func (s *Scrollbar) RowToLine(row, viewportHeight, totalLines int) int {
	maxScroll := totalLines - viewportHeight
	if maxScroll <= 0 || s.height <= 1 {
		return 0
	}
	row = min(max(row, 0), s.height-1)
	return row * maxScroll / (s.height - 1)
}
