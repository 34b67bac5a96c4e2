package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/cornish/marktivus/config"
)

func TestDisplayColAndRuneCol(t *testing.T) {
	tests := []struct {
		line    string
		col     int
		display int
	}{
		{"abc", 2, 2},
		{"\tx", 1, 4},
		{"a\tx", 2, 4},
		{"日本", 1, 2},
		{"日本x", 2, 4},
	}
	for _, tt := range tests {
		if got := DisplayCol(tt.line, tt.col, 4); got != tt.display {
			t.Errorf("DisplayCol(%q, %d) = %d, want %d", tt.line, tt.col, got, tt.display)
		}
		if got := RuneCol(tt.line, tt.display, 4); got != tt.col {
			t.Errorf("RuneCol(%q, %d) = %d, want %d", tt.line, tt.display, got, tt.col)
		}
	}

	// A click inside a tab lands on the tab
	if got := RuneCol("\tx", 2, 4); got != 0 {
		t.Errorf("RuneCol inside tab = %d, want 0", got)
	}
}

func TestViewportRenderSize(t *testing.T) {
	v := NewViewport(DefaultStyles())
	v.SetSize(20, 5)
	v.ShowLineNumbers(true)

	lines := []string{"# Title", "", "a very long line that runs past the edge", "\tindented"}
	out := v.Render(lines, 0, 0, map[int]SelectionRange{2: {Start: 0, End: -1}}, nil)

	rows := strings.Split(out, "\n")
	if len(rows) != 5 {
		t.Fatalf("Render() produced %d rows, want 5", len(rows))
	}
	for i, row := range rows {
		if w := lipgloss.Width(row); w != 20 {
			t.Errorf("row %d width = %d, want 20: %q", i, w, row)
		}
	}
	if !strings.Contains(rows[4], "~") {
		t.Errorf("row past end = %q, want filler", rows[4])
	}
}

func TestEnsureCursorVisible(t *testing.T) {
	v := NewViewport(DefaultStyles())
	v.SetSize(10, 3)
	lines := make([]string, 10)
	lines[7] = strings.Repeat("x", 30)

	v.EnsureCursorVisible(lines, 7, 25)
	if v.ScrollY() != 5 {
		t.Errorf("ScrollY = %d, want 5", v.ScrollY())
	}
	if v.ScrollX() != 16 {
		t.Errorf("ScrollX = %d, want 16", v.ScrollX())
	}

	v.EnsureCursorVisible(lines, 0, 0)
	if v.ScrollY() != 0 || v.ScrollX() != 0 {
		t.Errorf("scroll = (%d,%d), want (0,0)", v.ScrollY(), v.ScrollX())
	}
}

func TestPositionFromClick(t *testing.T) {
	v := NewViewport(DefaultStyles())
	v.SetSize(40, 10)
	v.ShowLineNumbers(true)
	lines := []string{"first", "\tsecond"}

	// Gutter is 4 wide for a two line document
	line, col := v.PositionFromClick(lines, 4+5, 1)
	if line != 1 || col != 2 {
		t.Errorf("PositionFromClick = (%d,%d), want (1,2)", line, col)
	}

	line, _ = v.PositionFromClick(lines, 0, 8)
	if line != 1 {
		t.Errorf("click below the text = line %d, want last line", line)
	}
}

func TestOverlay(t *testing.T) {
	base := "aaaaaa\nbbbbbb\ncccccc"
	got := Overlay(base, "XX\nYY", 2, 1)
	want := "aaaaaa\nbbXXbb\nccYYcc"
	if stripped := stripReset(got); stripped != want {
		t.Errorf("Overlay() = %q, want %q", stripped, want)
	}
}

func stripReset(s string) string {
	return strings.ReplaceAll(s, "\x1b[0m", "")
}

func TestStatusBarView(t *testing.T) {
	s := NewStatusBar(DefaultStyles())
	s.SetWidth(80)
	s.SetFilename("/tmp/notes.md")
	s.SetModified(true)
	s.SetPosition(2, 4)
	s.SetCounts(12, 80)
	s.SetDraft(true)

	out := s.View()
	for _, want := range []string{"*", "notes.md", "[Draft]", "Ln 3, Col 5", "W:12 C:80", "UTF-8 LF"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar %q missing %q", out, want)
		}
	}
	if w := lipgloss.Width(out); w != 80 {
		t.Errorf("status bar width = %d, want 80", w)
	}
}

func TestDisplayName(t *testing.T) {
	if DisplayName("") != "[Untitled]" {
		t.Error("empty path should display as [Untitled]")
	}
	if DisplayName("/a/b/c.md") != "c.md" {
		t.Error("DisplayName should return the base name")
	}
}

func TestMenuBar(t *testing.T) {
	m := NewMenuBar(DefaultStyles(), config.DefaultKeybindings())
	m.SetWidth(80)

	if !m.OpenByHotKey('f') {
		t.Fatal("OpenByHotKey('f') should open the File menu")
	}
	if got := m.SelectByHotKey('a'); got != ActionSaveAs {
		t.Errorf("SelectByHotKey('a') = %v, want ActionSaveAs", got)
	}
	if m.IsOpen() {
		t.Error("menu should close after a selection")
	}

	m.OpenMenu(0)
	m.SetItemDisabled(ActionOpen, true)
	m.NextItem()
	if got := m.Select(); got != ActionSave {
		t.Errorf("NextItem should skip the disabled item, got %v", got)
	}

	m.OpenMenu(3)
	m.SetChecked(ActionPreview, true)
	dropdown, offset := m.Dropdown()
	if !strings.Contains(dropdown, "[x] Preview") {
		t.Errorf("dropdown missing checked preview: %q", dropdown)
	}
	if offset == 0 {
		t.Error("View menu dropdown should be offset from the left edge")
	}
	if w := lipgloss.Width(m.View()); w != 80 {
		t.Errorf("menu bar width = %d, want 80", w)
	}
}

func TestScrollbar(t *testing.T) {
	s := NewScrollbar(NewStyles(true))
	s.SetHeight(10)

	out := s.View(0, 10, 5)
	if strings.Count(out, "#") != 10 {
		t.Errorf("short document should fill the track: %q", out)
	}

	out = s.View(90, 10, 100)
	rows := strings.Split(out, "\n")
	if !strings.Contains(rows[9], "#") || strings.Contains(rows[0], "#") {
		t.Errorf("thumb should sit at the bottom: %q", out)
	}

	if got := s.RowToLine(9, 10, 100); got != 90 {
		t.Errorf("RowToLine(9) = %d, want 90", got)
	}
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		line  string
		width int
		want  []int
	}{
		{"", 8, []int{0}},
		{"abc", 8, []int{0}},
		{"hello world foo", 8, []int{0, 6, 12}},
		{"abcdefghij", 4, []int{0, 4, 8}},
		{"ab 日本語", 4, []int{0, 3, 5}},
	}
	for _, tt := range tests {
		got := wrapLine(tt.line, tt.width, 4)
		if len(got) != len(tt.want) {
			t.Errorf("wrapLine(%q, %d) = %v, want %v", tt.line, tt.width, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("wrapLine(%q, %d) = %v, want %v", tt.line, tt.width, got, tt.want)
				break
			}
		}
	}
}

func TestWrappedRows(t *testing.T) {
	v := NewViewport(DefaultStyles())
	v.SetSize(8, 5)
	v.SetWordWrap(true)
	lines := []string{"hello world foo", "x"}

	if got := v.TotalRows(lines); got != 4 {
		t.Fatalf("TotalRows() = %d, want 4", got)
	}
	rowOf := []struct {
		line, col, row int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{0, 6, 1},
		{0, 15, 2},
		{1, 0, 3},
	}
	for _, tt := range rowOf {
		if got := v.RowOf(lines, tt.line, tt.col); got != tt.row {
			t.Errorf("RowOf(%d, %d) = %d, want %d", tt.line, tt.col, got, tt.row)
		}
	}
	if got := v.RowX(lines, 0, 9); got != 3 {
		t.Errorf("RowX(0, 9) = %d, want 3", got)
	}

	positions := []struct {
		row, x    int
		line, col int
	}{
		{1, 2, 0, 8},
		{0, 20, 0, 5},  // Past a wrapped row stays before the next one
		{2, 20, 0, 15}, // Past the last row goes to the end of the line
		{3, 0, 1, 0},
		{9, 0, 1, 0},
	}
	for _, tt := range positions {
		if line, col := v.PositionAtRow(lines, tt.row, tt.x); line != tt.line || col != tt.col {
			t.Errorf("PositionAtRow(%d, %d) = (%d,%d), want (%d,%d)", tt.row, tt.x, line, col, tt.line, tt.col)
		}
	}

	if line, col := v.PositionFromClick(lines, 3, 1); line != 0 || col != 9 {
		t.Errorf("PositionFromClick(3, 1) = (%d,%d), want (0,9)", line, col)
	}
}

func TestWrappedCursorVisible(t *testing.T) {
	v := NewViewport(DefaultStyles())
	v.SetSize(8, 2)
	v.SetWordWrap(true)
	lines := []string{"hello world foo", "x"}

	v.EnsureCursorVisible(lines, 1, 0)
	if v.ScrollY() != 2 || v.ScrollX() != 0 {
		t.Errorf("scroll = (%d,%d), want (2,0)", v.ScrollY(), v.ScrollX())
	}
	v.EnsureCursorVisible(lines, 0, 7)
	if v.ScrollY() != 1 {
		t.Errorf("ScrollY = %d, want 1", v.ScrollY())
	}
}

func TestWrappedRender(t *testing.T) {
	v := NewViewport(DefaultStyles())
	v.SetSize(12, 5)
	v.ShowLineNumbers(true)
	v.SetWordWrap(true)
	lines := []string{"hello world foo", "x"}

	rows := strings.Split(ansi.Strip(v.Render(lines, -1, 0, nil, nil)), "\n")
	if len(rows) != 5 {
		t.Fatalf("Render() produced %d rows, want 5", len(rows))
	}
	for i, row := range rows {
		if w := lipgloss.Width(row); w != 12 {
			t.Errorf("row %d width = %d, want 12: %q", i, w, row)
		}
	}
	if !strings.Contains(rows[0], "1 hello") || strings.Contains(rows[0], "world") {
		t.Errorf("row 0 = %q", rows[0])
	}
	if !strings.HasPrefix(rows[1], "    world") {
		t.Errorf("row 1 = %q, want a blank gutter", rows[1])
	}
	if !strings.Contains(rows[2], "foo") || !strings.Contains(rows[3], "2 x") {
		t.Errorf("rows = %q", rows)
	}
}
