package editor

import (
	"strings"
	"testing"
	"time"
)

func TestBufferInsertDelete(t *testing.T) {
	b := NewBuffer("hello world")
	if got := b.Insert(5, ","); got != 6 {
		t.Errorf("Insert returned %d, want 6", got)
	}
	if b.String() != "hello, world" {
		t.Errorf("after insert = %q", b.String())
	}

	removed := b.Delete(0, 7)
	if removed != "hello, " {
		t.Errorf("Delete returned %q", removed)
	}
	if b.String() != "world" {
		t.Errorf("after delete = %q", b.String())
	}

	if got := b.Replace(0, 5, "there"); got != "world" {
		t.Errorf("Replace returned %q", got)
	}
	if b.String() != "there" {
		t.Errorf("after replace = %q", b.String())
	}
}

func TestBufferRunes(t *testing.T) {
	b := NewBuffer("héllo 世界")
	if b.Len() != 8 {
		t.Errorf("Len() = %d, want 8", b.Len())
	}
	if b.RuneAt(1) != 'é' {
		t.Errorf("RuneAt(1) = %q", b.RuneAt(1))
	}
	if got := b.Slice(6, 8); got != "世界" {
		t.Errorf("Slice(6, 8) = %q", got)
	}
}

func TestBufferGrowsPastGap(t *testing.T) {
	b := NewBuffer("")
	long := strings.Repeat("abcdefghij", 300)
	b.Insert(0, long)
	b.Insert(1500, "X")
	if b.Len() != len(long)+1 {
		t.Fatalf("Len() = %d", b.Len())
	}
	if b.RuneAt(1500) != 'X' || b.RuneAt(1501) != 'a' {
		t.Errorf("insert in the middle landed wrong: %q%q", b.RuneAt(1500), b.RuneAt(1501))
	}
}

func TestBufferLines(t *testing.T) {
	b := NewBuffer("one\ntwo\n\nfour")
	if b.LineCount() != 4 {
		t.Fatalf("LineCount() = %d, want 4", b.LineCount())
	}

	tests := []struct {
		line  int
		text  string
		start int
		end   int
	}{
		{0, "one", 0, 3},
		{1, "two", 4, 7},
		{2, "", 8, 8},
		{3, "four", 9, 13},
	}
	for _, tt := range tests {
		if got := b.Line(tt.line); got != tt.text {
			t.Errorf("Line(%d) = %q, want %q", tt.line, got, tt.text)
		}
		if got := b.LineStart(tt.line); got != tt.start {
			t.Errorf("LineStart(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := b.LineEnd(tt.line); got != tt.end {
			t.Errorf("LineEnd(%d) = %d, want %d", tt.line, got, tt.end)
		}
	}

	// Line cache must follow edits
	b.Insert(4, "new\n")
	if b.LineCount() != 5 || b.Line(1) != "new" || b.Line(2) != "two" {
		t.Errorf("lines after insert = %q", b.Lines())
	}
}

func TestBufferLineColOffset(t *testing.T) {
	b := NewBuffer("ab\ncde\n")
	tests := []struct {
		pos       int
		line, col int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 1, 0},
		{6, 1, 3},
		{7, 2, 0},
	}
	for _, tt := range tests {
		line, col := b.LineCol(tt.pos)
		if line != tt.line || col != tt.col {
			t.Errorf("LineCol(%d) = %d,%d want %d,%d", tt.pos, line, col, tt.line, tt.col)
		}
		if got := b.Offset(tt.line, tt.col); got != tt.pos {
			t.Errorf("Offset(%d,%d) = %d, want %d", tt.line, tt.col, got, tt.pos)
		}
	}

	// Columns past the end of a line clamp to it
	if got := b.Offset(0, 99); got != 2 {
		t.Errorf("Offset(0, 99) = %d, want 2", got)
	}
	if got := b.Offset(99, 0); got != 7 {
		t.Errorf("Offset(99, 0) = %d, want 7", got)
	}
}

func TestCursorVerticalKeepsGoal(t *testing.T) {
	b := NewBuffer("long line here\nab\nanother long line")
	c := NewCursor(b)
	c.SetLineCol(0, 10)

	c.Down(1)
	if line, col := c.LineCol(); line != 1 || col != 2 {
		t.Errorf("after Down = %d,%d want 1,2", line, col)
	}
	c.Down(1)
	if line, col := c.LineCol(); line != 2 || col != 10 {
		t.Errorf("after second Down = %d,%d want 2,10", line, col)
	}
	if c.Down(1) {
		t.Error("Down on the last line should report no move")
	}
	c.Up(5)
	if line, col := c.LineCol(); line != 0 || col != 10 {
		t.Errorf("after Up(5) = %d,%d want 0,10", line, col)
	}
}

func TestCursorHomeToggles(t *testing.T) {
	b := NewBuffer("    indented")
	c := NewCursor(b)
	c.SetOffset(8)

	c.Home()
	if c.Offset() != 4 {
		t.Errorf("first Home = %d, want 4", c.Offset())
	}
	c.Home()
	if c.Offset() != 0 {
		t.Errorf("second Home = %d, want 0", c.Offset())
	}
	c.End()
	if c.Offset() != b.Len() {
		t.Errorf("End = %d, want %d", c.Offset(), b.Len())
	}
}

func TestCursorWords(t *testing.T) {
	b := NewBuffer("# some_word, next")
	c := NewCursor(b)

	var stops []int
	for c.WordRight() {
		stops = append(stops, c.Offset())
	}
	want := []int{2, 13, 17}
	if len(stops) != len(want) {
		t.Fatalf("WordRight stops = %v, want %v", stops, want)
	}
	for i := range want {
		if stops[i] != want[i] {
			t.Errorf("WordRight stops = %v, want %v", stops, want)
			break
		}
	}

	c.WordLeft()
	if c.Offset() != 13 {
		t.Errorf("WordLeft = %d, want 13", c.Offset())
	}
}

func TestSelection(t *testing.T) {
	b := NewBuffer("first\nsecond\nthird")
	var s Selection

	if _, _, ok := s.Range(3); ok {
		t.Error("inactive selection reported a range")
	}

	s.Begin(8)
	s.Begin(2) // Already anchored
	start, end, ok := s.Range(3)
	if !ok || start != 3 || end != 8 {
		t.Errorf("Range = %d,%d,%v want 3,8,true", start, end, ok)
	}
	if got := s.Text(b, 3); got != "st\nse" {
		t.Errorf("Text = %q", got)
	}

	ranges := s.LineRanges(b, 15)
	if len(ranges) != 2 {
		t.Fatalf("LineRanges = %v", ranges)
	}
	if r := ranges[1]; r.Start != 2 || r.End != -1 {
		t.Errorf("line 1 range = %+v, want {2 -1}", r)
	}
	if r := ranges[2]; r.Start != 0 || r.End != 2 {
		t.Errorf("line 2 range = %+v, want {0 2}", r)
	}

	s.Clear()
	if s.LineRanges(b, 15) != nil {
		t.Error("cleared selection still has ranges")
	}
}

func TestWordAt(t *testing.T) {
	b := NewBuffer("see **bold** text")
	tests := []struct {
		pos        int
		start, end int
	}{
		{1, 0, 3},   // Word
		{3, 3, 4},   // Blank
		{5, 4, 6},   // Markers
		{8, 6, 10},  // Word inside markers
		{99, 13, 17}, // Clamped to the last word
	}
	for _, tt := range tests {
		start, end := WordAt(b, tt.pos)
		if start != tt.start || end != tt.end {
			t.Errorf("WordAt(%d) = %d,%d want %d,%d", tt.pos, start, end, tt.start, tt.end)
		}
	}
}

func fixedClock(u *UndoStack) *time.Time {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	u.now = func() time.Time { return now }
	return &now
}

func TestUndoGroupsTyping(t *testing.T) {
	u := NewUndoStack(100)
	fixedClock(u)

	for i, r := range "abc" {
		u.Push(Change{Pos: i, Inserted: string(r), CursorAfter: i + 1})
	}
	u.Push(Change{Pos: 3, Inserted: " ", CursorAfter: 4})

	c := u.Undo()
	if c == nil || c.Inserted != " " {
		t.Fatalf("first Undo = %+v, want the blank", c)
	}
	c = u.Undo()
	if c == nil || c.Inserted != "abc" || c.Pos != 0 || c.CursorAfter != 3 {
		t.Fatalf("second Undo = %+v, want grouped abc", c)
	}
	if u.CanUndo() {
		t.Error("stack should be empty")
	}
	if r := u.Redo(); r == nil || r.Inserted != "abc" {
		t.Errorf("Redo = %+v", r)
	}
}

func TestUndoGroupsBackspace(t *testing.T) {
	u := NewUndoStack(100)
	fixedClock(u)

	u.Push(Change{Pos: 4, Removed: "d"})
	u.Push(Change{Pos: 3, Removed: "c"})
	u.Push(Change{Pos: 2, Removed: "b"})

	c := u.Undo()
	if c == nil || c.Removed != "bcd" || c.Pos != 2 {
		t.Errorf("Undo = %+v, want bcd at 2", c)
	}
}

func TestUndoIntervalAndSeal(t *testing.T) {
	u := NewUndoStack(100)
	now := fixedClock(u)

	u.Push(Change{Pos: 0, Inserted: "a"})
	*now = now.Add(time.Second)
	u.Push(Change{Pos: 1, Inserted: "b"})
	u.Seal()
	u.Push(Change{Pos: 2, Inserted: "c"})

	n := 0
	for u.Undo() != nil {
		n++
	}
	if n != 3 {
		t.Errorf("got %d undo groups, want 3", n)
	}
}

func TestUndoPushClearsRedo(t *testing.T) {
	u := NewUndoStack(100)
	fixedClock(u)

	u.Push(Change{Pos: 0, Inserted: "a"})
	u.Undo()
	if !u.CanRedo() {
		t.Fatal("expected redo")
	}
	u.Push(Change{Pos: 0, Inserted: "b"})
	if u.CanRedo() {
		t.Error("push should drop redo history")
	}
}

func TestUndoMaxSize(t *testing.T) {
	u := NewUndoStack(2)
	fixedClock(u)
	for i := 0; i < 5; i++ {
		u.Push(Change{Pos: i, Inserted: "x"})
		u.Seal()
	}
	n := 0
	for u.Undo() != nil {
		n++
	}
	if n != 2 {
		t.Errorf("kept %d changes, want 2", n)
	}
}
