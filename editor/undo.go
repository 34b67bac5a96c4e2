package editor

import (
	"time"
	"unicode/utf8"
)

// Change is one reversible edit: at Pos, Removed was replaced by Inserted.
type Change struct {
	Pos          int
	Removed      string
	Inserted     string
	CursorBefore int
	CursorAfter  int
	at           time.Time
}

// UndoStack holds changes for undo and redo. Typing and repeated deletes
// within the grouping interval collapse into a single change.
type UndoStack struct {
	undo     []*Change
	redo     []*Change
	maxSize  int
	interval time.Duration
	sealed   bool // Next change starts a new group
	now      func() time.Time
}

// NewUndoStack creates a stack keeping at most maxSize changes.
func NewUndoStack(maxSize int) *UndoStack {
	return &UndoStack{
		maxSize:  maxSize,
		interval: 500 * time.Millisecond,
		now:      time.Now,
	}
}

// Push records a change and drops the redo history.
func (u *UndoStack) Push(c Change) {
	c.at = u.now()
	u.redo = u.redo[:0]

	if n := len(u.undo); n > 0 && !u.sealed && u.mergeable(u.undo[n-1], &c) {
		last := u.undo[n-1]
		switch {
		case c.Removed == "":
			last.Inserted += c.Inserted
		case c.Pos < last.Pos:
			last.Removed = c.Removed + last.Removed
			last.Pos = c.Pos
		default:
			last.Removed += c.Removed
		}
		last.CursorAfter = c.CursorAfter
		last.at = c.at
		return
	}

	u.sealed = false
	u.undo = append(u.undo, &c)
	if len(u.undo) > u.maxSize {
		u.undo = u.undo[1:]
	}
}

func (u *UndoStack) mergeable(last, c *Change) bool {
	if c.at.Sub(last.at) > u.interval {
		return false
	}
	// Typing a word
	if last.Removed == "" && c.Removed == "" && utf8.RuneCountInString(c.Inserted) == 1 {
		r, _ := utf8.DecodeRuneInString(c.Inserted)
		return c.Pos == last.Pos+utf8.RuneCountInString(last.Inserted) && !isBlank(r) && r != '\n'
	}
	// Backspace or Delete runs
	if last.Inserted == "" && c.Inserted == "" {
		return c.Pos == last.Pos || c.Pos+utf8.RuneCountInString(c.Removed) == last.Pos
	}
	return false
}

// Seal ends the current group; the next change is undone separately.
func (u *UndoStack) Seal() {
	u.sealed = true
}

// Undo pops the last change, or nil.
func (u *UndoStack) Undo() *Change {
	if len(u.undo) == 0 {
		return nil
	}
	c := u.undo[len(u.undo)-1]
	u.undo = u.undo[:len(u.undo)-1]
	u.redo = append(u.redo, c)
	u.sealed = true
	return c
}

// Redo pops the last undone change, or nil.
func (u *UndoStack) Redo() *Change {
	if len(u.redo) == 0 {
		return nil
	}
	c := u.redo[len(u.redo)-1]
	u.redo = u.redo[:len(u.redo)-1]
	u.undo = append(u.undo, c)
	u.sealed = true
	return c
}

// CanUndo reports whether Undo has something to return
func (u *UndoStack) CanUndo() bool {
	return len(u.undo) > 0
}

// CanRedo reports whether Redo has something to return
func (u *UndoStack) CanRedo() bool {
	return len(u.redo) > 0
}

// Clear empties both stacks
func (u *UndoStack) Clear() {
	u.undo = nil
	u.redo = nil
	u.sealed = false
}
