package editor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/marktivus/ui"
)

// handleMouse handles mouse input
func (e *Editor) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if _, pos, ok := e.modalBox(); ok {
		return e.handleModalMouse(msg, pos)
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		e.wheel(msg.X, -wheelLines)
		return nil
	case tea.MouseButtonWheelDown:
		e.wheel(msg.X, wheelLines)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionRelease:
		e.mouseDown = false
		return nil
	case tea.MouseActionMotion:
		if e.mouseDown {
			e.drag(msg.X, msg.Y-1)
		}
		return nil
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return nil
	}

	// Menu bar and open dropdown
	if msg.Y == 0 || e.menubar.IsOpen() {
		handled, action := e.menubar.HandleClick(msg.X, msg.Y)
		if handled {
			if e.menubar.IsOpen() {
				e.mode = ModeMenu
			} else if e.mode == ModeMenu {
				e.mode = ModeNormal
			}
			if action != ui.ActionNone {
				e.closeMenu()
				return e.executeAction(action)
			}
			return nil
		}
		if e.menubar.IsOpen() {
			e.closeMenu()
		}
	}

	y := msg.Y - 1
	if y < 0 || y >= e.viewport.Height() {
		return nil
	}
	switch {
	case msg.X < e.viewport.Width():
		e.press(msg.X, y)
	case msg.X == e.viewport.Width() && ui.Needed(e.viewport.Height(), e.totalRows()):
		e.viewport.SetScrollY(e.scrollbar.RowToLine(y, e.viewport.Height(), e.totalRows()))
	}
	return nil
}

// handleModalMouse routes mouse input to the open dialog
func (e *Editor) handleModalMouse(msg tea.MouseMsg, pos dialogPosition) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		n := 1
		if msg.Button == tea.MouseButtonWheelUp {
			n = -1
		}
		switch {
		case e.message != nil:
		case e.browser != nil:
			e.browser.Scroll(n)
		case e.list != nil:
			e.list.Scroll(n)
		}
		return nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
	default:
		return nil
	}

	row := pos.row(msg.X, msg.Y)
	if row < 0 {
		return nil
	}
	switch {
	case e.message != nil:
		m := e.message
		closed, cmd := m.Click(row, msg.X-pos.x-dialogFrameX)
		if closed {
			e.closeMessage(m)
		}
		return cmd
	case e.browser != nil:
		e.finishBrowser(e.browser.Click(row))
	case e.list != nil:
		list := e.list
		done, cmd := list.Click(row)
		e.finishList(list, done)
		return cmd
	}
	return nil
}

// press places the cursor at a click in the text. A second click on the
// same spot selects the word, a third the line.
func (e *Editor) press(x, y int) {
	line, col := e.viewport.PositionFromClick(e.derived.lines, x, y)
	off := e.buffer.Offset(line, col)

	now := time.Now()
	if off == e.lastClickAt && now.Sub(e.lastClick) < doubleClickDelay {
		e.clicks++
	} else {
		e.clicks = 1
	}
	e.lastClick, e.lastClickAt = now, off
	e.undo.Seal()

	switch e.clicks {
	case 1:
		e.selection.Clear()
		e.cursor.SetOffset(off)
		e.mouseDown = true
		e.dragAnchor = off
	case 2:
		start, end := WordAt(e.buffer, off)
		e.selectRange(start, end)
		e.mouseDown = false
	default:
		start := e.buffer.LineStart(line)
		end := min(e.buffer.LineEnd(line)+1, e.buffer.Len())
		e.selectRange(start, end)
		e.mouseDown = false
		e.clicks = 0
	}
}

// drag extends the selection from the press position to the pointer
func (e *Editor) drag(x, y int) {
	h := e.viewport.Height()
	switch {
	case y < 0:
		e.viewport.ScrollUp(1)
		y = 0
	case y >= h:
		e.viewport.ScrollDown(1, e.totalRows())
		y = h - 1
	}
	line, col := e.viewport.PositionFromClick(e.derived.lines, min(x, e.viewport.Width()-1), y)
	off := e.buffer.Offset(line, col)
	if off == e.dragAnchor {
		e.selection.Clear()
	} else {
		e.selection.Set(e.dragAnchor)
	}
	e.cursor.SetOffset(off)
}

// wheel scrolls the pane under the pointer
func (e *Editor) wheel(x, n int) {
	if e.previewVisible() && x >= e.editorWidth() {
		e.preview.SetYOffset(e.preview.YOffset + n)
		return
	}
	if n < 0 {
		e.viewport.ScrollUp(-n)
	} else {
		e.viewport.ScrollDown(n, e.totalRows())
	}
}
