package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/marktivus/config"
	"github.com/cornish/marktivus/ui"
)

// configActions maps configurable key actions to menu actions
var configActions = map[string]ui.MenuAction{
	config.ActionNew:          ui.ActionNew,
	config.ActionOpen:         ui.ActionOpen,
	config.ActionSave:         ui.ActionSave,
	config.ActionSaveAs:       ui.ActionSaveAs,
	config.ActionRevert:       ui.ActionRevert,
	config.ActionRecentFiles:  ui.ActionRecent,
	config.ActionQuit:         ui.ActionExit,
	config.ActionFind:         ui.ActionFind,
	config.ActionPreview:      ui.ActionPreview,
	config.ActionOutline:      ui.ActionOutline,
	config.ActionBold:         ui.ActionBold,
	config.ActionItalic:       ui.ActionItalic,
	config.ActionHeading:      ui.ActionHeading,
	config.ActionLink:         ui.ActionLink,
	config.ActionImage:        ui.ActionImage,
	config.ActionTable:        ui.ActionTable,
	config.ActionRule:         ui.ActionRule,
	config.ActionBulletList:   ui.ActionBulletList,
	config.ActionNumberedList: ui.ActionNumberedList,
	config.ActionTaskList:     ui.ActionTaskList,
	config.ActionQuote:        ui.ActionQuote,
	config.ActionCodeBlock:    ui.ActionCodeBlock,
	config.ActionLineNumbers:  ui.ActionLineNumbers,
	config.ActionWordWrap:     ui.ActionWordWrap,
	config.ActionHelp:         ui.ActionHelp,
}

// fixedKeys are the editing shortcuts that are not configurable
var fixedKeys = map[string]ui.MenuAction{
	"ctrl+z": ui.ActionUndo,
	"ctrl+y": ui.ActionRedo,
	"ctrl+x": ui.ActionCut,
	"ctrl+c": ui.ActionCopy,
	"ctrl+v": ui.ActionPaste,
	"ctrl+a": ui.ActionSelectAll,
	"f3":     ui.ActionFindNext,
}

// handleKey handles keyboard input
func (e *Editor) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case e.message != nil:
		return e.handleMessageKey(msg)
	case e.browser != nil:
		return e.handleBrowserKey(msg)
	case e.list != nil:
		return e.handleListKey(msg)
	}

	switch e.mode {
	case ModeMenu:
		return e.handleMenuKey(msg)
	case ModeFind:
		return e.handleFindKey(msg)
	}

	// Clear status message on any key
	e.statusbar.ClearMessage()
	key := msg.String()

	if action, ok := configActions[e.cfg.Keys.ActionFor(key)]; ok {
		return e.executeAction(action)
	}
	if action, ok := fixedKeys[key]; ok {
		return e.executeAction(action)
	}
	if e.handleMotion(key) {
		return nil
	}

	switch key {
	case "f10":
		e.menubar.OpenMenu(0)
		e.mode = ModeMenu
		return nil
	case "esc":
		e.selection.Clear()
		return nil
	case "enter":
		e.newline()
		return nil
	case "backspace", "ctrl+h":
		e.backspace()
		return nil
	case "delete":
		e.deleteForward()
		return nil
	case "tab":
		e.insertText("\t")
		return nil
	case "shift+tab":
		e.outdent()
		return nil
	}

	switch msg.Type {
	case tea.KeySpace:
		e.insertText(" ")
	case tea.KeyRunes:
		if msg.Alt {
			if len(msg.Runes) == 1 && e.menubar.OpenByHotKey(msg.Runes[0]) {
				e.mode = ModeMenu
			}
			return nil
		}
		text := string(msg.Runes)
		if msg.Paste {
			text = normalizeNewlines(text)
			e.undo.Seal()
		}
		e.insertText(text)
		if msg.Paste {
			e.undo.Seal()
		}
	}
	return nil
}

// handleMotion moves the cursor for navigation keys. Shift extends the
// selection.
func (e *Editor) handleMotion(key string) bool {
	extend := strings.Contains(key, "shift+")
	base := strings.Replace(key, "shift+", "", 1)

	var motion func()
	switch base {
	case "left":
		motion = func() { e.cursor.Left() }
	case "right":
		motion = func() { e.cursor.Right() }
	case "up":
		motion = func() { e.vertical(-1) }
	case "down":
		motion = func() { e.vertical(1) }
	case "ctrl+left":
		motion = func() { e.cursor.WordLeft() }
	case "ctrl+right":
		motion = func() { e.cursor.WordRight() }
	case "home":
		motion = e.cursor.Home
	case "end":
		motion = e.cursor.End
	case "ctrl+home":
		motion = e.cursor.DocStart
	case "ctrl+end":
		motion = e.cursor.DocEnd
	case "pgup":
		motion = func() {
			e.viewport.ScrollUp(e.viewport.Height())
			e.vertical(-e.viewport.Height())
		}
	case "pgdown":
		motion = func() {
			e.viewport.ScrollDown(e.viewport.Height(), e.totalRows())
			e.vertical(e.viewport.Height())
		}
	default:
		return false
	}

	e.move(extend, motion)
	return true
}

// vertical moves the cursor n screen rows, which are lines unless word
// wrap is on
func (e *Editor) vertical(n int) {
	if !e.viewport.WordWrap() {
		if n < 0 {
			e.cursor.Up(-n)
		} else {
			e.cursor.Down(n)
		}
		return
	}
	e.layout()
	lines := e.derived.lines
	line, col := e.cursor.LineCol()
	row := e.viewport.RowOf(lines, line, col)
	target := min(max(row+n, 0), e.viewport.TotalRows(lines)-1)
	if target == row {
		return
	}
	line, col = e.viewport.PositionAtRow(lines, target, e.viewport.RowX(lines, line, col))
	e.cursor.SetLineCol(line, col)
}

// move runs a cursor motion, extending the selection or dropping it
func (e *Editor) move(extend bool, motion func()) {
	if extend {
		e.selection.Begin(e.cursor.Offset())
	} else {
		e.selection.Clear()
	}
	motion()
	e.undo.Seal()
	e.ensureCursorVisible()
}

// handleMenuKey handles keys while a menu is open
func (e *Editor) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "f10":
		e.closeMenu()
	case "left":
		e.menubar.PrevMenu()
	case "right":
		e.menubar.NextMenu()
	case "up":
		e.menubar.PrevItem()
	case "down":
		e.menubar.NextItem()
	case "enter":
		action := e.menubar.Select()
		e.closeMenu()
		return e.executeAction(action)
	default:
		if len(msg.Runes) == 1 {
			if action := e.menubar.SelectByHotKey(msg.Runes[0]); action != ui.ActionNone {
				e.closeMenu()
				return e.executeAction(action)
			}
		}
	}
	return nil
}

func (e *Editor) closeMenu() {
	e.menubar.Close()
	e.mode = ModeNormal
}

// handleFindKey handles keys in the find bar
func (e *Editor) handleFindKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		e.closeFind()
		return nil
	case "enter", "f3":
		e.findNext()
		return nil
	}
	var cmd tea.Cmd
	e.find, cmd = e.find.Update(msg)
	return cmd
}

func (e *Editor) handleMessageKey(msg tea.KeyMsg) tea.Cmd {
	box := e.message
	closed, cmd := box.Update(msg)
	if closed {
		e.closeMessage(box)
	}
	return cmd
}

func (e *Editor) handleBrowserKey(msg tea.KeyMsg) tea.Cmd {
	res, cmd := e.browser.Update(msg)
	e.finishBrowser(res)
	return cmd
}

func (e *Editor) handleListKey(msg tea.KeyMsg) tea.Cmd {
	list := e.list
	done, cmd := list.Update(msg)
	e.finishList(list, done)
	return cmd
}
