package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goliatone/go-slug"

	"github.com/cornish/marktivus/markdown"
	"github.com/cornish/marktivus/shell"
	"github.com/cornish/marktivus/ui"
)

// Operation names carried by opDoneMsg
const (
	opOpen   = "open"
	opLoad   = "load"
	opSave   = "save"
	opSaveAs = "save_as"
	opNew    = "new"
	opRevert = "revert"
)

// opDoneMsg reports the end of a document operation. next runs after a
// successful operation.
type opDoneMsg struct {
	op   string
	err  error
	next func() tea.Cmd
}

type configSavedMsg struct {
	err error
}

type previewTickMsg struct{}

type previewMsg struct {
	rev   int
	width int
	out   string
	err   error
}

// executeAction executes a menu action
func (e *Editor) executeAction(action ui.MenuAction) tea.Cmd {
	switch action {
	case ui.ActionNew, ui.ActionOpen, ui.ActionSave, ui.ActionSaveAs, ui.ActionRevert, ui.ActionRecent:
		if e.commands == nil {
			return nil
		}
	}

	switch action {
	case ui.ActionNew:
		return e.confirmThen(func() tea.Cmd {
			return e.runOp(opNew, e.commands.NewFile, nil)
		})
	case ui.ActionOpen:
		return e.confirmThen(func() tea.Cmd {
			return e.runOp(opOpen, e.commands.OpenFile, nil)
		})
	case ui.ActionSave:
		return e.runOp(opSave, e.commands.SaveFile, nil)
	case ui.ActionSaveAs:
		return e.runOp(opSaveAs, e.commands.SaveAsFile, nil)
	case ui.ActionRevert:
		return e.revert()
	case ui.ActionRecent:
		e.showRecent()
	case ui.ActionExit:
		return e.confirmThen(func() tea.Cmd { return tea.Quit })

	case ui.ActionUndo:
		e.undoChange()
	case ui.ActionRedo:
		e.redoChange()
	case ui.ActionCut:
		e.cut()
	case ui.ActionCopy:
		e.copySelection()
	case ui.ActionPaste:
		e.paste()
	case ui.ActionSelectAll:
		e.selectAll()
	case ui.ActionFind:
		e.openFind()
	case ui.ActionFindNext:
		e.findNext()

	case ui.ActionBold:
		e.toggleWrap("**")
	case ui.ActionItalic:
		e.toggleWrap("_")
	case ui.ActionHeading:
		e.cycleHeading()
	case ui.ActionLink:
		e.insertLink()
	case ui.ActionImage:
		e.insertImage()
	case ui.ActionTable:
		e.insertTable()
	case ui.ActionRule:
		e.insertRule()
	case ui.ActionBulletList:
		e.toggleList(listBullet)
	case ui.ActionNumberedList:
		e.toggleList(listNumbered)
	case ui.ActionTaskList:
		e.toggleList(listTask)
	case ui.ActionQuote:
		e.toggleQuote()
	case ui.ActionCodeBlock:
		e.insertCodeBlock()

	case ui.ActionPreview:
		return e.togglePreview()
	case ui.ActionOutline:
		e.showOutline()
	case ui.ActionLineNumbers:
		return e.toggleLineNumbers()
	case ui.ActionWordWrap:
		return e.toggleWordWrap()
	case ui.ActionSyntaxHighlight:
		return e.toggleSyntaxHighlight()
	case ui.ActionHelp:
		e.list = newHelpDialog(&e.cfg.Keys)
	case ui.ActionAbout:
		e.showMessage(newMessage("About", aboutText(e.version, e.previewer.Style()), false, nil))
	}
	return nil
}

// runOp runs a document operation off the update loop
func (e *Editor) runOp(op string, fn func(context.Context) error, next func() tea.Cmd) tea.Cmd {
	e.undo.Seal()
	ctx := e.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx), next: next}
	}
}

// confirmThen runs next, first offering to save unsaved changes
func (e *Editor) confirmThen(next func() tea.Cmd) tea.Cmd {
	doc := e.snapshot()
	if !doc.Dirty || e.commands == nil {
		return next()
	}
	e.showMessage(newConfirm(ui.DisplayName(doc.Path), func(choice int) tea.Cmd {
		switch choice {
		case confirmSave:
			return e.runOp(opSave, e.commands.SaveFile, next)
		case confirmDiscard:
			return next()
		}
		return nil
	}))
	return nil
}

func (e *Editor) revert() tea.Cmd {
	doc := e.snapshot()
	if !doc.HasPath() {
		e.statusbar.SetMessage("Nothing to revert", ui.MessageError)
		return nil
	}
	run := func() tea.Cmd { return e.runOp(opRevert, e.commands.Revert, nil) }
	if !doc.Dirty {
		return run()
	}
	e.showMessage(&messageBox{
		title:   "Revert",
		lines:   []string{"Discard changes and reload " + ui.DisplayName(doc.Path) + "?"},
		buttons: []string{"Revert", "Cancel"},
		onClose: func(choice int) tea.Cmd {
			if choice == 0 {
				return run()
			}
			return nil
		},
	})
	return nil
}

func (e *Editor) handleOpDone(msg opDoneMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, shell.ErrCancelled):
		e.statusbar.SetMessage("Cancelled", ui.MessageInfo)
		return nil
	case errors.Is(msg.err, shell.ErrBusy):
		e.statusbar.SetMessage("Busy: another file operation is running", ui.MessageError)
		return nil
	case errors.Is(msg.err, context.Canceled):
		return nil
	case msg.err != nil:
		// The shell has already shown the error
		e.statusbar.SetMessage(strings.ReplaceAll(msg.op, "_", " ")+" failed", ui.MessageError)
		return nil
	}

	doc := e.snapshot()
	var cmds []tea.Cmd
	switch msg.op {
	case opOpen, opLoad:
		e.statusbar.SetMessage("Opened "+ui.DisplayName(doc.Path), ui.MessageSuccess)
	case opRevert:
		e.statusbar.SetMessage("Reverted "+ui.DisplayName(doc.Path), ui.MessageSuccess)
	}
	switch msg.op {
	case opOpen, opLoad, opSave, opSaveAs:
		if doc.HasPath() {
			e.cfg.AddRecentFile(doc.Path)
			cmds = append(cmds, e.saveConfig())
		}
	}
	if msg.next != nil {
		cmds = append(cmds, msg.next())
	}
	return tea.Batch(cmds...)
}

// saveConfig writes a copy of the configuration in the background
func (e *Editor) saveConfig() tea.Cmd {
	cfg := *e.cfg
	cfg.RecentFiles = slices.Clone(e.cfg.RecentFiles)
	cfg.Files.Extensions = slices.Clone(e.cfg.Files.Extensions)
	return func() tea.Msg {
		return configSavedMsg{err: cfg.Save()}
	}
}

func (e *Editor) toggleLineNumbers() tea.Cmd {
	e.cfg.Editor.LineNumbers = !e.cfg.Editor.LineNumbers
	e.viewport.ShowLineNumbers(e.cfg.Editor.LineNumbers)
	e.menubar.SetChecked(ui.ActionLineNumbers, e.cfg.Editor.LineNumbers)
	e.ensureCursorVisible()
	return e.saveConfig()
}

func (e *Editor) toggleWordWrap() tea.Cmd {
	e.cfg.Editor.WordWrap = !e.cfg.Editor.WordWrap
	e.viewport.SetWordWrap(e.cfg.Editor.WordWrap)
	e.menubar.SetChecked(ui.ActionWordWrap, e.cfg.Editor.WordWrap)
	e.ensureCursorVisible()
	return e.saveConfig()
}

func (e *Editor) toggleSyntaxHighlight() tea.Cmd {
	e.cfg.Editor.SyntaxHighlight = !e.cfg.Editor.SyntaxHighlight
	e.highlighter.SetEnabled(e.cfg.Editor.SyntaxHighlight)
	e.menubar.SetChecked(ui.ActionSyntaxHighlight, e.cfg.Editor.SyntaxHighlight)
	e.derived.valid = false
	return e.saveConfig()
}

func (e *Editor) togglePreview() tea.Cmd {
	e.showPreview = !e.showPreview
	e.cfg.Editor.Preview = e.showPreview
	e.menubar.SetChecked(ui.ActionPreview, e.showPreview)
	e.previewRev = -1
	if e.showPreview && e.width < minPreviewWidth {
		e.statusbar.SetMessage("Window too narrow for the preview", ui.MessageError)
	}
	e.ensureCursorVisible()
	return e.saveConfig()
}

// schedulePreview starts the debounce timer when the preview is stale
func (e *Editor) schedulePreview() tea.Cmd {
	if !e.previewVisible() || e.previewPending {
		return nil
	}
	if e.previewRev == e.rev && e.previewWidth == e.preview.Width {
		return nil
	}
	e.previewPending = true
	return tea.Tick(previewDelay, func(time.Time) tea.Msg { return previewTickMsg{} })
}

// renderPreview renders the current text off the update loop
func (e *Editor) renderPreview() tea.Cmd {
	if !e.previewVisible() {
		return nil
	}
	text, rev, width := e.buffer.String(), e.rev, e.preview.Width
	e.previewRev, e.previewWidth = rev, width
	p := e.previewer
	return func() tea.Msg {
		out, err := p.Render(text, width)
		return previewMsg{rev: rev, width: width, out: out, err: err}
	}
}

func (e *Editor) showPreviewContent(msg previewMsg) {
	if msg.rev < e.previewShown {
		return
	}
	e.previewShown = msg.rev
	if msg.err != nil {
		e.log.Warn("preview failed", "error", msg.err)
		e.preview.SetContent(e.styles.Error.Render(msg.err.Error()))
		return
	}
	e.preview.SetContent(msg.out)
}

// syncPreviewScroll keeps the preview at the same relative position as
// the text when the text scrolls.
func (e *Editor) syncPreviewScroll() {
	y := e.viewport.ScrollY()
	if y == e.lastScrollY || !e.previewVisible() {
		return
	}
	e.lastScrollY = y
	textRange := max(e.totalRows()-e.viewport.Height(), 1)
	previewRange := max(e.preview.TotalLineCount()-e.preview.Height, 0)
	e.preview.SetYOffset(y * previewRange / textRange)
}

func (e *Editor) showOutline() {
	e.derive()
	line, _ := e.cursor.LineCol()
	e.list = newOutlineDialog(markdown.Outline(e.buffer.String()), line, e.jumpToLine)
}

func (e *Editor) jumpToLine(line int) {
	e.selection.Clear()
	e.cursor.SetLineCol(line, 0)
	e.layout()
	e.viewport.SetScrollY(e.viewport.RowOf(e.derived.lines, line, 0))
	e.ensureCursorVisible()
}

// showRecent lists the recently used files; picking one loads it
func (e *Editor) showRecent() {
	e.list = newRecentDialog(slices.Clone(e.cfg.RecentFiles), func(path string) tea.Cmd {
		return e.confirmThen(func() tea.Cmd {
			return e.runOp(opLoad, func(ctx context.Context) error {
				return e.commands.Load(ctx, path)
			}, nil)
		})
	})
}

// finishList closes list once it is done, unless picking replaced it
func (e *Editor) finishList(list *listDialog, done bool) {
	if done && e.list == list {
		e.list = nil
	}
}

// showMessage shows box, or queues it behind the open one
func (e *Editor) showMessage(box *messageBox) {
	if e.message == nil {
		e.message = box
		return
	}
	e.queued = append(e.queued, box)
}

func (e *Editor) closeMessage(box *messageBox) {
	if e.message != box {
		return
	}
	e.message = nil
	if len(e.queued) > 0 {
		e.message = e.queued[0]
		e.queued = e.queued[1:]
	}
}

// showNotice shows a shell notice. Info notices go to the status bar
// unless saves are to be confirmed with a dialog.
func (e *Editor) showNotice(msg noticeMsg) {
	n := msg.notice
	if n.Level == shell.LevelInfo && !e.cfg.Editor.NotifySaves {
		e.statusbar.SetMessage(n.Message, ui.MessageSuccess)
		close(msg.done)
		return
	}
	box := newMessage(n.Title, n.Message, n.Level == shell.LevelError, func(int) tea.Cmd {
		close(msg.done)
		return nil
	})
	box.id = msg.id
	e.showMessage(box)
}

// showBrowser opens the file dialog a bridge request asks for
func (e *Editor) showBrowser(msg pathRequestMsg) {
	e.closeMenu()
	e.list = nil
	if e.mode == ModeFind {
		e.closeFind()
	}

	suggested := msg.suggested
	if msg.kind == browseSave && suggested == "" {
		suggested = e.suggestName(msg.filter)
	}
	e.browser = newFileBrowser(msg.kind, msg.id, msg.filter, e.styles, e.dialogDir(), suggested)
	e.reply = msg.reply
}

func (e *Editor) finishBrowser(res browserResult) {
	if !res.done {
		return
	}
	if e.reply != nil {
		e.reply <- pathReply{path: res.path, ok: res.ok}
	}
	e.browser = nil
	e.reply = nil
}

// dropRequest closes the dialog of a request nobody waits for any more
func (e *Editor) dropRequest(id string) {
	if e.browser != nil && e.browser.id == id {
		e.browser = nil
		e.reply = nil
	}
	if e.message != nil && e.message.id == id {
		e.closeMessage(e.message)
	}
	e.queued = slices.DeleteFunc(e.queued, func(b *messageBox) bool { return b.id == id })
}

// dialogDir is where file dialogs start: the configured directory, the
// current file's directory or the working directory.
func (e *Editor) dialogDir() string {
	if dir := e.cfg.Files.StartDir; dir != "" {
		if strings.HasPrefix(dir, "~") {
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
			}
		}
		return dir
	}
	if doc := e.snapshot(); doc.HasPath() {
		return filepath.Dir(doc.Path)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// suggestName proposes a file name from the document title
func (e *Editor) suggestName(filter shell.Filter) string {
	e.derive()
	if e.derived.title == "" {
		return ""
	}
	name, err := slug.Normalize(e.derived.title)
	if err != nil || name == "" {
		return ""
	}
	return filter.EnsureExtension(name)
}
