// Package editor is the terminal user interface: a markdown-aware text
// view with menus, dialogs and a rendered preview, built on Bubble Tea.
package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cornish/marktivus/clipboard"
	"github.com/cornish/marktivus/config"
	"github.com/cornish/marktivus/fileio"
	"github.com/cornish/marktivus/logger"
	"github.com/cornish/marktivus/markdown"
	"github.com/cornish/marktivus/shell"
	"github.com/cornish/marktivus/syntax"
	"github.com/cornish/marktivus/ui"
)

// Mode is what receives keys while no dialog is open
type Mode int

const (
	ModeNormal Mode = iota
	ModeMenu
	ModeFind
)

// Commands are the document operations behind the menus. *shell.Shell
// implements them; each call blocks until the operation is over.
type Commands interface {
	OpenFile(ctx context.Context) error
	SaveFile(ctx context.Context) error
	SaveAsFile(ctx context.Context) error
	NewFile(ctx context.Context) error
	Revert(ctx context.Context) error
	Load(ctx context.Context, path string) error
	Snapshot() shell.Document
}

// FormatSource reports how a file is stored, for the status bar
type FormatSource interface {
	Format(path string) fileio.Format
}

// Options configure an Editor
type Options struct {
	Config       *config.Config
	ASCII        bool // Draw boxes with ASCII characters
	Commands     Commands
	OnChange     func(generation uint64, text string) // Receives the whole text after every edit
	Formats      FormatSource
	Clipboard    *clipboard.Clipboard
	Previewer    *markdown.Previewer
	Logger       *logger.Logger
	Context      context.Context // Passed to every operation
	Content      string          // Initial text
	Generation   uint64          // Generation of Content, echoed back through OnChange
	StartPath    string          // Loaded through Commands.Load once running
	StartupError error           // Shown in a dialog once running
	Version      string
}

const (
	previewDelay     = 150 * time.Millisecond
	doubleClickDelay = 400 * time.Millisecond
	wheelLines       = 3
	minPreviewWidth  = 40
)

// Editor is the main Bubble Tea model of the markdown editor
type Editor struct {
	// Text
	buffer     *Buffer
	cursor     *Cursor
	selection  Selection
	undo       *UndoStack
	rev        int    // Bumped on every change of the text
	generation uint64 // Set by SetMarkdown, reported with every edit

	// UI components
	menubar     *ui.MenuBar
	statusbar   *ui.StatusBar
	viewport    *ui.Viewport
	scrollbar   *ui.Scrollbar
	highlighter *syntax.Highlighter
	styles      ui.Styles

	// Preview pane
	preview        viewport.Model
	previewer      *markdown.Previewer
	showPreview    bool
	previewRev     int // Revision last sent for rendering, -1 for none
	previewWidth   int
	previewShown   int
	previewPending bool // Debounce tick in flight
	lastScrollY    int

	mode   Mode
	width  int
	height int

	// Dialogs, topmost first
	message  *messageBox
	queued   []*messageBox
	browser  *fileBrowser
	reply    chan<- pathReply
	list     *listDialog // Outline or recent files
	find     textinput.Model
	derived  derived
	lastSeen string // Window title last sent

	// Mouse state
	mouseDown   bool
	dragAnchor  int
	lastClick   time.Time
	lastClickAt int
	clicks      int

	cfg       *config.Config
	commands  Commands
	onChange  func(uint64, string)
	formats   FormatSource
	clipboard *clipboard.Clipboard
	log       *logger.Logger
	ctx       context.Context
	startPath string
	version   string
}

// derived holds values computed from the text, refreshed when rev changes
type derived struct {
	valid  bool
	rev    int
	lines  []string
	colors [][]syntax.ColorSpan
	stats  markdown.Stats
	title  string
	draft  bool // Front matter marks the document as a draft
}

// New creates an editor
func New(opts Options) *Editor {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	styles := ui.NewStyles(opts.ASCII)

	e := &Editor{
		undo:        NewUndoStack(1000),
		menubar:     ui.NewMenuBar(styles, &cfg.Keys),
		statusbar:   ui.NewStatusBar(styles),
		viewport:    ui.NewViewport(styles),
		scrollbar:   ui.NewScrollbar(styles),
		highlighter: syntax.New(),
		styles:      styles,
		preview:     viewport.New(0, 0),
		previewer:   opts.Previewer,
		showPreview: cfg.Editor.Preview,
		previewRev:  -1,
		width:       80,
		height:      24,
		cfg:         cfg,
		commands:    opts.Commands,
		onChange:    opts.OnChange,
		formats:     opts.Formats,
		clipboard:   opts.Clipboard,
		log:         opts.Logger,
		ctx:         opts.Context,
		startPath:   opts.StartPath,
		version:     opts.Version,
	}
	if e.previewer == nil {
		e.previewer = markdown.NewPreviewer(config.CurrentTerminal().GlamourStyle())
	}
	if e.clipboard == nil {
		e.clipboard = clipboard.New(clipboard.Options{})
	}
	if e.log == nil {
		e.log = logger.Discard()
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	if e.version == "" {
		e.version = "dev"
	}

	e.viewport.ShowLineNumbers(cfg.Editor.LineNumbers)
	e.viewport.SetTabWidth(cfg.Editor.TabWidth)
	e.viewport.SetWordWrap(cfg.Editor.WordWrap)
	e.highlighter.SetEnabled(cfg.Editor.SyntaxHighlight)
	e.menubar.SetChecked(ui.ActionLineNumbers, cfg.Editor.LineNumbers)
	e.menubar.SetChecked(ui.ActionSyntaxHighlight, cfg.Editor.SyntaxHighlight)
	e.menubar.SetChecked(ui.ActionWordWrap, cfg.Editor.WordWrap)
	e.menubar.SetChecked(ui.ActionPreview, cfg.Editor.Preview)

	e.find = textinput.New()
	e.find.Prompt = " Find: "
	e.find.Placeholder = "text"
	e.find.Cursor.SetMode(cursor.CursorStatic)

	if opts.StartupError != nil {
		e.showMessage(newMessage("Configuration Error",
			opts.StartupError.Error()+"\nUsing default settings.", true, nil))
	}

	e.SetMarkdown(opts.Content, opts.Generation)
	e.layout()
	return e
}

// SetMarkdown replaces the text without reporting it as an edit. Edits made
// afterwards are reported with generation. Other goroutines go through the
// bridge instead of calling it directly.
func (e *Editor) SetMarkdown(text string, generation uint64) {
	e.generation = generation
	e.buffer = NewBuffer(text)
	e.cursor = NewCursor(e.buffer)
	e.selection.Clear()
	e.undo.Clear()
	e.rev++
	e.viewport.SetScrollY(0)
}

// Text returns the current text
func (e *Editor) Text() string {
	return e.buffer.String()
}

// Init implements tea.Model
func (e *Editor) Init() tea.Cmd {
	if e.startPath == "" || e.commands == nil {
		return nil
	}
	path := e.startPath
	return e.runOp(opLoad, func(ctx context.Context) error {
		return e.commands.Load(ctx, path)
	}, nil)
}

// Update implements tea.Model
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		e.menubar.SetWidth(msg.Width)
		e.statusbar.SetWidth(msg.Width)
		e.layout()
		e.ensureCursorVisible()

	case tea.KeyMsg:
		cmd = e.handleKey(msg)

	case tea.MouseMsg:
		cmd = e.handleMouse(msg)

	case pathRequestMsg:
		e.showBrowser(msg)

	case requestCancelMsg:
		e.dropRequest(msg.id)

	case setMarkdownMsg:
		e.SetMarkdown(msg.text, msg.generation)

	case noticeMsg:
		e.showNotice(msg)

	case opDoneMsg:
		cmd = e.handleOpDone(msg)

	case configSavedMsg:
		if msg.err != nil {
			e.log.Warn("config not saved", "error", msg.err)
		}

	case previewTickMsg:
		e.previewPending = false
		cmd = e.renderPreview()

	case previewMsg:
		e.showPreviewContent(msg)
	}

	return e, tea.Batch(cmd, e.afterUpdate())
}

// afterUpdate brings derived UI state up to date after any message
func (e *Editor) afterUpdate() tea.Cmd {
	e.layout()
	e.updateMenuState()
	e.syncPreviewScroll()

	var cmds []tea.Cmd
	if title := e.windowTitle(); title != e.lastSeen {
		e.lastSeen = title
		cmds = append(cmds, tea.SetWindowTitle(title))
	}
	cmds = append(cmds, e.schedulePreview())
	return tea.Batch(cmds...)
}

func (e *Editor) snapshot() shell.Document {
	if e.commands == nil {
		return shell.Document{Buffer: e.buffer.String()}
	}
	return e.commands.Snapshot()
}

// derive refreshes the values computed from the text
func (e *Editor) derive() {
	if e.derived.valid && e.derived.rev == e.rev {
		return
	}
	text := e.buffer.String()
	lines := e.buffer.Lines()
	meta, _ := markdown.ParseFrontMatter(text)
	d := derived{
		valid: true,
		rev:   e.rev,
		lines: lines,
		stats: markdown.Count(text),
		title: markdown.Title(text),
		draft: meta.Draft,
	}
	if e.highlighter.Enabled() {
		d.colors = e.highlighter.Lines(lines)
	}
	e.derived = d
}

func (e *Editor) bodyHeight() int {
	h := e.height - 2 // Menu bar and status bar
	if e.mode == ModeFind {
		h--
	}
	return max(h, 1)
}

func (e *Editor) previewVisible() bool {
	return e.showPreview && e.width >= minPreviewWidth
}

// editorWidth is the width of the text area including its scrollbar
func (e *Editor) editorWidth() int {
	if e.previewVisible() {
		return e.width / 2
	}
	return e.width
}

// layout sizes the panes for the current window and document
func (e *Editor) layout() {
	e.derive()
	bodyH := e.bodyHeight()
	textW := e.editorWidth()
	e.viewport.SetSize(max(textW, 1), bodyH)
	if ui.Needed(bodyH, e.totalRows()) {
		e.viewport.SetSize(max(textW-1, 1), bodyH)
	}
	e.scrollbar.SetHeight(bodyH)

	frame := e.styles.PreviewBorder.GetHorizontalFrameSize()
	e.preview.Width = max(e.width-e.editorWidth()-frame, 0)
	e.preview.Height = bodyH
}

// totalRows is the height of the document on screen
func (e *Editor) totalRows() int {
	return e.viewport.TotalRows(e.derived.lines)
}

func (e *Editor) ensureCursorVisible() {
	e.layout()
	line, col := e.cursor.LineCol()
	e.viewport.EnsureCursorVisible(e.derived.lines, line, col)
}

// updateMenuState enables menu items that can run right now
func (e *Editor) updateMenuState() {
	doc := e.snapshot()
	e.menubar.SetItemDisabled(ui.ActionRevert, !doc.HasPath())
	e.menubar.SetItemDisabled(ui.ActionUndo, !e.undo.CanUndo())
	e.menubar.SetItemDisabled(ui.ActionRedo, !e.undo.CanRedo())
}

func (e *Editor) windowTitle() string {
	doc := e.snapshot()
	name := ui.DisplayName(doc.Path)
	if doc.Dirty {
		name = "*" + name
	}
	if e.derived.title != "" {
		return fmt.Sprintf("%s (%s) - %s", e.derived.title, name, config.AppName)
	}
	return name + " - " + config.AppName
}

func (e *Editor) updateStatus() {
	doc := e.snapshot()
	e.statusbar.SetFilename(doc.Path)
	e.statusbar.SetModified(doc.Dirty)
	e.statusbar.SetDraft(e.derived.draft)

	line, col := e.cursor.LineCol()
	e.statusbar.SetPosition(line+1, col+1)

	format := fileio.DefaultFormat
	if e.formats != nil && doc.HasPath() {
		format = e.formats.Format(doc.Path)
	}
	e.statusbar.SetFormat(format.Encoding.String(), format.LineEnding.String())
	e.statusbar.SetCounts(e.derived.stats.Words, e.derived.stats.Chars)
}

// modalBox renders the topmost dialog and its position on screen
func (e *Editor) modalBox() (string, dialogPosition, bool) {
	bodyH := e.bodyHeight()
	var box string
	switch {
	case e.message != nil:
		box = e.message.View(e.styles, e.width)
	case e.browser != nil:
		box = e.browser.View(e.width, bodyH)
	case e.list != nil:
		box = e.list.View(e.styles, e.width, bodyH)
	default:
		return "", dialogPosition{}, false
	}
	return box, centered(box, 0, 1, e.width, bodyH), true
}

// View implements tea.Model
func (e *Editor) View() string {
	e.derive()
	bodyH := e.bodyHeight()
	lines := e.derived.lines
	line, col := e.cursor.LineCol()

	var colors [][]syntax.ColorSpan
	if e.highlighter.Enabled() {
		colors = e.derived.colors
	}
	body := e.viewport.Render(lines, line, col, e.selection.LineRanges(e.buffer, e.cursor.Offset()), colors)
	if total := e.totalRows(); ui.Needed(bodyH, total) {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body,
			e.scrollbar.View(e.viewport.ScrollY(), bodyH, total))
	}
	if e.previewVisible() {
		pane := e.styles.PreviewBorder.Height(bodyH).Render(e.preview.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, pane)
	}

	if dropdown, x := e.menubar.Dropdown(); dropdown != "" {
		body = ui.Overlay(body, dropdown, x, 0)
	}
	if box, pos, ok := e.modalBox(); ok {
		body = ui.Overlay(body, box, pos.x, pos.y-1)
	}

	var sb strings.Builder
	sb.WriteString(e.menubar.View())
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n")
	if e.mode == ModeFind {
		e.find.Width = max(e.width-lipgloss.Width(e.find.Prompt)-1, 1)
		sb.WriteString(e.styles.MenuBar.Width(e.width).Render(e.find.View()))
		sb.WriteString("\n")
	}
	e.updateStatus()
	sb.WriteString(e.statusbar.View())
	return sb.String()
}
