package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/cornish/marktivus/config"
	"github.com/cornish/marktivus/markdown"
	"github.com/cornish/marktivus/ui"
)

// messageBox is a modal with a message and a row of buttons.
// onClose receives the chosen button index, or -1 for Esc.
type messageBox struct {
	id      string // Set when a bridge request is waiting on it
	title   string
	lines   []string
	buttons []string
	focus   int
	isError bool
	width   int
	onClose func(choice int) tea.Cmd

	btnRow   int // Row and inner width of the last render
	btnWidth int
}

// Update handles a key press; closed reports whether the box is done.
func (m *messageBox) Update(msg tea.KeyMsg) (closed bool, cmd tea.Cmd) {
	switch msg.String() {
	case "left", "shift+tab":
		m.focus = (m.focus + len(m.buttons) - 1) % len(m.buttons)
	case "right", "tab":
		m.focus = (m.focus + 1) % len(m.buttons)
	case "enter", " ":
		return true, m.close(m.focus)
	case "esc":
		return true, m.close(-1)
	default:
		if len(msg.Runes) == 1 {
			r := unicode.ToLower(msg.Runes[0])
			for i, b := range m.buttons {
				if unicode.ToLower([]rune(b)[0]) == r {
					return true, m.close(i)
				}
			}
		}
	}
	return false, nil
}

// Click handles a click at a row and column inside the box frame
func (m *messageBox) Click(row, col int) (closed bool, cmd tea.Cmd) {
	if row != m.btnRow {
		return false, nil
	}
	if i := m.buttonAt(col); i >= 0 {
		return true, m.close(i)
	}
	return false, nil
}

// buttonAt mirrors the layout of dialogBuilder.Buttons
func (m *messageBox) buttonAt(col int) int {
	widths := make([]int, len(m.buttons))
	total := len(m.buttons) - 1
	for i, b := range m.buttons {
		widths[i] = runewidth.StringWidth(b) + 6 // "[ " + " ]" and padding
		total += widths[i]
	}
	x := max((m.btnWidth-total)/2, 0)
	for i, w := range widths {
		if col >= x && col < x+w {
			return i
		}
		x += w + 1
	}
	return -1
}

func (m *messageBox) close(choice int) tea.Cmd {
	if m.onClose == nil {
		return nil
	}
	return m.onClose(choice)
}

// View renders the box
func (m *messageBox) View(styles ui.Styles, screenWidth int) string {
	width := m.width
	if width == 0 {
		width = 44
		for _, line := range m.lines {
			width = max(width, runewidth.StringWidth(line)+2)
		}
	}
	width = min(width, max(screenWidth-6, 20))

	db := newDialogBuilder(styles, width)
	db.Title(m.title)
	db.Empty()
	for _, line := range m.lines {
		db.Wrapped(line)
	}
	db.Empty()
	m.btnRow, m.btnWidth = db.Len(), db.width
	db.Buttons(m.buttons, m.focus)
	return db.Render(m.isError)
}

// newMessage creates a box with a single OK button
func newMessage(title, text string, isError bool, onClose func(int) tea.Cmd) *messageBox {
	return &messageBox{
		title:   title,
		lines:   strings.Split(text, "\n"),
		buttons: []string{"OK"},
		isError: isError,
		onClose: onClose,
	}
}

// newConfirm asks whether to save unsaved changes before continuing
func newConfirm(name string, onClose func(int) tea.Cmd) *messageBox {
	return &messageBox{
		title:   "Unsaved Changes",
		lines:   []string{fmt.Sprintf("Save changes to %s?", name)},
		buttons: []string{"Save", "Don't Save", "Cancel"},
		onClose: onClose,
	}
}

// Button order of newConfirm
const (
	confirmSave = iota
	confirmDiscard
	confirmCancel
)

func aboutText(version, previewStyle string) string {
	return strings.Join([]string{
		"marktivus " + version,
		"",
		"A markdown editor for the terminal.",
		"Preview rendering by glamour, outline by goldmark.",
		"Preview style: " + previewStyle,
	}, "\n")
}

// newHelpDialog lists the shortcuts, taking configurable ones from keys
func newHelpDialog(keys *config.KeybindingsConfig) *listDialog {
	d := &listDialog{
		title:   " Keyboard Shortcuts ",
		hint:    " Up/Down: scroll  Esc: close",
		visible: 10,
	}
	for _, action := range config.AllActions() {
		if binding := keys.GetBinding(action).DisplayString(); binding != "" {
			d.items = append(d.items, listEntry{label: config.ActionNames[action], detail: binding})
		}
	}
	d.items = append(d.items,
		listEntry{"Undo / redo", "Ctrl+Z / Ctrl+Y"},
		listEntry{"Cut, copy, paste", "Ctrl+X / C / V"},
		listEntry{"Select all", "Ctrl+A"},
		listEntry{"Find next", "F3"},
		listEntry{"Select text", "Shift+Arrows"},
		listEntry{"Move by word", "Ctrl+Left/Right"},
		listEntry{"Start or end of file", "Ctrl+Home/End"},
		listEntry{"Open the menu", "F10 / Alt+letter"},
	)
	return d
}

// listEntry is one row of a listDialog
type listEntry struct {
	label  string
	detail string // Right-aligned
}

// listDialog lets the user pick one entry of a list, such as a heading to
// jump to or a recent file to open
type listDialog struct {
	title    string
	empty    string // Shown when there are no items
	hint     string
	items    []listEntry
	selected int
	scroll   int
	visible  int
	onPick   func(i int) tea.Cmd
}

func newOutlineDialog(headings []markdown.Heading, cursorLine int, jump func(line int)) *listDialog {
	d := &listDialog{
		title:   " Outline ",
		empty:   " No headings",
		hint:    " Enter: jump  Esc: close",
		visible: 10,
		onPick: func(i int) tea.Cmd {
			jump(headings[i].Line)
			return nil
		},
	}
	for i, h := range headings {
		d.items = append(d.items, listEntry{
			label:  strings.Repeat("  ", h.Level-1) + h.Text,
			detail: strconv.Itoa(h.Line + 1),
		})
		// Start on the heading the cursor is under
		if h.Line <= cursorLine {
			d.selected = i
		}
	}
	d.clamp()
	return d
}

func newRecentDialog(paths []string, open func(path string) tea.Cmd) *listDialog {
	d := &listDialog{
		title:   " Recent Files ",
		empty:   " No recent files",
		hint:    " Enter: open  Esc: close",
		visible: 10,
		onPick: func(i int) tea.Cmd {
			return open(paths[i])
		},
	}
	for _, path := range paths {
		d.items = append(d.items, listEntry{label: filepath.Base(path), detail: shortDir(filepath.Dir(path))})
	}
	return d
}

// shortDir writes dir relative to the home directory when it is inside it
func shortDir(dir string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dir
	}
	if rel, err := filepath.Rel(home, dir); err == nil && !strings.HasPrefix(rel, "..") {
		if rel == "." {
			return "~"
		}
		return filepath.Join("~", rel)
	}
	return dir
}

func (d *listDialog) clamp() {
	if len(d.items) == 0 {
		d.selected, d.scroll = 0, 0
		return
	}
	d.selected = min(max(d.selected, 0), len(d.items)-1)
	if d.selected < d.scroll {
		d.scroll = d.selected
	}
	if d.selected >= d.scroll+d.visible {
		d.scroll = d.selected - d.visible + 1
	}
	d.scroll = max(min(d.scroll, len(d.items)-d.visible), 0)
}

func (d *listDialog) pick(i int) tea.Cmd {
	if d.onPick == nil {
		return nil
	}
	return d.onPick(i)
}

// Update handles a key press. done reports that the dialog should close.
func (d *listDialog) Update(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		return true, nil
	case "enter":
		if len(d.items) == 0 {
			return true, nil
		}
		return true, d.pick(d.selected)
	case "up":
		d.selected--
	case "down":
		d.selected++
	case "pgup":
		d.selected -= d.visible
	case "pgdown":
		d.selected += d.visible
	case "home":
		d.selected = 0
	case "end":
		d.selected = len(d.items) - 1
	}
	d.clamp()
	return false, nil
}

// Rows before the first item: title, separator
const listTop = 2

// Click selects a row; clicking the selected row picks it
func (d *listDialog) Click(row int) (done bool, cmd tea.Cmd) {
	idx := d.scroll + row - listTop
	if row < listTop || idx >= len(d.items) || row-listTop >= d.visible {
		return false, nil
	}
	if idx == d.selected {
		return true, d.pick(idx)
	}
	d.selected = idx
	return false, nil
}

// Scroll moves the selection by n rows
func (d *listDialog) Scroll(n int) {
	d.selected += n
	d.clamp()
}

// View renders the list
func (d *listDialog) View(styles ui.Styles, width, height int) string {
	inner := min(max(width-10, 30), 60)
	d.visible = max(min(height-6, 15), 3)
	d.clamp()

	detailW := 0
	for _, it := range d.items {
		detailW = max(detailW, runewidth.StringWidth(it.detail))
	}
	detailW = min(detailW, inner/2)
	labelW := inner - detailW - 3

	db := newDialogBuilder(styles, inner)
	db.Title(d.title)
	db.Separator()
	if len(d.items) == 0 {
		db.Item(d.empty, styles.Subtle)
	}
	for i := d.scroll; i < len(d.items) && i < d.scroll+d.visible; i++ {
		it := d.items[i]
		style := styles.DialogListItem
		if i == d.selected {
			style = styles.DialogListActive
		}
		label := runewidth.FillRight(runewidth.Truncate(it.label, labelW, "…"), labelW)
		detail := it.detail
		if w := runewidth.StringWidth(detail); w > detailW {
			// Keep the end of long directories
			detail = runewidth.TruncateLeft(detail, w-detailW+1, "…")
		}
		db.Item(" "+label+" "+runewidth.FillLeft(detail, detailW), style)
	}
	db.Separator()
	db.Item(d.hint, styles.Subtle)
	return db.Render(false)
}
