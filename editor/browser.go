package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/cornish/marktivus/shell"
	"github.com/cornish/marktivus/ui"
)

// FileEntry represents a file or directory in the file browser
type FileEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

type browserKind int

const (
	browseOpen browserKind = iota
	browseSave
)

func (k browserKind) String() string {
	if k == browseSave {
		return "save"
	}
	return "open"
}

// browserResult reports what a key or click did to the browser
type browserResult struct {
	done bool
	path string
	ok   bool
}

// fileBrowser is the open and save dialog. Directories are always listed;
// files only when they pass the filter.
type fileBrowser struct {
	kind   browserKind
	id     string
	filter shell.Filter
	styles ui.Styles

	dir      string
	entries  []FileEntry
	selected int
	scroll   int
	visible  int // List rows on screen

	name      textinput.Model // Save only
	focusList bool
	confirm   string // Existing path waiting for overwrite confirmation
	err       string
}

func newFileBrowser(kind browserKind, id string, filter shell.Filter, styles ui.Styles, dir, suggested string) *fileBrowser {
	b := &fileBrowser{
		kind:    kind,
		id:      id,
		filter:  filter,
		styles:  styles,
		visible: 10,
	}

	b.name = textinput.New()
	b.name.Prompt = ""
	b.name.Placeholder = "untitled." + firstExt(filter)
	b.name.CharLimit = 255
	b.name.TextStyle = styles.DialogInput
	b.name.Cursor.SetMode(cursor.CursorStatic)

	if suggested != "" {
		if filepath.IsAbs(suggested) || strings.ContainsRune(suggested, filepath.Separator) {
			dir = filepath.Dir(suggested)
		}
		b.name.SetValue(filepath.Base(suggested))
		b.name.CursorEnd()
	}
	if kind == browseSave {
		b.name.Focus()
	} else {
		b.focusList = true
	}

	if err := b.load(dir); err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			b.load(home)
		}
	}
	return b
}

func firstExt(f shell.Filter) string {
	if len(f.Extensions) == 0 {
		return "md"
	}
	return f.Extensions[0]
}

// load reads a directory into the list. On failure the current listing
// stays and the error is shown.
func (b *fileBrowser) load(path string) error {
	path = filepath.Clean(path)
	entries, err := os.ReadDir(path)
	if err != nil {
		b.err = "Cannot open: " + err.Error()
		return err
	}
	b.err = ""

	var dirs, files []FileEntry
	for _, entry := range entries {
		if entry.IsDir() {
			// Info() on a directory can hang on stale network mounts
			dirs = append(dirs, FileEntry{Name: entry.Name(), IsDir: true})
			continue
		}
		if !b.filter.Matches(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileEntry{Name: entry.Name(), Size: info.Size()})
	}

	byName := func(list []FileEntry) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	b.entries = make([]FileEntry, 0, len(dirs)+len(files)+1)
	if filepath.Dir(path) != path {
		b.entries = append(b.entries, FileEntry{Name: "..", IsDir: true})
	}
	b.entries = append(b.entries, dirs...)
	b.entries = append(b.entries, files...)

	b.dir = path
	b.selected = 0
	b.scroll = 0
	return nil
}

// setVisible sets how many list rows fit on screen
func (b *fileBrowser) setVisible(n int) {
	b.visible = max(n, 3)
	b.clampScroll()
}

func (b *fileBrowser) moveSelection(delta int) {
	if len(b.entries) == 0 {
		return
	}
	b.selected = min(max(b.selected+delta, 0), len(b.entries)-1)
	b.clampScroll()
}

func (b *fileBrowser) clampScroll() {
	if b.selected < b.scroll {
		b.scroll = b.selected
	}
	if b.selected >= b.scroll+b.visible {
		b.scroll = b.selected - b.visible + 1
	}
	b.scroll = min(b.scroll, max(len(b.entries)-b.visible, 0))
	b.scroll = max(b.scroll, 0)
}

func (b *fileBrowser) parent() {
	if parent := filepath.Dir(b.dir); parent != b.dir {
		b.load(parent)
	}
}

func (b *fileBrowser) current() (FileEntry, bool) {
	if b.selected < 0 || b.selected >= len(b.entries) {
		return FileEntry{}, false
	}
	return b.entries[b.selected], true
}

// activate acts on the selected entry: enter a directory, pick a file.
func (b *fileBrowser) activate() browserResult {
	entry, ok := b.current()
	if !ok {
		return browserResult{}
	}
	if entry.IsDir {
		if entry.Name == ".." {
			b.parent()
		} else {
			b.load(filepath.Join(b.dir, entry.Name))
		}
		return browserResult{}
	}

	if b.kind == browseOpen {
		return browserResult{done: true, ok: true, path: filepath.Join(b.dir, entry.Name)}
	}
	b.name.SetValue(entry.Name)
	b.name.CursorEnd()
	b.focusName()
	return browserResult{}
}

func (b *fileBrowser) focusName() {
	b.focusList = false
	b.name.Focus()
}

func (b *fileBrowser) focusBrowser() {
	b.focusList = true
	b.name.Blur()
}

// submit resolves the typed name. Directories are entered, a missing
// extension is added and an existing file needs confirmation.
func (b *fileBrowser) submit() browserResult {
	name := strings.TrimSpace(b.name.Value())
	if name == "" {
		b.err = "Enter a file name"
		return browserResult{}
	}
	if strings.HasPrefix(name, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			name = filepath.Join(home, name[2:])
		}
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.dir, name)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if b.load(path) == nil {
			b.name.SetValue("")
		}
		return browserResult{}
	}

	path = b.filter.EnsureExtension(path)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			b.err = filepath.Base(path) + " is a directory"
			return browserResult{}
		}
		b.confirm = path
		return browserResult{}
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		b.err = "No such directory: " + filepath.Dir(path)
		return browserResult{}
	}
	return browserResult{done: true, ok: true, path: path}
}

// Update handles a key press
func (b *fileBrowser) Update(msg tea.KeyMsg) (browserResult, tea.Cmd) {
	if b.confirm != "" {
		switch msg.String() {
		case "y", "Y", "enter":
			path := b.confirm
			b.confirm = ""
			return browserResult{done: true, ok: true, path: path}, nil
		case "n", "N", "esc":
			b.confirm = ""
		}
		return browserResult{}, nil
	}

	switch msg.String() {
	case "esc", "ctrl+c":
		return browserResult{done: true}, nil
	case "tab", "shift+tab":
		if b.kind == browseSave {
			if b.focusList {
				b.focusName()
			} else {
				b.focusBrowser()
			}
		}
		return browserResult{}, nil
	}

	if b.kind == browseSave && !b.focusList {
		switch msg.String() {
		case "enter":
			return b.submit(), nil
		case "up", "down", "pgup", "pgdown":
			b.focusBrowser()
			return browserResult{}, nil
		}
		b.err = ""
		var cmd tea.Cmd
		b.name, cmd = b.name.Update(msg)
		return browserResult{}, cmd
	}

	switch msg.String() {
	case "enter":
		return b.activate(), nil
	case "backspace", "left":
		b.parent()
	case "up":
		b.moveSelection(-1)
	case "down":
		b.moveSelection(1)
	case "pgup":
		b.moveSelection(-b.visible)
	case "pgdown":
		b.moveSelection(b.visible)
	case "home":
		b.moveSelection(-len(b.entries))
	case "end":
		b.moveSelection(len(b.entries))
	default:
		if b.kind == browseSave && msg.Type == tea.KeyRunes {
			// Typing goes to the name field
			b.focusName()
			var cmd tea.Cmd
			b.name, cmd = b.name.Update(msg)
			return browserResult{}, cmd
		}
	}
	return browserResult{}, nil
}

// Rows before the first list entry: title, directory, separator
const browserListTop = 3

// Click handles a click on a dialog row. Clicking the selected entry
// again activates it.
func (b *fileBrowser) Click(row int) browserResult {
	i := row - browserListTop
	if i < 0 || i >= b.visible {
		if b.kind == browseSave && row == browserListTop+b.visible+1 {
			b.focusName()
		}
		return browserResult{}
	}
	idx := b.scroll + i
	if idx >= len(b.entries) {
		return browserResult{}
	}
	if b.kind == browseSave {
		b.focusBrowser()
	}
	if idx == b.selected {
		return b.activate()
	}
	b.selected = idx
	return browserResult{}
}

// Scroll moves the list by n rows
func (b *fileBrowser) Scroll(n int) {
	b.moveSelection(n)
}

// formatFileSize formats a file size in human-readable format
func formatFileSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// browserChrome is the number of rows that are not list entries
func (b *fileBrowser) browserChrome() int {
	rows := browserListTop + 3 // Separator, status, hint
	if b.kind == browseSave {
		rows++ // Name field
	}
	return rows + 2*dialogFrameY
}

// View renders the dialog for a screen area of width x height
func (b *fileBrowser) View(width, height int) string {
	inner := min(max(width-8, 30), 70)
	b.setVisible(min(height-b.browserChrome()-2, 15))

	title := " Open Markdown File "
	if b.kind == browseSave {
		title = " Save As "
	}

	db := newDialogBuilder(b.styles, inner)
	db.Title(title)
	db.Item(b.dir, b.styles.Subtle)
	db.Separator()

	for i := 0; i < b.visible; i++ {
		idx := b.scroll + i
		if idx >= len(b.entries) {
			db.Empty()
			continue
		}
		entry := b.entries[idx]

		label, size := entry.Name, ""
		style := b.styles.DialogListItem
		if entry.IsDir {
			label += string(filepath.Separator)
			style = b.styles.DialogListDir
		} else {
			size = formatFileSize(entry.Size)
		}
		if idx == b.selected && (b.focusList || b.kind == browseOpen) {
			style = b.styles.DialogListActive
		}
		gap := max(inner-runewidth.StringWidth(label)-len(size)-2, 1)
		db.Item(" "+label+strings.Repeat(" ", gap)+size, style)
	}

	db.Separator()
	if b.kind == browseSave {
		b.name.Width = inner - 8
		db.Raw(" Name: " + b.name.View())
	}

	switch {
	case b.confirm != "":
		db.Item(" Overwrite "+filepath.Base(b.confirm)+"? (y/n)", b.styles.Error)
	case b.err != "":
		db.Item(" "+b.err, b.styles.Error)
	default:
		db.Item(fmt.Sprintf(" %s files (%s)", b.filter.Name, "*."+strings.Join(b.filter.Extensions, ", *.")), b.styles.Subtle)
	}

	hint := " Enter: open  Backspace: up  Esc: cancel"
	if b.kind == browseSave {
		hint = " Enter: save  Tab: switch field  Esc: cancel"
	}
	db.Item(hint, b.styles.Subtle)

	return db.Render(false)
}
