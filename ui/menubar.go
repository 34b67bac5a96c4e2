package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/cornish/marktivus/config"
)

// MenuAction represents an action triggered by a menu item
type MenuAction int

const (
	ActionNone MenuAction = iota
	// File menu
	ActionNew
	ActionOpen
	ActionSave
	ActionSaveAs
	ActionRevert
	ActionRecent
	ActionExit
	// Edit menu
	ActionUndo
	ActionRedo
	ActionCut
	ActionCopy
	ActionPaste
	ActionSelectAll
	ActionFind
	ActionFindNext
	// Format menu
	ActionBold
	ActionItalic
	ActionHeading
	ActionLink
	ActionImage
	ActionTable
	ActionRule
	ActionBulletList
	ActionNumberedList
	ActionTaskList
	ActionQuote
	ActionCodeBlock
	// View menu
	ActionPreview
	ActionOutline
	ActionLineNumbers
	ActionWordWrap
	ActionSyntaxHighlight
	// Help menu
	ActionHelp
	ActionAbout
)

// MenuItem represents a single menu option
type MenuItem struct {
	Label    string
	Shortcut string // Shown right-aligned, e.g. "Ctrl+S"
	HotKey   rune   // Letter that selects the item while the menu is open
	Action   MenuAction
	Disabled bool
	Checked  *bool // Non-nil for toggles
}

// Menu represents a dropdown menu
type Menu struct {
	Label string
	Items []MenuItem
}

// MenuBar represents the top menu bar
type MenuBar struct {
	menus      []Menu
	activeMenu int // -1 if no menu is open
	activeItem int
	isOpen     bool
	width      int
	styles     Styles
}

func toggle() *bool { return new(bool) }

// NewMenuBar creates the menu bar. Shortcut labels come from the key bindings.
func NewMenuBar(styles Styles, keys *config.KeybindingsConfig) *MenuBar {
	if keys == nil {
		keys = config.DefaultKeybindings()
	}
	sc := func(b config.KeyBinding) string { return config.FormatKeyForDisplay(b.Primary) }

	return &MenuBar{
		menus: []Menu{
			{
				Label: "File",
				Items: []MenuItem{
					{Label: "New", Shortcut: sc(keys.New), HotKey: 'N', Action: ActionNew},
					{Label: "Open...", Shortcut: sc(keys.Open), HotKey: 'O', Action: ActionOpen},
					{Label: "Save", Shortcut: sc(keys.Save), HotKey: 'S', Action: ActionSave},
					{Label: "Save As...", Shortcut: sc(keys.SaveAs), HotKey: 'A', Action: ActionSaveAs},
					{Label: "Revert", Shortcut: sc(keys.Revert), HotKey: 'R', Action: ActionRevert},
					{Label: "Recent Files...", Shortcut: sc(keys.RecentFiles), HotKey: 'F', Action: ActionRecent},
					{Label: "Exit", Shortcut: sc(keys.Quit), HotKey: 'X', Action: ActionExit},
				},
			},
			{
				Label: "Edit",
				Items: []MenuItem{
					{Label: "Undo", Shortcut: "Ctrl+Z", HotKey: 'U', Action: ActionUndo},
					{Label: "Redo", Shortcut: "Ctrl+Y", HotKey: 'R', Action: ActionRedo},
					{Label: "Cut", Shortcut: "Ctrl+X", HotKey: 'T', Action: ActionCut},
					{Label: "Copy", Shortcut: "Ctrl+C", HotKey: 'C', Action: ActionCopy},
					{Label: "Paste", Shortcut: "Ctrl+V", HotKey: 'P', Action: ActionPaste},
					{Label: "Select All", Shortcut: "Ctrl+A", HotKey: 'L', Action: ActionSelectAll},
					{Label: "Find...", Shortcut: sc(keys.Find), HotKey: 'F', Action: ActionFind},
					{Label: "Find Next", Shortcut: "F3", HotKey: 'N', Action: ActionFindNext},
				},
			},
			{
				Label: "Format",
				Items: []MenuItem{
					{Label: "Bold", Shortcut: sc(keys.Bold), HotKey: 'B', Action: ActionBold},
					{Label: "Italic", Shortcut: sc(keys.Italic), HotKey: 'I', Action: ActionItalic},
					{Label: "Heading", Shortcut: sc(keys.Heading), HotKey: 'H', Action: ActionHeading},
					{Label: "Link", Shortcut: sc(keys.Link), HotKey: 'L', Action: ActionLink},
					{Label: "Image", Shortcut: sc(keys.Image), HotKey: 'M', Action: ActionImage},
					{Label: "Table", Shortcut: sc(keys.Table), HotKey: 'T', Action: ActionTable},
					{Label: "Horizontal Rule", Shortcut: sc(keys.Rule), HotKey: 'R', Action: ActionRule},
					{Label: "Bullet List", Shortcut: sc(keys.BulletList), HotKey: 'U', Action: ActionBulletList},
					{Label: "Numbered List", Shortcut: sc(keys.NumberedList), HotKey: 'N', Action: ActionNumberedList},
					{Label: "Task List", Shortcut: sc(keys.TaskList), HotKey: 'K', Action: ActionTaskList},
					{Label: "Quote", Shortcut: sc(keys.Quote), HotKey: 'Q', Action: ActionQuote},
					{Label: "Code Block", Shortcut: sc(keys.CodeBlock), HotKey: 'C', Action: ActionCodeBlock},
				},
			},
			{
				Label: "View",
				Items: []MenuItem{
					{Label: "Preview", Shortcut: sc(keys.Preview), HotKey: 'P', Action: ActionPreview, Checked: toggle()},
					{Label: "Outline...", Shortcut: sc(keys.Outline), HotKey: 'O', Action: ActionOutline},
					{Label: "Line Numbers", Shortcut: sc(keys.ToggleLineNumbers), HotKey: 'L', Action: ActionLineNumbers, Checked: toggle()},
					{Label: "Word Wrap", Shortcut: sc(keys.ToggleWordWrap), HotKey: 'W', Action: ActionWordWrap, Checked: toggle()},
					{Label: "Syntax Highlight", HotKey: 'S', Action: ActionSyntaxHighlight, Checked: toggle()},
				},
			},
			{
				Label: "Help",
				Items: []MenuItem{
					{Label: "Keys", Shortcut: sc(keys.Help), HotKey: 'K', Action: ActionHelp},
					{Label: "About", HotKey: 'A', Action: ActionAbout},
				},
			},
		},
		activeMenu: -1,
		styles:     styles,
	}
}

// SetWidth sets the width of the menu bar
func (m *MenuBar) SetWidth(width int) {
	m.width = width
}

// IsOpen returns true if a menu dropdown is open
func (m *MenuBar) IsOpen() bool {
	return m.isOpen
}

// OpenMenu opens the menu at the given index
func (m *MenuBar) OpenMenu(index int) {
	if index >= 0 && index < len(m.menus) {
		m.activeMenu = index
		m.activeItem = 0
		m.isOpen = true
	}
}

// OpenByHotKey opens the menu whose label starts with r (Alt+letter).
func (m *MenuBar) OpenByHotKey(r rune) bool {
	for i, menu := range m.menus {
		if unicode.ToUpper([]rune(menu.Label)[0]) == unicode.ToUpper(r) {
			m.OpenMenu(i)
			return true
		}
	}
	return false
}

// Close closes any open menu
func (m *MenuBar) Close() {
	m.isOpen = false
	m.activeMenu = -1
	m.activeItem = 0
}

// NextMenu moves to the next menu
func (m *MenuBar) NextMenu() {
	m.activeMenu = (m.activeMenu + 1) % len(m.menus)
	m.activeItem = 0
}

// PrevMenu moves to the previous menu
func (m *MenuBar) PrevMenu() {
	m.activeMenu--
	if m.activeMenu < 0 {
		m.activeMenu = len(m.menus) - 1
	}
	m.activeItem = 0
}

func (m *MenuBar) current() []MenuItem {
	if !m.isOpen || m.activeMenu < 0 || m.activeMenu >= len(m.menus) {
		return nil
	}
	return m.menus[m.activeMenu].Items
}

// NextItem moves to the next enabled item in the open menu
func (m *MenuBar) NextItem() {
	m.step(1)
}

// PrevItem moves to the previous enabled item in the open menu
func (m *MenuBar) PrevItem() {
	m.step(-1)
}

func (m *MenuBar) step(delta int) {
	items := m.current()
	for range items {
		m.activeItem = (m.activeItem + delta + len(items)) % len(items)
		if !items[m.activeItem].Disabled {
			return
		}
	}
}

// Select returns the action of the highlighted item and closes the menu
func (m *MenuBar) Select() MenuAction {
	items := m.current()
	if m.activeItem < 0 || m.activeItem >= len(items) || items[m.activeItem].Disabled {
		return ActionNone
	}
	action := items[m.activeItem].Action
	m.Close()
	return action
}

// SelectByHotKey returns the action of the item with the given hotkey in the open menu
func (m *MenuBar) SelectByHotKey(key rune) MenuAction {
	for _, item := range m.current() {
		if !item.Disabled && unicode.ToUpper(item.HotKey) == unicode.ToUpper(key) {
			m.Close()
			return item.Action
		}
	}
	return ActionNone
}

func (m *MenuBar) find(action MenuAction) *MenuItem {
	for i := range m.menus {
		for j := range m.menus[i].Items {
			if m.menus[i].Items[j].Action == action {
				return &m.menus[i].Items[j]
			}
		}
	}
	return nil
}

// SetItemDisabled sets the disabled state of a menu item by action
func (m *MenuBar) SetItemDisabled(action MenuAction, disabled bool) {
	if item := m.find(action); item != nil {
		item.Disabled = disabled
	}
}

// SetChecked sets the state shown for a toggle item
func (m *MenuBar) SetChecked(action MenuAction, checked bool) {
	if item := m.find(action); item != nil && item.Checked != nil {
		*item.Checked = checked
	}
}

func (m *MenuBar) menuItemWidth(index int) int {
	return lipgloss.Width(m.menus[index].Label) + 4 // Padding(0, 2)
}

// HandleClick handles a click on the menu bar (y == 0) or the open dropdown
func (m *MenuBar) HandleClick(x, y int) (bool, MenuAction) {
	if y == 0 {
		pos := 0
		for i := range m.menus {
			w := m.menuItemWidth(i)
			if x >= pos && x < pos+w {
				if m.isOpen && m.activeMenu == i {
					m.Close()
				} else {
					m.OpenMenu(i)
				}
				return true, ActionNone
			}
			pos += w
		}
		m.Close()
		return true, ActionNone
	}

	if m.isOpen {
		offset := m.dropdownOffset()
		width := lipgloss.Width(m.renderDropdownContent())
		itemIndex := y - 2 // Menu bar row and top border
		if x >= offset && x < offset+width && itemIndex >= 0 && itemIndex < len(m.current()) {
			m.activeItem = itemIndex
			return true, m.Select()
		}
	}
	return false, ActionNone
}

// Height returns the total height (menu bar + dropdown if open)
func (m *MenuBar) Height() int {
	if !m.isOpen {
		return 1
	}
	return 1 + len(m.current()) + 2
}

// underlineChar underlines the first occurrence of c in s, ignoring case
func underlineChar(s string, c rune, base lipgloss.Style) string {
	runes := []rune(s)
	for i, r := range runes {
		if c != 0 && unicode.ToUpper(r) == unicode.ToUpper(c) {
			return base.Render(string(runes[:i])) +
				base.Underline(true).Render(string(r)) +
				base.Render(string(runes[i+1:]))
		}
	}
	return base.Render(s)
}

// View renders the menu bar (the dropdown is drawn by Dropdown)
func (m *MenuBar) View() string {
	var sb strings.Builder
	used := 0
	for i, menu := range m.menus {
		style := m.styles.MenuItem
		if m.isOpen && i == m.activeMenu {
			style = m.styles.MenuItemActive
		}
		inner := style.Padding(0)
		sb.WriteString(inner.Render("  "))
		sb.WriteString(underlineChar(menu.Label, []rune(menu.Label)[0], inner))
		sb.WriteString(inner.Render("  "))
		used += m.menuItemWidth(i)
	}
	if used < m.width {
		sb.WriteString(m.styles.MenuBar.Render(strings.Repeat(" ", m.width-used)))
	}
	return sb.String()
}

func (m *MenuBar) dropdownOffset() int {
	offset := 0
	for i := 0; i < m.activeMenu; i++ {
		offset += m.menuItemWidth(i)
	}
	return offset
}

// Dropdown returns the open dropdown and the column it starts at, or "".
func (m *MenuBar) Dropdown() (string, int) {
	if !m.isOpen {
		return "", 0
	}
	return m.renderDropdownContent(), m.dropdownOffset()
}

func (m *MenuBar) renderDropdownContent() string {
	items := m.current()

	label := func(item MenuItem) string {
		if item.Checked == nil {
			return item.Label
		}
		if *item.Checked {
			return "[x] " + item.Label
		}
		return "[ ] " + item.Label
	}

	maxWidth := 0
	for _, item := range items {
		w := lipgloss.Width(label(item))
		if item.Shortcut != "" {
			w += 2 + lipgloss.Width(item.Shortcut)
		}
		maxWidth = max(maxWidth, w)
	}

	rows := make([]string, 0, len(items))
	for i, item := range items {
		style := m.styles.MenuOption
		switch {
		case item.Disabled:
			style = m.styles.MenuOptionDisabled
		case i == m.activeItem:
			style = m.styles.MenuOptionActive
		}

		text := label(item)
		gap := maxWidth - lipgloss.Width(text) - lipgloss.Width(item.Shortcut)
		inner := style.Padding(0)
		row := inner.Render(" ") +
			underlineChar(text, item.HotKey, inner) +
			inner.Render(strings.Repeat(" ", gap)+item.Shortcut+" ")
		rows = append(rows, row)
	}

	return m.styles.MenuDropdown.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
