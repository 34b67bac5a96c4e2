package editor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cornish/marktivus/ui"
)

// replace swaps [start, end) for text, records the change for undo and
// reports the new text. The cursor ends up after the inserted text.
func (e *Editor) replace(start, end int, text string) {
	if start > end {
		start, end = end, start
	}
	before := e.cursor.Offset()
	removed := e.buffer.Replace(start, end, text)
	after := start + utf8.RuneCountInString(text)
	if removed == "" && text == "" {
		return
	}

	e.undo.Push(Change{
		Pos:          start,
		Removed:      removed,
		Inserted:     text,
		CursorBefore: before,
		CursorAfter:  after,
	})
	e.cursor.SetOffset(after)
	e.selection.Clear()
	e.changed()
}

// changed reports an edit to the owner of the document
func (e *Editor) changed() {
	e.rev++
	if e.onChange != nil {
		e.onChange(e.generation, e.buffer.String())
	}
	e.ensureCursorVisible()
}

// selectRange selects [anchor, cur) with the cursor at cur
func (e *Editor) selectRange(anchor, cur int) {
	e.selection.Set(anchor)
	e.cursor.SetOffset(cur)
}

// insertText types text over the selection
func (e *Editor) insertText(text string) {
	pos := e.cursor.Offset()
	start, end, ok := e.selection.Range(pos)
	if !ok {
		start, end = pos, pos
	}
	e.replace(start, end, text)
}

func (e *Editor) deleteSelection() bool {
	start, end, ok := e.selection.Range(e.cursor.Offset())
	if !ok {
		return false
	}
	e.replace(start, end, "")
	return true
}

func (e *Editor) backspace() {
	if e.deleteSelection() {
		return
	}
	if pos := e.cursor.Offset(); pos > 0 {
		e.replace(pos-1, pos, "")
	}
}

func (e *Editor) deleteForward() {
	if e.deleteSelection() {
		return
	}
	if pos := e.cursor.Offset(); pos < e.buffer.Len() {
		e.replace(pos, pos+1, "")
	}
}

// listItem matches the start of a list item or block quote line
var listItem = regexp.MustCompile(`^(\s*)(?:([-*+])|(\d+)([.)])|(>))(\s+)(\[[ xX]\]\s+)?`)

// continuation returns the prefix a new line after line starts with and
// whether line is a list item or quote.
func continuation(line string) (prefix string, item bool) {
	m := listItem.FindStringSubmatch(line)
	if m == nil {
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		return indent, false
	}

	indent, bullet, num, delim, quote, space, task := m[1], m[2], m[3], m[4], m[5], m[6], m[7]
	switch {
	case bullet != "":
		prefix = indent + bullet + space
	case num != "":
		n, _ := strconv.Atoi(num)
		prefix = indent + strconv.Itoa(n+1) + delim + space
	case quote != "":
		prefix = indent + quote + space
	}
	if task != "" {
		prefix += "[ ] "
	}
	return prefix, true
}

// newline breaks the line, continuing a list or the indentation. Enter on
// an empty list item ends the list instead.
func (e *Editor) newline() {
	e.undo.Seal()
	defer e.undo.Seal()

	if _, _, ok := e.selection.Range(e.cursor.Offset()); ok {
		e.insertText("\n")
		return
	}

	line, col := e.cursor.LineCol()
	text := e.buffer.Line(line)
	prefix, item := continuation(text)

	if item {
		m := listItem.FindString(text)
		if strings.TrimSpace(text) == strings.TrimSpace(m) && col == utf8.RuneCountInString(text) {
			start := e.buffer.LineStart(line)
			e.replace(start, start+col, "")
			return
		}
	}
	if col < utf8.RuneCountInString(prefix) {
		prefix = ""
	}
	e.insertText("\n" + prefix)
}

// outdent removes one level of indentation from the cursor line
func (e *Editor) outdent() {
	line, _ := e.cursor.LineCol()
	text := e.buffer.Line(line)
	n := 0
	switch {
	case strings.HasPrefix(text, "\t"):
		n = 1
	default:
		for n < len(text) && n < e.cfg.Editor.TabWidth && text[n] == ' ' {
			n++
		}
	}
	if n == 0 {
		return
	}
	pos := e.cursor.Offset()
	start := e.buffer.LineStart(line)
	e.replace(start, start+n, "")
	e.cursor.SetOffset(max(pos-n, start))
}

// toggleWrap wraps the selection, or the word at the cursor, in marker.
// Text already wrapped in marker is unwrapped.
func (e *Editor) toggleWrap(marker string) {
	e.undo.Seal()
	defer e.undo.Seal()

	pos := e.cursor.Offset()
	n := utf8.RuneCountInString(marker)
	start, end, selected := e.selection.Range(pos)
	if !selected {
		start, end = e.wordAround(pos)
	}

	if start == end {
		e.replace(pos, pos, marker+marker)
		e.cursor.SetOffset(pos + n)
		return
	}

	inner := e.buffer.Slice(start, end)
	if e.buffer.Slice(start-n, start) == marker && e.buffer.Slice(end, end+n) == marker && start >= n {
		e.replace(start-n, end+n, inner)
		if selected {
			e.selectRange(start-n, end-n)
		} else {
			e.cursor.SetOffset(pos - n)
		}
		return
	}

	e.replace(start, end, marker+inner+marker)
	if selected {
		e.selectRange(start+n, end+n)
	} else {
		e.cursor.SetOffset(pos + n)
	}
}

// wordAround returns the word under or just before pos, or an empty range
func (e *Editor) wordAround(pos int) (int, int) {
	switch {
	case isWordChar(e.buffer.RuneAt(pos)):
		return WordAt(e.buffer, pos)
	case pos > 0 && isWordChar(e.buffer.RuneAt(pos-1)):
		return WordAt(e.buffer, pos-1)
	}
	return pos, pos
}

// headingLevel returns the ATX heading level of line, 0 if none
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || (n < len(line) && line[n] != ' ' && line[n] != '\t') {
		return 0
	}
	return n
}

// cycleHeading steps the cursor line through heading levels 1 to 6 and
// back to a paragraph.
func (e *Editor) cycleHeading() {
	e.undo.Seal()
	defer e.undo.Seal()

	line, _ := e.cursor.LineCol()
	text := e.buffer.Line(line)
	level := headingLevel(text)
	old := level
	if level > 0 && level < len(text) {
		old++ // The space after the hashes
	}

	next := ""
	if level < 6 {
		next = strings.Repeat("#", level+1) + " "
	}

	pos := e.cursor.Offset()
	start := e.buffer.LineStart(line)
	e.replace(start, start+old, next)
	e.cursor.SetOffset(max(pos-old+len(next), start+len(next)))
}

// insertLink turns the selection into a link. Selected URLs become the
// target, anything else the label.
func (e *Editor) insertLink() {
	e.undo.Seal()
	defer e.undo.Seal()

	pos := e.cursor.Offset()
	start, end, ok := e.selection.Range(pos)
	if !ok {
		start, end = pos, pos
	}
	sel := e.buffer.Slice(start, end)

	if strings.HasPrefix(sel, "http://") || strings.HasPrefix(sel, "https://") {
		e.replace(start, end, "[]("+sel+")")
		e.cursor.SetOffset(start + 1)
		return
	}
	e.replace(start, end, "["+sel+"]()")
	e.cursor.SetOffset(start + utf8.RuneCountInString(sel) + 3)
}

func (e *Editor) undoChange() {
	c := e.undo.Undo()
	if c == nil {
		return
	}
	e.buffer.Replace(c.Pos, c.Pos+utf8.RuneCountInString(c.Inserted), c.Removed)
	e.cursor.SetOffset(c.CursorBefore)
	e.selection.Clear()
	e.changed()
}

func (e *Editor) redoChange() {
	c := e.undo.Redo()
	if c == nil {
		return
	}
	e.buffer.Replace(c.Pos, c.Pos+utf8.RuneCountInString(c.Removed), c.Inserted)
	e.cursor.SetOffset(c.CursorAfter)
	e.selection.Clear()
	e.changed()
}

func (e *Editor) copySelection() bool {
	text := e.selection.Text(e.buffer, e.cursor.Offset())
	if text == "" {
		return false
	}
	if err := e.clipboard.Copy(text); err != nil {
		e.statusbar.SetMessage("Copy failed: "+err.Error(), ui.MessageError)
		return false
	}
	return true
}

func (e *Editor) cut() {
	if e.copySelection() {
		e.undo.Seal()
		e.deleteSelection()
		e.undo.Seal()
	}
}

func (e *Editor) paste() {
	text, err := e.clipboard.Paste()
	if err != nil {
		e.statusbar.SetMessage("Paste failed: "+err.Error(), ui.MessageError)
		return
	}
	if text == "" {
		return
	}
	e.undo.Seal()
	e.insertText(text)
	e.undo.Seal()
}

func (e *Editor) selectAll() {
	e.selectRange(0, e.buffer.Len())
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// openFind shows the find bar, seeded with a one-line selection
func (e *Editor) openFind() {
	if sel := e.selection.Text(e.buffer, e.cursor.Offset()); sel != "" && !strings.Contains(sel, "\n") {
		e.find.SetValue(sel)
	}
	e.find.Focus()
	e.find.CursorEnd()
	e.mode = ModeFind
	e.layout()
}

func (e *Editor) closeFind() {
	e.find.Blur()
	e.mode = ModeNormal
	e.layout()
}

// findNext selects the next case-insensitive match after the cursor,
// wrapping around at the end.
func (e *Editor) findNext() bool {
	query := []rune(e.find.Value())
	if len(query) == 0 {
		e.openFind()
		return false
	}
	for i, r := range query {
		query[i] = unicode.ToLower(r)
	}

	text := []rune(e.buffer.String())
	for i, r := range text {
		text[i] = unicode.ToLower(r)
	}

	idx := indexRunes(text, query, e.cursor.Offset())
	wrapped := false
	if idx < 0 {
		idx = indexRunes(text, query, 0)
		wrapped = true
	}
	if idx < 0 {
		e.statusbar.SetMessage("Not found: "+e.find.Value(), ui.MessageError)
		return false
	}

	e.selectRange(idx, idx+len(query))
	e.undo.Seal()
	e.ensureCursorVisible()
	if wrapped {
		e.statusbar.SetMessage("Search wrapped", ui.MessageInfo)
	}
	return true
}

func indexRunes(text, query []rune, from int) int {
	for i := max(from, 0); i+len(query) <= len(text); i++ {
		match := true
		for j, r := range query {
			if text[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
