package editor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kinds of list toggleList converts lines to
const (
	listBullet = iota
	listNumbered
	listTask
)

var (
	// listMarker matches the marker toggleList adds and removes
	listMarker = regexp.MustCompile(`^(\s*)(?:[-*+]|\d+[.)])\s+(\[[ xX]\]\s+)?`)
	// quoteMarker matches one level of block quote
	quoteMarker = regexp.MustCompile(`^(\s*)> ?`)
)

const tableSkeleton = "| Column 1 | Column 2 |\n| -------- | -------- |\n|          |          |"

func markerKind(m []string) int {
	switch {
	case m[2] != "":
		return listTask
	case strings.ContainsAny(m[0], "0123456789"):
		return listNumbered
	}
	return listBullet
}

func isBlankLine(s string) bool {
	return strings.TrimSpace(s) == ""
}

// lineSpan returns the lines the selection touches, or the cursor line
func (e *Editor) lineSpan() (first, last int) {
	pos := e.cursor.Offset()
	start, end, ok := e.selection.Range(pos)
	if !ok {
		line, _ := e.buffer.LineCol(pos)
		return line, line
	}
	first, _ = e.buffer.LineCol(start)
	last, col := e.buffer.LineCol(end)
	if col == 0 && last > first {
		last--
	}
	return first, last
}

// rewriteLines replaces lines first to last with fn applied to each. A
// selection grows to cover the rewritten lines; otherwise the cursor keeps
// its place in the text.
func (e *Editor) rewriteLines(first, last int, fn func(line string) string) {
	e.undo.Seal()
	defer e.undo.Seal()

	pos := e.cursor.Offset()
	_, _, selected := e.selection.Range(pos)
	curLine, curCol := e.cursor.LineCol()

	out := make([]string, 0, last-first+1)
	delta := 0
	for i := first; i <= last; i++ {
		old := e.buffer.Line(i)
		line := fn(old)
		if i == curLine {
			delta = utf8.RuneCountInString(line) - utf8.RuneCountInString(old)
		}
		out = append(out, line)
	}

	start, end := e.buffer.LineStart(first), e.buffer.LineEnd(last)
	text := strings.Join(out, "\n")
	e.replace(start, end, text)
	if selected {
		e.selectRange(start, start+utf8.RuneCountInString(text))
		return
	}
	e.cursor.SetLineCol(curLine, max(curCol+delta, 0))
}

// toggleList turns the selected lines into a list of kind, or back into
// plain lines when they all are one already
func (e *Editor) toggleList(kind int) {
	first, last := e.lineSpan()
	remove := true
	for i := first; i <= last; i++ {
		line := e.buffer.Line(i)
		if first != last && isBlankLine(line) {
			continue
		}
		m := listMarker.FindStringSubmatch(line)
		if m == nil || markerKind(m) != kind {
			remove = false
			break
		}
	}

	n := 0
	e.rewriteLines(first, last, func(line string) string {
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		rest := line[len(indent):]
		if m := listMarker.FindStringSubmatch(line); m != nil {
			indent, rest = m[1], line[len(m[0]):]
		}
		switch {
		case remove:
			return indent + rest
		case first != last && isBlankLine(line):
			return line
		}
		n++
		switch kind {
		case listNumbered:
			return indent + strconv.Itoa(n) + ". " + rest
		case listTask:
			return indent + "- [ ] " + rest
		}
		return indent + "- " + rest
	})
}

// toggleQuote quotes the selected lines, or unquotes them when all of
// them are quoted
func (e *Editor) toggleQuote() {
	first, last := e.lineSpan()
	remove := true
	for i := first; i <= last; i++ {
		line := e.buffer.Line(i)
		if !quoteMarker.MatchString(line) && !(first != last && isBlankLine(line)) {
			remove = false
			break
		}
	}

	e.rewriteLines(first, last, func(line string) string {
		if remove {
			if m := quoteMarker.FindStringSubmatch(line); m != nil {
				return m[1] + line[len(m[0]):]
			}
			return line
		}
		if isBlankLine(line) {
			return ">"
		}
		return "> " + line
	})
}

// insertBlock puts block on lines of its own, apart from the surrounding
// paragraphs, and returns the offset it starts at. An empty cursor line is
// replaced; otherwise the block goes after it.
func (e *Editor) insertBlock(block string) int {
	e.undo.Seal()
	defer e.undo.Seal()

	line, _ := e.cursor.LineCol()
	blank := func(i int) bool {
		return i < 0 || i >= e.buffer.LineCount() || isBlankLine(e.buffer.Line(i))
	}

	var start, end int
	before, after := "", ""
	if blank(line) {
		start, end = e.buffer.LineStart(line), e.buffer.LineEnd(line)
		if !blank(line - 1) {
			before = "\n"
		}
	} else {
		start = e.buffer.LineEnd(line)
		end = start
		before = "\n\n"
	}
	if !blank(line + 1) {
		after = "\n"
	}

	e.replace(start, end, before+block+after)
	return start + utf8.RuneCountInString(before)
}

// insertRule adds a thematic break
func (e *Editor) insertRule() {
	at := e.insertBlock("---")
	e.cursor.SetOffset(at + 3)
}

// insertTable adds a two column table with the first header selected
func (e *Editor) insertTable() {
	at := e.insertBlock(tableSkeleton)
	e.selectRange(at+2, at+10)
}

// insertCodeBlock fences the selected lines, or adds an empty fenced
// block with the cursor inside
func (e *Editor) insertCodeBlock() {
	if _, _, ok := e.selection.Range(e.cursor.Offset()); ok {
		first, last := e.lineSpan()
		e.undo.Seal()
		defer e.undo.Seal()
		start, end := e.buffer.LineStart(first), e.buffer.LineEnd(last)
		e.replace(start, end, "```\n"+e.buffer.Slice(start, end)+"\n```")
		e.cursor.SetLineCol(first+1, 0)
		return
	}
	at := e.insertBlock("```\n\n```")
	e.cursor.SetOffset(at + 4)
}

// insertImage turns the selection into an image. Selected URLs become the
// source, anything else the alt text.
func (e *Editor) insertImage() {
	e.undo.Seal()
	defer e.undo.Seal()

	pos := e.cursor.Offset()
	start, end, ok := e.selection.Range(pos)
	if !ok {
		start, end = pos, pos
	}
	sel := e.buffer.Slice(start, end)

	if strings.HasPrefix(sel, "http://") || strings.HasPrefix(sel, "https://") {
		e.replace(start, end, "![]("+sel+")")
		e.cursor.SetOffset(start + 2)
		return
	}
	e.replace(start, end, "!["+sel+"]()")
	e.cursor.SetOffset(start + utf8.RuneCountInString(sel) + 4)
}
