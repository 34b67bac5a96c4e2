package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MessageKind selects how a status message is drawn.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageSuccess
	MessageError
)

// StatusBar represents the bottom status bar
type StatusBar struct {
	filename    string
	modified    bool
	draft       bool
	line        int
	col         int
	encoding    string
	lineEnding  string
	wordCount   int
	charCount   int
	message     string // Temporary message to display
	messageKind MessageKind
	width       int
	styles      Styles
}

// NewStatusBar creates a new status bar
func NewStatusBar(styles Styles) *StatusBar {
	return &StatusBar{
		line:       1,
		col:        1,
		encoding:   "UTF-8",
		lineEnding: "LF",
		styles:     styles,
	}
}

// SetFilename sets the current filename
func (s *StatusBar) SetFilename(filename string) {
	s.filename = filename
}

// SetModified sets the unsaved-changes marker
func (s *StatusBar) SetModified(modified bool) {
	s.modified = modified
}

// SetDraft shows or hides the draft marker
func (s *StatusBar) SetDraft(draft bool) {
	s.draft = draft
}

// SetPosition sets the cursor position (0-indexed, shown 1-indexed)
func (s *StatusBar) SetPosition(line, col int) {
	s.line = line + 1
	s.col = col + 1
}

// SetFormat sets the encoding and line ending labels
func (s *StatusBar) SetFormat(encoding, lineEnding string) {
	s.encoding = encoding
	s.lineEnding = lineEnding
}

// SetCounts sets the word and character counts
func (s *StatusBar) SetCounts(words, chars int) {
	s.wordCount = words
	s.charCount = chars
}

// SetMessage sets a temporary message
func (s *StatusBar) SetMessage(message string, kind MessageKind) {
	s.message = message
	s.messageKind = kind
}

// ClearMessage clears the temporary message
func (s *StatusBar) ClearMessage() {
	s.message = ""
}

// Message returns the current message
func (s *StatusBar) Message() string {
	return s.message
}

// SetWidth sets the width of the status bar
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// DisplayName is the file name shown for a path, "[Untitled]" when empty.
func DisplayName(path string) string {
	if path == "" {
		return "[Untitled]"
	}
	return filepath.Base(path)
}

// View renders the status bar
func (s *StatusBar) View() string {
	base := s.styles.StatusBar

	left := base.Render(" " + DisplayName(s.filename))
	if s.modified {
		left = s.styles.StatusModified.Render(" *") + base.Render(DisplayName(s.filename))
	}
	if s.draft {
		left += base.Render(" [Draft]")
	}

	right := base.Render(fmt.Sprintf("W:%d C:%d | Ln %d, Col %d | %s %s ",
		s.wordCount, s.charCount, s.line, s.col, s.encoding, s.lineEnding))

	avail := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if avail < 0 {
		avail = 0
	}

	middle := base.Render(strings.Repeat(" ", avail))
	if s.message != "" && lipgloss.Width(s.message)+4 <= avail {
		style := base
		switch s.messageKind {
		case MessageError:
			style = s.styles.StatusError
		case MessageSuccess:
			style = s.styles.StatusSuccess
		}
		msgWidth := lipgloss.Width(s.message)
		leftPad := (avail - msgWidth) / 2
		middle = base.Render(strings.Repeat(" ", leftPad)) +
			style.Render(s.message) +
			base.Render(strings.Repeat(" ", avail-msgWidth-leftPad))
	}

	return left + middle + right
}
