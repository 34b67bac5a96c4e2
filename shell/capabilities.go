package shell

import (
	"context"
	"path/filepath"
	"strings"
)

// Filter restricts which files a dialog offers.
type Filter struct {
	Name       string
	Extensions []string // Without the leading dot
}

// MarkdownFilter is the filter used for every open and save dialog.
var MarkdownFilter = Filter{
	Name:       "Markdown",
	Extensions: []string{"md", "markdown"},
}

// Matches reports whether the path carries one of the filter's extensions.
// An empty filter matches everything.
func (f Filter) Matches(path string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range f.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// EnsureExtension appends the filter's first extension when the path has none of them.
func (f Filter) EnsureExtension(path string) string {
	if path == "" || len(f.Extensions) == 0 || f.Matches(path) {
		return path
	}
	return path + "." + f.Extensions[0]
}

// Dialogs picks paths for opening and saving.
// ok is false when the user dismissed the dialog without choosing.
type Dialogs interface {
	OpenPath(ctx context.Context, filter Filter) (path string, ok bool, err error)
	SavePath(ctx context.Context, filter Filter, suggested string) (path string, ok bool, err error)
}

// Files reads and writes document text.
type Files interface {
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path, content string) error
}

// FormatCopier is implemented by Files that store documents in more than
// one format. A document saved under a new name keeps the format it was
// read with.
type FormatCopier interface {
	CopyFormat(src, dst string)
}

// Widget is the editing surface. SetMarkdown replaces what it displays
// without reporting the change back as an edit. Later edits should reach
// the shell through Edit with the same generation.
type Widget interface {
	SetMarkdown(text string, generation uint64)
}

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a message for the user.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Notifier shows notices. Error notices block until the user acknowledges them.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}
