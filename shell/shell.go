// Package shell coordinates the document state of the editor: which file is
// open, what the buffer holds and whether it has unsaved changes. Dialogs,
// file access and the editing widget are reached only through interfaces.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cornish/marktivus/logger"
)

// WelcomeText is the buffer content of a fresh session.
const WelcomeText = "# Welcome to Markdown Editor\n\nStart editing your markdown file..."

var (
	// ErrCancelled is returned when the user dismisses a dialog.
	ErrCancelled = errors.New("cancelled")
	// ErrBusy is returned when another file operation is still running.
	ErrBusy = errors.New("another file operation is in progress")
)

// Document is a snapshot of the shell state.
type Document struct {
	Path   string // Empty for a new, never saved document
	Buffer string
	Dirty  bool

	// Generation counts wholesale replacements of the buffer. Edits made
	// against an older generation are dropped.
	Generation uint64
}

// HasPath reports whether the document is backed by a file.
func (d Document) HasPath() bool {
	return d.Path != ""
}

// Deps are the collaborators of a Shell. Logger may be nil.
type Deps struct {
	Dialogs  Dialogs
	Files    Files
	Widget   Widget
	Notifier Notifier
	Logger   *logger.Logger
	Filter   Filter // Zero value means MarkdownFilter
}

// Shell owns the document state and runs the open/save operation chains.
type Shell struct {
	opMu sync.Mutex // Held for the whole of one operation chain

	mu       sync.Mutex
	doc      Document
	revision uint64 // Bumped on every edit

	dialogs  Dialogs
	files    Files
	widget   Widget
	notifier Notifier
	log      *logger.Logger
	filter   Filter
}

// New creates a shell holding the welcome document.
func New(deps Deps) *Shell {
	s := &Shell{
		doc:      Document{Buffer: WelcomeText},
		dialogs:  deps.Dialogs,
		files:    deps.Files,
		widget:   deps.Widget,
		notifier: deps.Notifier,
		log:      deps.Logger,
		filter:   deps.Filter,
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if len(s.filter.Extensions) == 0 {
		s.filter = MarkdownFilter
	}
	return s
}

// Filter returns the filter used for dialogs.
func (s *Shell) Filter() Filter {
	return s.filter
}

// Snapshot returns a copy of the current state.
func (s *Shell) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// OnEdit records new buffer content from the widget and marks the document dirty.
func (s *Shell) OnEdit(text string) {
	s.mu.Lock()
	s.apply(text)
	s.mu.Unlock()
}

// Edit is OnEdit for a widget that tags its content with the generation it
// was given by SetMarkdown. Text typed before the widget caught up with a
// load or a new document belongs to the replaced buffer and is dropped.
func (s *Shell) Edit(generation uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.doc.Generation {
		s.log.EditDropped(generation, s.doc.Generation)
		return false
	}
	s.apply(text)
	return true
}

func (s *Shell) apply(text string) {
	s.doc.Buffer = text
	s.doc.Dirty = true
	s.revision++
}

// replace swaps in a new document and returns its generation.
func (s *Shell) replace(path, content string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = Document{Path: path, Buffer: content, Generation: s.doc.Generation + 1}
	s.revision++
	return s.doc.Generation
}

// OpenFile asks for a markdown file, reads it and makes it the current document.
func (s *Shell) OpenFile(ctx context.Context) error {
	if !s.opMu.TryLock() {
		return ErrBusy
	}
	defer s.opMu.Unlock()

	path, ok, err := s.dialogs.OpenPath(ctx, s.filter)
	if err != nil {
		return s.fail(ctx, "open", "Failed to open file", err)
	}
	if !ok {
		s.log.OperationCancelled("open")
		return ErrCancelled
	}

	return s.load(ctx, path)
}

// Load reads path and makes it the current document without asking.
// Used for the file named on the command line and for Revert.
func (s *Shell) Load(ctx context.Context, path string) error {
	if !s.opMu.TryLock() {
		return ErrBusy
	}
	defer s.opMu.Unlock()
	return s.load(ctx, path)
}

func (s *Shell) load(ctx context.Context, path string) error {
	content, err := s.files.ReadFile(ctx, path)
	if err != nil {
		return s.fail(ctx, "open", "Failed to open file", fmt.Errorf("read %s: %w", path, err))
	}

	gen := s.replace(path, content)
	s.widget.SetMarkdown(content, gen)
	s.log.FileOpened(path, len(content))
	return nil
}

// Revert reloads the current file, discarding unsaved edits.
func (s *Shell) Revert(ctx context.Context) error {
	doc := s.Snapshot()
	if !doc.HasPath() {
		return s.fail(ctx, "revert", "Failed to revert", errors.New("document has never been saved"))
	}
	return s.Load(ctx, doc.Path)
}

// NewFile replaces the document with an empty, pathless one.
func (s *Shell) NewFile(ctx context.Context) error {
	if !s.opMu.TryLock() {
		return ErrBusy
	}
	defer s.opMu.Unlock()

	gen := s.replace("", "")
	s.widget.SetMarkdown("", gen)
	return nil
}

// SetPath names the file a new document will be saved to, without touching disk.
func (s *Shell) SetPath(path string) {
	s.mu.Lock()
	s.doc.Path = path
	s.mu.Unlock()
}

// SaveFile writes the buffer to the current file, asking for a path first
// when the document has none.
func (s *Shell) SaveFile(ctx context.Context) error {
	if !s.opMu.TryLock() {
		return ErrBusy
	}
	defer s.opMu.Unlock()

	doc := s.Snapshot()
	if doc.HasPath() {
		return s.write(ctx, doc.Path, false)
	}
	return s.saveAs(ctx, "")
}

// SaveAsFile always asks for a path, then writes the buffer there.
func (s *Shell) SaveAsFile(ctx context.Context) error {
	if !s.opMu.TryLock() {
		return ErrBusy
	}
	defer s.opMu.Unlock()

	return s.saveAs(ctx, s.Snapshot().Path)
}

func (s *Shell) saveAs(ctx context.Context, suggested string) error {
	path, ok, err := s.dialogs.SavePath(ctx, s.filter, suggested)
	if err != nil {
		return s.fail(ctx, "save", "Failed to save file", err)
	}
	if !ok {
		s.log.OperationCancelled("save")
		return ErrCancelled
	}
	return s.write(ctx, path, true)
}

// write stores the buffer at path. The path becomes the file reference only
// after the write succeeded; the dirty flag clears only if no edit arrived
// while writing.
func (s *Shell) write(ctx context.Context, path string, chosen bool) error {
	s.mu.Lock()
	content := s.doc.Buffer
	prev := s.doc.Path
	rev := s.revision
	s.mu.Unlock()

	if fc, ok := s.files.(FormatCopier); ok && chosen && prev != "" && prev != path {
		fc.CopyFormat(prev, path)
	}
	if err := s.files.WriteFile(ctx, path, content); err != nil {
		return s.fail(ctx, "save", "Failed to save file", fmt.Errorf("write %s: %w", path, err))
	}

	s.mu.Lock()
	if chosen {
		s.doc.Path = path
	}
	if s.revision == rev {
		s.doc.Dirty = false
	}
	s.mu.Unlock()

	s.log.FileSaved(path, len(content), chosen)
	s.notify(ctx, Notice{Level: LevelInfo, Title: "Saved", Message: "File saved successfully!"})
	return nil
}

// fail reports err to the user and returns it.
func (s *Shell) fail(ctx context.Context, op, title string, err error) error {
	s.log.OperationFailed(op, err)
	s.notify(ctx, Notice{Level: LevelError, Title: title, Message: title + ": " + err.Error()})
	return err
}

func (s *Shell) notify(ctx context.Context, n Notice) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, n)
	}
}
