package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/marktivus/clipboard"
	"github.com/cornish/marktivus/config"
	"github.com/cornish/marktivus/markdown"
	"github.com/cornish/marktivus/shell"
)

// queueSender holds messages until the test delivers them, like a program
// whose update loop is busy with an earlier event
type queueSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (q *queueSender) Send(msg tea.Msg) {
	q.mu.Lock()
	q.msgs = append(q.msgs, msg)
	q.mu.Unlock()
}

func (q *queueSender) drain(e *Editor) {
	q.mu.Lock()
	msgs := q.msgs
	q.msgs = nil
	q.mu.Unlock()
	for _, msg := range msgs {
		e.Update(msg)
	}
}

type memoryFiles struct {
	mu    sync.Mutex
	files map[string]string
}

func (m *memoryFiles) ReadFile(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[path]
	if !ok {
		return "", errors.New("no such file")
	}
	return content, nil
}

func (m *memoryFiles) WriteFile(_ context.Context, path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
	return nil
}

type pickPath string

func (p pickPath) OpenPath(context.Context, shell.Filter) (string, bool, error) {
	return string(p), true, nil
}

func (p pickPath) SavePath(context.Context, shell.Filter, string) (string, bool, error) {
	return string(p), true, nil
}

// newShellEditor wires a real shell to an editor through a bridge
func newShellEditor(t *testing.T, files *memoryFiles, pick string) (*shell.Shell, *Editor, *queueSender) {
	t.Helper()
	q := &queueSender{}
	b := NewBridge(nil)
	b.Attach(q)

	sh := shell.New(shell.Deps{Dialogs: pickPath(pick), Files: files, Widget: b})
	doc := sh.Snapshot()
	e := New(Options{
		Config:     config.DefaultConfig(),
		ASCII:      true,
		Commands:   sh,
		OnChange:   func(gen uint64, text string) { sh.Edit(gen, text) },
		Clipboard:  clipboard.New(clipboard.Options{System: &memoryClipboard{}}),
		Previewer:  markdown.NewPreviewer("notty"),
		Content:    doc.Buffer,
		Generation: doc.Generation,
	})
	e.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return sh, e, q
}

func TestEditQueuedBehindOpenIsDropped(t *testing.T) {
	files := &memoryFiles{files: map[string]string{"/docs/old.md": "OLD", "/docs/new.md": "NEW"}}
	sh, e, q := newShellEditor(t, files, "/docs/new.md")
	ctx := context.Background()

	if err := sh.Load(ctx, "/docs/old.md"); err != nil {
		t.Fatal(err)
	}
	q.drain(e)
	if e.Text() != "OLD" {
		t.Fatalf("editor shows %q", e.Text())
	}

	// The open finishes while a key press is still ahead of the new content
	if err := sh.OpenFile(ctx); err != nil {
		t.Fatal(err)
	}
	e.Update(runes("x"))
	q.drain(e)

	if e.Text() != "NEW" {
		t.Errorf("editor shows %q, want the opened file", e.Text())
	}
	if doc := sh.Snapshot(); doc.Buffer != "NEW" || doc.Dirty || doc.Path != "/docs/new.md" {
		t.Errorf("shell document = %+v", doc)
	}

	if err := sh.SaveFile(ctx); err != nil {
		t.Fatal(err)
	}
	if got := files.files["/docs/new.md"]; got != "NEW" {
		t.Errorf("saved %q over the opened file", got)
	}

	// Typing after the swap is an edit of the new file
	e.Update(runes("y"))
	if doc := sh.Snapshot(); doc.Buffer != "yNEW" || !doc.Dirty {
		t.Errorf("after typing: %+v", doc)
	}
}

func TestKeyBeforeNewFileIsDropped(t *testing.T) {
	files := &memoryFiles{files: map[string]string{"/docs/a.md": "A"}}
	sh, e, q := newShellEditor(t, files, "")
	ctx := context.Background()

	if err := sh.Load(ctx, "/docs/a.md"); err != nil {
		t.Fatal(err)
	}
	q.drain(e)

	if err := sh.NewFile(ctx); err != nil {
		t.Fatal(err)
	}
	e.Update(runes("z"))
	q.drain(e)

	if doc := sh.Snapshot(); doc.Buffer != "" || doc.Dirty || doc.HasPath() {
		t.Errorf("shell document = %+v", doc)
	}
	if e.Text() != "" {
		t.Errorf("editor shows %q", e.Text())
	}
}
