package editor

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/cornish/marktivus/logger"
	"github.com/cornish/marktivus/shell"
)

// ErrNotAttached is returned by dialog requests made before the bridge
// has a running program to ask.
var ErrNotAttached = errors.New("editor bridge is not attached to a program")

// Sender delivers messages into a running program; *tea.Program is one.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge gives the shell its dialogs, widget and notifier. Each call is
// turned into a message for the editor model and, where an answer is
// needed, blocks until the model replies or ctx is done.
type Bridge struct {
	mu     sync.Mutex
	sender Sender
	log    *logger.Logger
}

// NewBridge creates an unattached bridge. log may be nil.
func NewBridge(log *logger.Logger) *Bridge {
	if log == nil {
		log = logger.Discard()
	}
	return &Bridge{log: log}
}

// Attach connects the bridge to the program that runs the editor.
func (b *Bridge) Attach(s Sender) {
	b.mu.Lock()
	b.sender = s
	b.mu.Unlock()
}

func (b *Bridge) target() Sender {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sender
}

type pathReply struct {
	path string
	ok   bool
}

// pathRequestMsg asks the model to show a file dialog
type pathRequestMsg struct {
	id        string
	kind      browserKind
	filter    shell.Filter
	suggested string
	reply     chan<- pathReply
}

// requestCancelMsg withdraws a request whose caller stopped waiting
type requestCancelMsg struct {
	id string
}

// setMarkdownMsg replaces the editor content
type setMarkdownMsg struct {
	text       string
	generation uint64
}

// noticeMsg shows a notice; done is closed once it has been acknowledged
type noticeMsg struct {
	id     string
	notice shell.Notice
	done   chan<- struct{}
}

// OpenPath implements shell.Dialogs
func (b *Bridge) OpenPath(ctx context.Context, filter shell.Filter) (string, bool, error) {
	return b.askPath(ctx, browseOpen, filter, "")
}

// SavePath implements shell.Dialogs
func (b *Bridge) SavePath(ctx context.Context, filter shell.Filter, suggested string) (string, bool, error) {
	return b.askPath(ctx, browseSave, filter, suggested)
}

func (b *Bridge) askPath(ctx context.Context, kind browserKind, filter shell.Filter, suggested string) (string, bool, error) {
	s := b.target()
	if s == nil {
		return "", false, ErrNotAttached
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	id := uuid.NewString()
	b.log.DialogRequested(id, kind.String())

	reply := make(chan pathReply, 1)
	s.Send(pathRequestMsg{id: id, kind: kind, filter: filter, suggested: suggested, reply: reply})

	select {
	case r := <-reply:
		return r.path, r.ok, nil
	case <-ctx.Done():
		s.Send(requestCancelMsg{id: id})
		return "", false, ctx.Err()
	}
}

// SetMarkdown implements shell.Widget
func (b *Bridge) SetMarkdown(text string, generation uint64) {
	if s := b.target(); s != nil {
		s.Send(setMarkdownMsg{text: text, generation: generation})
	}
}

// Notify implements shell.Notifier. It returns once the user has seen the
// notice: at once for status bar notices, on dismissal for modal ones.
func (b *Bridge) Notify(ctx context.Context, n shell.Notice) {
	s := b.target()
	if s == nil {
		return
	}

	id := uuid.NewString()
	b.log.DialogRequested(id, "notice")

	done := make(chan struct{})
	s.Send(noticeMsg{id: id, notice: n, done: done})

	select {
	case <-done:
	case <-ctx.Done():
		s.Send(requestCancelMsg{id: id})
	}
}
