package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cornish/marktivus/fileio"
)

type fakeDialogs struct {
	openPath string
	savePath string
	ok       bool
	err      error

	openCalls int
	saveCalls int
	suggested string

	// block, when set, is waited on inside OpenPath
	block chan struct{}
}

func (d *fakeDialogs) OpenPath(ctx context.Context, f Filter) (string, bool, error) {
	d.openCalls++
	if d.block != nil {
		<-d.block
	}
	return d.openPath, d.ok, d.err
}

func (d *fakeDialogs) SavePath(ctx context.Context, f Filter, suggested string) (string, bool, error) {
	d.saveCalls++
	d.suggested = suggested
	return d.savePath, d.ok, d.err
}

type fakeFiles struct {
	files    map[string]string
	readErr  error
	writeErr error
	writes   []string

	// onWrite runs before the write is recorded
	onWrite func()
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{files: map[string]string{}}
}

func (f *fakeFiles) ReadFile(ctx context.Context, path string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	content, ok := f.files[path]
	if !ok {
		return "", errors.New("no such file")
	}
	return content, nil
}

func (f *fakeFiles) WriteFile(ctx context.Context, path, content string) error {
	if f.onWrite != nil {
		f.onWrite()
	}
	if f.writeErr != nil {
		return f.writeErr
	}
	f.files[path] = content
	f.writes = append(f.writes, path)
	return nil
}

type fakeWidget struct {
	content    string
	generation uint64
	sets       int
}

func (w *fakeWidget) SetMarkdown(text string, generation uint64) {
	w.content = text
	w.generation = generation
	w.sets++
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *fakeNotifier) Notify(ctx context.Context, notice Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()
}

func (n *fakeNotifier) errors() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, notice := range n.notices {
		if notice.Level == LevelError {
			count++
		}
	}
	return count
}

type fixture struct {
	shell    *Shell
	dialogs  *fakeDialogs
	files    *fakeFiles
	widget   *fakeWidget
	notifier *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		dialogs:  &fakeDialogs{ok: true},
		files:    newFakeFiles(),
		widget:   &fakeWidget{},
		notifier: &fakeNotifier{},
	}
	f.shell = New(Deps{
		Dialogs:  f.dialogs,
		Files:    f.files,
		Widget:   f.widget,
		Notifier: f.notifier,
	})
	return f
}

func TestNewShellState(t *testing.T) {
	f := newFixture()
	doc := f.shell.Snapshot()
	if doc.Buffer != WelcomeText {
		t.Errorf("Buffer = %q, want welcome text", doc.Buffer)
	}
	if doc.HasPath() {
		t.Errorf("Path = %q, want none", doc.Path)
	}
	if doc.Dirty {
		t.Error("new document should not be dirty")
	}
	if got := f.shell.Filter(); got.Name != "Markdown" {
		t.Errorf("Filter().Name = %q, want Markdown", got.Name)
	}
}

func TestOpenFileSetsPathAndClearsDirty(t *testing.T) {
	f := newFixture()
	f.files.files["/notes/a.md"] = "# A"
	f.dialogs.openPath = "/notes/a.md"
	f.shell.OnEdit("scratch")

	if err := f.shell.OpenFile(context.Background()); err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}

	doc := f.shell.Snapshot()
	if doc.Path != "/notes/a.md" {
		t.Errorf("Path = %q, want /notes/a.md", doc.Path)
	}
	if doc.Buffer != "# A" {
		t.Errorf("Buffer = %q, want '# A'", doc.Buffer)
	}
	if doc.Dirty {
		t.Error("Dirty should be false after open")
	}
	if f.widget.content != "# A" || f.widget.sets != 1 {
		t.Errorf("widget content = %q (sets %d), want '# A' once", f.widget.content, f.widget.sets)
	}
}

func TestCancelledDialogsLeaveStateUnchanged(t *testing.T) {
	ops := []struct {
		name string
		run  func(s *Shell) error
	}{
		{"open", func(s *Shell) error { return s.OpenFile(context.Background()) }},
		{"save", func(s *Shell) error { return s.SaveFile(context.Background()) }},
		{"save as", func(s *Shell) error { return s.SaveAsFile(context.Background()) }},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			f := newFixture()
			f.shell.OnEdit("draft")
			f.dialogs.ok = false
			before := f.shell.Snapshot()

			err := op.run(f.shell)
			if !errors.Is(err, ErrCancelled) {
				t.Fatalf("error = %v, want ErrCancelled", err)
			}
			if after := f.shell.Snapshot(); after != before {
				t.Errorf("state changed: %+v -> %+v", before, after)
			}
			if len(f.files.writes) != 0 {
				t.Errorf("writes = %v, want none", f.files.writes)
			}
			if f.widget.sets != 0 {
				t.Error("widget should not be touched on cancel")
			}
			if n := f.notifier.errors(); n != 0 {
				t.Errorf("error notices = %d, want 0", n)
			}
		})
	}
}

func TestEditAfterOpenMarksDirtyKeepsPath(t *testing.T) {
	f := newFixture()
	f.files.files["/a.md"] = "a"
	f.dialogs.openPath = "/a.md"
	if err := f.shell.OpenFile(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.shell.OnEdit("ab")

	doc := f.shell.Snapshot()
	if !doc.Dirty {
		t.Error("Dirty should be true after edit")
	}
	if doc.Path != "/a.md" {
		t.Errorf("Path = %q, want /a.md", doc.Path)
	}
	if doc.Buffer != "ab" {
		t.Errorf("Buffer = %q, want 'ab'", doc.Buffer)
	}
}

func TestSaveWithPathSkipsDialog(t *testing.T) {
	f := newFixture()
	f.files.files["/a.md"] = "a"
	if err := f.shell.Load(context.Background(), "/a.md"); err != nil {
		t.Fatal(err)
	}
	f.shell.OnEdit("changed")

	if err := f.shell.SaveFile(context.Background()); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	if f.dialogs.saveCalls != 0 {
		t.Errorf("save dialog shown %d times, want 0", f.dialogs.saveCalls)
	}
	if f.files.files["/a.md"] != "changed" {
		t.Errorf("file content = %q, want 'changed'", f.files.files["/a.md"])
	}
	if f.shell.Snapshot().Dirty {
		t.Error("Dirty should be false after save")
	}
}

func TestSaveWithoutPathPrompts(t *testing.T) {
	f := newFixture()
	f.shell.OnEdit("fresh")
	f.dialogs.savePath = "/new.md"

	if err := f.shell.SaveFile(context.Background()); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	if f.dialogs.saveCalls != 1 {
		t.Errorf("save dialog shown %d times, want 1", f.dialogs.saveCalls)
	}
	doc := f.shell.Snapshot()
	if doc.Path != "/new.md" {
		t.Errorf("Path = %q, want /new.md", doc.Path)
	}
	if doc.Dirty {
		t.Error("Dirty should be false after save")
	}
	if f.files.files["/new.md"] != "fresh" {
		t.Errorf("written content = %q, want 'fresh'", f.files.files["/new.md"])
	}
}

func TestSaveAsAlwaysPrompts(t *testing.T) {
	f := newFixture()
	f.files.files["/old.md"] = "x"
	if err := f.shell.Load(context.Background(), "/old.md"); err != nil {
		t.Fatal(err)
	}
	f.dialogs.savePath = "/copy.md"

	if err := f.shell.SaveAsFile(context.Background()); err != nil {
		t.Fatalf("SaveAsFile() error = %v", err)
	}

	if f.dialogs.saveCalls != 1 {
		t.Errorf("save dialog shown %d times, want 1", f.dialogs.saveCalls)
	}
	if f.dialogs.suggested != "/old.md" {
		t.Errorf("suggested = %q, want /old.md", f.dialogs.suggested)
	}
	if got := f.shell.Snapshot().Path; got != "/copy.md" {
		t.Errorf("Path = %q, want /copy.md", got)
	}
}

func TestReadFailureNotifiesAndKeepsState(t *testing.T) {
	f := newFixture()
	f.shell.OnEdit("keep me")
	f.dialogs.openPath = "/missing.md"
	f.files.readErr = errors.New("permission denied")
	before := f.shell.Snapshot()

	if err := f.shell.OpenFile(context.Background()); err == nil {
		t.Fatal("OpenFile() should fail")
	}

	if after := f.shell.Snapshot(); after != before {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}
	if n := f.notifier.errors(); n != 1 {
		t.Errorf("error notices = %d, want 1", n)
	}
}

func TestDialogFailureNotifies(t *testing.T) {
	f := newFixture()
	f.dialogs.err = errors.New("no terminal")

	if err := f.shell.SaveAsFile(context.Background()); err == nil {
		t.Fatal("SaveAsFile() should fail")
	}
	if n := f.notifier.errors(); n != 1 {
		t.Errorf("error notices = %d, want 1", n)
	}
}

func TestWriteFailureKeepsPathAndDirty(t *testing.T) {
	f := newFixture()
	f.shell.OnEdit("draft")
	f.dialogs.savePath = "/ro/x.md"
	f.files.writeErr = errors.New("read-only file system")

	if err := f.shell.SaveFile(context.Background()); err == nil {
		t.Fatal("SaveFile() should fail")
	}

	doc := f.shell.Snapshot()
	if doc.HasPath() {
		t.Errorf("Path = %q, want none after failed save", doc.Path)
	}
	if !doc.Dirty {
		t.Error("Dirty should stay true after failed save")
	}
	if n := f.notifier.errors(); n != 1 {
		t.Errorf("error notices = %d, want 1", n)
	}
}

func TestSuccessfulSaveSendsInfoNotice(t *testing.T) {
	f := newFixture()
	f.dialogs.savePath = "/a.md"
	if err := f.shell.SaveFile(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(f.notifier.notices) != 1 || f.notifier.notices[0].Level != LevelInfo {
		t.Fatalf("notices = %+v, want one info notice", f.notifier.notices)
	}
}

func TestEditDuringWriteStaysDirty(t *testing.T) {
	f := newFixture()
	f.files.files["/a.md"] = "a"
	if err := f.shell.Load(context.Background(), "/a.md"); err != nil {
		t.Fatal(err)
	}
	f.shell.OnEdit("a1")
	f.files.onWrite = func() { f.shell.OnEdit("a12") }

	if err := f.shell.SaveFile(context.Background()); err != nil {
		t.Fatal(err)
	}

	doc := f.shell.Snapshot()
	if !doc.Dirty {
		t.Error("Dirty should stay true when an edit raced the write")
	}
	if f.files.files["/a.md"] != "a1" {
		t.Errorf("written = %q, want the snapshot 'a1'", f.files.files["/a.md"])
	}
}

func TestConcurrentOperationIsBusy(t *testing.T) {
	f := newFixture()
	f.dialogs.block = make(chan struct{})
	f.dialogs.ok = false

	done := make(chan error)
	go func() { done <- f.shell.OpenFile(context.Background()) }()

	// Wait until the first operation holds the lock.
	for f.shell.opMu.TryLock() {
		f.shell.opMu.Unlock()
	}

	if err := f.shell.SaveFile(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("SaveFile() during open = %v, want ErrBusy", err)
	}

	close(f.dialogs.block)
	if err := <-done; !errors.Is(err, ErrCancelled) {
		t.Errorf("OpenFile() = %v, want ErrCancelled", err)
	}
}

func TestNewFileAndRevert(t *testing.T) {
	f := newFixture()
	f.files.files["/a.md"] = "disk"
	if err := f.shell.Load(context.Background(), "/a.md"); err != nil {
		t.Fatal(err)
	}
	f.shell.OnEdit("edited")

	if err := f.shell.Revert(context.Background()); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}
	if doc := f.shell.Snapshot(); doc.Buffer != "disk" || doc.Dirty {
		t.Errorf("after revert: %+v", doc)
	}

	if err := f.shell.NewFile(context.Background()); err != nil {
		t.Fatal(err)
	}
	if doc := f.shell.Snapshot(); doc.Path != "" || doc.Buffer != "" || doc.Dirty {
		t.Errorf("after new: %+v, want empty document", doc)
	}
	if f.widget.content != "" {
		t.Errorf("widget content = %q, want empty", f.widget.content)
	}

	if err := f.shell.Revert(context.Background()); err == nil {
		t.Error("Revert() without a path should fail")
	}
}

func TestEditDropsStaleGeneration(t *testing.T) {
	f := newFixture()
	f.files.files["/new.md"] = "NEW"
	old := f.shell.Snapshot().Generation

	if err := f.shell.Load(context.Background(), "/new.md"); err != nil {
		t.Fatal(err)
	}
	if f.widget.generation == old {
		t.Fatalf("widget generation not advanced: %d", f.widget.generation)
	}

	// Typed into the welcome text before the widget showed the new file
	if f.shell.Edit(old, "xWELCOME") {
		t.Error("Edit() with the old generation was applied")
	}
	if doc := f.shell.Snapshot(); doc.Buffer != "NEW" || doc.Dirty {
		t.Errorf("after stale edit: %+v", doc)
	}

	if !f.shell.Edit(f.widget.generation, "NEWx") {
		t.Error("Edit() with the current generation was dropped")
	}
	if doc := f.shell.Snapshot(); doc.Buffer != "NEWx" || !doc.Dirty {
		t.Errorf("after edit: %+v", doc)
	}

	if err := f.shell.NewFile(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.shell.Edit(f.widget.generation-1, "late") {
		t.Error("Edit() from the loaded file applied to the new document")
	}
	if doc := f.shell.Snapshot(); doc.Buffer != "" || doc.Dirty {
		t.Errorf("after new: %+v", doc)
	}
}

func TestSaveAsKeepsFileFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dos.md")
	dst := filepath.Join(dir, "copy.md")
	if err := os.WriteFile(src, []byte("# A\r\n\r\nb\r\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dialogs := &fakeDialogs{ok: true, openPath: src, savePath: dst}
	widget := &fakeWidget{}
	sh := New(Deps{
		Dialogs:  dialogs,
		Files:    fileio.NewStore(fileio.Options{}),
		Widget:   widget,
		Notifier: &fakeNotifier{},
	})
	ctx := context.Background()

	if err := sh.OpenFile(ctx); err != nil {
		t.Fatal(err)
	}
	if widget.content != "# A\n\nb\n" {
		t.Fatalf("widget content = %q", widget.content)
	}
	sh.Edit(widget.generation, widget.content+"c\n")
	if err := sh.SaveAsFile(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# A\r\n\r\nb\r\nc\r\n" {
		t.Errorf("saved bytes = %q, want CRLF line endings", data)
	}
	if got := sh.Snapshot().Path; got != dst {
		t.Errorf("Path = %q, want %q", got, dst)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		path    string
		matches bool
		ensured string
	}{
		{"notes.md", true, "notes.md"},
		{"notes.MARKDOWN", true, "notes.MARKDOWN"},
		{"notes.txt", false, "notes.txt.md"},
		{"notes", false, "notes.md"},
		{"", false, ""},
	}
	for _, tt := range tests {
		if got := MarkdownFilter.Matches(tt.path); got != tt.matches {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.matches)
		}
		if got := MarkdownFilter.EnsureExtension(tt.path); got != tt.ensured {
			t.Errorf("EnsureExtension(%q) = %q, want %q", tt.path, got, tt.ensured)
		}
	}
}
