package fileio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cornish/marktivus/encoding"
)

func TestReadWriteUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	s := NewStore(Options{})
	ctx := context.Background()

	if err := s.WriteFile(ctx, path, "# Hello\n\nworld"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := s.ReadFile(ctx, path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != "# Hello\n\nworld" {
		t.Errorf("ReadFile() = %q", got)
	}
}

func TestReadMissingFile(t *testing.T) {
	s := NewStore(Options{})
	_, err := s.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want not exist", err)
	}
}

func TestReadDirectory(t *testing.T) {
	s := NewStore(Options{})
	_, err := s.ReadFile(context.Background(), t.TempDir())
	if !errors.Is(err, ErrIsDirectory) {
		t.Errorf("ReadFile(dir) error = %v, want ErrIsDirectory", err)
	}
}

func TestWriteIntoMissingDirectoryFails(t *testing.T) {
	s := NewStore(Options{})
	path := filepath.Join(t.TempDir(), "missing", "note.md")
	if err := s.WriteFile(context.Background(), path, "x"); err == nil {
		t.Error("WriteFile() into a missing directory should fail")
	}
}

func TestCRLFPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dos.md")
	if err := os.WriteFile(path, []byte("# A\r\n\r\nb\r\n"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(Options{})
	ctx := context.Background()

	text, err := s.ReadFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "# A\n\nb\n" {
		t.Errorf("ReadFile() = %q, want LF text", text)
	}
	if f := s.Format(path); f.LineEnding != encoding.CRLF {
		t.Errorf("Format().LineEnding = %s, want CRLF", f.LineEnding)
	}

	if err := s.WriteFile(ctx, path, text+"c\n"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "# A\r\n\r\nb\r\nc\r\n" {
		t.Errorf("file after write = %q", data)
	}
}

func TestEncodingPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utf16.md")
	orig, err := encoding.Encode("# Résumé\n", encoding.UTF16LE)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, orig, 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(Options{})
	ctx := context.Background()
	text, err := s.ReadFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "# Résumé\n" {
		t.Errorf("ReadFile() = %q", text)
	}
	if err := s.WriteFile(ctx, path, text); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != string(orig) {
		t.Errorf("rewritten bytes differ: % x, want % x", data, orig)
	}
}

func TestCopyFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "utf16.md")
	orig, err := encoding.Encode("a\r\nb\r\n", encoding.UTF16LE)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, orig, 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(Options{})
	ctx := context.Background()
	text, err := s.ReadFile(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	unknown := filepath.Join(dir, "never-read.md")
	dst := filepath.Join(dir, "copy.md")
	s.CopyFormat(unknown, dst)
	if f := s.Format(dst); f != DefaultFormat {
		t.Errorf("format copied from an unread file: %+v", f)
	}

	s.CopyFormat(src, dst)
	if err := s.WriteFile(ctx, dst, text); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != string(orig) {
		t.Errorf("copy bytes = % x, want % x", data, orig)
	}
}

func TestBackupAndMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewStore(Options{Backup: true})
	if err := s.WriteFile(context.Background(), path, "new"); err != nil {
		t.Fatal(err)
	}

	backup, err := os.ReadFile(path + "~")
	if err != nil || string(backup) != "old" {
		t.Errorf("backup = %q, %v, want old", backup, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600 kept", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 2 {
		t.Errorf("directory has %d entries, want file and backup only", len(entries))
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore(Options{})
	path := filepath.Join(t.TempDir(), "note.md")
	if err := s.WriteFile(ctx, path, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteFile() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("cancelled write should not create the file")
	}
}
