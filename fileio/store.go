// Package fileio reads and writes documents on disk. Text is handed out as
// LF-separated UTF-8 and written back in the encoding and line ending the
// file had when it was read.
package fileio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cornish/marktivus/encoding"
	"github.com/cornish/marktivus/logger"
)

// ErrIsDirectory is returned when a directory is opened as a document.
var ErrIsDirectory = errors.New("is a directory")

// Format is how a document is stored on disk.
type Format struct {
	Encoding   *encoding.Encoding
	LineEnding encoding.LineEnding
}

// DefaultFormat is used for files the store has not read.
var DefaultFormat = Format{Encoding: encoding.UTF8, LineEnding: encoding.LF}

// Options configure a Store.
type Options struct {
	Backup bool // Copy the previous file to "name~" before overwriting
	Logger *logger.Logger
}

// Store is a file store. It remembers the format of every file it read so
// a save keeps the file's encoding.
type Store struct {
	mu      sync.Mutex
	formats map[string]Format
	backup  bool
	log     *logger.Logger
}

// NewStore creates a store.
func NewStore(opts Options) *Store {
	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}
	return &Store{
		formats: make(map[string]Format),
		backup:  opts.Backup,
		log:     l,
	}
}

// Format returns the remembered format of path, or DefaultFormat.
func (s *Store) Format(path string) Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.formats[key(path)]; ok {
		return f
	}
	return DefaultFormat
}

// SetFormat overrides the format used when writing path.
func (s *Store) SetFormat(path string, f Format) {
	if f.Encoding == nil {
		f.Encoding = encoding.UTF8
	}
	if f.LineEnding == "" {
		f.LineEnding = encoding.LF
	}
	s.mu.Lock()
	s.formats[key(path)] = f
	s.mu.Unlock()
}

// CopyFormat makes writes to dst use the format src was read with. Nothing
// changes when the store has not seen src.
func (s *Store) CopyFormat(src, dst string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.formats[key(src)]; ok {
		s.formats[key(dst)] = f
	}
}

// ReadFile reads path and returns its text as LF-separated UTF-8.
func (s *Store) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	det := encoding.Detect(data)
	text, err := encoding.Decode(data, det.Encoding)
	if err != nil {
		return "", err
	}
	le := encoding.DetectLineEnding(text)
	s.log.EncodingDetected(path, det.Encoding.Name, le.String(), det.Confidence)

	s.SetFormat(path, Format{Encoding: det.Encoding, LineEnding: le})
	return encoding.NormalizeNewlines(text), nil
}

// WriteFile replaces path with content. The new file is written next to the
// old one and renamed over it, so a failed write leaves the old file intact.
func (s *Store) WriteFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := s.Format(path)
	data, err := encoding.Encode(encoding.ApplyLineEnding(content, f.LineEnding), f.Encoding)
	if err != nil {
		return err
	}

	mode := fs.FileMode(0644)
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
	case err == nil:
		mode = info.Mode().Perm()
		if s.backup {
			if err := copyFile(path, path+"~", mode); err != nil {
				return fmt.Errorf("backup: %w", err)
			}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if err := writeAtomic(path, data, mode); err != nil {
		return err
	}
	s.SetFormat(path, f)
	return nil
}

func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
