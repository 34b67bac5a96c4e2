// Package clipboard copies and pastes text through the system clipboard,
// falling back to OSC52 terminal sequences when running over SSH.
package clipboard

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// System is the host clipboard.
type System interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Options configure a Clipboard. Zero values select os.Stdout, the host
// clipboard and SSH detection from the environment.
type Options struct {
	Output     io.Writer
	System     System
	ForceOSC52 bool
}

// Clipboard gives unified clipboard access.
type Clipboard struct {
	mu       sync.Mutex
	internal string // Last copied text, used when nothing else works
	osc52    bool
	output   io.Writer
	system   System
}

// New creates a clipboard.
func New(opts Options) *Clipboard {
	c := &Clipboard{
		osc52:  opts.ForceOSC52 || isSSHSession(),
		output: opts.Output,
		system: opts.System,
	}
	if c.output == nil {
		c.output = os.Stdout
	}
	if c.system == nil {
		if clipboard.Unsupported {
			c.osc52 = true
		}
		c.system = systemClipboard{}
	}
	return c
}

func isSSHSession() bool {
	for _, v := range []string{"SSH_TTY", "SSH_CLIENT", "SSH_CONNECTION"} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// Copy puts text on the clipboard. Over SSH it is sent to the local
// terminal with OSC52; otherwise the system clipboard is tried first.
func (c *Clipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.internal = text
	if !c.osc52 {
		if err := c.system.WriteAll(text); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(c.output, osc52.New(text).String())
	return err
}

// Paste returns clipboard text with line endings normalised to LF.
// OSC52 reads are rarely permitted by terminals, so over SSH paste falls
// back to the last text copied in this session.
func (c *Clipboard) Paste() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text, err := c.system.ReadAll(); err == nil && text != "" {
		return normalize(text), nil
	}
	return c.internal, nil
}

// OSC52 reports whether copies go through the terminal.
func (c *Clipboard) OSC52() bool {
	return c.osc52
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
