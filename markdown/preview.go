package markdown

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	gutter  = 2
	minWrap = 20
)

// Previewer renders markdown for the terminal. It keeps one glamour
// renderer per wrap width and is safe for use from several goroutines.
type Previewer struct {
	mu       sync.Mutex
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewPreviewer creates a previewer using a glamour standard style
// ("dark", "light", "notty", "ascii").
func NewPreviewer(style string) *Previewer {
	if style == "" {
		style = "dark"
	}
	return &Previewer{style: style}
}

// Style returns the glamour style name.
func (p *Previewer) Style() string {
	return p.style
}

// Render renders src for a pane width columns wide. Front matter is not
// rendered.
func (p *Previewer) Render(src string, width int) (string, error) {
	if _, body, _, err := Split(src); err == nil {
		src = body
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.renderer == nil || p.width != width {
		wrap := width - gutter
		if wrap < minWrap {
			wrap = minWrap
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(p.style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return "", fmt.Errorf("create renderer: %w", err)
		}
		p.renderer = r
		p.width = width
	}

	out, err := p.renderer.Render(src)
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return out, nil
}
