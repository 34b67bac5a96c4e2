// Package syntax colours markdown source for the editing view.
package syntax

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the style of each markdown element.
type Palette struct {
	Heading     lipgloss.Style
	Subheading  lipgloss.Style
	Emphasis    lipgloss.Style
	Strong      lipgloss.Style
	Deleted     lipgloss.Style
	Code        lipgloss.Style
	Link        lipgloss.Style
	URL         lipgloss.Style
	Marker      lipgloss.Style // List bullets, quote markers
	FrontMatter lipgloss.Style
}

// DefaultPalette uses the 16 basic ANSI colours so it works on any terminal.
func DefaultPalette() Palette {
	return Palette{
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Subheading:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Emphasis:    lipgloss.NewStyle().Italic(true),
		Strong:      lipgloss.NewStyle().Bold(true),
		Deleted:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8")),
		Code:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Link:        lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Underline(true),
		URL:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Marker:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		FrontMatter: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// ColorSpan is a styled run of a line
type ColorSpan struct {
	Start int // Rune index
	End   int // Rune index, exclusive
	Style lipgloss.Style
}

// Highlighter colours markdown line by line. Fenced code blocks and front
// matter span lines, so whole documents go through Lines.
type Highlighter struct {
	lexer   chroma.Lexer
	enabled bool
	palette Palette
}

// New creates a highlighter with the default palette.
func New() *Highlighter {
	h := &Highlighter{
		enabled: true,
		palette: DefaultPalette(),
	}
	if l := lexers.Get("markdown"); l != nil {
		h.lexer = chroma.Coalesce(l)
	}
	return h
}

// SetEnabled enables or disables highlighting
func (h *Highlighter) SetEnabled(enabled bool) {
	h.enabled = enabled
}

// Enabled returns whether highlighting is on
func (h *Highlighter) Enabled() bool {
	return h.enabled && h.lexer != nil
}

// SetPalette replaces the styles
func (h *Highlighter) SetPalette(p Palette) {
	h.palette = p
}

// Lines returns spans for every line of a document. The result has one
// entry per line, or is nil when highlighting is off.
func (h *Highlighter) Lines(lines []string) [][]ColorSpan {
	if !h.Enabled() {
		return nil
	}

	out := make([][]ColorSpan, len(lines))
	fence := ""
	inFrontMatter := len(lines) > 0 && (lines[0] == "---" || lines[0] == "+++")
	frontDelim := ""
	if inFrontMatter {
		frontDelim = lines[0]
	}

	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		switch {
		case inFrontMatter:
			out[i] = h.whole(n, h.palette.FrontMatter)
			if i > 0 && line == frontDelim {
				inFrontMatter = false
			}
		case fence != "":
			out[i] = h.whole(n, h.palette.Code)
			if strings.HasPrefix(strings.TrimSpace(line), fence) {
				fence = ""
			}
		case fenceMarker(line) != "":
			fence = fenceMarker(line)
			out[i] = h.whole(n, h.palette.Code)
		default:
			out[i] = h.LineSpans(line)
		}
	}
	return out
}

// LineSpans tokenises a single line without block context.
func (h *Highlighter) LineSpans(line string) []ColorSpan {
	if !h.Enabled() || line == "" {
		return nil
	}

	it, err := h.lexer.Tokenise(nil, line+"\n")
	if err != nil {
		return nil
	}

	var spans []ColorSpan
	pos := 0
	for _, tok := range it.Tokens() {
		n := utf8.RuneCountInString(tok.Value)
		if style, ok := h.styleFor(tok.Type); ok && n > 0 {
			end := pos + n
			if strings.HasSuffix(tok.Value, "\n") {
				end--
			}
			if end > pos {
				spans = append(spans, ColorSpan{Start: pos, End: end, Style: style})
			}
		}
		pos += n
	}
	return spans
}

func (h *Highlighter) whole(n int, style lipgloss.Style) []ColorSpan {
	if n == 0 {
		return nil
	}
	return []ColorSpan{{Start: 0, End: n, Style: style}}
}

// fenceMarker returns the fence that opens a code block on line, or "".
func fenceMarker(line string) string {
	t := strings.TrimLeft(line, " ")
	if len(line)-len(t) > 3 {
		return ""
	}
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(t, f) {
			return f
		}
	}
	return ""
}

func (h *Highlighter) styleFor(t chroma.TokenType) (lipgloss.Style, bool) {
	switch {
	case t == chroma.GenericHeading:
		return h.palette.Heading, true
	case t == chroma.GenericSubheading:
		return h.palette.Subheading, true
	case t == chroma.GenericEmph:
		return h.palette.Emphasis, true
	case t == chroma.GenericStrong:
		return h.palette.Strong, true
	case t == chroma.GenericDeleted:
		return h.palette.Deleted, true
	case t.InCategory(chroma.LiteralString):
		return h.palette.Code, true
	case t == chroma.NameTag:
		return h.palette.Link, true
	case t == chroma.NameAttribute:
		return h.palette.URL, true
	case t.InCategory(chroma.Keyword):
		return h.palette.Marker, true
	}
	return lipgloss.Style{}, false
}

// StyleAt returns the style covering col.
func StyleAt(spans []ColorSpan, col int) (lipgloss.Style, bool) {
	for _, s := range spans {
		if col >= s.Start && col < s.End {
			return s.Style, true
		}
	}
	return lipgloss.Style{}, false
}
