package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
	Line  int // Zero-based source line
}

// Outline lists the headings of src in document order. Headings with no
// text are skipped.
func Outline(src string) []Heading {
	body, offset := src, 0
	if hasFrontMatter([]byte(src)) {
		if _, b, line, err := Split(src); err == nil {
			body, offset = b, line
		}
	}
	return outline([]byte(body), offset)
}

func outline(src []byte, lineOffset int) []Heading {
	doc := md.Parser().Parse(text.NewReader(src))

	var headings []Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		title := plainText(h, src)
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		start := h.Lines().At(0).Start
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  title,
			Line:  bytes.Count(src[:start], []byte("\n")) + lineOffset,
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// plainText concatenates the inline text below n, without markup.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
