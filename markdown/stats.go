package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Stats are document counts shown in the status bar.
type Stats struct {
	Words int // Words of rendered text, markup excluded
	Chars int // Characters of the source
	Lines int
}

// Count computes Stats for src.
func Count(src string) Stats {
	s := Stats{
		Chars: utf8.RuneCountInString(src),
		Lines: strings.Count(src, "\n") + 1,
	}

	_, body, _, err := Split(src)
	if err != nil {
		body = src
	}
	raw := []byte(body)
	doc := md.Parser().Parse(text.NewReader(raw))

	var b strings.Builder
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock {
			b.WriteByte(' ')
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(raw))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(raw))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(raw))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	s.Words = len(strings.Fields(b.String()))
	return s
}
