package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// FrontMatter holds the metadata block at the top of a document.
type FrontMatter struct {
	Title string `yaml:"title" toml:"title"`
	Draft bool   `yaml:"draft" toml:"draft"`
}

var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// Split separates the front matter from the body. bodyLine is the
// zero-based line of the source where the body starts. A document without
// front matter returns a zero FrontMatter and the whole source.
func Split(src string) (fm FrontMatter, body string, bodyLine int, err error) {
	rest, err := frontmatter.Parse(strings.NewReader(src), &fm, formats...)
	if err != nil {
		return FrontMatter{}, src, 0, fmt.Errorf("parse front matter: %w", err)
	}
	if len(rest) == len(src) || !strings.HasSuffix(src, string(rest)) {
		return fm, src, 0, nil
	}
	head := src[:len(src)-len(rest)]
	body = string(rest)
	if !strings.HasSuffix(head, "\n") && strings.HasPrefix(body, "\n") {
		head += "\n"
		body = body[1:]
	}
	return fm, body, strings.Count(head, "\n"), nil
}

// ParseFrontMatter returns only the metadata of src.
func ParseFrontMatter(src string) (FrontMatter, error) {
	fm, _, _, err := Split(src)
	return fm, err
}

// Title is the front matter title, or the text of the first level one
// heading, or "".
func Title(src string) string {
	fm, body, _, err := Split(src)
	if err == nil && fm.Title != "" {
		return fm.Title
	}
	for _, h := range outline([]byte(body), 0) {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

func hasFrontMatter(src []byte) bool {
	return bytes.HasPrefix(src, []byte("---")) || bytes.HasPrefix(src, []byte("+++"))
}
