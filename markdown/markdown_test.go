package markdown

import (
	"strings"
	"testing"
)

func TestOutline(t *testing.T) {
	src := "# Title\n\nintro\n\n## First *part*\n\ntext\n\nSetext\n------\n\n```\n# not a heading\n```\n\n#\n"
	got := Outline(src)

	want := []Heading{
		{Level: 1, Text: "Title", Line: 0},
		{Level: 2, Text: "First part", Line: 4},
		{Level: 2, Text: "Setext", Line: 8},
	}
	if len(got) != len(want) {
		t.Fatalf("Outline() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Outline()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestOutlineSkipsFrontMatter(t *testing.T) {
	src := "---\ntitle: Notes\n---\n# Real\n"
	got := Outline(src)
	if len(got) != 1 {
		t.Fatalf("Outline() = %+v, want one heading", got)
	}
	if got[0].Text != "Real" || got[0].Line != 3 {
		t.Errorf("Outline()[0] = %+v, want Real on line 3", got[0])
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		title    string
		body     string
		bodyLine int
	}{
		{"none", "# Hi\n", "", "# Hi\n", 0},
		{"yaml", "---\ntitle: Notes\ntags: [a, b]\n---\nbody\n", "Notes", "body\n", 4},
		{"toml", "+++\ntitle = \"Plan\"\n+++\nbody\n", "Plan", "body\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, line, err := Split(tt.src)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if fm.Title != tt.title {
				t.Errorf("Title = %q, want %q", fm.Title, tt.title)
			}
			if body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
			if line != tt.bodyLine {
				t.Errorf("bodyLine = %d, want %d", line, tt.bodyLine)
			}
		})
	}
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		src  string
		want FrontMatter
	}{
		{"# No metadata\n", FrontMatter{}},
		{"---\ntitle: Notes\ndraft: true\nauthor: someone\n---\nbody\n", FrontMatter{Title: "Notes", Draft: true}},
		{"+++\ndraft = true\n+++\n", FrontMatter{Draft: true}},
		{"---\ndraft: false\n---\n", FrontMatter{}},
	}
	for _, tt := range tests {
		got, err := ParseFrontMatter(tt.src)
		if err != nil {
			t.Errorf("ParseFrontMatter(%q) error = %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFrontMatter(%q) = %+v, want %+v", tt.src, got, tt.want)
		}
	}
}

func TestSplitInvalidFrontMatter(t *testing.T) {
	src := "---\ntitle: [unclosed\n---\nbody\n"
	_, body, _, err := Split(src)
	if err == nil {
		t.Fatal("Split() should fail on invalid YAML")
	}
	if body != src {
		t.Error("Split() should return the whole source on error")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"---\ntitle: From Meta\n---\n# Heading\n", "From Meta"},
		{"intro\n\n## Sub\n\n# Main\n", "Main"},
		{"no headings here", ""},
	}
	for _, tt := range tests {
		if got := Title(tt.src); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	src := "# Hello world\n\nSome **bold** text and a [link](http://x.y).\n\n```\ncode here\n```"
	got := Count(src)

	if got.Words != 10 {
		t.Errorf("Words = %d, want 10", got.Words)
	}
	if got.Lines != 7 {
		t.Errorf("Lines = %d, want 7", got.Lines)
	}
	if got.Chars != len([]rune(src)) {
		t.Errorf("Chars = %d, want %d", got.Chars, len([]rune(src)))
	}
}

func TestCountEmpty(t *testing.T) {
	got := Count("")
	if got.Words != 0 || got.Chars != 0 || got.Lines != 1 {
		t.Errorf("Count(\"\") = %+v", got)
	}
}

func TestPreviewerRender(t *testing.T) {
	p := NewPreviewer("notty")
	out, err := p.Render("---\ntitle: Hidden\n---\n# Hello\n\nSome text.\n", 60)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Hello") || !strings.Contains(out, "Some text.") {
		t.Errorf("Render() output missing content: %q", out)
	}
	if strings.Contains(out, "Hidden") {
		t.Error("Render() should not include front matter")
	}

	// A second width rebuilds the renderer
	if _, err := p.Render("# Hi", 30); err != nil {
		t.Errorf("Render() at new width error = %v", err)
	}
}
