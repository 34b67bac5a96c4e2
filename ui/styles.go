package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the styles used in the editor. The palette is fixed;
// only the border set changes with terminal capabilities.
type Styles struct {
	// Menu bar
	MenuBar            lipgloss.Style
	MenuItem           lipgloss.Style
	MenuItemActive     lipgloss.Style
	MenuDropdown       lipgloss.Style
	MenuOption         lipgloss.Style
	MenuOptionActive   lipgloss.Style
	MenuOptionDisabled lipgloss.Style

	// Status bar
	StatusBar      lipgloss.Style
	StatusModified lipgloss.Style
	StatusError    lipgloss.Style
	StatusSuccess  lipgloss.Style

	// Editor
	Editor           lipgloss.Style
	LineNumber       lipgloss.Style
	LineNumberActive lipgloss.Style
	Selection        lipgloss.Style
	Cursor           lipgloss.Style
	Filler           lipgloss.Style // "~" below the last line
	ScrollTrack      lipgloss.Style
	ScrollThumb      lipgloss.Style

	// Dialogs
	DialogBox         lipgloss.Style
	DialogErrorBox    lipgloss.Style
	DialogTitle       lipgloss.Style
	DialogText        lipgloss.Style
	DialogButton      lipgloss.Style
	DialogButtonFocus lipgloss.Style
	DialogInput       lipgloss.Style
	DialogListItem    lipgloss.Style
	DialogListActive  lipgloss.Style
	DialogListDir     lipgloss.Style

	// Preview pane
	PreviewBorder lipgloss.Style

	Subtle lipgloss.Style
	Error  lipgloss.Style

	// Glyphs for the scrollbar
	TrackRune rune
	ThumbRune rune

	ASCII bool // Box drawing limited to ASCII
}

const (
	colorBlack      = lipgloss.Color("0")
	colorBlue       = lipgloss.Color("4")
	colorCyan       = lipgloss.Color("6")
	colorGray       = lipgloss.Color("7")
	colorDarkGray   = lipgloss.Color("8")
	colorRed        = lipgloss.Color("9")
	colorYellow     = lipgloss.Color("11")
	colorBrightCyan = lipgloss.Color("14")
	colorWhite      = lipgloss.Color("15")
)

// NewStyles creates the editor styles. ascii selects a border drawn with
// plain ASCII characters for terminals without UTF-8.
func NewStyles(ascii bool) Styles {
	border := lipgloss.RoundedBorder()
	if ascii {
		border = lipgloss.ASCIIBorder()
	}

	track, thumb := '│', '┃'
	if ascii {
		track, thumb = '|', '#'
	}

	return Styles{
		TrackRune: track,
		ThumbRune: thumb,
		ASCII:     ascii,

		MenuBar: lipgloss.NewStyle().
			Background(colorBlue).
			Foreground(colorWhite),

		MenuItem: lipgloss.NewStyle().
			Background(colorBlue).
			Foreground(colorWhite).
			Padding(0, 2),

		MenuItemActive: lipgloss.NewStyle().
			Background(colorCyan).
			Foreground(colorBlack).
			Padding(0, 2),

		MenuDropdown: lipgloss.NewStyle().
			Background(colorGray).
			Foreground(colorBlack).
			Border(border).
			BorderForeground(colorBlack).
			BorderBackground(colorGray),

		MenuOption: lipgloss.NewStyle().
			Background(colorGray).
			Foreground(colorBlack).
			Padding(0, 1),

		MenuOptionActive: lipgloss.NewStyle().
			Background(colorBlack).
			Foreground(colorWhite).
			Padding(0, 1),

		MenuOptionDisabled: lipgloss.NewStyle().
			Background(colorGray).
			Foreground(colorDarkGray).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(colorCyan).
			Foreground(colorBlack),

		StatusModified: lipgloss.NewStyle().
			Background(colorCyan).
			Foreground(colorRed).
			Bold(true),

		StatusError: lipgloss.NewStyle().
			Background(colorCyan).
			Foreground(colorRed).
			Bold(true),

		StatusSuccess: lipgloss.NewStyle().
			Background(colorCyan).
			Foreground(colorBlack).
			Bold(true),

		Editor: lipgloss.NewStyle(),

		LineNumber: lipgloss.NewStyle().
			Foreground(colorDarkGray),

		LineNumberActive: lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true),

		Selection: lipgloss.NewStyle().
			Background(colorBlue).
			Foreground(colorWhite),

		Cursor: lipgloss.NewStyle().
			Reverse(true),

		Filler: lipgloss.NewStyle().
			Foreground(colorDarkGray),

		ScrollTrack: lipgloss.NewStyle().
			Foreground(colorDarkGray),

		ScrollThumb: lipgloss.NewStyle().
			Foreground(colorGray),

		DialogBox: lipgloss.NewStyle().
			Border(border).
			BorderForeground(colorBrightCyan).
			Padding(0, 1),

		DialogErrorBox: lipgloss.NewStyle().
			Border(border).
			BorderForeground(colorRed).
			Padding(0, 1),

		DialogTitle: lipgloss.NewStyle().
			Foreground(colorBrightCyan).
			Bold(true),

		DialogText: lipgloss.NewStyle(),

		DialogButton: lipgloss.NewStyle().
			Padding(0, 1),

		DialogButtonFocus: lipgloss.NewStyle().
			Background(colorCyan).
			Foreground(colorBlack).
			Bold(true).
			Padding(0, 1),

		DialogInput: lipgloss.NewStyle().
			Foreground(colorWhite),

		DialogListItem: lipgloss.NewStyle(),

		DialogListActive: lipgloss.NewStyle().
			Background(colorCyan).
			Foreground(colorBlack),

		DialogListDir: lipgloss.NewStyle().
			Foreground(colorBrightCyan).
			Bold(true),

		PreviewBorder: lipgloss.NewStyle().
			Border(border, false, false, false, true).
			BorderForeground(colorDarkGray).
			PaddingLeft(1),

		Subtle: lipgloss.NewStyle().
			Foreground(colorDarkGray),

		Error: lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true),
	}
}

// DefaultStyles returns the UTF-8 styles
func DefaultStyles() Styles {
	return NewStyles(false)
}
