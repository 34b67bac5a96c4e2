package config

import (
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// Terminal describes what the terminal can display.
type Terminal struct {
	UTF8    bool
	Profile termenv.Profile // Color depth
}

// DetectTerminal reads the locale and the color depth from the environment.
// The color depth follows termenv, so NO_COLOR and CLICOLOR_FORCE apply.
func DetectTerminal() Terminal {
	out := termenv.NewOutput(os.Stdout, termenv.WithTTY(true))
	return Terminal{
		UTF8:    localeIsUTF8(),
		Profile: out.EnvColorProfile(),
	}
}

func localeIsUTF8() bool {
	// The first variable that is set wins, as in setlocale
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := strings.ToUpper(os.Getenv(name)); v != "" {
			return strings.Contains(v, "UTF-8") || strings.Contains(v, "UTF8")
		}
	}
	return false
}

// ASCII reports whether to draw with ASCII only. override is the user's
// choice and wins when set.
func (t Terminal) ASCII(override *bool) bool {
	if override != nil {
		return *override
	}
	return !t.UTF8
}

// GlamourStyle picks the preview style. Terminals without 256 colors get
// the plain "notty" style.
func (t Terminal) GlamourStyle() string {
	switch t.Profile {
	case termenv.ANSI256, termenv.TrueColor:
		return "dark"
	}
	return "notty"
}

var (
	termOnce sync.Once
	term     Terminal
)

// CurrentTerminal returns the terminal detected on first use.
func CurrentTerminal() Terminal {
	termOnce.Do(func() { term = DetectTerminal() })
	return term
}
