package config

import (
	"sort"
	"strings"
)

// KeyBinding represents a single action's key bindings
type KeyBinding struct {
	Primary   string `toml:"primary"`
	Alternate string `toml:"alternate,omitempty"`
}

// Action names used in the [keys] table and by the editor
const (
	ActionNew          = "new"
	ActionOpen         = "open"
	ActionSave         = "save"
	ActionSaveAs       = "save_as"
	ActionRevert       = "revert"
	ActionRecentFiles  = "recent_files"
	ActionQuit         = "quit"
	ActionFind         = "find"
	ActionPreview      = "preview"
	ActionOutline      = "outline"
	ActionBold         = "bold"
	ActionItalic       = "italic"
	ActionHeading      = "heading"
	ActionLink         = "link"
	ActionImage        = "image"
	ActionTable        = "table"
	ActionRule         = "thematic_break"
	ActionBulletList   = "bullet_list"
	ActionNumberedList = "numbered_list"
	ActionTaskList     = "task_list"
	ActionQuote        = "quote"
	ActionCodeBlock    = "code_block"
	ActionLineNumbers  = "toggle_line_numbers"
	ActionWordWrap     = "toggle_word_wrap"
	ActionHelp         = "help"
)

// KeybindingsConfig holds all configurable keybindings
type KeybindingsConfig struct {
	// File operations
	New         KeyBinding `toml:"new"`
	Open        KeyBinding `toml:"open"`
	Save        KeyBinding `toml:"save"`
	SaveAs      KeyBinding `toml:"save_as"`
	Revert      KeyBinding `toml:"revert"`
	RecentFiles KeyBinding `toml:"recent_files"`
	Quit        KeyBinding `toml:"quit"`

	// Markdown formatting
	Bold         KeyBinding `toml:"bold"`
	Italic       KeyBinding `toml:"italic"`
	Heading      KeyBinding `toml:"heading"`
	Link         KeyBinding `toml:"link"`
	Image        KeyBinding `toml:"image"`
	Table        KeyBinding `toml:"table"`
	Rule         KeyBinding `toml:"thematic_break"`
	BulletList   KeyBinding `toml:"bullet_list"`
	NumberedList KeyBinding `toml:"numbered_list"`
	TaskList     KeyBinding `toml:"task_list"`
	Quote        KeyBinding `toml:"quote"`
	CodeBlock    KeyBinding `toml:"code_block"`

	// View
	Find              KeyBinding `toml:"find"`
	Preview           KeyBinding `toml:"preview"`
	Outline           KeyBinding `toml:"outline"`
	ToggleLineNumbers KeyBinding `toml:"toggle_line_numbers"`
	ToggleWordWrap    KeyBinding `toml:"toggle_word_wrap"`
	Help              KeyBinding `toml:"help"`
}

// DefaultKeybindings returns the default keybinding configuration
func DefaultKeybindings() *KeybindingsConfig {
	return &KeybindingsConfig{
		New:         KeyBinding{Primary: "ctrl+n"},
		Open:        KeyBinding{Primary: "ctrl+o"},
		Save:        KeyBinding{Primary: "ctrl+s"},
		SaveAs:      KeyBinding{Primary: "ctrl+e", Alternate: "f12"},
		Revert:      KeyBinding{Primary: ""},
		RecentFiles: KeyBinding{Primary: "alt+r"},
		Quit:        KeyBinding{Primary: "ctrl+q"},

		Bold:         KeyBinding{Primary: "ctrl+b"},
		Italic:       KeyBinding{Primary: "ctrl+t", Alternate: "alt+i"},
		Heading:      KeyBinding{Primary: "ctrl+g"},
		Link:         KeyBinding{Primary: "ctrl+k"},
		Image:        KeyBinding{Primary: "alt+m"},
		Table:        KeyBinding{Primary: "alt+t"},
		Rule:         KeyBinding{Primary: "alt+-"},
		BulletList:   KeyBinding{Primary: "alt+u"},
		NumberedList: KeyBinding{Primary: "alt+n"},
		TaskList:     KeyBinding{Primary: "alt+x"},
		Quote:        KeyBinding{Primary: "alt+q"},
		CodeBlock:    KeyBinding{Primary: "alt+c"},

		Find:              KeyBinding{Primary: "ctrl+f"},
		Preview:           KeyBinding{Primary: "ctrl+p"},
		Outline:           KeyBinding{Primary: "ctrl+r", Alternate: "alt+o"},
		ToggleLineNumbers: KeyBinding{Primary: "ctrl+l"},
		ToggleWordWrap:    KeyBinding{Primary: "alt+w"},
		Help:              KeyBinding{Primary: "f1"},
	}
}

// ActionNames maps action names for display
var ActionNames = map[string]string{
	ActionNew:          "New File",
	ActionOpen:         "Open File",
	ActionSave:         "Save",
	ActionSaveAs:       "Save As",
	ActionRevert:       "Revert",
	ActionRecentFiles:  "Recent Files",
	ActionQuit:         "Quit",
	ActionBold:         "Bold",
	ActionItalic:       "Italic",
	ActionHeading:      "Cycle Heading",
	ActionLink:         "Insert Link",
	ActionImage:        "Insert Image",
	ActionTable:        "Insert Table",
	ActionRule:         "Horizontal Rule",
	ActionBulletList:   "Bullet List",
	ActionNumberedList: "Numbered List",
	ActionTaskList:     "Task List",
	ActionQuote:        "Quote",
	ActionCodeBlock:    "Code Block",
	ActionFind:         "Find",
	ActionPreview:      "Toggle Preview",
	ActionOutline:      "Outline",
	ActionLineNumbers:  "Toggle Line Numbers",
	ActionWordWrap:     "Toggle Word Wrap",
	ActionHelp:         "Help",
}

func (kb *KeybindingsConfig) bindings() map[string]KeyBinding {
	return map[string]KeyBinding{
		ActionNew:          kb.New,
		ActionOpen:         kb.Open,
		ActionSave:         kb.Save,
		ActionSaveAs:       kb.SaveAs,
		ActionRevert:       kb.Revert,
		ActionRecentFiles:  kb.RecentFiles,
		ActionQuit:         kb.Quit,
		ActionBold:         kb.Bold,
		ActionItalic:       kb.Italic,
		ActionHeading:      kb.Heading,
		ActionLink:         kb.Link,
		ActionImage:        kb.Image,
		ActionTable:        kb.Table,
		ActionRule:         kb.Rule,
		ActionBulletList:   kb.BulletList,
		ActionNumberedList: kb.NumberedList,
		ActionTaskList:     kb.TaskList,
		ActionQuote:        kb.Quote,
		ActionCodeBlock:    kb.CodeBlock,
		ActionFind:         kb.Find,
		ActionPreview:      kb.Preview,
		ActionOutline:      kb.Outline,
		ActionLineNumbers:  kb.ToggleLineNumbers,
		ActionWordWrap:     kb.ToggleWordWrap,
		ActionHelp:         kb.Help,
	}
}

// GetBinding returns the KeyBinding for a given action name
func (kb *KeybindingsConfig) GetBinding(action string) KeyBinding {
	return kb.bindings()[action]
}

// ActionFor returns the action bound to key, or "" if none
func (kb *KeybindingsConfig) ActionFor(key string) string {
	for _, action := range AllActions() {
		if kb.GetBinding(action).Matches(key) {
			return action
		}
	}
	return ""
}

// AllActions returns a list of all action names in display order
func AllActions() []string {
	return []string{
		ActionNew, ActionOpen, ActionSave, ActionSaveAs, ActionRevert, ActionRecentFiles, ActionQuit,
		ActionBold, ActionItalic, ActionHeading, ActionLink,
		ActionImage, ActionTable, ActionRule,
		ActionBulletList, ActionNumberedList, ActionTaskList, ActionQuote, ActionCodeBlock,
		ActionFind, ActionPreview, ActionOutline, ActionLineNumbers, ActionWordWrap,
		ActionHelp,
	}
}

// Matches checks if a key string matches this binding (primary or alternate)
func (b KeyBinding) Matches(key string) bool {
	key = strings.ToLower(key)
	return (b.Primary != "" && strings.ToLower(b.Primary) == key) ||
		(b.Alternate != "" && strings.ToLower(b.Alternate) == key)
}

// DisplayString returns a human-readable string for the binding
func (b KeyBinding) DisplayString() string {
	if b.Primary == "" && b.Alternate == "" {
		return ""
	}
	if b.Alternate == "" {
		return FormatKeyForDisplay(b.Primary)
	}
	return FormatKeyForDisplay(b.Primary) + " / " + FormatKeyForDisplay(b.Alternate)
}

// FormatKeyForDisplay converts a key string to a more readable format
func FormatKeyForDisplay(key string) string {
	if key == "" {
		return ""
	}
	parts := strings.Split(key, "+")
	for i, p := range parts {
		switch {
		case p == "ctrl" || p == "alt" || p == "shift":
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		case len(p) > 1 && p[0] == 'f' && p[1] >= '0' && p[1] <= '9':
			parts[i] = "F" + p[1:]
		case len(p) == 1:
			parts[i] = strings.ToUpper(p)
		default:
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}

// FindConflicts checks for key conflicts and returns a map of conflicting actions
func (kb *KeybindingsConfig) FindConflicts() map[string][]string {
	keyToActions := make(map[string][]string)

	for _, action := range AllActions() {
		binding := kb.GetBinding(action)
		for _, key := range []string{binding.Primary, binding.Alternate} {
			if key != "" {
				key = strings.ToLower(key)
				keyToActions[key] = append(keyToActions[key], action)
			}
		}
	}

	conflicts := make(map[string][]string)
	for key, actions := range keyToActions {
		if len(actions) > 1 {
			sort.Strings(actions)
			conflicts[key] = actions
		}
	}
	return conflicts
}
