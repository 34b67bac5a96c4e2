package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// AppName names the config, state and log directories
const AppName = "marktivus"

// Config holds the editor configuration
type Config struct {
	Editor      EditorConfig      `toml:"editor"`
	Files       FilesConfig       `toml:"files"`
	Log         LogConfig         `toml:"log"`
	Keys        KeybindingsConfig `toml:"keys"`
	RecentFiles []string          `toml:"recent_files,omitempty"` // Recently opened files (max 10)
}

// MaxRecentFiles is the maximum number of recent files to track
const MaxRecentFiles = 10

// EditorConfig holds editor-specific settings
type EditorConfig struct {
	LineNumbers     bool  `toml:"line_numbers"`
	SyntaxHighlight bool  `toml:"syntax_highlight"`
	WordWrap        bool  `toml:"word_wrap"`
	Preview         bool  `toml:"preview"` // Show the rendered preview pane at startup
	TabWidth        int   `toml:"tab_width"`
	NotifySaves     bool  `toml:"notify_saves"` // Confirm saves with a dialog instead of the status bar
	AsciiMode       *bool `toml:"ascii_mode"`   // nil = auto-detect, true/false = override
}

// FilesConfig controls the open and save dialogs
type FilesConfig struct {
	Extensions   []string `toml:"extensions"`     // Offered by the dialogs, first one is appended on save
	StartDir     string   `toml:"start_dir"`      // Empty = working directory
	BackupOnSave bool     `toml:"backup_on_save"` // Keep the previous version as file~
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // Empty = state directory
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			LineNumbers:     false,
			SyntaxHighlight: true,
			WordWrap:        true,
			Preview:         false,
			TabWidth:        4,
		},
		Files: FilesConfig{
			Extensions: []string{"md", "markdown"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Keys: *DefaultKeybindings(),
	}
}

// AddRecentFile adds a file to the recent files list
func (c *Config) AddRecentFile(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	// Remove if already in list (will re-add at top)
	newList := make([]string, 0, MaxRecentFiles)
	for _, f := range c.RecentFiles {
		if f != absPath {
			newList = append(newList, f)
		}
	}

	c.RecentFiles = append([]string{absPath}, newList...)

	if len(c.RecentFiles) > MaxRecentFiles {
		c.RecentFiles = c.RecentFiles[:MaxRecentFiles]
	}
}

// Extensions returns the configured extensions without leading dots
func (c *Config) Extensions() []string {
	exts := make([]string, 0, len(c.Files.Extensions))
	for _, e := range c.Files.Extensions {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e != "" {
			exts = append(exts, e)
		}
	}
	return exts
}

// ConfigPath returns the path to the config file.
// A variable so tests can point it somewhere else.
var ConfigPath = func() (string, error) {
	return xdg.ConfigFile(filepath.Join(AppName, "config.toml"))
}

// LogPath returns the log file path, honouring the config override
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(filepath.Join(AppName, AppName+".log"))
}

// LoadError holds details about a config loading error
type LoadError struct {
	FilePath string
	Err      error
}

func (e *LoadError) Error() string {
	return e.FilePath + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the configuration from disk
// Returns default config if file doesn't exist
// Returns LoadError if file exists but has parse errors
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return DefaultConfig(), &LoadError{FilePath: path, Err: err}
	}

	if cfg.Editor.TabWidth <= 0 {
		cfg.Editor.TabWidth = 4
	}
	if len(cfg.Extensions()) == 0 {
		cfg.Files.Extensions = DefaultConfig().Files.Extensions
	}

	return cfg, nil
}

// Save writes the configuration to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	f.WriteString("# marktivus configuration\n\n")

	return toml.NewEncoder(f).Encode(c)
}
