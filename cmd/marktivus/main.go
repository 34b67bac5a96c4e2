package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cornish/marktivus/clipboard"
	"github.com/cornish/marktivus/config"
	"github.com/cornish/marktivus/editor"
	"github.com/cornish/marktivus/fileio"
	"github.com/cornish/marktivus/logger"
	"github.com/cornish/marktivus/markdown"
	"github.com/cornish/marktivus/shell"
)

const version = "0.3.0"

func main() {
	// Parse command line arguments
	args := os.Args[1:]
	var filename, logLevel string
	asciiMode := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--version" || arg == "-v":
			fmt.Printf("%s %s\n", config.AppName, version)
			os.Exit(0)
		case arg == "--help" || arg == "-h":
			printHelp()
			os.Exit(0)
		case arg == "--ascii":
			asciiMode = true
		case arg == "--log-level" && i+1 < len(args):
			i++
			logLevel = args[i]
		case strings.HasPrefix(arg, "--log-level="):
			logLevel = strings.TrimPrefix(arg, "--log-level=")
		case isFlag(arg):
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
			os.Exit(2)
		default:
			if filename == "" {
				filename = arg
			}
		}
	}

	if err := run(filename, logLevel, asciiMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(filename, logLevel string, asciiMode bool) error {
	cfg, configErr := config.Load()
	var loadErr *config.LoadError
	if configErr != nil && !errors.As(configErr, &loadErr) {
		return configErr
	}

	// Command-line options override config
	if asciiMode {
		t := true
		cfg.Editor.AsciiMode = &t
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log := logger.Discard()
	if path, err := cfg.LogPath(); err == nil {
		l, closeLog, err := logger.NewFileLogger(path, logger.ParseLevel(cfg.Log.Level))
		if err == nil {
			log = l
			defer closeLog()
		}
	}
	if loadErr != nil {
		log.ConfigLoaded(loadErr.FilePath, loadErr.Err)
	} else if path, err := config.ConfigPath(); err == nil {
		log.ConfigLoaded(path, nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := config.CurrentTerminal()
	store := fileio.NewStore(fileio.Options{Backup: cfg.Files.BackupOnSave, Logger: log})
	bridge := editor.NewBridge(log)
	sh := shell.New(shell.Deps{
		Dialogs:  bridge,
		Files:    store,
		Widget:   bridge,
		Notifier: bridge,
		Logger:   log,
		Filter:   shell.Filter{Name: "Markdown", Extensions: cfg.Extensions()},
	})

	var startPath string
	if filename != "" {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return err
		}
		switch _, err := os.Stat(abs); {
		case err == nil:
			startPath = abs
		case errors.Is(err, os.ErrNotExist):
			// New file - just remember the name
			sh.SetPath(abs)
		default:
			return fmt.Errorf("access %s: %w", filename, err)
		}
	}

	var startupErr error
	if loadErr != nil {
		startupErr = loadErr
	}

	doc := sh.Snapshot()
	e := editor.New(editor.Options{
		Config:       cfg,
		ASCII:        term.ASCII(cfg.Editor.AsciiMode),
		Commands:     sh,
		OnChange:     func(gen uint64, text string) { sh.Edit(gen, text) },
		Formats:      store,
		Clipboard:    clipboard.New(clipboard.Options{}),
		Previewer:    markdown.NewPreviewer(term.GlamourStyle()),
		Logger:       log,
		Context:      ctx,
		Content:      doc.Buffer,
		Generation:   doc.Generation,
		StartPath:    startPath,
		StartupError: startupErr,
		Version:      version,
	})

	p := tea.NewProgram(e, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	bridge.Attach(p)

	_, err := p.Run()
	// Release operations still waiting on a dialog
	cancel()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

func isFlag(s string) bool {
	return len(s) > 0 && s[0] == '-'
}

func printHelp() {
	fmt.Println("Marktivus - A Markdown Editor for the Rest of Us")
	fmt.Println()
	fmt.Println("Usage: marktivus [options] [file]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help           Show this help message")
	fmt.Println("  -v, --version        Show version information")
	fmt.Println("  --ascii              Use ASCII characters for dialogs")
	fmt.Println("  --log-level LEVEL    debug, info, warn or error")
	fmt.Println()
	fmt.Println("Keyboard Shortcuts:")
	fmt.Println("  Ctrl+N         New file")
	fmt.Println("  Ctrl+O         Open file")
	fmt.Println("  Ctrl+S         Save file")
	fmt.Println("  Ctrl+Q         Quit")
	fmt.Println("  Ctrl+B / Ctrl+T Bold / italic")
	fmt.Println("  Ctrl+P         Toggle preview")
	fmt.Println("  Ctrl+F         Find")
	fmt.Println("  F10            Open menu")
	fmt.Println("  F1             Show help")
	fmt.Println()
	fmt.Println("Mouse:")
	fmt.Println("  Click          Position cursor")
	fmt.Println("  Double click   Select word")
	fmt.Println("  Drag           Select text")
	fmt.Println("  Scroll         Scroll the pane under the pointer")
}
