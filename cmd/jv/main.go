package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/vanderheijden86/jsontree/pkg/config"
	"github.com/vanderheijden86/jsontree/pkg/debug"
	"github.com/vanderheijden86/jsontree/pkg/jsontree"
	"github.com/vanderheijden86/jsontree/pkg/ui"
	"github.com/vanderheijden86/jsontree/pkg/version"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	expand := flag.String("expand", "", "Default expansion: 'all', 'none', or a depth number")
	abbrevRoot := flag.Bool("abbrev-root", false, "Collapse the root to a bare {...} token")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the viewed file")
	name := flag.String("name", "", "Document name shown in the header (defaults to the file name)")
	flag.Parse()

	if *help {
		fmt.Println("Usage: jv [options] [file|document-name]")
		fmt.Println("\nAn interactive JSON tree viewer for the terminal.")
		fmt.Println("Reads from stdin when no file is given and stdin is not a TTY.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("jv %s\n", version.Version)
		os.Exit(0)
	}

	// Load jv config for registered documents and view preferences
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue without config
		cfg = config.DefaultConfig()
	}

	// Flags override the config file
	if *expand != "" {
		v := strings.ToLower(*expand)
		if v != "all" && v != "none" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "Invalid --expand value %q (want 'all', 'none', or a depth)\n", *expand)
				os.Exit(2)
			}
		}
		cfg.View.Expand = config.NormalizeExpand(v)
	}
	if *abbrevRoot {
		cfg.View.AbbreviateRoot = true
	}
	if *noWatch {
		off := false
		cfg.Watch.Enabled = &off
	}

	data, path, docName, err := readInput(flag.Args(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *name != "" {
		docName = *name
	}

	start := time.Now()
	doc, err := jsontree.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", docName, err)
		os.Exit(1)
	}
	debug.LogTiming("parse", time.Since(start))

	m := ui.NewModel(docName, path, doc, cfg)
	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running jv: %v\n", err)
		os.Exit(1)
	}
}

// readInput resolves the positional argument to a file (directly or through a
// registered document name) or falls back to stdin. path is empty for stdin,
// which disables live reload.
func readInput(args []string, cfg config.Config) (data []byte, path, docName string, err error) {
	if len(args) >= 1 {
		path = args[0]
		if _, statErr := os.Stat(path); statErr != nil {
			if doc := cfg.FindDocument(args[0]); doc != nil {
				path = doc.ResolvedPath()
			}
		}
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, "", "", fmt.Errorf("reading %s: %w", path, err)
		}
		return data, path, filepath.Base(path), nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, "", "", fmt.Errorf("no input: pass a file argument or pipe JSON to stdin (see jv --help)")
	}
	data, err = io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return data, "", "stdin", nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set JV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("JV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	return err
}
