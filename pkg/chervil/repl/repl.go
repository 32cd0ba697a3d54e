// Package repl implements the interactive Chervil session: read an
// s-expression, pretty-print it back at the configured margin.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/chervil/config"
	cherrors "github.com/sambeau/chervil/pkg/chervil/errors"
	"github.com/sambeau/chervil/pkg/chervil/printer"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const LOGO = `
█▀▀ █░█ █▀▀ █▀█ █░█ █ █░░
█▄▄ █▀█ ██▄ █▀▄ ▀▄▀ █ █▄▄ `

// Completion candidates: REPL commands plus the form heads the standard
// dispatch table lays out specially.
var completionWords = []string{
	// Commands
	":help", ":quit", ":margin", ":miser", ":lines", ":ugly", ":pretty",
	// Special forms with their own printers
	"quote", "quasiquote", "unquote", "unquote-splicing",
	"defun", "defmacro", "define", "lambda", "let", "let*", "letrec",
	"if", "cond", "case", "when", "unless", "do", "progn", "setq",
	// Common values
	"nil", "#t", "#f",
}

// Start starts the REPL with line editing, history, and tab completion
func Start(in io.Reader, out io.Writer, cfg *config.Config, version string) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	// Set up tab completion
	line.SetCompleter(func(line string) []string {
		return filterCompletions(line)
	})

	// Load command history from file
	historyFile := cfg.REPL.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".chervil_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	opts := printer.Options{
		Margin:     cfg.Print.RightMargin,
		MiserWidth: cfg.Print.MiserWidth,
		Lines:      cfg.Print.Lines,
		Readably:   cfg.Print.Readably,
		Level:      cfg.Print.Level,
		Length:     cfg.Print.Length,
	}

	fmt.Fprintln(out, LOGO)
	fmt.Fprintf(out, "\nchervil %s — type an s-expression, :help for commands\n\n", version)

	for {
		input, err := readExpression(line)
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(strings.TrimSpace(input), ":") {
			if quit := runCommand(out, strings.TrimSpace(input), &opts); quit {
				return
			}
			continue
		}

		values, err := sexp.ReadAll(input)
		if err != nil {
			printError(out, err)
			continue
		}
		for _, v := range values {
			if err := printer.Print(out, v, opts); err != nil {
				printError(out, err)
				break
			}
			fmt.Fprintln(out)
		}
	}
}

// readExpression reads lines until the parens balance, showing a
// continuation prompt for incomplete input.
func readExpression(line *liner.State) (string, error) {
	input, err := line.Prompt(PROMPT)
	if err != nil {
		return "", err
	}
	for !sexp.Balanced(input) {
		more, err := line.Prompt(CONTINUATION_PROMPT)
		if err != nil {
			return "", err
		}
		input += "\n" + more
	}
	return input, nil
}

// runCommand handles a :command line; it reports whether to quit.
func runCommand(out io.Writer, input string, opts *printer.Options) bool {
	fields := strings.Fields(input)
	cmd := fields[0]
	arg := func() (int, bool) {
		if len(fields) < 2 {
			fmt.Fprintf(out, "%s needs a number\n", cmd)
			return 0, false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			fmt.Fprintf(out, "%s needs a non-negative number, got %q\n", cmd, fields[1])
			return 0, false
		}
		return n, true
	}

	switch cmd {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		printHelp(out)
	case ":margin":
		if n, ok := arg(); ok && n > 0 {
			opts.Margin = n
			fmt.Fprintf(out, "margin = %d\n", n)
		}
	case ":miser":
		if n, ok := arg(); ok {
			opts.MiserWidth = &n
			fmt.Fprintf(out, "miser width = %d\n", n)
		}
	case ":lines":
		if n, ok := arg(); ok {
			opts.Lines = n
			fmt.Fprintf(out, "lines = %d\n", n)
		}
	case ":ugly":
		opts.Ugly = true
		fmt.Fprintln(out, "flat printing on")
	case ":pretty":
		opts.Ugly = false
		fmt.Fprintln(out, "pretty printing on")
	default:
		fmt.Fprintf(out, "unknown command %s (:help for commands)\n", cmd)
	}
	return false
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  :margin N   set the right margin
  :miser N    set the miser-mode width
  :lines N    set the line budget (0 = unlimited)
  :ugly       print flat, without layout
  :pretty     print with layout (default)
  :quit       leave the REPL
`)
}

func printError(out io.Writer, err error) {
	if ce, ok := err.(*cherrors.ChervilError); ok {
		fmt.Fprintf(out, "error: %s\n", ce.String())
		return
	}
	fmt.Fprintf(out, "error: %v\n", err)
}

// filterCompletions returns completion words matching the last token of
// the line being edited.
func filterCompletions(line string) []string {
	trimmed := line
	if i := strings.LastIndexAny(line, " ("); i >= 0 {
		trimmed = line[i+1:]
	}
	if trimmed == "" {
		return nil
	}
	var out []string
	for _, w := range completionWords {
		if strings.HasPrefix(w, trimmed) {
			out = append(out, line[:len(line)-len(trimmed)]+w)
		}
	}
	return out
}
