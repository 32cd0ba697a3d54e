package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/sambeau/chervil/config"
	"github.com/sambeau/chervil/pkg/chervil/printer"
	"github.com/sambeau/chervil/pkg/chervil/repl"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("chervil", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath  = flags.String("config", "", "Path to config file")
		evalExpr    = flags.String("e", "", "Pretty-print an expression given on the command line")
		margin      = flags.Int("margin", 0, "Override right margin")
		miser       = flags.Int("miser", -1, "Override miser width (-1 = from config)")
		lines       = flags.Int("lines", -1, "Override line budget (-1 = from config)")
		ugly        = flags.Bool("ugly", false, "Print flat, without layout")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "chervil version %s\n", Version)
		return nil
	}

	cfg, _, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Apply CLI overrides
	if *margin > 0 {
		cfg.Print.RightMargin = *margin
	}
	if *miser >= 0 {
		cfg.Print.MiserWidth = miser
	}
	if *lines >= 0 {
		cfg.Print.Lines = *lines
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	opts := printer.Options{
		Margin:     cfg.Print.RightMargin,
		MiserWidth: cfg.Print.MiserWidth,
		Lines:      cfg.Print.Lines,
		Readably:   cfg.Print.Readably,
		Level:      cfg.Print.Level,
		Length:     cfg.Print.Length,
		Ugly:       *ugly,
	}

	switch {
	case *evalExpr != "":
		return printSource(stdout, *evalExpr, opts)
	case flags.NArg() > 0:
		for _, path := range flags.Args() {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if err := printSource(stdout, string(data), opts); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	case isTerminal(stdin):
		repl.Start(stdin, stdout, cfg, Version)
		return nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		return printSource(stdout, string(data), opts)
	}
}

// printSource reads every expression in source and pretty-prints each
// on its own line.
func printSource(out io.Writer, source string, opts printer.Options) error {
	values, err := sexp.ReadAll(source)
	if err != nil {
		return err
	}
	for _, v := range values {
		if err := printer.Print(out, v, opts); err != nil {
			return err
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func printUsage(out io.Writer) {
	usage := strings.TrimLeft(`
chervil - A pretty-printer for s-expressions

Usage:
  chervil [flags] [files...]      Pretty-print files (stdin with no files)
  chervil -e "(expr)"             Pretty-print an expression
  chervil                         Start the REPL (when stdin is a terminal)

Flags:
  --config PATH   Config file (default: $CHERVIL_CONFIG, then ./chervil.yaml)
  --margin N      Right margin in columns (default 80)
  --miser N       Miser-mode width
  --lines N       Line budget (0 = unlimited)
  --ugly          Print flat, without layout
  --version       Show version
  --help          Show this help
`, "\n")
	fmt.Fprint(out, usage)
}
