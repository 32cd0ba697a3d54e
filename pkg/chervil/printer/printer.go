// Package printer walks s-expression values and prints them through the
// pretty layout engine, using the dispatch table to pick a printer for
// each value. It also holds the built-in printers that populate the
// standard dispatch table.
package printer

import (
	"io"
	"strings"

	"github.com/sambeau/chervil/pkg/chervil/pretty"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

// Options configures a print.
type Options struct {
	// Margin is the right margin in columns; 0 means 80.
	Margin int
	// MiserWidth, when non-nil, enables miser mode at or below that width.
	MiserWidth *int
	// Lines, when positive, cuts output off after that many lines.
	Lines int
	// Readably disables the line cutoff.
	Readably bool
	// Level, when positive, abbreviates values nested deeper than this
	// with "#".
	Level int
	// Length, when positive, abbreviates lists longer than this
	// with "...".
	Length int
	// Table is the dispatch table to print with; nil means the
	// standard table.
	Table *pretty.Table
	// Ugly skips layout entirely and prints flat.
	Ugly bool
}

func (o Options) streamOptions() pretty.Options {
	return pretty.Options{
		Margin:     o.Margin,
		MiserWidth: o.MiserWidth,
		Lines:      o.Lines,
		Readably:   o.Readably,
	}
}

// walker is the recursive object printer: the per-print state that
// dispatch printers reach through the stream.
type walker struct {
	s      *pretty.Stream
	table  *pretty.Table
	level  int
	length int
	depth  int
}

// outputObject prints one value: dispatch first, flat representation
// as the fallback.
func (p *walker) outputObject(v sexp.Value) error {
	if fn, ok := pretty.Dispatch(v, p.table); ok {
		if p.level > 0 && p.depth >= p.level {
			return p.s.WriteByte('#')
		}
		p.depth++
		err := fn(p.s, v)
		p.depth--
		return err
	}
	_, err := p.s.WriteString(v.String())
	return err
}

// control returns the walker installed on s, if any. Built-in printers
// use it for the length budget; a raw stream simply has no budget.
func control(s *pretty.Stream) *walker {
	w, _ := s.Control.(*walker)
	return w
}

// lengthBudget returns the list-length cutoff active on s (0 = none).
func lengthBudget(s *pretty.Stream) int {
	if w := control(s); w != nil {
		return w.length
	}
	return 0
}

// Print pretty-prints v to w.
func Print(w io.Writer, v sexp.Value, opts Options) error {
	if opts.Ugly {
		return Ugly(w, v, opts)
	}
	table := opts.Table
	if table == nil {
		table = pretty.StandardTable()
	}
	return pretty.WithPrettyStream(w, opts.streamOptions(), func(s *pretty.Stream) error {
		p := &walker{s: s, table: table, level: opts.Level, length: opts.Length}
		prevWriter := s.SetObjectWriter(p.outputObject)
		prevControl := s.Control
		s.Control = p
		defer func() {
			s.SetObjectWriter(prevWriter)
			s.Control = prevControl
		}()
		return p.outputObject(v)
	})
}

// String pretty-prints v to a string.
func String(v sexp.Value, opts Options) string {
	var sb strings.Builder
	// A strings.Builder sink cannot fail; a line cutoff ends cleanly.
	_ = Print(&sb, v, opts)
	return sb.String()
}

// OutputPretty looks up v's printer in the dispatch table. When one is
// found it prints v through it (wrapping w in a pretty stream, or
// reusing one) and returns true; otherwise it writes nothing and
// returns false, and the caller falls back to its flat printer.
func OutputPretty(w io.Writer, v sexp.Value, opts Options) (bool, error) {
	table := opts.Table
	if table == nil {
		table = pretty.StandardTable()
	}
	if _, ok := pretty.Dispatch(v, table); !ok {
		return false, nil
	}
	return true, Print(w, v, opts)
}

// Ugly prints v flat, still honoring the level and length budgets.
func Ugly(w io.Writer, v sexp.Value, opts Options) error {
	return uglyPrint(w, v, opts.Level, opts.Length, 0)
}

func uglyPrint(w io.Writer, v sexp.Value, level, length, depth int) error {
	switch t := v.(type) {
	case *sexp.Cons:
		if level > 0 && depth >= level {
			_, err := io.WriteString(w, "#")
			return err
		}
		if _, err := io.WriteString(w, "("); err != nil {
			return err
		}
		n := 0
		var cur sexp.Value = t
		for {
			c, ok := cur.(*sexp.Cons)
			if !ok {
				break
			}
			if n > 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if length > 0 && n >= length {
				if _, err := io.WriteString(w, "..."); err != nil {
					return err
				}
				cur = sexp.Nil
				break
			}
			if err := uglyPrint(w, c.Car, level, length, depth+1); err != nil {
				return err
			}
			n++
			cur = c.Cdr
		}
		if _, isNil := cur.(sexp.Null); !isNil {
			if _, err := io.WriteString(w, " . "); err != nil {
				return err
			}
			if err := uglyPrint(w, cur, level, length, depth+1); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, ")")
		return err
	case sexp.Vector:
		if level > 0 && depth >= level {
			_, err := io.WriteString(w, "#")
			return err
		}
		if _, err := io.WriteString(w, "#("); err != nil {
			return err
		}
		for i, e := range t {
			if i > 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if length > 0 && i >= length {
				if _, err := io.WriteString(w, "..."); err != nil {
					return err
				}
				break
			}
			if err := uglyPrint(w, e, level, length, depth+1); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, ")")
		return err
	default:
		_, err := io.WriteString(w, v.String())
		return err
	}
}
