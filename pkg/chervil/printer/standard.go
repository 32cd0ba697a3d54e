package printer

import (
	"github.com/sambeau/chervil/pkg/chervil/pretty"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

// The built-in printers. They are data for the dispatch table, not part
// of the engine: each one is registered against a type specifier and a
// priority, and users can shadow any of them with their own entries.

func init() {
	pretty.RegisterInitial(sexp.List(sexp.Symbol("cons"), sexp.Symbol("symbol")), printCall, -5)
	pretty.RegisterInitial(sexp.Symbol("cons"), printData, -10)
	pretty.RegisterInitial(sexp.Symbol("vector"), printVector, -10)

	registerConsInitial(printSugar("'"), "quote")
	registerConsInitial(printSugar("`"), "quasiquote")
	registerConsInitial(printSugar(","), "unquote")
	registerConsInitial(printSugar(",@"), "unquote-splicing")

	registerConsInitial(bodyFormPrinter(2), "defun", "defmacro", "define")
	registerConsInitial(bodyFormPrinter(1), "lambda", "when", "unless", "case", "dolist", "dotimes")
	registerConsInitial(bodyFormPrinter(0), "progn")
	registerConsInitial(printLet, "let", "let*", "letrec")
	registerConsInitial(printIf, "if")
	registerConsInitial(printCond, "cond")
	registerConsInitial(printDo, "do", "do*")
	registerConsInitial(printSetq, "setq", "psetq")
}

func registerConsInitial(fn pretty.PrinterFunc, heads ...string) {
	for _, head := range heads {
		spec := sexp.List(sexp.Symbol("cons"),
			sexp.List(sexp.Symbol("eql"), sexp.Symbol(head)))
		pretty.RegisterInitial(spec, fn, 0)
	}
}

// printData prints a data list (or dotted pair) fill-style.
func printData(s *pretty.Stream, v sexp.Value) error {
	return Fill(s, v, true)
}

// printVector prints #(...) fill-style.
func printVector(s *pretty.Stream, v sexp.Value) error {
	vec, ok := v.(sexp.Vector)
	if !ok {
		return s.OutputObject(v)
	}
	if err := s.StartBlock("#(", false, ")"); err != nil {
		return err
	}
	budget := lengthBudget(s)
	for i, e := range vec {
		if i > 0 {
			if err := s.WriteByte(' '); err != nil {
				return err
			}
			if err := s.Newline(pretty.Fill); err != nil {
				return err
			}
		}
		if budget > 0 && i >= budget {
			if _, err := s.WriteString("..."); err != nil {
				return err
			}
			break
		}
		if err := s.OutputObject(e); err != nil {
			return err
		}
	}
	return s.EndBlock()
}

// printCall prints (head arg ...) with the arguments aligned under the
// first one.
func printCall(s *pretty.Stream, v sexp.Value) error {
	els, tail := sexp.Elements(v)
	if err := s.StartBlock("(", false, ")"); err != nil {
		return err
	}
	if err := s.OutputObject(els[0]); err != nil {
		return err
	}
	budget := lengthBudget(s)
	for i, arg := range els[1:] {
		if err := s.WriteByte(' '); err != nil {
			return err
		}
		if i == 0 {
			s.Indent(pretty.IndentCurrent, 0)
		} else {
			if err := s.Newline(pretty.Fill); err != nil {
				return err
			}
		}
		if budget > 0 && i+1 >= budget {
			if _, err := s.WriteString("..."); err != nil {
				return err
			}
			tail = sexp.Nil
			break
		}
		if err := s.OutputObject(arg); err != nil {
			return err
		}
	}
	if _, isNil := tail.(sexp.Null); !isNil {
		if _, err := s.WriteString(" . "); err != nil {
			return err
		}
		if err := s.OutputObject(tail); err != nil {
			return err
		}
	}
	return s.EndBlock()
}

// printSugar re-sugars the quote family. Malformed quote forms fall
// back to the call printer.
func printSugar(sugar string) pretty.PrinterFunc {
	return func(s *pretty.Stream, v sexp.Value) error {
		els, tail := sexp.Elements(v)
		if _, isNil := tail.(sexp.Null); !isNil || len(els) != 2 {
			return printCall(s, v)
		}
		if _, err := s.WriteString(sugar); err != nil {
			return err
		}
		if sugar == "," {
			// ,@x and ,.x read as splices; a space keeps an unquoted
			// @- or .-leading form unambiguous.
			s.SetCharHook(func(next rune) error {
				if next == '@' || next == '.' {
					return s.WriteByte(' ')
				}
				return nil
			})
		}
		return s.OutputObject(els[1])
	}
}

// bodyFormPrinter prints special forms of the shape
// (head distinguished... body...): the distinguished arguments stay
// beside the head with fill breaks, the body indents under the block
// with linear breaks.
func bodyFormPrinter(distinguished int) pretty.PrinterFunc {
	return func(s *pretty.Stream, v sexp.Value) error {
		els, tail := sexp.Elements(v)
		if _, isNil := tail.(sexp.Null); !isNil || len(els) < distinguished+1 {
			return printCall(s, v)
		}
		if err := s.StartBlock("(", false, ")"); err != nil {
			return err
		}
		if err := s.OutputObject(els[0]); err != nil {
			return err
		}
		for _, arg := range els[1 : 1+distinguished] {
			if err := s.WriteByte(' '); err != nil {
				return err
			}
			if err := s.Newline(pretty.Fill); err != nil {
				return err
			}
			if err := s.OutputObject(arg); err != nil {
				return err
			}
		}
		s.Indent(pretty.IndentBlock, 1)
		for _, form := range els[1+distinguished:] {
			if err := s.WriteByte(' '); err != nil {
				return err
			}
			if err := s.Newline(pretty.Linear); err != nil {
				return err
			}
			if err := s.OutputObject(form); err != nil {
				return err
			}
		}
		return s.EndBlock()
	}
}

// printLet prints (let (bindings...) body...): each binding is its own
// block, the body indents under the let.
func printLet(s *pretty.Stream, v sexp.Value) error {
	els, tail := sexp.Elements(v)
	if _, isNil := tail.(sexp.Null); !isNil || len(els) < 2 {
		return printCall(s, v)
	}
	if err := s.StartBlock("(", false, ")"); err != nil {
		return err
	}
	if err := s.OutputObject(els[0]); err != nil {
		return err
	}
	if err := s.WriteByte(' '); err != nil {
		return err
	}
	if err := s.Newline(pretty.Miser); err != nil {
		return err
	}
	if err := printBindings(s, els[1]); err != nil {
		return err
	}
	s.Indent(pretty.IndentBlock, 1)
	for _, form := range els[2:] {
		if err := s.WriteByte(' '); err != nil {
			return err
		}
		if err := s.Newline(pretty.Linear); err != nil {
			return err
		}
		if err := s.OutputObject(form); err != nil {
			return err
		}
	}
	return s.EndBlock()
}

// printBindings prints a binding list with one binding per line once
// they stop fitting, each binding linear inside.
func printBindings(s *pretty.Stream, bindings sexp.Value) error {
	if _, ok := bindings.(*sexp.Cons); !ok {
		return s.OutputObject(bindings)
	}
	if err := s.StartBlock("(", false, ")"); err != nil {
		return err
	}
	els, _ := sexp.Elements(bindings)
	for i, b := range els {
		if i > 0 {
			if err := s.WriteByte(' '); err != nil {
				return err
			}
			if err := s.Newline(pretty.Linear); err != nil {
				return err
			}
		}
		if _, ok := b.(*sexp.Cons); ok {
			if err := Linear(s, b, true); err != nil {
				return err
			}
		} else if err := s.OutputObject(b); err != nil {
			return err
		}
	}
	return s.EndBlock()
}

// printIf keeps the test beside the head and gives each branch its own
// line when the form wraps.
func printIf(s *pretty.Stream, v sexp.Value) error {
	els, tail := sexp.Elements(v)
	if _, isNil := tail.(sexp.Null); !isNil || len(els) < 2 {
		return printCall(s, v)
	}
	if err := s.StartBlock("(", false, ")"); err != nil {
		return err
	}
	if err := s.OutputObject(els[0]); err != nil {
		return err
	}
	if err := s.WriteByte(' '); err != nil {
		return err
	}
	s.Indent(pretty.IndentCurrent, 0)
	if err := s.OutputObject(els[1]); err != nil {
		return err
	}
	for _, branch := range els[2:] {
		if err := s.WriteByte(' '); err != nil {
			return err
		}
		if err := s.Newline(pretty.Linear); err != nil {
			return err
		}
		if err := s.OutputObject(branch); err != nil {
			return err
		}
	}
	return s.EndBlock()
}

// printCond gives every clause its own block and line.
func printCond(s *pretty.Stream, v sexp.Value) error {
	els, tail := sexp.Elements(v)
	if _, isNil := tail.(sexp.Null); !isNil || len(els) < 2 {
		return printCall(s, v)
	}
	if err := s.StartBlock("(", false, ")"); err != nil {
		return err
	}
	if err := s.OutputObject(els[0]); err != nil {
		return err
	}
	if err := s.WriteByte(' '); err != nil {
		return err
	}
	s.Indent(pretty.IndentCurrent, 0)
	for i, clause := range els[1:] {
		if i > 0 {
			if err := s.WriteByte(' '); err != nil {
				return err
			}
			if err := s.Newline(pretty.Linear); err != nil {
				return err
			}
		}
		if _, ok := clause.(*sexp.Cons); ok {
			if err := Linear(s, clause, true); err != nil {
				return err
			}
		} else if err := s.OutputObject(clause); err != nil {
			return err
		}
	}
	return s.EndBlock()
}

// printDo prints (do (bindings...) (end...) body...).
func printDo(s *pretty.Stream, v sexp.Value) error {
	els, tail := sexp.Elements(v)
	if _, isNil := tail.(sexp.Null); !isNil || len(els) < 3 {
		return printCall(s, v)
	}
	if err := s.StartBlock("(", false, ")"); err != nil {
		return err
	}
	if err := s.OutputObject(els[0]); err != nil {
		return err
	}
	if err := s.WriteByte(' '); err != nil {
		return err
	}
	s.Indent(pretty.IndentCurrent, 0)
	if err := printBindings(s, els[1]); err != nil {
		return err
	}
	if err := s.WriteByte(' '); err != nil {
		return err
	}
	if err := s.Newline(pretty.Linear); err != nil {
		return err
	}
	if err := Linear(s, els[2], true); err != nil {
		return err
	}
	s.Indent(pretty.IndentBlock, 1)
	for _, form := range els[3:] {
		if err := s.WriteByte(' '); err != nil {
			return err
		}
		if err := s.Newline(pretty.Linear); err != nil {
			return err
		}
		if err := s.OutputObject(form); err != nil {
			return err
		}
	}
	return s.EndBlock()
}

// printSetq pairs up places and values with fill breaks between pairs.
func printSetq(s *pretty.Stream, v sexp.Value) error {
	els, tail := sexp.Elements(v)
	if _, isNil := tail.(sexp.Null); !isNil || len(els) < 3 || len(els)%2 == 0 {
		return printCall(s, v)
	}
	if err := s.StartBlock("(", false, ")"); err != nil {
		return err
	}
	if err := s.OutputObject(els[0]); err != nil {
		return err
	}
	if err := s.WriteByte(' '); err != nil {
		return err
	}
	s.Indent(pretty.IndentCurrent, 0)
	for i := 1; i < len(els); i += 2 {
		if i > 1 {
			if err := s.WriteByte(' '); err != nil {
				return err
			}
			if err := s.Newline(pretty.Fill); err != nil {
				return err
			}
		}
		if err := s.OutputObject(els[i]); err != nil {
			return err
		}
		if err := s.WriteByte(' '); err != nil {
			return err
		}
		if err := s.OutputObject(els[i+1]); err != nil {
			return err
		}
	}
	return s.EndBlock()
}
