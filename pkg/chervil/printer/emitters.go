package printer

import (
	"github.com/sambeau/chervil/pkg/chervil/pretty"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

// The convenience emitters lay a list out in one of the three classic
// shapes. Each prints through the stream's installed object writer, so
// they can be used from custom dispatch printers as well as directly.

// Fill prints list with as many elements per line as fit.
func Fill(s *pretty.Stream, list sexp.Value, parens bool) error {
	return emitList(s, list, parens, func(s *pretty.Stream) error {
		if err := s.WriteByte(' '); err != nil {
			return err
		}
		return s.Newline(pretty.Fill)
	})
}

// Linear prints list either on one line or with every element on its
// own line.
func Linear(s *pretty.Stream, list sexp.Value, parens bool) error {
	return emitList(s, list, parens, func(s *pretty.Stream) error {
		if err := s.WriteByte(' '); err != nil {
			return err
		}
		return s.Newline(pretty.Linear)
	})
}

// Tabular prints list in columns tabsize wide, measured from the start
// of the enclosing section. A tabsize of 0 means 16.
func Tabular(s *pretty.Stream, list sexp.Value, parens bool, tabsize int) error {
	if tabsize <= 0 {
		tabsize = 16
	}
	return emitList(s, list, parens, func(s *pretty.Stream) error {
		if err := s.WriteByte(' '); err != nil {
			return err
		}
		s.Tab(pretty.TabSectionRelative, 0, tabsize)
		return s.Newline(pretty.Fill)
	})
}

// emitList is the shared body of the emitters: a logical block around
// the elements with `between` separating them. Non-pair values go
// straight to the object writer; dotted tails print after a dot, like
// the flat printer's.
func emitList(s *pretty.Stream, list sexp.Value, parens bool, between func(*pretty.Stream) error) error {
	if _, ok := list.(*sexp.Cons); !ok {
		// Not a pair: nothing to lay out.
		return s.OutputObject(list)
	}
	prefix, suffix := "", ""
	if parens {
		prefix, suffix = "(", ")"
	}
	if err := s.StartBlock(prefix, false, suffix); err != nil {
		return err
	}
	budget := lengthBudget(s)
	els, tail := sexp.Elements(list)
	for i, e := range els {
		if i > 0 {
			if err := between(s); err != nil {
				return err
			}
		}
		if budget > 0 && i >= budget {
			if _, err := s.WriteString("..."); err != nil {
				return err
			}
			tail = sexp.Nil
			break
		}
		if err := s.OutputObject(e); err != nil {
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
