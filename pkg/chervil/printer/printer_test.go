package printer

import (
	"strings"
	"testing"

	"github.com/sambeau/chervil/pkg/chervil/pretty"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

// read parses src or fails the test.
func read(t *testing.T, src string) sexp.Value {
	t.Helper()
	v, err := sexp.Read(src)
	if err != nil {
		t.Fatalf("read %q: %v", src, err)
	}
	return v
}

func TestPrintFlatWhenItFits(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(a b c)", "(a b c)"},
		{"((a 1) (b 2))", "((a 1) (b 2))"},
		{"(a . b)", "(a . b)"},
		{"#(1 2 3)", "#(1 2 3)"},
		{"()", "()"},
		{"42", "42"},
		{"\"hi there\"", "\"hi there\""},
		{"(defun foo (x y) (+ x y))", "(defun foo (x y) (+ x y))"},
		{"(let ((x 1)) x)", "(let ((x 1)) x)"},
	}
	for _, tt := range tests {
		if got := String(read(t, tt.input), Options{}); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestPrintDefunWraps(t *testing.T) {
	got := String(read(t, "(defun foo (x y) (+ x y))"), Options{Margin: 15})
	expected := "(defun foo (x y)\n  (+ x y))"
	if got != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestPrintLetWraps(t *testing.T) {
	got := String(read(t, "(let ((x 1) (y 2)) (+ x y))"), Options{Margin: 14})
	expected := "(let ((x 1)\n      (y 2))\n  (+ x y))"
	if got != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestPrintCallAlignsArguments(t *testing.T) {
	got := String(read(t, "(frobnicate alpha beta gamma)"), Options{Margin: 18})
	expected := "(frobnicate alpha\n            beta\n            gamma)"
	if got != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestPrintDataListFill(t *testing.T) {
	// A fill break fires when the section it opens (the next item plus
	// its separator) would end past the margin.
	got := String(read(t, "(1 2 3 4 5 6 7 8 9 10 11 12)"), Options{Margin: 12})
	expected := "(1 2 3 4 5\n 6 7 8 9 10\n 11 12)"
	if got != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestQuoteSugar(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"'(a b)", "'(a b)"},
		{"'x", "'x"},
		{"`(a ,b ,@c)", "`(a ,b ,@c)"},
		{"(quote)", "(quote)"},
		{"(quote a b)", "(quote a b)"},
	}
	for _, tt := range tests {
		if got := String(read(t, tt.input), Options{}); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestUnquoteGuardsSpliceAmbiguity(t *testing.T) {
	v := sexp.List(sexp.Symbol("unquote"), sexp.Symbol("@x"))
	if got := String(v, Options{}); got != ", @x" {
		t.Errorf("Expected %q, got %q", ", @x", got)
	}
	v = sexp.List(sexp.Symbol("unquote"), sexp.Symbol("y"))
	if got := String(v, Options{}); got != ",y" {
		t.Errorf("Expected %q, got %q", ",y", got)
	}
}

func TestLevelAbbreviation(t *testing.T) {
	got := String(read(t, "(a (b (c)))"), Options{Level: 2})
	if got != "(a (b #))" {
		t.Errorf("Expected %q, got %q", "(a (b #))", got)
	}
}

func TestLengthAbbreviation(t *testing.T) {
	got := String(read(t, "(a b c d e)"), Options{Length: 3})
	if got != "(a b c ...)" {
		t.Errorf("Expected %q, got %q", "(a b c ...)", got)
	}
}

func TestUglyIgnoresLayout(t *testing.T) {
	src := "(defun foo (x y) (+ x y))"
	got := String(read(t, src), Options{Margin: 10, Ugly: true})
	if got != src {
		t.Errorf("Expected %q, got %q", src, got)
	}
}

func TestUglyHonorsCutoffs(t *testing.T) {
	got := String(read(t, "(a (b (c)) d e)"), Options{Ugly: true, Level: 2, Length: 3})
	if got != "(a (b #) d ...)" {
		t.Errorf("Expected %q, got %q", "(a (b #) d ...)", got)
	}
}

func TestUserConsEntryOverridesBuiltins(t *testing.T) {
	table := pretty.NewTable()
	userSpec := read(t, "(cons (eql foo))")
	userFn := func(s *pretty.Stream, v sexp.Value) error {
		_, err := s.WriteString("#<foo form>")
		return err
	}
	if err := pretty.SetDispatch(userSpec, userFn, 0, table); err != nil {
		t.Fatalf("SetDispatch: %v", err)
	}

	got := String(read(t, "(foo 1 2)"), Options{Table: table})
	if got != "#<foo form>" {
		t.Errorf("Expected the user entry for (foo 1 2), got %q", got)
	}
	got = String(read(t, "(bar 1 2)"), Options{Table: table})
	if got != "(bar 1 2)" {
		t.Errorf("Expected the built-in call printer for (bar 1 2), got %q", got)
	}
}

func TestOutputPretty(t *testing.T) {
	var sb strings.Builder
	found, err := OutputPretty(&sb, read(t, "(a b)"), Options{})
	if err != nil {
		t.Fatalf("OutputPretty: %v", err)
	}
	if !found {
		t.Errorf("Expected a dispatch entry for a list")
	}
	if sb.String() != "(a b)" {
		t.Errorf("Expected %q, got %q", "(a b)", sb.String())
	}

	sb.Reset()
	found, err = OutputPretty(&sb, sexp.Int(7), Options{})
	if err != nil {
		t.Fatalf("OutputPretty: %v", err)
	}
	if found {
		t.Errorf("Expected no dispatch entry for an integer")
	}
	if sb.String() != "" {
		t.Errorf("Expected no output without an entry, got %q", sb.String())
	}
}

func TestEmitters(t *testing.T) {
	items := read(t, "(alpha beta gamma delta)")
	var sb strings.Builder
	err := pretty.WithPrettyStream(&sb, pretty.Options{Margin: 12}, func(s *pretty.Stream) error {
		w := &walker{s: s, table: pretty.StandardTable()}
		s.SetObjectWriter(w.outputObject)
		s.Control = w
		return Linear(s, items, true)
	})
	if err != nil {
		t.Fatalf("Linear: %v", err)
	}
	expected := "(alpha\n beta\n gamma\n delta)"
	if got := sb.String(); got != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, got)
	}

	sb.Reset()
	err = pretty.WithPrettyStream(&sb, pretty.Options{Margin: 40}, func(s *pretty.Stream) error {
		w := &walker{s: s, table: pretty.StandardTable()}
		s.SetObjectWriter(w.outputObject)
		s.Control = w
		return Tabular(s, read(t, "(a bb ccc)"), true, 4)
	})
	if err != nil {
		t.Fatalf("Tabular: %v", err)
	}
	expected = "(a   bb  ccc)"
	if got := sb.String(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestPrintLineBudget(t *testing.T) {
	got := String(read(t, "(aaaa bbbb cccc dddd eeee)"), Options{Margin: 6, Lines: 2})
	expected := "(aaaa bbbb\n      cccc ..)"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}
