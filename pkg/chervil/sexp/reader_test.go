package sexp

import (
	"testing"

	"github.com/sambeau/chervil/pkg/chervil/errors"
)

func TestReadRoundTrips(t *testing.T) {
	tests := []string{
		"x",
		"42",
		"-17",
		"3.5",
		"()",
		"(a b c)",
		"(a . b)",
		"(a b . c)",
		"((a) (b))",
		"#(1 2 3)",
		"#t",
		"#f",
		`"hello world"`,
		"(quote x)",
	}
	for _, src := range tests {
		v, err := Read(src)
		if err != nil {
			t.Errorf("Read(%q): %v", src, err)
			continue
		}
		if got := v.String(); got != src {
			t.Errorf("Read(%q).String(): got %q", src, got)
		}
	}
}

func TestReadQuoteSugar(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"'x", "(quote x)"},
		{"`x", "(quasiquote x)"},
		{",x", "(unquote x)"},
		{",@x", "(unquote-splicing x)"},
		{"'(a b)", "(quote (a b))"},
	}
	for _, tt := range tests {
		v, err := Read(tt.input)
		if err != nil {
			t.Errorf("Read(%q): %v", tt.input, err)
			continue
		}
		if got := v.String(); got != tt.expected {
			t.Errorf("Read(%q): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestReadAtomClassification(t *testing.T) {
	tests := []struct {
		input    string
		expected string // Type()
	}{
		{"foo", "SYMBOL"},
		{"+", "SYMBOL"},
		{"-", "SYMBOL"},
		{"list->vector", "SYMBOL"},
		{"42", "INTEGER"},
		{"-7", "INTEGER"},
		{"3.5", "FLOAT"},
		{"1e3", "FLOAT"},
		{"nil", "NULL"},
		{`"s"`, "STRING"},
		{"#t", "BOOLEAN"},
	}
	for _, tt := range tests {
		v, err := Read(tt.input)
		if err != nil {
			t.Errorf("Read(%q): %v", tt.input, err)
			continue
		}
		if v.Type() != tt.expected {
			t.Errorf("Read(%q): expected type %s, got %s", tt.input, tt.expected, v.Type())
		}
	}
}

func TestReadErrors(t *testing.T) {
	tests := []string{
		"(a b",
		")",
		"(a . )",
		"(a . b c)",
		"(. b)",
		"#(a . b)",
		"(a) trailing",
		"",
	}
	for _, src := range tests {
		if _, err := Read(src); err == nil {
			t.Errorf("Read(%q): expected an error", src)
		} else if !errors.IsClass(err, errors.ClassParse) {
			t.Errorf("Read(%q): expected a parse-class error, got %v", src, err)
		}
	}
}

func TestReadAll(t *testing.T) {
	vals, err := ReadAll("(a) (b) 42 ; comment\n x")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(vals) != 4 {
		t.Fatalf("Expected 4 values, got %d", len(vals))
	}
	if vals[3].String() != "x" {
		t.Errorf("Expected final value x, got %s", vals[3].String())
	}
}

func TestBalanced(t *testing.T) {
	tests := []struct {
		input    string
		balanced bool
	}{
		{"(a b)", true},
		{"(a (b)", false},
		{"(a))", true}, // over-closed still reads as complete input
		{`"open`, false},
		{"", true},
		{"#(1 2", false},
	}
	for _, tt := range tests {
		if got := Balanced(tt.input); got != tt.balanced {
			t.Errorf("Balanced(%q): expected %v, got %v", tt.input, tt.balanced, got)
		}
	}
}

func TestListHelpers(t *testing.T) {
	v, err := Read("(a b c)")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !IsList(v) {
		t.Errorf("Expected (a b c) to be a proper list")
	}
	if Length(v) != 3 {
		t.Errorf("Expected length 3, got %d", Length(v))
	}
	els, tail := Elements(v)
	if len(els) != 3 {
		t.Errorf("Expected 3 elements, got %d", len(els))
	}
	if _, isNil := tail.(Null); !isNil {
		t.Errorf("Expected a nil tail")
	}

	dotted, err := Read("(a . b)")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if IsList(dotted) {
		t.Errorf("Expected (a . b) not to be a proper list")
	}
	if sym, ok := HeadSymbol(dotted); !ok || sym != "a" {
		t.Errorf("Expected head symbol a, got %v", sym)
	}
}

func TestEqualAndEql(t *testing.T) {
	a1, _ := Read("(a (b) 1)")
	a2, _ := Read("(a (b) 1)")
	b, _ := Read("(a (b) 2)")
	if !Equal(a1, a2) {
		t.Errorf("Expected structurally equal lists to be Equal")
	}
	if Equal(a1, b) {
		t.Errorf("Expected different lists not to be Equal")
	}
	if Eql(a1, a2) {
		t.Errorf("Expected distinct conses not to be Eql")
	}
	if !Eql(a1, a1) {
		t.Errorf("Expected a cons to be Eql to itself")
	}
	if !Eql(Symbol("x"), Symbol("x")) {
		t.Errorf("Expected equal symbols to be Eql")
	}
}
