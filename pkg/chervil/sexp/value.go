// Package sexp defines the s-expression value model that the Chervil
// printer walks, plus a small reader for turning source text into values.
package sexp

import (
	"strconv"
	"strings"
)

// Value is the interface implemented by every s-expression value.
type Value interface {
	// Type returns the value's type name ("SYMBOL", "CONS", ...).
	Type() string
	// String returns the flat, single-line representation of the value.
	String() string
}

// Symbol is an interned-by-name Lisp symbol. Two symbols are the same
// symbol iff their names are equal.
type Symbol string

func (s Symbol) Type() string   { return "SYMBOL" }
func (s Symbol) String() string { return string(s) }

// Int is an integer atom.
type Int int64

func (i Int) Type() string   { return "INTEGER" }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a floating-point atom.
type Float float64

func (f Float) Type() string   { return "FLOAT" }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// Str is a string atom.
type Str string

func (s Str) Type() string   { return "STRING" }
func (s Str) String() string { return strconv.Quote(string(s)) }

// Bool is a boolean atom, read as #t / #f.
type Bool bool

func (b Bool) Type() string { return "BOOLEAN" }
func (b Bool) String() string {
	if b {
		return "#t"
	}
	return "#f"
}

// Null is the empty list / nil value.
type Null struct{}

func (Null) Type() string   { return "NULL" }
func (Null) String() string { return "()" }

// Nil is the canonical empty list.
var Nil = Null{}

// Cons is a pair of values. Proper lists are chains of Cons cells ending
// in Nil.
type Cons struct {
	Car Value
	Cdr Value
}

func (c *Cons) Type() string { return "CONS" }

func (c *Cons) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	cur := c
	for {
		sb.WriteString(cur.Car.String())
		switch cdr := cur.Cdr.(type) {
		case Null:
			sb.WriteByte(')')
			return sb.String()
		case *Cons:
			sb.WriteByte(' ')
			cur = cdr
		default:
			sb.WriteString(" . ")
			sb.WriteString(cdr.String())
			sb.WriteByte(')')
			return sb.String()
		}
	}
}

// Vector is a fixed sequence of values, read as #(...).
type Vector []Value

func (v Vector) Type() string { return "VECTOR" }

func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteString("#(")
	for i, e := range v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// List builds a proper list from the given values.
func List(vals ...Value) Value {
	var out Value = Nil
	for i := len(vals) - 1; i >= 0; i-- {
		out = &Cons{Car: vals[i], Cdr: out}
	}
	return out
}

// ListStar builds a dotted list: the last value becomes the final cdr.
func ListStar(vals ...Value) Value {
	if len(vals) == 0 {
		return Nil
	}
	out := vals[len(vals)-1]
	for i := len(vals) - 2; i >= 0; i-- {
		out = &Cons{Car: vals[i], Cdr: out}
	}
	return out
}

// Head returns the car of v if v is a pair.
func Head(v Value) (Value, bool) {
	if c, ok := v.(*Cons); ok {
		return c.Car, true
	}
	return nil, false
}

// HeadSymbol returns the head symbol of v if v is a pair whose car is a
// symbol.
func HeadSymbol(v Value) (Symbol, bool) {
	if c, ok := v.(*Cons); ok {
		if s, ok := c.Car.(Symbol); ok {
			return s, true
		}
	}
	return "", false
}

// IsList reports whether v is a proper list (Nil or a Cons chain ending
// in Nil). Cyclic structures are the caller's problem; the reader cannot
// produce them.
func IsList(v Value) bool {
	for {
		switch t := v.(type) {
		case Null:
			return true
		case *Cons:
			v = t.Cdr
		default:
			return false
		}
	}
}

// Length returns the number of cars in v's cons chain. Dotted tails do
// not count.
func Length(v Value) int {
	n := 0
	for {
		c, ok := v.(*Cons)
		if !ok {
			return n
		}
		n++
		v = c.Cdr
	}
}

// Elements returns the cars of v's cons chain and its final tail. For a
// proper list the tail is Nil.
func Elements(v Value) ([]Value, Value) {
	var out []Value
	for {
		c, ok := v.(*Cons)
		if !ok {
			return out, v
		}
		out = append(out, c.Car)
		v = c.Cdr
	}
}

// Equal reports structural equality of two values. Symbols and atoms
// compare by value, conses and vectors recursively.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Null:
		_, ok := b.(Null)
		return ok
	case *Cons:
		y, ok := b.(*Cons)
		return ok && Equal(x.Car, y.Car) && Equal(x.Cdr, y.Cdr)
	case Vector:
		y, ok := b.(Vector)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Eql is the identity-ish comparison used by (eql X) type specifiers:
// atoms compare by value, compound values by identity.
func Eql(a, b Value) bool {
	switch x := a.(type) {
	case *Cons:
		y, ok := b.(*Cons)
		return ok && x == y
	case Vector:
		return false // vectors have no useful identity here
	default:
		return Equal(a, b)
	}
}
