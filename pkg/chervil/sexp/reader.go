package sexp

import (
	"strconv"

	"github.com/sambeau/chervil/pkg/chervil/errors"
)

// Reader turns tokens into values.
type Reader struct {
	lexer *Lexer
	tok   Token
}

// NewReader creates a reader over the given input.
func NewReader(input string) *Reader {
	r := &Reader{lexer: NewLexer(input)}
	r.next()
	return r
}

// Read parses the single expression in input. Trailing input is an error.
func Read(input string) (Value, error) {
	r := NewReader(input)
	v, err := r.Next()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.NewParse("PARSE-0001", "no expression found")
	}
	if r.tok.Type != EOF {
		return nil, r.errorf("PARSE-0002", "unexpected %q after expression", r.tok.Literal)
	}
	return v, nil
}

// ReadAll parses every expression in input.
func ReadAll(input string) ([]Value, error) {
	r := NewReader(input)
	var out []Value
	for {
		v, err := r.Next()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return out, nil
		}
		out = append(out, v)
	}
}

// Next parses the next expression, or returns (nil, nil) at end of input.
func (r *Reader) Next() (Value, error) {
	if r.tok.Type == EOF {
		return nil, nil
	}
	return r.readValue()
}

// Balanced reports whether input has no unclosed parens or strings. The
// REPL uses it to decide whether to show a continuation prompt.
func Balanced(input string) bool {
	l := NewLexer(input)
	depth := 0
	for {
		tok := l.NextToken()
		switch tok.Type {
		case EOF:
			return depth <= 0
		case LPAREN, VECOPEN:
			depth++
		case RPAREN:
			depth--
		case ILLEGAL:
			// An unterminated string lexes as ILLEGAL at EOF.
			return false
		}
	}
}

func (r *Reader) next() {
	r.tok = r.lexer.NextToken()
}

func (r *Reader) errorf(code, format string, args ...any) error {
	return errors.NewParse(code, format, args...).WithPosition(r.tok.Line, r.tok.Column)
}

func (r *Reader) readValue() (Value, error) {
	tok := r.tok
	switch tok.Type {
	case ATOM:
		r.next()
		return parseAtom(tok.Literal), nil
	case STRING:
		r.next()
		return Str(tok.Literal), nil
	case BOOL:
		r.next()
		return Bool(tok.Literal == "#t"), nil
	case LPAREN:
		r.next()
		return r.readList()
	case VECOPEN:
		r.next()
		return r.readVector()
	case QUOTE, QUASIQUOTE, UNQUOTE, UNQUOTE_SPL:
		r.next()
		inner, err := r.readValue()
		if err != nil {
			return nil, err
		}
		return List(sugarSymbol(tok.Type), inner), nil
	case RPAREN:
		return nil, r.errorf("PARSE-0003", "unexpected )")
	case DOT:
		return nil, r.errorf("PARSE-0004", "unexpected . outside list")
	case EOF:
		return nil, r.errorf("PARSE-0005", "unexpected end of input")
	default:
		return nil, r.errorf("PARSE-0006", "unexpected %q", tok.Literal)
	}
}

// readList parses the remainder of a ( list, handling dotted tails.
func (r *Reader) readList() (Value, error) {
	var items []Value
	for {
		switch r.tok.Type {
		case RPAREN:
			r.next()
			return List(items...), nil
		case DOT:
			if len(items) == 0 {
				return nil, r.errorf("PARSE-0007", "dotted list with no head")
			}
			r.next()
			tail, err := r.readValue()
			if err != nil {
				return nil, err
			}
			if r.tok.Type != RPAREN {
				return nil, r.errorf("PARSE-0008", "expected ) after dotted tail")
			}
			r.next()
			items = append(items, tail)
			return ListStar(items...), nil
		case EOF:
			return nil, r.errorf("PARSE-0009", "unterminated list")
		default:
			v, err := r.readValue()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
	}
}

func (r *Reader) readVector() (Value, error) {
	var items []Value
	for {
		switch r.tok.Type {
		case RPAREN:
			r.next()
			return Vector(items), nil
		case EOF:
			return nil, r.errorf("PARSE-0010", "unterminated vector")
		case DOT:
			return nil, r.errorf("PARSE-0011", "dotted tail in vector")
		default:
			v, err := r.readValue()
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
	}
}

// sugarSymbol maps quote-family tokens to the symbols they expand to.
func sugarSymbol(t TokenType) Symbol {
	switch t {
	case QUOTE:
		return Symbol("quote")
	case QUASIQUOTE:
		return Symbol("quasiquote")
	case UNQUOTE:
		return Symbol("unquote")
	default:
		return Symbol("unquote-splicing")
	}
}

// parseAtom classifies an atom literal as a number, nil, or a symbol.
func parseAtom(lit string) Value {
	if lit == "nil" {
		return Nil
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return Float(f)
	}
	return Symbol(lit)
}
