package pretty

import (
	"github.com/sambeau/chervil/pkg/chervil/errors"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

// The type-specifier language is itself s-expressions: named types,
// (cons CAR [CDR]), (eql X), (member X...), (and ...), (or ...),
// (not ...), and (satisfies NAME) against a registered predicate
// environment. Specifiers naming types or predicates that do not exist
// yet compile to deferred checkers that re-attempt compilation whenever
// the environment changes.

// typeEnv holds named type tests and satisfies-predicates. generation
// bumps on every change, invalidating deferred checkers' memory of
// failure.
type typeEnv struct {
	types      map[string]func(sexp.Value) bool
	predicates map[string]func(sexp.Value) bool
	generation int
}

var env = &typeEnv{
	types: map[string]func(sexp.Value) bool{
		"t": func(sexp.Value) bool { return true },
		"atom": func(v sexp.Value) bool {
			_, cons := v.(*sexp.Cons)
			return !cons
		},
		"cons": func(v sexp.Value) bool {
			_, ok := v.(*sexp.Cons)
			return ok
		},
		"list": func(v sexp.Value) bool {
			switch v.(type) {
			case *sexp.Cons, sexp.Null:
				return true
			}
			return false
		},
		"null": func(v sexp.Value) bool {
			_, ok := v.(sexp.Null)
			return ok
		},
		"symbol": func(v sexp.Value) bool {
			_, ok := v.(sexp.Symbol)
			return ok
		},
		"keyword": func(v sexp.Value) bool {
			s, ok := v.(sexp.Symbol)
			return ok && len(s) > 0 && s[0] == ':'
		},
		"integer": func(v sexp.Value) bool {
			_, ok := v.(sexp.Int)
			return ok
		},
		"float": func(v sexp.Value) bool {
			_, ok := v.(sexp.Float)
			return ok
		},
		"number": func(v sexp.Value) bool {
			switch v.(type) {
			case sexp.Int, sexp.Float:
				return true
			}
			return false
		},
		"string": func(v sexp.Value) bool {
			_, ok := v.(sexp.Str)
			return ok
		},
		"boolean": func(v sexp.Value) bool {
			_, ok := v.(sexp.Bool)
			return ok
		},
		"vector": func(v sexp.Value) bool {
			_, ok := v.(sexp.Vector)
			return ok
		},
	},
	predicates: map[string]func(sexp.Value) bool{},
	generation: 1,
}

// DefineType registers a named type test, making it available to type
// specifiers. Deferred checkers waiting on the name become live.
func DefineType(name string, test func(sexp.Value) bool) {
	env.types[name] = test
	env.generation++
}

// DefinePredicate registers a predicate usable via (satisfies NAME).
func DefinePredicate(name string, test func(sexp.Value) bool) {
	env.predicates[name] = test
	env.generation++
}

func unknownSpec(code, format string, args ...any) error {
	return errors.NewFormat(code, format, args...)
}

// compileTest compiles a type specifier into a predicate. It returns a
// ClassFormat error for well-formed specifiers that reference unknown
// names (the caller installs a deferred checker), and a ClassType error
// for unparseable specifiers.
func compileTest(spec sexp.Value) (func(sexp.Value) bool, error) {
	switch t := spec.(type) {
	case sexp.Symbol:
		if test, ok := env.types[string(t)]; ok {
			return test, nil
		}
		return nil, unknownSpec("TYPE-0001", "unknown type %q in type specifier", string(t))
	case *sexp.Cons:
		return compileCompound(t)
	default:
		return nil, errors.NewType("TYPE-0002", "invalid type specifier %s", spec.String())
	}
}

func compileCompound(spec *sexp.Cons) (func(sexp.Value) bool, error) {
	head, ok := spec.Car.(sexp.Symbol)
	if !ok {
		return nil, errors.NewType("TYPE-0003", "invalid type specifier %s", spec.String())
	}
	args, tail := sexp.Elements(spec.Cdr)
	if _, isNil := tail.(sexp.Null); !isNil {
		return nil, errors.NewType("TYPE-0004", "dotted type specifier %s", spec.String())
	}

	switch head {
	case "cons":
		if len(args) > 2 {
			return nil, errors.NewType("TYPE-0005", "cons specifier takes at most two arguments")
		}
		carTest := anything
		cdrTest := anything
		var err error
		if len(args) >= 1 {
			if carTest, err = compileTest(args[0]); err != nil {
				return nil, err
			}
		}
		if len(args) == 2 {
			if cdrTest, err = compileTest(args[1]); err != nil {
				return nil, err
			}
		}
		return func(v sexp.Value) bool {
			c, ok := v.(*sexp.Cons)
			return ok && carTest(c.Car) && cdrTest(c.Cdr)
		}, nil

	case "eql":
		if len(args) != 1 {
			return nil, errors.NewType("TYPE-0006", "eql specifier takes exactly one argument")
		}
		want := args[0]
		return func(v sexp.Value) bool { return sexp.Eql(want, v) }, nil

	case "member":
		want := args
		return func(v sexp.Value) bool {
			for _, w := range want {
				if sexp.Eql(w, v) {
					return true
				}
			}
			return false
		}, nil

	case "and":
		tests, err := compileAll(args)
		if err != nil {
			return nil, err
		}
		return func(v sexp.Value) bool {
			for _, t := range tests {
				if !t(v) {
					return false
				}
			}
			return true
		}, nil

	case "or":
		tests, err := compileAll(args)
		if err != nil {
			return nil, err
		}
		return func(v sexp.Value) bool {
			for _, t := range tests {
				if t(v) {
					return true
				}
			}
			return false
		}, nil

	case "not":
		if len(args) != 1 {
			return nil, errors.NewType("TYPE-0007", "not specifier takes exactly one argument")
		}
		test, err := compileTest(args[0])
		if err != nil {
			return nil, err
		}
		return func(v sexp.Value) bool { return !test(v) }, nil

	case "satisfies":
		if len(args) != 1 {
			return nil, errors.NewType("TYPE-0008", "satisfies specifier takes exactly one argument")
		}
		name, ok := args[0].(sexp.Symbol)
		if !ok {
			return nil, errors.NewType("TYPE-0009", "satisfies argument must be a symbol")
		}
		if test, ok := env.predicates[string(name)]; ok {
			return test, nil
		}
		return nil, unknownSpec("TYPE-0010", "unknown predicate %q in type specifier", string(name))

	default:
		return nil, unknownSpec("TYPE-0011", "unknown type operator %q", string(head))
	}
}

func compileAll(specs []sexp.Value) ([]func(sexp.Value) bool, error) {
	tests := make([]func(sexp.Value) bool, 0, len(specs))
	for _, spec := range specs {
		t, err := compileTest(spec)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, nil
}

func anything(sexp.Value) bool { return true }

// deferredTest wraps an uncompilable specifier in a checker that
// matches nothing, but re-attempts compilation whenever the type
// environment has changed and swaps itself for the compiled predicate
// on success.
func deferredTest(spec sexp.Value) func(sexp.Value) bool {
	var compiled func(sexp.Value) bool
	seen := env.generation
	return func(v sexp.Value) bool {
		if compiled != nil {
			return compiled(v)
		}
		if env.generation != seen {
			seen = env.generation
			if test, err := compileTest(spec); err == nil {
				compiled = test
				return compiled(v)
			}
		}
		return false
	}
}
