package pretty

import (
	"sort"

	"github.com/sambeau/chervil/pkg/chervil/errors"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

// PrinterFunc prints one value onto a pretty stream. Printers descend
// into nested values through Stream.OutputObject.
type PrinterFunc func(s *Stream, v sexp.Value) error

// Entry associates a type specifier with a printer function and a
// priority.
type Entry struct {
	Spec     sexp.Value // the type specifier, as written
	Priority float64
	Fn       PrinterFunc

	initial bool // built-in entries rank below all user entries
	test    func(sexp.Value) bool
}

// accepts reports whether the entry's type specifier matches v.
func (e *Entry) accepts(v sexp.Value) bool {
	return e.test != nil && e.test(v)
}

// better reports whether a is preferred over b: user entries outrank
// all initial entries; within a group, higher priority wins.
func better(a, b *Entry) bool {
	if a.initial != b.initial {
		return !a.initial
	}
	return a.Priority > b.Priority
}

// Table maps value types to printer functions. entries is kept sorted
// most-preferred first; consEntries is a fast path keyed by the head
// symbol of a pair, consulted only when no better general entry accepts
// the value.
type Table struct {
	entries     []*Entry
	consEntries map[sexp.Symbol]*Entry
	frozen      bool
}

// NewTable returns a mutable copy of the initial table (the built-in
// printers).
func NewTable() *Table {
	return CopyTable(nil)
}

// CopyTable returns a mutable deep copy of t, suitable for
// customization. A nil table copies the initial table.
func CopyTable(t *Table) *Table {
	if t == nil {
		t = initialProto()
	}
	out := &Table{
		entries:     make([]*Entry, len(t.entries)),
		consEntries: make(map[sexp.Symbol]*Entry, len(t.consEntries)),
	}
	for i, e := range t.entries {
		dup := *e
		out.entries[i] = &dup
	}
	for k, e := range t.consEntries {
		dup := *e
		out.consEntries[k] = &dup
	}
	return out
}

// StandardTable returns the frozen table of built-in printers. Attempts
// to mutate it are refused; copy it first.
func StandardTable() *Table {
	if standardTable == nil {
		standardTable = CopyTable(nil)
		standardTable.frozen = true
	}
	return standardTable
}

var standardTable *Table

// Dispatch returns the printer for v in t, and whether one was found.
// A cons entry for v's head symbol wins unless a general entry that
// outranks it also accepts v.
func Dispatch(v sexp.Value, t *Table) (PrinterFunc, bool) {
	if t == nil {
		t = StandardTable()
	}
	var consEntry *Entry
	if sym, ok := sexp.HeadSymbol(v); ok {
		consEntry = t.consEntries[sym]
	}
	if consEntry != nil {
		for _, e := range t.entries {
			if !better(e, consEntry) {
				break
			}
			if e.accepts(v) {
				return e.Fn, true
			}
		}
		return consEntry.Fn, true
	}
	for _, e := range t.entries {
		if e.accepts(v) {
			return e.Fn, true
		}
	}
	return nil, false
}

// SetDispatch installs fn as the printer for values matching the type
// specifier spec, at the given priority. A nil fn removes the entry
// with the same specifier. Installing over the frozen standard table is
// refused with a continuable error; an unparseable specifier is fatal
// to the call and leaves the table unchanged; a specifier naming
// unknown types is installed as a deferred checker that matches
// nothing until the type environment defines them, and reported with a
// continuable error.
func SetDispatch(spec sexp.Value, fn PrinterFunc, priority float64, t *Table) error {
	if t == nil {
		return errors.NewType("DISPATCH-0001", "nil dispatch table")
	}
	if t.frozen {
		err := errors.NewState("DISPATCH-0002",
			"the standard pretty-print dispatch table is frozen").
			WithHint("copy it with CopyTable before customizing")
		err.Continuable = true // refusing is the whole effect; callers may proceed
		return err
	}

	if heads, ok := consEqlHeads(spec); ok {
		for _, head := range heads {
			if fn == nil {
				delete(t.consEntries, head)
				continue
			}
			t.consEntries[head] = &Entry{
				Spec:     sexp.List(sexp.Symbol("cons"), sexp.List(sexp.Symbol("eql"), head)),
				Priority: priority,
				Fn:       fn,
			}
		}
		return nil
	}

	if fn == nil {
		t.removeEntry(spec)
		return nil
	}

	entry := &Entry{Spec: spec, Priority: priority, Fn: fn}
	var warn error
	test, err := compileTest(spec)
	switch {
	case err == nil:
		entry.test = test
	case errors.IsClass(err, errors.ClassFormat):
		entry.test = deferredTest(spec)
		warn = err
	default:
		return err
	}
	t.removeEntry(spec)
	t.entries = append(t.entries, entry)
	sortEntries(t.entries)
	return warn
}

// removeEntry drops any entry whose specifier equals spec.
func (t *Table) removeEntry(spec sexp.Value) {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if !sexp.Equal(e.Spec, spec) {
			kept = append(kept, e)
		}
	}
	t.entries = kept
}

// sortEntries orders entries most-preferred first. The sort is stable,
// so a newly appended entry sorts behind existing entries of equal
// rank.
func sortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return better(entries[i], entries[j])
	})
}

// consEqlHeads recognizes specifiers of the shape (cons (eql S)),
// (cons (eql S) t), or an (or ...) union of those, returning the head
// symbols. These route to the cons fast path.
func consEqlHeads(spec sexp.Value) ([]sexp.Symbol, bool) {
	head, ok := sexp.HeadSymbol(spec)
	if !ok {
		return nil, false
	}
	args, tail := sexp.Elements(spec)
	if _, isNil := tail.(sexp.Null); !isNil {
		return nil, false
	}
	args = args[1:]
	switch head {
	case "cons":
		if len(args) == 0 || len(args) > 2 {
			return nil, false
		}
		if len(args) == 2 {
			if t, ok := args[1].(sexp.Symbol); !ok || t != "t" {
				return nil, false
			}
		}
		eqlHead, ok := sexp.HeadSymbol(args[0])
		if !ok || eqlHead != "eql" {
			return nil, false
		}
		eqlArgs, _ := sexp.Elements(args[0])
		if len(eqlArgs) != 2 {
			return nil, false
		}
		sym, ok := eqlArgs[1].(sexp.Symbol)
		if !ok {
			return nil, false
		}
		return []sexp.Symbol{sym}, true
	case "or":
		var out []sexp.Symbol
		for _, arg := range args {
			heads, ok := consEqlHeads(arg)
			if !ok {
				return nil, false
			}
			out = append(out, heads...)
		}
		return out, len(out) > 0
	}
	return nil, false
}

// Initial-table registration. The built-in printers live in the printer
// package and register themselves at init time, the same way parsley's
// serializers register with pln.

type initialReg struct {
	spec     sexp.Value
	fn       PrinterFunc
	priority float64
}

var initialRegs []initialReg
var initialTable *Table

// RegisterInitial adds a built-in entry to the initial dispatch table.
// It must be called before the first table is constructed.
func RegisterInitial(spec sexp.Value, fn PrinterFunc, priority float64) {
	if initialTable != nil {
		panic("pretty: RegisterInitial after dispatch tables were built")
	}
	initialRegs = append(initialRegs, initialReg{spec: spec, fn: fn, priority: priority})
}

// initialProto builds (once) the prototype initial table from the
// registered built-ins. All its entries carry the initial flag, so
// user entries outrank them.
func initialProto() *Table {
	if initialTable == nil {
		t := &Table{consEntries: map[sexp.Symbol]*Entry{}}
		for _, reg := range initialRegs {
			if err := SetDispatch(reg.spec, reg.fn, reg.priority, t); err != nil {
				panic("pretty: bad built-in dispatch entry: " + err.Error())
			}
		}
		for _, e := range t.entries {
			e.initial = true
		}
		for _, e := range t.consEntries {
			e.initial = true
		}
		initialTable = t
	}
	return initialTable
}
