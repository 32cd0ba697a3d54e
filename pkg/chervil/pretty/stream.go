// Package pretty implements a streaming layout engine for structured
// pretty-printing: logical blocks, conditional newlines, indentation
// directives, and tab stops, laid out against a fixed right margin with
// bounded look-ahead.
//
// Callers push characters and directives into a Stream; a driver decides,
// as late as it must but as early as it can, whether each conditional
// break fires, and emits finished lines to the underlying writer. Text
// whose layout is still undecided waits in a rolling buffer. Queue
// entries address that text by posn, a monotonic stream position that
// survives buffer shifts (posn = index + bufferOffset).
package pretty

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sambeau/chervil/pkg/chervil/errors"
	"github.com/sambeau/chervil/pkg/chervil/sexp"
)

const (
	defaultMargin     = 80
	initialBufferSize = 128
)

// Options configures a Stream. Options are captured at construction and
// never re-read.
type Options struct {
	// Margin is the right margin in columns. 0 means the default of 80.
	Margin int
	// MiserWidth, when non-nil, activates miser mode for any block whose
	// available width (margin minus start column) is at most this many
	// columns.
	MiserWidth *int
	// Lines, when positive, is the total line budget: output is cut off
	// with " .." once it is reached.
	Lines int
	// Readably disables the line budget, like *print-readably*.
	Readably bool
}

// Stream is a buffering pretty-printer stream over a character sink.
type Stream struct {
	target     io.Writer
	lineLength int
	miserWidth int
	miserSet   bool
	printLines int // 0 = unlimited
	readably   bool

	// buffer holds text whose layout is not yet decided. bufferFill
	// counts the valid runes; bufferOffset is the cumulative count of
	// runes already shifted out, so posn = index + bufferOffset.
	buffer            []rune
	bufferFill        int
	bufferOffset      int
	bufferStartColumn int // column of buffer[0] if emitted now
	lineNumber        int // newlines emitted so far

	// blocks is the stack of committed logical blocks, sentinel at the
	// bottom, innermost on top. Never empty.
	blocks []logicalBlock

	// prefix holds the left margin active at buffer[0]: the per-line
	// prefix text followed by indentation spaces. Indexed by column;
	// per-line prefixes must use single-cell runes.
	prefix []rune

	// suffix holds the closing suffixes of all committed blocks,
	// right-justified: valid runes occupy the tail, innermost first.
	suffix []rune

	queue         []queuedOp
	qhead         int // index of the first unconsumed op
	pendingBlocks []*blockStartOp

	// charOutHook is a one-shot callback fired before the next rune is
	// buffered, used to inject a space between characters that would
	// otherwise merge into reader sugar (, followed by @ or .).
	charOutHook func(next rune) error

	// objectWriter is installed by the recursive object printer so that
	// dispatch-table printers can descend into nested values. The
	// engine itself never calls it.
	objectWriter func(v sexp.Value) error

	// Control carries the recursive object printer's per-print state
	// (depth and length budgets). The engine never reads it.
	Control any
}

// New creates a pretty stream over target.
func New(target io.Writer, opts Options) *Stream {
	margin := opts.Margin
	if margin <= 0 {
		margin = defaultMargin
	}
	s := &Stream{
		target:     target,
		lineLength: margin,
		printLines: opts.Lines,
		readably:   opts.Readably,
		buffer:     make([]rune, initialBufferSize),
		blocks:     make([]logicalBlock, 1, 8), // sentinel
	}
	if opts.MiserWidth != nil {
		s.miserWidth = *opts.MiserWidth
		s.miserSet = true
	}
	return s
}

// LineLength returns the stream's right margin.
func (s *Stream) LineLength() int { return s.lineLength }

// Column returns the column at which the next character would appear if
// the stream were emitted now with no further breaks.
func (s *Stream) Column() int { return s.indexColumn(s.bufferFill) }

// SetCharHook installs a one-shot callback fired before the next rune is
// buffered. The hook may write to the stream.
func (s *Stream) SetCharHook(hook func(next rune) error) {
	s.charOutHook = hook
}

// SetObjectWriter installs the recursive object printer's descent
// callback and returns the previously installed one, so a nested print
// can restore it.
func (s *Stream) SetObjectWriter(fn func(v sexp.Value) error) func(v sexp.Value) error {
	old := s.objectWriter
	s.objectWriter = fn
	return old
}

// OutputObject prints a nested value through the installed object
// writer. Dispatch-table printers use it to descend.
func (s *Stream) OutputObject(v sexp.Value) error {
	if s.objectWriter == nil {
		return errors.NewState("PRETTY-0001", "no object writer installed on pretty stream")
	}
	return s.objectWriter(v)
}

// Position arithmetic. Three coordinate systems:
// column — visible offset from line start;
// index  — offset into the rolling buffer;
// posn   — monotonic stream position, invariant under buffer shifts.

func (s *Stream) indexPosn(index int) int { return index + s.bufferOffset }
func (s *Stream) posnIndex(posn int) int  { return posn - s.bufferOffset }

// widthTo returns the display width of buffer[0:end]. Wide runes count
// their display cells, not one.
func (s *Stream) widthTo(end int) int {
	w := 0
	for _, r := range s.buffer[:end] {
		w += runewidth.RuneWidth(r)
	}
	return w
}

// indexColumn returns the column at which buffer[index] would appear if
// the stream were emitted now with no further breaks: it replays queued
// tabs (which add width) and section starts (which move the tab origin).
func (s *Stream) indexColumn(index int) int {
	column := s.bufferStartColumn
	sectionStart := s.topBlock().sectionColumn
	endPosn := s.indexPosn(index)
	for i := s.qhead; i < len(s.queue); i++ {
		op := s.queue[i]
		if op.pos() >= endPosn {
			break
		}
		switch t := op.(type) {
		case *tabOp:
			column += computeTabSize(t, sectionStart, column+s.widthTo(s.posnIndex(t.posn)))
		case *newlineOp, *blockStartOp:
			sectionStart = column + s.widthTo(s.posnIndex(op.pos()))
		}
	}
	return column + s.widthTo(index)
}

func (s *Stream) posnColumn(posn int) int {
	return s.indexColumn(s.posnIndex(posn))
}

// misering reports whether the innermost committed block is laid out in
// miser mode: its available width is at most the configured miser width.
func (s *Stream) misering() bool {
	return s.miserSet &&
		s.lineLength-s.topBlock().startColumn <= s.miserWidth
}

// grownSize is the uniform growth policy shared by the buffer, prefix
// and suffix arrays: max(2 x old, old + 1.25 x added).
func grownSize(old, added int) int {
	n := old * 2
	if m := old + added*5/4; m > n {
		n = m
	}
	return n
}

// ensureSpace makes room for at least one more rune and returns the
// number of free slots. When the buffer is full and already longer than
// a line, the stream is stalled with no breakable ops, so the driver is
// given one more chance before part of the line is dumped as-is.
func (s *Stream) ensureSpace(want int) (int, error) {
	for {
		available := len(s.buffer) - s.bufferFill
		if available > 0 {
			return available, nil
		}
		if s.bufferFill > s.lineLength {
			output, err := s.maybeOutput(false)
			if err != nil {
				return 0, err
			}
			if !output {
				if err := s.outputPartialLine(); err != nil {
					return 0, err
				}
			}
			continue
		}
		newBuffer := make([]rune, grownSize(len(s.buffer), want))
		copy(newBuffer, s.buffer[:s.bufferFill])
		s.buffer = newBuffer
		return len(s.buffer) - s.bufferFill, nil
	}
}

// writeRune buffers one rune, turning \n into a literal newline
// directive. The one-shot char hook fires first.
func (s *Stream) writeRune(r rune) error {
	if hook := s.charOutHook; hook != nil {
		s.charOutHook = nil
		if err := hook(r); err != nil {
			return err
		}
	}
	if r == '\n' {
		return s.enqueueNewline(Literal)
	}
	if _, err := s.ensureSpace(1); err != nil {
		return err
	}
	s.buffer[s.bufferFill] = r
	s.bufferFill++
	return nil
}

// WriteRune writes a single rune to the stream.
func (s *Stream) WriteRune(r rune) error { return s.writeRune(r) }

// WriteByte writes a single ASCII character to the stream.
func (s *Stream) WriteByte(c byte) error { return s.writeRune(rune(c)) }

// WriteString writes str, splitting on embedded newlines: each \n
// becomes a literal newline directive. The split is iterative, so
// newline-dense strings cost no stack.
func (s *Stream) WriteString(str string) (int, error) {
	rest := str
	for {
		nl := strings.IndexByte(rest, '\n')
		segment := rest
		if nl >= 0 {
			segment = rest[:nl]
		}
		if err := s.writeSegment(segment); err != nil {
			return 0, err
		}
		if nl < 0 {
			return len(str), nil
		}
		if err := s.writeRune('\n'); err != nil {
			return 0, err
		}
		rest = rest[nl+1:]
	}
}

// Write implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	return s.WriteString(string(p))
}

// writeSegment buffers a newline-free chunk of text.
func (s *Stream) writeSegment(segment string) error {
	if segment == "" {
		return nil
	}
	rs := []rune(segment)
	if hook := s.charOutHook; hook != nil {
		s.charOutHook = nil
		if err := hook(rs[0]); err != nil {
			return err
		}
	}
	for len(rs) > 0 {
		available, err := s.ensureSpace(len(rs))
		if err != nil {
			return err
		}
		n := min(available, len(rs))
		copy(s.buffer[s.bufferFill:], rs[:n])
		s.bufferFill += n
		rs = rs[n:]
	}
	return nil
}

// Flush drives the queue as far as it can be decided, expands remaining
// tabs, and writes the residual buffer to the target. Afterwards the
// buffer is empty and the queue is drained; flushing twice is the same
// as flushing once.
func (s *Stream) Flush() error {
	if _, err := s.maybeOutput(false); err != nil {
		return err
	}
	s.expandTabs(nil)
	if s.bufferFill > 0 {
		if _, err := io.WriteString(s.target, string(s.buffer[:s.bufferFill])); err != nil {
			return err
		}
		s.bufferStartColumn += s.widthTo(s.bufferFill)
		s.bufferOffset += s.bufferFill
		s.bufferFill = 0
	}
	s.queue = s.queue[:0]
	s.qhead = 0
	return nil
}
