package pretty

import (
	stderrors "errors"
	"io"

	"github.com/sambeau/chervil/pkg/chervil/errors"
)

// Newline enqueues a conditional newline. Literal and mandatory
// newlines drive the queue forward immediately.
func (s *Stream) Newline(kind NewlineKind) error {
	return s.enqueueNewline(kind)
}

// Indent queues an indentation change of amount columns (possibly
// negative) relative to the block start (IndentBlock) or to the current
// column (IndentCurrent). It takes effect at the next line break.
func (s *Stream) Indent(kind IndentKind, amount int) {
	s.enqueueIndent(kind, amount)
}

// Tab queues a tab stop.
func (s *Stream) Tab(kind TabKind, colnum, colinc int) {
	s.enqueueTab(kind, colnum, colinc)
}

// StartBlock opens a logical block. The prefix (if any) is written
// immediately; with perLine set it also repeats after every wrap inside
// the block. The suffix is written by the matching EndBlock.
func (s *Stream) StartBlock(prefix string, perLine bool, suffix string) error {
	if prefix != "" {
		if _, err := s.WriteString(prefix); err != nil {
			return err
		}
	}
	perLinePrefix := ""
	if perLine {
		perLinePrefix = prefix
	}
	s.enqueueBlockStart(perLinePrefix, suffix)
	return nil
}

// EndBlock closes the innermost open logical block, writing its suffix.
func (s *Stream) EndBlock() error {
	if len(s.pendingBlocks) == 0 {
		return errors.NewState("PRETTY-0004", "end of logical block with no block open")
	}
	end := s.enqueueBlockEnd()
	if end.suffix != "" {
		if _, err := s.WriteString(end.suffix); err != nil {
			return err
		}
	}
	return nil
}

// WithPrettyStream runs fn with a pretty stream over target, flushing
// on every exit path. If target already is a pretty stream it is reused
// rather than nested, and flushing is left to the enclosing call. A
// line-budget cutoff, whether reached in fn or in the final flush, ends
// the print cleanly and is not reported as an error. Any other error
// from fn is returned after the flush.
func WithPrettyStream(target io.Writer, opts Options, fn func(*Stream) error) error {
	if ps, ok := target.(*Stream); ok {
		return fn(ps)
	}
	s := New(target, opts)
	err := fn(s)
	if stderrors.Is(err, ErrLineLimit) {
		// Output already ended with " .." and the pending
		// suffixes; there is nothing left to flush.
		return nil
	}
	flushErr := s.Flush()
	if err != nil {
		return err
	}
	if stderrors.Is(flushErr, ErrLineLimit) {
		return nil
	}
	return flushErr
}
