package pretty

import (
	"io"

	"github.com/sambeau/chervil/pkg/chervil/errors"
)

// ErrLineLimit is the non-local exit raised when the configured line
// budget is reached. WithPrettyStream absorbs it; printer functions must
// propagate it unchanged.
var ErrLineLimit = errors.New(errors.ClassState, "PRETTY-0002", "print line budget reached")

// fitResult is the three-valued answer of fitsOnLine.
type fitResult int

const (
	fitYes fitResult = iota
	fitNo
	fitUnknown
)

// fitsOnLine decides whether everything up to the op `until` fits on the
// current line. With no `until` the question can only be answered
// negatively (forced, or the buffer already overflows); otherwise the
// answer has to wait for more input.
func (s *Stream) fitsOnLine(until queuedOp, force bool) fitResult {
	available := s.lineLength
	if !s.readably && s.printLines > 0 && s.printLines == s.lineNumber+1 {
		// The next line is the last: reserve room for " .." and the
		// suffixes that will have to close on it.
		available -= 3
		available -= s.topBlock().suffixLength
	}
	if until != nil {
		if s.posnColumn(until.pos()) <= available {
			return fitYes
		}
		return fitNo
	}
	if force {
		return fitNo
	}
	if s.indexColumn(s.bufferFill) > available {
		return fitNo
	}
	return fitUnknown
}

// maybeOutput consumes queued ops for as long as it can decide them. It
// returns whether anything was written to the target. force commits
// pending fills pessimistically (used for literal and mandatory breaks).
func (s *Stream) maybeOutput(force bool) (bool, error) {
	output := false
	for s.qhead < len(s.queue) {
		switch next := s.queue[s.qhead].(type) {
		case *newlineOp:
			fire := false
			switch next.kind {
			case Literal, Mandatory, Linear:
				fire = true
			case Miser:
				fire = s.misering()
			case Fill:
				if s.misering() ||
					s.lineNumber > s.topBlock().sectionStartLine {
					// Miser mode, or the previous section already
					// spilled onto a fresh line.
					fire = true
				} else {
					switch s.fitsOnLine(next.sectionEnd, force) {
					case fitYes:
						fire = false
					case fitNo:
						fire = true
					case fitUnknown:
						return output, nil
					}
				}
			}
			s.qhead++
			if fire {
				output = true
				if err := s.outputLine(next); err != nil {
					return output, err
				}
			}

		case *indentOp:
			if !s.misering() {
				base := 0
				switch next.kind {
				case IndentBlock:
					base = s.topBlock().startColumn
				case IndentCurrent:
					base = s.posnColumn(next.posn)
				}
				s.setIndentation(base + next.amount)
			}
			s.qhead++

		case *blockStartOp:
			switch s.fitsOnLine(next.sectionEnd, force) {
			case fitYes:
				// The whole block fits: flatten it into a literal.
				// Tabs inside it still expand, every break inside it
				// is dropped.
				end := next.blockEnd
				if end == nil {
					// A fit verdict implies the close is enqueued; if
					// it is not, commit the block rather than guess.
					s.reallyStartBlock(s.posnColumn(next.posn), next.prefix, next.suffix)
					s.qhead++
					continue
				}
				s.expandTabs(end)
				s.qhead++
				for s.qhead < len(s.queue) {
					op := s.queue[s.qhead]
					s.qhead++
					if op == queuedOp(end) {
						break
					}
				}
			case fitNo:
				s.reallyStartBlock(s.posnColumn(next.posn), next.prefix, next.suffix)
				s.qhead++
			case fitUnknown:
				return output, nil
			}

		case *blockEndOp:
			s.reallyEndBlock()
			s.qhead++

		case *tabOp:
			s.expandTabs(next)
			s.qhead++
		}
	}
	s.compactQueue()
	return output, nil
}

// outputLine emits one finished line: the buffered text up to the firing
// newline (trailing blanks elided for conditional breaks), the newline
// itself, and then shifts the buffer left, installing the fresh line
// prefix at the front.
func (s *Stream) outputLine(until *newlineOp) error {
	literal := until.kind == Literal
	amountToConsume := s.posnIndex(until.posn)
	amountToPrint := amountToConsume
	if !literal {
		// Blanks adjacent to a fired conditional newline are elided.
		for amountToPrint > 0 && s.buffer[amountToPrint-1] == ' ' {
			amountToPrint--
		}
	}
	if _, err := io.WriteString(s.target, string(s.buffer[:amountToPrint])); err != nil {
		return err
	}

	lineNumber := s.lineNumber + 1
	if !s.readably && s.printLines > 0 && lineNumber >= s.printLines {
		if _, err := io.WriteString(s.target, " .."); err != nil {
			return err
		}
		if n := s.topBlock().suffixLength; n > 0 {
			tail := s.suffix[len(s.suffix)-n:]
			if _, err := io.WriteString(s.target, string(tail)); err != nil {
				return err
			}
		}
		return ErrLineLimit
	}
	s.lineNumber = lineNumber
	if _, err := io.WriteString(s.target, "\n"); err != nil {
		return err
	}
	s.bufferStartColumn = 0

	b := s.topBlock()
	prefixLength := b.prefixLength
	if literal {
		prefixLength = b.perLinePrefixEnd
	}
	shift := amountToConsume - prefixLength
	newFill := s.bufferFill - shift
	if newFill > len(s.buffer) {
		newBuffer := make([]rune, grownSize(len(s.buffer), newFill-len(s.buffer)))
		copy(newBuffer[prefixLength:newFill], s.buffer[amountToConsume:s.bufferFill])
		s.buffer = newBuffer
	} else {
		copy(s.buffer[prefixLength:newFill], s.buffer[amountToConsume:s.bufferFill])
	}
	copy(s.buffer[:prefixLength], s.prefix[:prefixLength])
	s.bufferFill = newFill
	s.bufferOffset += shift

	if !literal {
		b.sectionColumn = prefixLength
		b.sectionStartLine = lineNumber
	}
	return nil
}

// outputPartialLine dumps buffered text up to the first queued op (or
// all of it, with an empty queue) when a full line cannot be assembled:
// the margin is simply overrun. Calling it with nothing dumpable is a
// programmer error.
func (s *Stream) outputPartialLine() error {
	count := s.bufferFill
	if s.qhead < len(s.queue) {
		count = s.posnIndex(s.queue[s.qhead].pos())
	}
	if count == 0 {
		return errors.New(errors.ClassIndex, "PRETTY-0003",
			"output of partial line with nothing to output")
	}
	if _, err := io.WriteString(s.target, string(s.buffer[:count])); err != nil {
		return err
	}
	s.bufferStartColumn += s.widthTo(count)
	copy(s.buffer[:s.bufferFill-count], s.buffer[count:s.bufferFill])
	s.bufferFill -= count
	s.bufferOffset += count
	return nil
}
