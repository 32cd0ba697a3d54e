package pretty

// logicalBlock is the committed record of a logical block. The bottom of
// the stack is an all-zero sentinel that is never popped.
type logicalBlock struct {
	startColumn      int // column where the block began
	sectionColumn    int // column where the current section began
	perLinePrefixEnd int // columns of prefix that repeat after every wrap
	prefixLength     int // total active prefix (per-line text + indent pad)
	suffixLength     int // runes of the suffix array owed by this block and its ancestors
	sectionStartLine int // line number when the current section began
}

func (s *Stream) topBlock() *logicalBlock {
	return &s.blocks[len(s.blocks)-1]
}

// setIndentation moves the current indentation to column, clamped to the
// per-line prefix end, space-filling any newly covered prefix columns.
func (s *Stream) setIndentation(column int) {
	b := s.topBlock()
	if column < b.perLinePrefixEnd {
		column = b.perLinePrefixEnd
	}
	if column > len(s.prefix) {
		newPrefix := make([]rune, grownSize(len(s.prefix), column-len(s.prefix)))
		copy(newPrefix, s.prefix)
		s.prefix = newPrefix
	}
	for i := b.prefixLength; i < column; i++ {
		s.prefix[i] = ' '
	}
	b.prefixLength = column
}

// reallyStartBlock commits a block at the given column: the driver has
// decided the block does not fit inline. The new record inherits the
// prefix/suffix bookkeeping of the enclosing block, then applies its own
// per-line prefix and suffix.
func (s *Stream) reallyStartBlock(column int, perLinePrefix, suffix string) {
	prev := s.topBlock()
	s.blocks = append(s.blocks, logicalBlock{
		startColumn:      column,
		sectionColumn:    column,
		perLinePrefixEnd: prev.perLinePrefixEnd,
		prefixLength:     prev.prefixLength,
		suffixLength:     prev.suffixLength,
		sectionStartLine: s.lineNumber,
	})
	b := s.topBlock()
	s.setIndentation(column)
	if perLinePrefix != "" {
		b.perLinePrefixEnd = column
		pfx := []rune(perLinePrefix)
		copy(s.prefix[column-len(pfx):column], pfx)
	}
	if suffix != "" {
		s.appendSuffix(b, suffix)
	}
}

// appendSuffix pushes suffix onto the right-justified suffix array: the
// new runes sit just left of the valid tail, so the tail always reads
// innermost suffix first.
func (s *Stream) appendSuffix(b *logicalBlock, suffix string) {
	sfx := []rune(suffix)
	added := len(sfx)
	newLength := b.suffixLength + added
	total := len(s.suffix)
	if newLength > total {
		newTotal := grownSize(total, added)
		if newTotal < newLength {
			newTotal = newLength
		}
		newSuffix := make([]rune, newTotal)
		copy(newSuffix[newTotal-b.suffixLength:], s.suffix[total-b.suffixLength:])
		s.suffix = newSuffix
		total = newTotal
	}
	copy(s.suffix[total-newLength:total-b.suffixLength], sfx)
	b.suffixLength = newLength
}

// reallyEndBlock pops the committed block. If the enclosing indentation
// reaches further than the inner block's, the extra prefix columns are
// space-filled: the inner block may have left per-line prefix text there.
func (s *Stream) reallyEndBlock() {
	if len(s.blocks) == 1 {
		return // sentinel stays
	}
	inner := s.blocks[len(s.blocks)-1]
	s.blocks = s.blocks[:len(s.blocks)-1]
	outer := s.topBlock()
	for i := inner.prefixLength; i < outer.prefixLength; i++ {
		s.prefix[i] = ' '
	}
}
