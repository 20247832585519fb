package buffer

import (
	"bytes"
	"fmt"
)

// WordOp is the edit applied by Word to a single space-separated token.
type WordOp byte

// Word operations, named by the letter used on the command line.
const (
	WordDelete    WordOp = 'd'
	WordOverwrite WordOp = 'o'
	WordAppend    WordOp = 'a'
	WordInsert    WordOp = 'i'
)

// ParseWordOp maps a one-letter operation name to a WordOp.
func ParseWordOp(s string) (WordOp, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWordOp, s)
	}
	switch op := WordOp(s[0]); op {
	case WordDelete, WordOverwrite, WordAppend, WordInsert:
		return op, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWordOp, s)
}

// wordSpan returns the byte range of the nth (1-based) token of line.
// Tokens are separated by single spaces; two adjacent spaces delimit an
// empty token. Tabs are ordinary bytes.
func wordSpan(line []byte, n int) (start, end int, err error) {
	words := bytes.Split(line, []byte{' '})
	if n < 1 || n > len(words) {
		return 0, 0, fmt.Errorf("%w: %d (line has %d words)", ErrInvalidWordNumber, n, len(words))
	}
	for _, w := range words[:n-1] {
		start += len(w) + 1
	}
	return start, start + len(words[n-1]), nil
}

// Word applies op to the nth word of the current line. Delete takes no text;
// the other operations require it.
//
//   - delete removes the word and the space after it, or the space before it
//     when it is the last word
//   - overwrite replaces the word with text
//   - append adds text right after the word
//   - insert adds text right before the word
func (b *Buffer) Word(n int, op WordOp, text string) error {
	switch op {
	case WordDelete:
		if text != "" {
			return fmt.Errorf("%w: delete takes no text", ErrInvalidWordOp)
		}
	case WordOverwrite, WordAppend, WordInsert:
		if text == "" {
			return fmt.Errorf("%w: %c needs text", ErrInvalidWordOp, op)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWordOp, rune(op))
	}

	cur := b.lines[b.line]
	start, end, err := wordSpan(cur, n)
	if err != nil {
		return err
	}

	var next []byte
	switch op {
	case WordDelete:
		switch {
		case end < len(cur):
			next, err = splice(cur, start, end+1, nil)
		case start > 0:
			next, err = splice(cur, start-1, end, nil)
		default:
			next, err = splice(cur, start, end, nil)
		}
	case WordOverwrite:
		next, err = splice(cur, start, end, []byte(text))
	case WordAppend:
		next, err = splice(cur, end, end, []byte(text))
	case WordInsert:
		next, err = splice(cur, start, start, []byte(text))
	}
	if err != nil {
		return err
	}
	b.lines[b.line] = next
	return nil
}
