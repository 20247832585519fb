// Package buffer implements the in-memory line buffer the editor works on:
// an ordered list of byte lines plus a line/column cursor and a page size.
//
// All offsets are byte offsets. Every mutation builds a fresh line and swaps
// it in, so a rejected edit leaves the buffer untouched.
package buffer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xonecas/led/internal/constants"
)

// Buffer holds the lines of one file and the cursor into them.
type Buffer struct {
	lines    [][]byte
	line     int // always 0 <= line < len(lines)
	column   int // byte offset, may point past the end of a short line
	pageSize int
	modTime  time.Time
}

// New creates a buffer owning lines. An empty slice becomes a single empty
// line. modTime is the file modification time observed when lines were read.
func New(lines [][]byte, modTime time.Time) *Buffer {
	b := &Buffer{pageSize: constants.DefaultPageSize}
	b.Replace(lines, modTime)
	return b
}

// Replace swaps in a freshly loaded set of lines and resets the cursor to the
// top. The page size is kept.
func (b *Buffer) Replace(lines [][]byte, modTime time.Time) {
	if len(lines) == 0 {
		lines = [][]byte{{}}
	}
	b.lines = lines
	b.line = 0
	b.column = 0
	b.modTime = modTime
}

// Len returns the number of lines.
func (b *Buffer) Len() int { return len(b.lines) }

// Line returns line i. The slice is shared with the buffer and must not be
// modified.
func (b *Buffer) Line(i int) []byte { return b.lines[i] }

// Lines returns all lines. The slices are shared with the buffer.
func (b *Buffer) Lines() [][]byte { return b.lines }

// Bytes returns the document as it would be written to disk.
func (b *Buffer) Bytes() []byte { return bytes.Join(b.lines, []byte{'\n'}) }

// CurrentLine returns the 0-based cursor line.
func (b *Buffer) CurrentLine() int { return b.line }

// Column returns the 0-based cursor column.
func (b *Buffer) Column() int { return b.column }

// PageSize returns the number of lines per screen.
func (b *Buffer) PageSize() int { return b.pageSize }

// ModTime returns the last observed modification time of the backing file.
func (b *Buffer) ModTime() time.Time { return b.modTime }

// SetModTime records the modification time observed after a save.
func (b *Buffer) SetModTime(t time.Time) { b.modTime = t }

// SetPageSize changes the page size. Non-positive values are ignored.
func (b *Buffer) SetPageSize(n int) {
	if n > 0 {
		b.pageSize = n
	}
}

// SetCursor moves the cursor to a 0-based position, clamping the line into
// the buffer and the column to zero or more.
func (b *Buffer) SetCursor(line, column int) {
	b.line = b.clampLine(line)
	b.column = max(column, 0)
}

func (b *Buffer) clampLine(i int) int {
	return min(max(i, 0), len(b.lines)-1)
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

// NextLine moves down one line, stopping at the last line.
func (b *Buffer) NextLine() { b.line = b.clampLine(b.line + 1) }

// PrevLine moves up one line, stopping at the first line.
func (b *Buffer) PrevLine() { b.line = b.clampLine(b.line - 1) }

// NextPage moves down by the page size, stopping at the last line.
func (b *Buffer) NextPage() {
	if last := len(b.lines) - 1; b.pageSize >= last-b.line {
		b.line = last
		return
	}
	b.line += b.pageSize
}

// PrevPage moves up by the page size, stopping at the first line.
func (b *Buffer) PrevPage() {
	if b.pageSize >= b.line {
		b.line = 0
		return
	}
	b.line -= b.pageSize
}

// GoTo moves to the 1-based line n.
func (b *Buffer) GoTo(n int) error {
	if n < 1 || n > len(b.lines) {
		return fmt.Errorf("%w: %d (buffer has %d lines)", ErrInvalidLineNumber, n, len(b.lines))
	}
	b.line = n - 1
	return nil
}

// SetColumn moves to the 1-based column n. The column is not checked against
// the current line's length.
func (b *Buffer) SetColumn(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidColumnNumber, n)
	}
	b.column = n - 1
	return nil
}

// ---------------------------------------------------------------------------
// Editing
// ---------------------------------------------------------------------------

// Insert splices text into the current line at the cursor column, clamped to
// the end of the line. The cursor does not move.
func (b *Buffer) Insert(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	cur := b.lines[b.line]
	at := min(b.column, len(cur))
	next, err := splice(cur, at, at, []byte(text))
	if err != nil {
		return err
	}
	b.lines[b.line] = next
	return nil
}

// DeleteChar removes the byte under the cursor. It does nothing when the
// cursor is at or past the end of the line.
func (b *Buffer) DeleteChar() {
	cur := b.lines[b.line]
	if b.column >= len(cur) {
		return
	}
	// Shrinking a line cannot exceed the limit.
	next, _ := splice(cur, b.column, b.column+1, nil)
	b.lines[b.line] = next
}

// DeleteLine removes the current line. Removing the only line leaves a single
// empty line behind.
func (b *Buffer) DeleteLine() {
	lines := make([][]byte, 0, len(b.lines))
	lines = append(lines, b.lines[:b.line]...)
	lines = append(lines, b.lines[b.line+1:]...)
	if len(lines) == 0 {
		lines = append(lines, []byte{})
	}
	b.lines = lines
	b.line = b.clampLine(b.line)
}

// InsertLineBefore inserts text as a new line above the cursor. The cursor
// stays at the same index, which is now the new line.
func (b *Buffer) InsertLineBefore(text string) error {
	return b.insertLine(b.line, text)
}

// InsertLineAfter inserts text as a new line below the cursor and moves the
// cursor onto it.
func (b *Buffer) InsertLineAfter(text string) error {
	if err := b.insertLine(b.line+1, text); err != nil {
		return err
	}
	b.line++
	return nil
}

func (b *Buffer) insertLine(at int, text string) error {
	if text == "" {
		return ErrEmptyText
	}
	if len(text) > constants.MaxLineLength {
		return fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(text))
	}
	lines := make([][]byte, 0, len(b.lines)+1)
	lines = append(lines, b.lines[:at]...)
	lines = append(lines, []byte(text))
	lines = append(lines, b.lines[at:]...)
	b.lines = lines
	return nil
}

// splice returns a new line made of line[:from], repl and line[to:].
func splice(line []byte, from, to int, repl []byte) ([]byte, error) {
	n := len(line) - (to - from) + len(repl)
	if n > constants.MaxLineLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrLineTooLong, n)
	}
	next := make([]byte, n)
	copy(next, line[:from])
	copy(next[from:], repl)
	copy(next[from+len(repl):], line[to:])
	return next, nil
}
