// Package display renders the editor screen: a window of numbered lines
// around the cursor, a column ruler and the command prompt.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xonecas/led/internal/buffer"
)

// Reverse video on/off. The byte under the cursor is wrapped in these.
const (
	ReverseOn  = "\x1b[7m"
	ReverseOff = "\x1b[27m"
)

// contextAbove is how many lines are kept above the cursor when the document
// is longer than a page, placing the cursor on the third visible row.
const contextAbove = 2

// Window returns the half-open range of line indexes shown for a document of
// total lines with the cursor on line current.
func Window(total, current, pageSize int) (start, end int) {
	if total <= pageSize {
		return 0, total
	}
	// Small pages shrink the context so the cursor line stays visible.
	above := min(contextAbove, pageSize-1)
	start = min(max(current-above, 0), total-pageSize)
	return start, min(start+pageSize, total)
}

// Ruler returns a column guide width bytes wide whose first offset bytes are
// blank: '-' per column, '+' every 5th and '|' every 10th.
func Ruler(width, offset int) string {
	offset = max(offset, 0)
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", offset))
	for col := 1; col <= width-offset; col++ {
		switch {
		case col%10 == 0:
			sb.WriteByte('|')
		case col%5 == 0:
			sb.WriteByte('+')
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// Prompt returns the command prompt for the 0-based cursor line.
func Prompt(line int) string {
	return fmt.Sprintf("(%d)> ", line+1)
}

// View renders b for a terminal width columns wide and height rows tall. The
// result ends with the prompt and no newline.
func View(b *buffer.Buffer, width, height int) string {
	total := b.Len()
	pageSize := b.PageSize()
	start, end := Window(total, b.CurrentLine(), pageSize)
	digits := len(strconv.Itoa(total))

	var sb strings.Builder
	for i := start; i < end; i++ {
		fmt.Fprintf(&sb, "%*d ", digits, i+1)
		if i == b.CurrentLine() {
			writeCursorLine(&sb, b.Line(i), b.Column())
		} else {
			sb.Write(b.Line(i))
		}
		sb.WriteByte('\n')
	}
	// Keep the text area a constant height for short documents, but never
	// taller than the terminal.
	for range min(pageSize, height) - (end - start) {
		sb.WriteByte('\n')
	}

	sb.WriteString(Ruler(width, digits+1))
	sb.WriteByte('\n')
	sb.WriteString(Prompt(b.CurrentLine()))
	return sb.String()
}

func writeCursorLine(sb *strings.Builder, line []byte, col int) {
	if col >= len(line) {
		sb.Write(line)
		return
	}
	sb.Write(line[:col])
	sb.WriteString(ReverseOn)
	sb.WriteByte(line[col])
	sb.WriteString(ReverseOff)
	sb.Write(line[col+1:])
}
