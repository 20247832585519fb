// Package diff renders the difference between the saved file and the
// in-memory buffer as a unified diff.
package diff

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff turning saved into current, labelled with
// name. It returns "" when the two are identical.
func Unified(name string, saved, current []byte) string {
	before, after := withFinalNewline(saved), withFinalNewline(current)
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified(name+" (saved)", name+" (buffer)", before, edits))
}

// The editor never writes a final newline, so both sides get one to keep the
// last line from showing up as a "no newline" change.
func withFinalNewline(b []byte) string {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return string(b)
	}
	return string(b) + "\n"
}
