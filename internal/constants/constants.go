// Package constants holds the fixed limits and defaults shared by the editor.
package constants

// MaxLineLength is the largest line, in bytes, the editor will hold.
// Loading a file with a longer line fails; edits that would grow a line past
// it are rejected.
const MaxLineLength = 4096

// DefaultPageSize is the number of lines shown per redraw and the step used
// by page navigation until the user changes it with `z`.
const DefaultPageSize = 5

// DefaultWidth and DefaultHeight are used when the terminal size cannot be
// determined (output is not a terminal, or the probe fails).
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// FileMode is the permission used when save has to create the file.
const FileMode = 0o644

// AppName names the binary and the data directory (~/.config/led).
const AppName = "led"
