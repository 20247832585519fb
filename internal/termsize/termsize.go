// Package termsize reports the dimensions of the controlling terminal.
package termsize

import (
	"os"

	"golang.org/x/term"

	"github.com/xonecas/led/internal/constants"
)

// Size returns the width and height of the terminal behind fd, or
// constants.DefaultWidth x constants.DefaultHeight when fd is not a terminal
// or the size cannot be read.
func Size(fd uintptr) (width, height int) {
	if !term.IsTerminal(int(fd)) {
		return constants.DefaultWidth, constants.DefaultHeight
	}
	w, h, err := term.GetSize(int(fd))
	if err != nil || w <= 0 || h <= 0 {
		return constants.DefaultWidth, constants.DefaultHeight
	}
	return w, h
}

// Provider returns a size function probing the first of files that is a
// terminal, so redirected stdin still finds the size through stdout.
func Provider(files ...*os.File) func() (int, int) {
	return func() (int, int) {
		for _, f := range files {
			if f != nil && term.IsTerminal(int(f.Fd())) {
				return Size(f.Fd())
			}
		}
		return constants.DefaultWidth, constants.DefaultHeight
	}
}
