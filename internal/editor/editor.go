// Package editor runs the interactive loop: draw the window, read one
// command line, apply it to the buffer, repeat until quit.
package editor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/led/internal/buffer"
	"github.com/xonecas/led/internal/command"
	"github.com/xonecas/led/internal/constants"
	"github.com/xonecas/led/internal/display"
	"github.com/xonecas/led/internal/fileio"
	"github.com/xonecas/led/internal/shell"
	"github.com/xonecas/led/internal/store"
)

// Options configures an Editor. In, Out and Err are required.
type Options struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Size reports the terminal width and height. Nil means 80x24.
	Size func() (width, height int)
	// PageSize overrides the default page size when positive.
	PageSize int

	// Store remembers cursor positions per file. Nil disables it.
	Store *store.Store
	// RestorePosition moves the cursor to the position saved in Store.
	RestorePosition bool

	// Shell runs ! commands. Nil disables them.
	Shell *shell.Shell
}

// Editor owns one buffer and the terminal streams it is driven through.
type Editor struct {
	path    string
	absPath string
	buf     *buffer.Buffer

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	size   func() (int, int)

	store *store.Store
	shell *shell.Shell
}

// Open loads path into a new Editor. Load failures (missing file, line too
// long) are returned as is; the editor cannot start without a buffer.
func Open(path string, opts Options) (*Editor, error) {
	lines, modTime, err := fileio.Load(path)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	size := opts.Size
	if size == nil {
		size = func() (int, int) { return constants.DefaultWidth, constants.DefaultHeight }
	}

	e := &Editor{
		path:    path,
		absPath: absPath,
		buf:     buffer.New(lines, modTime),
		in:      bufio.NewReader(opts.In),
		out:     opts.Out,
		errOut:  opts.Err,
		size:    size,
		store:   opts.Store,
		shell:   opts.Shell,
	}
	e.buf.SetPageSize(opts.PageSize)

	if opts.RestorePosition {
		if pos, ok := e.store.GetPosition(absPath); ok {
			e.buf.SetCursor(pos.Line, pos.Column)
			e.buf.SetPageSize(pos.PageSize)
			log.Debug().Str("file", absPath).Int("line", pos.Line).Int("column", pos.Column).Msg("restored position")
		}
	}

	log.Info().Str("file", absPath).Int("lines", e.buf.Len()).Msg("opened")
	return e, nil
}

// Buffer returns the buffer being edited.
func (e *Editor) Buffer() *buffer.Buffer { return e.buf }

// Run draws and reads commands until quit or end of input. Command errors
// are reported on the error stream and acknowledged with one input line;
// they never end the loop. Only a failure to read input does.
func (e *Editor) Run(ctx context.Context) error {
	defer e.rememberPosition()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		width, height := e.size()
		fmt.Fprint(e.out, display.View(e.buf, width, height))

		line, readErr := e.in.ReadString('\n')
		if readErr != nil && line == "" {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read command: %w", readErr)
		}

		quit, err := e.dispatch(ctx, line)
		if quit {
			return nil
		}
		if err != nil {
			log.Warn().Err(err).Str("input", strings.TrimRight(line, "\r\n")).Msg("command failed")
			fmt.Fprintf(e.errOut, "error: %v\n", err)
			e.waitAck()
		}
	}
}

func (e *Editor) dispatch(ctx context.Context, line string) (bool, error) {
	cmd, err := command.Parse(line)
	if err != nil {
		return false, err
	}
	if cmd.Kind != command.None {
		log.Debug().Stringer("command", cmd.Kind).Int("line", e.buf.CurrentLine()).Msg("dispatch")
	}
	return e.Execute(ctx, cmd)
}

// waitAck blocks until the user sends one line. End of input counts.
func (e *Editor) waitAck() {
	_, _ = e.in.ReadString('\n')
}

// show prints text to the output and waits for acknowledgement before the
// next redraw.
func (e *Editor) show(text string) {
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	fmt.Fprint(e.out, text)
	e.waitAck()
}

func (e *Editor) rememberPosition() {
	if e.store == nil {
		return
	}
	e.store.SetPosition(e.absPath, store.Position{
		Line:     e.buf.CurrentLine(),
		Column:   e.buf.Column(),
		PageSize: e.buf.PageSize(),
	})
}
