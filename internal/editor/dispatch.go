package editor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/led/internal/buffer"
	"github.com/xonecas/led/internal/command"
	"github.com/xonecas/led/internal/diff"
	"github.com/xonecas/led/internal/fileio"
	"github.com/xonecas/led/internal/shell"
)

// ClearScreen erases the terminal and homes the cursor.
const ClearScreen = ansi.EraseEntireScreen + ansi.CursorHomePosition

// Execute applies cmd. It reports whether the loop should stop.
func (e *Editor) Execute(ctx context.Context, cmd command.Command) (bool, error) {
	b := e.buf
	switch cmd.Kind {
	case command.None:
	case command.Quit:
		return true, nil
	case command.Save:
		return false, e.Save()
	case command.Reload:
		return false, e.Reload()
	case command.Help:
		e.show(command.HelpText())
	case command.Clear:
		fmt.Fprint(e.out, ClearScreen)
	case command.PageSize:
		b.SetPageSize(cmd.N)
	case command.NextLine:
		b.NextLine()
	case command.PrevLine:
		b.PrevLine()
	case command.NextPage:
		b.NextPage()
	case command.PrevPage:
		b.PrevPage()
	case command.GoTo:
		return false, b.GoTo(cmd.N)
	case command.SetColumn:
		return false, b.SetColumn(cmd.N)
	case command.Insert:
		return false, b.Insert(cmd.Text)
	case command.DeleteChar:
		b.DeleteChar()
	case command.InsertBefore:
		return false, b.InsertLineBefore(cmd.Text)
	case command.InsertAfter:
		return false, b.InsertLineAfter(cmd.Text)
	case command.DeleteLine:
		b.DeleteLine()
	case command.Word:
		return false, b.Word(cmd.N, cmd.Op, cmd.Text)
	case command.Diff:
		return false, e.showDiff()
	case command.Shell:
		return false, e.runShell(ctx, cmd.Text)
	default:
		return false, fmt.Errorf("%w: %s", buffer.ErrInvalidCommand, cmd.Kind)
	}
	return false, nil
}

// Save writes the buffer to its file and records the new modification time.
// On failure the buffer is left as it was.
func (e *Editor) Save() error {
	modTime, err := fileio.Save(e.path, e.buf.Lines())
	if err != nil {
		log.Error().Err(err).Str("file", e.absPath).Msg("save failed")
		return err
	}
	e.buf.SetModTime(modTime)
	e.rememberPosition()
	log.Info().Str("file", e.absPath).Int("lines", e.buf.Len()).Msg("saved")
	return nil
}

// Reload re-reads the file, replacing the buffer. It is refused with
// buffer.ErrFileModified when the file's modification time differs from the
// one observed at the last load or save.
func (e *Editor) Reload() error {
	modTime, err := fileio.ModTime(e.path)
	if err != nil {
		return err
	}
	if !modTime.Equal(e.buf.ModTime()) {
		return fmt.Errorf("%w: %s changed at %s", buffer.ErrFileModified, e.path, modTime.Format("15:04:05"))
	}
	lines, modTime, err := fileio.Load(e.path)
	if err != nil {
		return err
	}
	e.buf.Replace(lines, modTime)
	log.Info().Str("file", e.absPath).Int("lines", e.buf.Len()).Msg("reloaded")
	return nil
}

func (e *Editor) showDiff() error {
	saved, err := os.ReadFile(e.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", e.path, err)
	}
	d := diff.Unified(filepath.Base(e.path), saved, e.buf.Bytes())
	if d == "" {
		d = "no unsaved changes"
	}
	e.show(d)
	return nil
}

func (e *Editor) runShell(ctx context.Context, text string) error {
	if e.shell == nil {
		return fmt.Errorf("%w: shell commands are disabled", buffer.ErrInvalidCommand)
	}
	stdout, stderr, err := e.shell.Exec(ctx, text)
	log.Debug().Str("cmd", text).Int("exit", shell.ExitCode(err)).Msg("shell")

	var sb strings.Builder
	sb.WriteString(stdout)
	sb.WriteString(stderr)
	if err != nil {
		fmt.Fprintf(&sb, "[exit %d: %v]\n", shell.ExitCode(err), err)
	}
	e.show(sb.String())
	return nil
}
