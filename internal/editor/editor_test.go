package editor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/led/internal/buffer"
	"github.com/xonecas/led/internal/command"
	"github.com/xonecas/led/internal/shell"
	"github.com/xonecas/led/internal/store"
)

type testSession struct {
	ed   *Editor
	path string
	out  *bytes.Buffer
	err  *bytes.Buffer
}

func openTestEditor(t *testing.T, content, input string, opts Options) *testSession {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s := &testSession{path: path, out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	opts.In = strings.NewReader(input)
	opts.Out = s.out
	opts.Err = s.err
	ed, err := Open(path, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.ed = ed
	return s
}

func (s *testSession) run(t *testing.T) {
	t.Helper()
	if err := s.ed.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func (s *testSession) lines() []string {
	b := s.ed.Buffer()
	out := make([]string, b.Len())
	for i := range out {
		out[i] = string(b.Line(i))
	}
	return out
}

func (s *testSession) fileContent(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"), Options{In: strings.NewReader("")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	path := filepath.Join(t.TempDir(), "long.txt")
	os.WriteFile(path, []byte(strings.Repeat("x", 5000)), 0o644)
	_, err = Open(path, Options{In: strings.NewReader("")})
	if !errors.Is(err, buffer.ErrLineTooLong) {
		t.Errorf("long line: got %v", err)
	}
}

func TestRun_Scenario(t *testing.T) {
	s := openTestEditor(t, "hello world\nsecond", "w 2 o bye\ng 2\na done\ns\nq\n", Options{})
	s.run(t)

	want := []string{"hello bye", "second", "done"}
	if got := s.lines(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if s.ed.Buffer().CurrentLine() != 2 {
		t.Errorf("current line = %d, want 2", s.ed.Buffer().CurrentLine())
	}
	if got := s.fileContent(t); got != "hello bye\nsecond\ndone" {
		t.Errorf("saved file = %q", got)
	}
	if s.err.Len() != 0 {
		t.Errorf("unexpected errors: %q", s.err.String())
	}
}

func TestRun_InsertAndDeleteChar(t *testing.T) {
	s := openTestEditor(t, "", "i hi\nx\nq\n", Options{})
	s.run(t)
	if got := s.lines(); len(got) != 1 || got[0] != "i" {
		t.Errorf("lines = %q, want [\"i\"]", got)
	}
}

func TestRun_PromptAndWindow(t *testing.T) {
	s := openTestEditor(t, "a\nb\nc", "n\nq\n", Options{Size: func() (int, int) { return 20, 10 }})
	s.run(t)
	out := ansi.Strip(s.out.String())
	if !strings.Contains(out, "(1)> ") || !strings.Contains(out, "(2)> ") {
		t.Errorf("missing prompts in %q", out)
	}
	if !strings.Contains(out, "  ----+----|----+---\n") {
		t.Errorf("ruler not sized to terminal width: %q", out)
	}
}

func TestRun_ErrorsAreReportedAndAcknowledged(t *testing.T) {
	// Each error consumes the next line as its acknowledgement, so "n" after
	// "bogus" must not move the cursor.
	s := openTestEditor(t, "a\nb\nc", "bogus\nn\ng 9\n\nw 5 d\nack\nq\n", Options{})
	s.run(t)

	errs := s.err.String()
	for _, want := range []string{"invalid command", "invalid line number", "invalid word number"} {
		if !strings.Contains(errs, want) {
			t.Errorf("error output %q missing %q", errs, want)
		}
	}
	if s.ed.Buffer().CurrentLine() != 0 {
		t.Errorf("acknowledgement line was dispatched: current line = %d", s.ed.Buffer().CurrentLine())
	}
}

func TestRun_BlankLinesIgnored(t *testing.T) {
	s := openTestEditor(t, "a\nb", "\n   \nn\nq\n", Options{})
	s.run(t)
	if s.err.Len() != 0 {
		t.Errorf("blank lines reported errors: %q", s.err.String())
	}
	if s.ed.Buffer().CurrentLine() != 1 {
		t.Errorf("current line = %d, want 1", s.ed.Buffer().CurrentLine())
	}
}

func TestRun_EndOfInputStops(t *testing.T) {
	s := openTestEditor(t, "a", "i x", Options{})
	s.run(t)
	if got := s.lines(); got[0] != "xa" {
		t.Errorf("last line without newline not applied: %q", got)
	}
}

func TestRun_Clear(t *testing.T) {
	s := openTestEditor(t, "a", "c\nq\n", Options{})
	s.run(t)
	if !strings.Contains(s.out.String(), "\x1b[2J\x1b[H") {
		t.Errorf("clear sequence missing from %q", s.out.String())
	}
}

func TestRun_Help(t *testing.T) {
	s := openTestEditor(t, "a", "h\n\nq\n", Options{})
	s.run(t)
	out := ansi.Strip(s.out.String())
	if !strings.Contains(out, "w <N> <op> [text]") {
		t.Errorf("help not shown: %q", out)
	}
}

func TestRun_PageSizeAndPaging(t *testing.T) {
	content := strings.Repeat("line\n", 30)
	s := openTestEditor(t, content, "z 10\nN\nN\nP\nz 0\nq\n", Options{PageSize: 3})
	s.run(t)
	b := s.ed.Buffer()
	if b.PageSize() != 10 {
		t.Errorf("page size = %d, want 10", b.PageSize())
	}
	if b.CurrentLine() != 10 {
		t.Errorf("current line = %d, want 10", b.CurrentLine())
	}
}

func TestRun_SetColumn(t *testing.T) {
	s := openTestEditor(t, "abcdef", "3\nx\n0\n\nq\n", Options{})
	s.run(t)
	if got := s.lines()[0]; got != "abdef" {
		t.Errorf("line = %q, want abdef", got)
	}
	if !strings.Contains(s.err.String(), "invalid column number") {
		t.Errorf("column 0 not rejected: %q", s.err.String())
	}
}

func TestSave_FailureKeepsBuffer(t *testing.T) {
	s := openTestEditor(t, "a", "", Options{})
	if err := s.ed.Buffer().Insert("new "); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	s.ed.path = filepath.Join(t.TempDir(), "no", "such", "dir", "doc.txt")
	if err := s.ed.Save(); err == nil {
		t.Fatal("expected save error")
	}
	if got := s.lines()[0]; got != "new a" {
		t.Errorf("buffer changed after failed save: %q", got)
	}
}

func TestReload(t *testing.T) {
	s := openTestEditor(t, "one\ntwo", "", Options{})
	mt := s.ed.Buffer().ModTime()

	// Rewrite the file but restore its timestamp: the guard only looks at
	// the modification time.
	if err := os.WriteFile(s.path, []byte("fresh\ncontent\nhere"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Chtimes(s.path, mt, mt); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	s.ed.Buffer().SetCursor(1, 2)

	if err := s.ed.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := strings.Join(s.lines(), "|"); got != "fresh|content|here" {
		t.Errorf("lines = %q", got)
	}
	if s.ed.Buffer().CurrentLine() != 0 {
		t.Errorf("cursor not reset: %d", s.ed.Buffer().CurrentLine())
	}
}

func TestReload_RefusedWhenModified(t *testing.T) {
	s := openTestEditor(t, "one", "", Options{})
	later := s.ed.Buffer().ModTime().Add(time.Minute)
	if err := os.WriteFile(s.path, []byte("external"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Chtimes(s.path, later, later); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	if err := s.ed.Reload(); !errors.Is(err, buffer.ErrFileModified) {
		t.Fatalf("Reload = %v, want ErrFileModified", err)
	}
	if got := s.lines()[0]; got != "one" {
		t.Errorf("buffer replaced despite refusal: %q", got)
	}
}

func TestSaveRefreshesModTime(t *testing.T) {
	s := openTestEditor(t, "one", "", Options{})
	past := time.Now().Add(-time.Hour)
	os.Chtimes(s.path, past, past)
	if err := s.ed.Reload(); !errors.Is(err, buffer.ErrFileModified) {
		t.Fatalf("Reload = %v, want ErrFileModified", err)
	}
	if err := s.ed.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.ed.Reload(); err != nil {
		t.Errorf("Reload after save: %v", err)
	}
}

func TestRun_Diff(t *testing.T) {
	s := openTestEditor(t, "hello world\nsecond", "v\n\nw 2 o bye\nv\n\nq\n", Options{})
	s.run(t)
	out := s.out.String()
	if !strings.Contains(out, "no unsaved changes") {
		t.Errorf("clean diff message missing: %q", out)
	}
	if !strings.Contains(out, "-hello world") || !strings.Contains(out, "+hello bye") {
		t.Errorf("diff missing change: %q", out)
	}
}

func TestRun_Shell(t *testing.T) {
	s := openTestEditor(t, "a", "!echo from-shell\n\n!echo \"$LED_FILE\"\n\n!exit 4\n\nq\n", Options{})
	sh, err := shell.New(s.path, nil)
	if err != nil {
		t.Fatalf("shell.New: %v", err)
	}
	s.ed.shell = sh
	s.run(t)
	out := s.out.String()
	if !strings.Contains(out, "from-shell\n") {
		t.Errorf("shell output missing: %q", out)
	}
	if !strings.Contains(out, s.path+"\n") {
		t.Errorf("edited file path missing: %q", out)
	}
	if !strings.Contains(out, "[exit 4") {
		t.Errorf("exit status missing: %q", out)
	}
}

func TestRun_HugePageSize(t *testing.T) {
	s := openTestEditor(t, "a\nb\nc", "z 1099511627776\nN\nz 9223372036854775807\nP\nN\nq\n", Options{
		Size: func() (int, int) { return 20, 8 },
	})
	s.run(t)
	if got := s.ed.Buffer().CurrentLine(); got != 2 {
		t.Errorf("current line = %d, want 2", got)
	}
	if s.err.Len() != 0 {
		t.Errorf("unexpected errors: %q", s.err.String())
	}
	if s.out.Len() > 4096 {
		t.Errorf("redraws produced %d bytes", s.out.Len())
	}
}

func TestRun_ShellDisabled(t *testing.T) {
	s := openTestEditor(t, "a", "!echo nope\n\nq\n", Options{})
	s.run(t)
	if !strings.Contains(s.err.String(), "shell commands are disabled") {
		t.Errorf("err = %q", s.err.String())
	}
}

func TestRestorePosition(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"), store.DefaultTTL)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	s := openTestEditor(t, "1\n2\n3\n4\n5\n6", "g 5\n4\nz 7\nq\n", Options{Store: st})
	s.run(t)

	in := strings.NewReader("q\n")
	ed, err := Open(s.path, Options{In: in, Out: &bytes.Buffer{}, Err: &bytes.Buffer{}, Store: st, RestorePosition: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	b := ed.Buffer()
	if b.CurrentLine() != 4 || b.Column() != 3 || b.PageSize() != 7 {
		t.Errorf("restored (%d,%d) page %d, want (4,3) page 7", b.CurrentLine(), b.Column(), b.PageSize())
	}

	ed, err = Open(s.path, Options{In: in, Store: st})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if ed.Buffer().CurrentLine() != 0 {
		t.Error("position restored without RestorePosition")
	}
}

func TestExecute_UnknownKind(t *testing.T) {
	s := openTestEditor(t, "a", "", Options{})
	if _, err := s.ed.Execute(context.Background(), command.Command{Kind: command.Kind(99)}); !errors.Is(err, buffer.ErrInvalidCommand) {
		t.Errorf("got %v, want ErrInvalidCommand", err)
	}
}
