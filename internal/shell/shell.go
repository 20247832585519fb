// Package shell runs the editor's ! commands in an in-process POSIX shell
// interpreter. Commands start in the edited file's directory and see its path
// as $LED_FILE. The working directory and exported variables carry over from
// one command to the next.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// FileVar names the variable holding the absolute path of the edited file.
const FileVar = "LED_FILE"

// Shell is the state shared by the ! commands of one editing session.
type Shell struct {
	file       string
	cwd        string
	env        []string
	blockFuncs []BlockFunc
}

// New returns a Shell for the file at path. Commands rejected by any of
// blockers fail without running.
func New(path string, blockers []BlockFunc) (*Shell, error) {
	file, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return &Shell{
		file:       file,
		cwd:        filepath.Dir(file),
		env:        os.Environ(),
		blockFuncs: blockers,
	}, nil
}

// Exec runs command and returns what it wrote to stdout and stderr.
// A non-zero exit status is returned as an error; see ExitCode.
func (s *Shell) Exec(ctx context.Context, command string) (stdout, stderr string, err error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", "", fmt.Errorf("could not parse command: %w", err)
	}

	var out, errOut bytes.Buffer
	runner, err := interp.New(
		interp.StdIO(nil, &out, &errOut),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(s.environ()...)),
		interp.Dir(s.cwd),
		interp.ExecHandlers(s.blockHandler),
	)
	if err != nil {
		return "", "", fmt.Errorf("could not create interpreter: %w", err)
	}

	err = s.runGuarded(ctx, runner, prog)
	s.keep(runner)
	return out.String(), errOut.String(), err
}

func (s *Shell) runGuarded(ctx context.Context, runner *interp.Runner, prog *syntax.File) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command execution panic: %v", r)
		}
	}()
	return runner.Run(ctx, prog)
}

// environ is the saved environment with FileVar pointing at the file again,
// in case a previous command changed or unset it.
func (s *Shell) environ() []string {
	return append(s.env[:len(s.env):len(s.env)], FileVar+"="+s.file)
}

func (s *Shell) blockHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		for _, blocked := range s.blockFuncs {
			if len(args) > 0 && blocked(args) {
				return fmt.Errorf("command blocked: %q", args[0])
			}
		}
		return next(ctx, args)
	}
}

// keep saves the runner's final directory and exported string variables.
// After Run, runner.Vars holds the whole environment including exports made
// by the command; runner.Env is only what it started with.
func (s *Shell) keep(runner *interp.Runner) {
	if runner.Dir != "" {
		s.cwd = runner.Dir
	}
	if len(runner.Vars) == 0 {
		return
	}
	env := make([]string, 0, len(runner.Vars))
	for name, vr := range runner.Vars {
		if vr.Exported && vr.Kind == expand.String && name != FileVar {
			env = append(env, name+"="+vr.Str)
		}
	}
	s.env = env
}

// ExitCode extracts the exit status from an Exec error: 0 for nil, the
// status for a non-zero exit and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		return int(status)
	}
	return 1
}
