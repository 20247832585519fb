// Package command parses one line of editor input into a Command.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xonecas/led/internal/buffer"
)

// Kind identifies what a Command does.
type Kind int

const (
	None Kind = iota // blank input, nothing to do
	Quit
	Save
	Help
	Clear
	PageSize
	NextLine
	PrevLine
	NextPage
	PrevPage
	GoTo
	DeleteLine
	Insert
	Word
	Reload
	InsertBefore
	InsertAfter
	DeleteChar
	SetColumn
	Diff
	Shell
)

var kindNames = map[Kind]string{
	None: "none", Quit: "quit", Save: "save", Help: "help", Clear: "clear",
	PageSize: "page-size", NextLine: "next-line", PrevLine: "prev-line",
	NextPage: "next-page", PrevPage: "prev-page", GoTo: "goto",
	DeleteLine: "delete-line", Insert: "insert", Word: "word",
	Reload: "reload", InsertBefore: "insert-before", InsertAfter: "insert-after",
	DeleteChar: "delete-char", SetColumn: "set-column", Diff: "diff", Shell: "shell",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Command is one parsed input line.
type Command struct {
	Kind Kind
	N    int           // line, column, word number or page size
	Op   buffer.WordOp // word operation, Word only
	Text string        // verbatim text argument
}

// Parse turns an input line into a Command. A trailing newline is ignored
// and blank lines parse to Kind None. Text arguments keep their spacing.
func Parse(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return Command{}, nil
	}
	if rest, ok := strings.CutPrefix(line, "!"); ok {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return Command{}, fmt.Errorf("%w: ! needs a shell command", buffer.ErrInvalidCommand)
		}
		return Command{Kind: Shell, Text: rest}, nil
	}

	tok, rest, hasArgs := strings.Cut(line, " ")
	switch tok {
	case "q":
		return Command{Kind: Quit}, nil
	case "s":
		return Command{Kind: Save}, nil
	case "h":
		return Command{Kind: Help}, nil
	case "c":
		return Command{Kind: Clear}, nil
	case "n":
		return Command{Kind: NextLine}, nil
	case "p":
		return Command{Kind: PrevLine}, nil
	case "N":
		return Command{Kind: NextPage}, nil
	case "P":
		return Command{Kind: PrevPage}, nil
	case "d":
		return Command{Kind: DeleteLine}, nil
	case "r":
		return Command{Kind: Reload}, nil
	case "x":
		return Command{Kind: DeleteChar}, nil
	case "v":
		return Command{Kind: Diff}, nil
	case "z":
		n, err := number(tok, rest, hasArgs, buffer.ErrInvalidCommand)
		return Command{Kind: PageSize, N: n}, err
	case "g":
		n, err := number(tok, rest, hasArgs, buffer.ErrInvalidLineNumber)
		return Command{Kind: GoTo, N: n}, err
	case "i", "b", "a":
		if !hasArgs {
			return Command{}, fmt.Errorf("%w: %s needs text", buffer.ErrInvalidCommand, tok)
		}
		kind := map[string]Kind{"i": Insert, "b": InsertBefore, "a": InsertAfter}[tok]
		return Command{Kind: kind, Text: rest}, nil
	case "w":
		return parseWord(rest, hasArgs)
	}

	if n, err := strconv.Atoi(tok); err == nil {
		return Command{Kind: SetColumn, N: n}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", buffer.ErrInvalidCommand, tok)
}

// number parses the single integer argument of tok. A missing argument is an
// invalid command; an unparseable one is reported as badNumber.
func number(tok, arg string, hasArgs bool, badNumber error) (int, error) {
	arg = strings.TrimSpace(arg)
	if !hasArgs || arg == "" {
		return 0, fmt.Errorf("%w: %s needs a number", buffer.ErrInvalidCommand, tok)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", badNumber, arg)
	}
	return n, nil
}

// parseWord parses "<N> <op> [text]".
func parseWord(args string, hasArgs bool) (Command, error) {
	parts := strings.SplitN(args, " ", 3)
	if !hasArgs || len(parts) < 2 {
		return Command{}, fmt.Errorf("%w: usage w <N> <op> [text]", buffer.ErrInvalidCommand)
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", buffer.ErrInvalidWordNumber, parts[0])
	}
	op, err := buffer.ParseWordOp(parts[1])
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Kind: Word, N: n, Op: op}
	if len(parts) == 3 {
		cmd.Text = parts[2]
	}
	return cmd, nil
}
