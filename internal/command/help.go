package command

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Usage describes one command for the help screen.
type Usage struct {
	Syntax      string
	Description string
}

// Usages lists every command in the order the help screen shows them.
var Usages = []Usage{
	{"q", "quit"},
	{"s", "save the file"},
	{"r", "reload the file (refused if it changed on disk)"},
	{"h", "show this help"},
	{"c", "clear the screen"},
	{"n / p", "next / previous line"},
	{"N / P", "next / previous page"},
	{"g <N>", "go to line N"},
	{"z <N>", "show N lines per page"},
	{"<N>", "go to column N"},
	{"i <text>", "insert text at the cursor column"},
	{"x", "delete the character under the cursor"},
	{"b <text>", "insert a line before the current one"},
	{"a <text>", "append a line after the current one"},
	{"d", "delete the current line"},
	{"w <N> <op> [text]", "edit word N: d delete, o overwrite, a append, i insert"},
	{"v", "show unsaved changes"},
	{"!<cmd>", "run a shell command"},
}

var (
	helpTitleStyle  = lipgloss.NewStyle().Bold(true)
	helpSyntaxStyle = lipgloss.NewStyle().Bold(true).Width(20)
)

// HelpText renders the command reference.
func HelpText() string {
	var sb strings.Builder
	sb.WriteString(helpTitleStyle.Render("Commands"))
	sb.WriteByte('\n')
	for _, u := range Usages {
		sb.WriteString(helpSyntaxStyle.Render(u.Syntax))
		sb.WriteString(u.Description)
		sb.WriteByte('\n')
	}
	return sb.String()
}
