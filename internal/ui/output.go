package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// DefaultTermWidth is used when stdout is not a terminal.
const DefaultTermWidth = 80

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TermWidth returns the terminal width, or DefaultTermWidth when stdout is
// not a terminal or the size cannot be determined.
func TermWidth() int {
	if !IsTerminal() {
		return DefaultTermWidth
	}
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return DefaultTermWidth
	}
	return w
}
