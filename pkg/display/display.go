// Package display reports fatal errors on stderr.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ErrorStyle renders error messages on a terminal
var ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// Reporter prints errors prefixed with the program name
type Reporter struct {
	w     io.Writer
	name  string
	color bool
}

// NewReporter creates a reporter for w. With color set, messages are
// rendered with ErrorStyle.
func NewReporter(w io.Writer, name string, color bool) *Reporter {
	return &Reporter{
		w:     w,
		name:  name,
		color: color,
	}
}

// NewStderrReporter creates a reporter for os.Stderr
func NewStderrReporter(name string) *Reporter {
	return NewReporter(os.Stderr, name, IsTerminal(os.Stderr))
}

// IsTerminal returns true if f is a TTY
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Error prints err
func (r *Reporter) Error(err error) {
	r.Errorf("%v", err)
}

// Errorf prints a formatted error message
func (r *Reporter) Errorf(format string, args ...any) {
	msg := r.name + ": " + fmt.Sprintf(format, args...)
	if r.color {
		msg = ErrorStyle.Render(msg)
	}
	_, _ = fmt.Fprintln(r.w, msg)
}
