// Package progress provides terminal progress indicators for long-running
// engine operations (checkout materializing a large tree, add staging
// many files).
package progress

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/rybkr/rvs/internal/termcolor"
)

// Spinner displays an animated indicator on stderr while a long-running
// operation is in progress. It is only displayed when stderr is a TTY;
// in non-interactive environments (piped output, CI, scripted use) it is
// silent, matching pterm's own disabled-output behavior.
type Spinner struct {
	msg      string
	printer  *pterm.SpinnerPrinter
	disabled bool
}

// New creates a Spinner that will display msg alongside the animation.
func New(msg string) *Spinner {
	return &Spinner{msg: msg, disabled: !termcolor.IsTerminal(os.Stderr.Fd())}
}

// Start begins the spinner animation. It writes to stderr so it never
// pollutes stdout.
func (s *Spinner) Start() {
	if s.disabled {
		return
	}
	printer := pterm.DefaultSpinner.WithWriter(os.Stderr)
	started, err := printer.Start(s.msg)
	if err != nil {
		s.disabled = true
		return
	}
	s.printer = started
}

// Stop halts the spinner animation and clears the line.
func (s *Spinner) Stop() {
	if s.printer == nil {
		return
	}
	_ = s.printer.Stop()
	s.printer = nil
}

// UpdateText changes the message shown alongside the animation, used to
// report progress through a multi-step operation (e.g. "replaying 3/12").
func (s *Spinner) UpdateText(msg string) {
	s.msg = msg
	if s.printer != nil {
		s.printer.UpdateText(msg)
	}
}
