package utils

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// SpinnerUtil wraps a terminal spinner for the non-interactive commands.
type SpinnerUtil struct {
	s *spinner.Spinner
}

// NewSpinnerService writes to w. The spinner stays silent when w is not a
// terminal.
func NewSpinnerService(w io.Writer) *SpinnerUtil {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	return &SpinnerUtil{s: s}
}

func (s *SpinnerUtil) Start(message string) {
	s.s.Suffix = " " + message
	s.s.Start()
}

func (s *SpinnerUtil) Stop() {
	s.s.Stop()
}

func (s *SpinnerUtil) Success(message string) {
	s.s.FinalMSG = "✓ " + message + "\n"
	s.s.Stop()
}

func (s *SpinnerUtil) Error(message string) {
	s.s.FinalMSG = "✗ " + message + "\n"
	s.s.Stop()
}
