package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// DetectTerminalWidth tries to get the terminal width, falling back to a default if necessary.
func DetectTerminalWidth(fallback int) int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		w, _, err := term.GetSize(int(fd))
		if err == nil && w >= 40 {
			return w
		}
	}
	return fallback
}

// MaxColumnLen is what is left of termWidth for one flexible column once
// the fixed columns are accounted for.
func MaxColumnLen(termWidth, fixed int) int {
	n := termWidth - fixed
	if n < 10 {
		n = 10
	}
	return n
}

// Prompt prints label and reads one trimmed line from in. It reads a byte
// at a time so later prompts on the same stream see the following lines.
func Prompt(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)

	var line strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line.WriteByte(buf[0])
		}
		if err == io.EOF {
			if line.Len() == 0 {
				return "", fmt.Errorf("failed to read input: %w", err)
			}
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
	return strings.TrimSpace(line.String()), nil
}

// ReadPassword reads a secret from in, without echo when in is a terminal.
func ReadPassword(in io.Reader, out io.Writer, label string) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return Prompt(in, out, label)
	}

	fmt.Fprint(out, label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
