package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// CopyToClipboard puts text on the system clipboard. The native clipboard is
// tried first; headless and WSL sessions fall back to the platform helpers.
func CopyToClipboard(text string) error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
	})

	if clipboardErr == nil && !isRunningInWSL() {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}

	return copyWithCommand(text)
}

func copyWithCommand(text string) error {
	var cmd *exec.Cmd

	switch {
	case runtime.GOOS == "windows":
		cmd = exec.Command("clip")
	case runtime.GOOS == "darwin":
		cmd = exec.Command("pbcopy")
	case isRunningInWSL():
		cmd = exec.Command("clip.exe")
	case runtime.GOOS == "linux":
		if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		} else {
			return fmt.Errorf("no clipboard utility found (install wl-clipboard, xclip or xsel)")
		}
	default:
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}

	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("clipboard command failed: %w", err)
	}
	return nil
}

func isRunningInWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	if os.Getenv("WSL_DISTRO_NAME") != "" || os.Getenv("WSLENV") != "" {
		return true
	}

	if data, err := os.ReadFile("/proc/version"); err == nil {
		version := strings.ToLower(string(data))
		if strings.Contains(version, "microsoft") || strings.Contains(version, "wsl") {
			return true
		}
	}

	return false
}
