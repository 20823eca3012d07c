// Package cli holds the console plumbing shared by the command entry points.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	platformconfig "xp-theme-tools/internal/platform/config"
)

// ExecutableDir returns the directory of the running binary with symlinks
// resolved, or "." when it cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ConfigPath returns explicit when set, else the default config file next
// to the binary when one exists, else "".
func ConfigPath(explicit, exeDir string) string {
	if explicit != "" {
		return explicit
	}
	if candidate := filepath.Join(exeDir, platformconfig.DefaultFile); FileExists(candidate) {
		return candidate
	}
	return ""
}

// Pause waits for Enter so a double-clicked console window stays readable.
// It never blocks when disabled or when in is not a terminal.
func Pause(disabled bool, in *os.File, out io.Writer) {
	if disabled || in == nil || !term.IsTerminal(int(in.Fd())) {
		return
	}
	fmt.Fprint(out, "\nPress Enter to exit...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
