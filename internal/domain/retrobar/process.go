package retrobar

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessManager finds, stops and launches external programs.
type ProcessManager interface {
	// KillByName terminates every process whose executable name matches
	// name, case-insensitively, and returns how many were killed.
	KillByName(ctx context.Context, name string) (int, error)

	// StartDetached launches path without waiting for it.
	StartDetached(path string) error
}

// SystemProcesses is the ProcessManager backed by the host process table.
type SystemProcesses struct{}

func (SystemProcesses) KillByName(ctx context.Context, name string) (int, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return 0, err
	}

	killed := 0
	var firstErr error
	for _, p := range procs {
		// Processes we may not inspect are skipped.
		pname, err := p.NameWithContext(ctx)
		if err != nil || !strings.EqualFold(pname, name) {
			continue
		}
		if err := p.KillWithContext(ctx); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		killed++
	}
	return killed, firstErr
}

func (SystemProcesses) StartDetached(path string) error {
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	cmd.SysProcAttr = detachedAttr()

	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
