// Package pidfile enforces one daemon instance per device through a lock
// file holding the owning process id.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile guards the daemon's single-instance lock
type PIDFile struct {
	path string
}

// New creates a PIDFile manager for the given path
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire takes the lock, replacing files left behind by a crashed or
// killed daemon. Fails only when the recorded process is still alive.
func (p *PIDFile) Acquire() error {
	if pid, ok := p.readExisting(); ok {
		if isProcessRunning(pid) {
			return fmt.Errorf("daemon is already running (PID %d)", pid)
		}
		// Stale file from a dead process
		_ = os.Remove(p.path)
	}

	data := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the lock file; a missing file is not an error
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// readExisting reads the pid recorded in an existing lock file.
// Unparseable leftovers are removed so they never block startup.
func (p *PIDFile) readExisting() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		_ = os.Remove(p.path)
		return 0, false
	}
	return pid, true
}

// isProcessRunning probes a pid with signal 0. On Unix os.FindProcess
// always succeeds, so the signal result is what actually answers.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user
	return err == syscall.EPERM
}
