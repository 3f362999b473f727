package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// InstanceLock keeps a single client running per data directory, so two
// terminals never fight over the pomodoro state or the cached session.
type InstanceLock struct {
	path string
}

func NewInstanceLock(dataDir string) *InstanceLock {
	return &InstanceLock{path: filepath.Join(dataDir, "startime.lock")}
}

// Lock writes the current PID to the lock file
func (l *InstanceLock) Lock() error {
	return os.WriteFile(l.path, []byte(fmt.Sprintf("%d", os.Getpid())), 0600)
}

// Unlock removes the lock file, ignoring a missing one
func (l *InstanceLock) Unlock() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Check returns (isLocked, runningPID, err). Unreadable lock files are treated as stale.
func (l *InstanceLock) Check() (bool, int, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read lock file: %w", err)
	}

	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		_ = os.Remove(l.path)
		return false, 0, nil
	}

	// Our own PID means a previous run in this process never unlocked
	if pid == os.Getpid() {
		return false, 0, nil
	}

	// os.FindProcess always succeeds on Unix; on Windows it fails for dead PIDs
	if _, err := os.FindProcess(pid); err != nil {
		_ = os.Remove(l.path)
		return false, 0, nil
	}

	return true, pid, nil
}
