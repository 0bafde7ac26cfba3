package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// The PID marker lives inside the output directory, so one daemon per
// archive is enforced, not one per machine. The check-then-write race
// between two simultaneous starts is a known, accepted limitation.
const pidFileName = ".daemon.pid"

// ErrDaemonAlreadyRunning reports a live daemon holding the PID marker.
var ErrDaemonAlreadyRunning = errors.New("daemon is already running")

func pidFilePath(outputDir string) string {
	return filepath.Join(outputDir, pidFileName)
}

// writePidFile records the current process in the PID marker.
func writePidFile(outputDir string) error {
	return os.WriteFile(pidFilePath(outputDir), []byte(strconv.Itoa(os.Getpid())), 0644)
}

// readPidFile returns the PID recorded in the marker.
func readPidFile(outputDir string) (int, error) {
	data, err := os.ReadFile(pidFilePath(outputDir))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}

// removePidFile deletes the marker; a missing marker is not an error.
func removePidFile(outputDir string) error {
	err := os.Remove(pidFilePath(outputDir))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// cleanupStalePidFile reclaims a marker left by a dead process. It
// returns ErrDaemonAlreadyRunning when the recorded process is alive,
// and nil when the marker was absent, invalid or stale (and removed).
func cleanupStalePidFile(outputDir string) error {
	pid, err := readPidFile(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		// Unreadable marker: treat as stale.
		return removePidFile(outputDir)
	}
	if isProcessRunning(pid) {
		return fmt.Errorf("%w (PID %d)", ErrDaemonAlreadyRunning, pid)
	}
	return removePidFile(outputDir)
}
