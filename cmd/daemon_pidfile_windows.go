//go:build windows

package cmd

import "os"

// isProcessRunning checks whether the PID can be opened. Windows has no
// signal 0; FindProcess succeeding is the best available check.
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	process.Release()
	return true
}

// terminateProcess kills the process; Windows has no SIGTERM delivery
// for unrelated processes.
func terminateProcess(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return process.Kill()
}
