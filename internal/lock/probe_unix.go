//go:build !windows

package lock

import "syscall"

// alive reports whether pid names a running process, by sending signal 0
// (which performs permission and existence checks without actually
// signalling the process).
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil
}
