//go:build windows

package orchestrator

import "golang.org/x/sys/windows"

// freeBytes reports the bytes free to the current user on the filesystem
// holding path.
func freeBytes(path string) (int64, error) {
	var freeAvail, total, free uint64
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &freeAvail, &total, &free); err != nil {
		return 0, err
	}
	return int64(freeAvail), nil
}
