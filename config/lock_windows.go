//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
)

// The whole lock file is covered by locking its first byte range
const lockBytes = 1

func lockFile(f *os.File, flags uint32) error {
	var ol windows.Overlapped
	return windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, lockBytes, 0, &ol)
}

// lockFileExclusive takes the write lock on the store's sidecar lock file
func lockFileExclusive(f *os.File) error {
	return lockFile(f, windows.LOCKFILE_EXCLUSIVE_LOCK)
}

// lockFileShared takes the read lock
func lockFileShared(f *os.File) error {
	return lockFile(f, 0)
}

func unlockFile(f *os.File) error {
	var ol windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, lockBytes, 0, &ol)
}
