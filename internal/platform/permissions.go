package platform

import (
	"os"
	"runtime"
)

// ExecutablePerm is applied to downloaded executables.
const ExecutablePerm os.FileMode = 0755

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// MakeExecutable marks path as runnable by everyone and writable by its owner.
func MakeExecutable(path string) error {
	return Chmod(path, ExecutablePerm)
}
