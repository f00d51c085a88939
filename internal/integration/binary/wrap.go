package binary

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Available checks if a binary is available in the system PATH.
func Available(binName string) (string, bool) {
	path, err := exec.LookPath(binName)

	return path, err == nil
}

// Resolve locates a binary either by explicit location or through PATH.
// Names containing a path separator must point to an executable regular file.
func Resolve(binName string) (string, bool) {
	if filepath.Base(binName) == binName {
		return Available(binName)
	}

	info, err := os.Stat(binName)
	if err != nil || info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return binName, false
	}

	abs, err := filepath.Abs(binName)
	if err != nil {
		return binName, false
	}

	return abs, true
}

// Within resolves name inside dir when dir is set, and through PATH otherwise.
func Within(dir, binName string) (string, bool) {
	if dir == "" {
		return Available(binName)
	}

	return Resolve(filepath.Join(dir, binName))
}
