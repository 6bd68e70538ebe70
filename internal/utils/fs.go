package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DirStatus describes a directory probe.
type DirStatus struct {
	Exists   bool
	Writable bool
	Err      error
}

// FileExists reports whether path can be stat'ed.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// AbsolutePath returns path made absolute, or "unknown" for an empty path.
func AbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ExecutableDir returns the directory holding the running binary, with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// ProbeDir creates dir if needed and checks that a file can be written in it.
func ProbeDir(dir string) DirStatus {
	var st DirStatus
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warnf("Cannot create directory %s: %v", dir, err)
		st.Err = err
		return st
	}
	st.Exists = true

	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		log.Debugf("Directory %s is not writable: %v", dir, err)
		st.Err = err
		return st
	}
	f.Close()
	os.Remove(probe)
	st.Writable = true
	return st
}
