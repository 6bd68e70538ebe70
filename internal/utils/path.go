package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppName names the config directory.
const AppName = "tileserve"

// PathResolver locates the config directory and dictionary files relative to the binary.
type PathResolver struct {
	execDir   string
	homeDir   string
	configDir string
}

// NewPathResolver inspects the running binary and the user's home directory.
func NewPathResolver() (*PathResolver, error) {
	execDir, err := ExecutableDir()
	if err != nil {
		return nil, err
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	pr := &PathResolver{
		execDir:   execDir,
		homeDir:   homeDir,
		configDir: platformConfigDir(homeDir),
	}
	log.Debugf("Paths: execDir=%s configDir=%s", execDir, pr.configDir)
	return pr, nil
}

func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
	}
	return filepath.Join(homeDir, ".config", AppName)
}

// ConfigDir returns the first writable config directory: the platform directory, then
// macOS Application Support, then the executable directory.
func (pr *PathResolver) ConfigDir() string {
	candidates := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, "Library", "Application Support", AppName),
	}
	for _, dir := range candidates {
		if ProbeDir(dir).Writable {
			return dir
		}
	}
	return pr.execDir
}

// ExecutableDir returns the directory of the running binary.
func (pr *PathResolver) ExecutableDir() string {
	return pr.execDir
}

// Resolve returns path itself when absolute or present relative to the working
// directory, else path relative to the executable, else relative to the config dir.
// The working directory candidate is returned when none exists.
func (pr *PathResolver) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || FileExists(path) {
		return path
	}
	for _, base := range []string{pr.execDir, pr.configDir} {
		candidate := filepath.Join(base, path)
		if FileExists(candidate) {
			log.Debugf("Resolved %s to %s", path, candidate)
			return candidate
		}
	}
	return path
}

// HasWordLists reports whether dir holds at least one text or chunk word list.
func HasWordLists(dir string) bool {
	for _, glob := range []string{"*.txt", "dict_*.bin"} {
		if matches, err := filepath.Glob(filepath.Join(dir, glob)); err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}
