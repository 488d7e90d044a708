package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const BaseDirName = "BooksWithMusic"

// EnsureDefault creates the workspace under the user's home directory.
func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

// EnsureAt creates the workspace layout at base and returns base.
// Existing directories and files are left untouched.
func EnsureAt(base string) (string, error) {
	paths := []string{
		filepath.Join(base, "configs"),
		filepath.Join(base, "cache", "tracks"),
		filepath.Join(base, "projects"),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	return base, nil
}

// ConfigPath returns the settings file location inside a workspace.
func ConfigPath(base string) string {
	return filepath.Join(base, "configs", "settings.toml")
}

// TrackCacheDir returns the track pool cache location inside a workspace.
func TrackCacheDir(base string) string {
	return filepath.Join(base, "cache", "tracks")
}
