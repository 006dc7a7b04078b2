package utils

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists reports whether path exists. Permission errors count as existing.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// EnsureExtension appends ".txt" to name when it has no extension.
func EnsureExtension(name string) string {
	if filepath.Ext(name) == "" {
		return name + ".txt"
	}
	return name
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// SecureErase overwrites a regular file with random bytes before removing it.
// A symbolic link is removed without touching its target. Directories and
// other special files are refused.
func SecureErase(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	switch mode := info.Mode(); {
	case mode&os.ModeSymlink != 0:
		return os.Remove(path)
	case mode.IsDir():
		return fmt.Errorf("secure erasure of directories is not supported: %s", path)
	case !mode.IsRegular():
		return fmt.Errorf("secure erasure of special files is not supported: %s", path)
	}

	if size := info.Size(); size > 0 {
		noise := make([]byte, size)
		if _, err := rand.Read(noise); err != nil {
			return fmt.Errorf("failed to generate overwrite data: %w", err)
		}
		// #nosec G306 -- the file is removed immediately afterwards
		if err := os.WriteFile(path, noise, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to overwrite %s: %w", path, err)
		}
	}

	return os.Remove(path)
}
