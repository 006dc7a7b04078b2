package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/utils"
)

// modTime is stamped on every entry so identical contents serialize identically.
var modTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

const defaultExt = ".txt"

// Archive is an in-memory set of named blobs that serializes to a zip file.
// It is safe for concurrent use.
type Archive struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func New() *Archive {
	return &Archive{entries: make(map[string][]byte)}
}

// Store sets the value for name. Names without an extension are stored with
// a ".txt" suffix, matching how List and Retrieve resolve them.
func (a *Archive) Store(name string, value []byte) error {
	key, err := entryKey(name)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[key] = append([]byte(nil), value...)
	return nil
}

// Retrieve returns a copy of the value stored under name.
func (a *Archive) Retrieve(name string) ([]byte, error) {
	key, err := entryKey(name)
	if err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	value, ok := a.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrEntryNotFound, name)
	}
	return append([]byte(nil), value...), nil
}

// List returns all entry names in sorted order with the default extension removed.
func (a *Archive) List() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.entries))
	for key := range a.entries {
		names = append(names, strings.TrimSuffix(key, defaultExt))
	}
	sort.Strings(names)
	return names
}

// Delete removes name, or every entry below the folder name when no entry
// matches exactly. It returns the number of entries removed.
func (a *Archive) Delete(name string) (int, error) {
	key, err := entryKey(name)
	if err != nil {
		return 0, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.entries[key]; ok {
		delete(a.entries, key)
		return 1, nil
	}

	prefix := cleanName(name) + "/"
	removed := 0
	for k := range a.entries {
		if strings.HasPrefix(k, prefix) {
			delete(a.entries, k)
			removed++
		}
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: %s", kerrors.ErrEntryNotFound, name)
	}
	return removed, nil
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Serialize writes all entries as a deflated zip file. An empty archive
// serializes to an empty slice.
func (a *Archive) Serialize() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.entries) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(a.entries))
	for k := range a.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, k := range keys {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     k,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add entry %s: %w", k, err)
		}
		if _, err := w.Write(a.entries[k]); err != nil {
			return nil, fmt.Errorf("failed to write entry %s: %w", k, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize replaces all entries with the contents of data. On error the
// current entries are kept.
func (a *Archive) Deserialize(data []byte) error {
	entries := make(map[string][]byte)

	if len(data) > 0 {
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrInvalidArchive, err)
		}
		for _, f := range zr.File {
			if f.FileInfo().IsDir() {
				continue
			}
			key, err := entryKey(f.Name)
			if err != nil {
				return fmt.Errorf("%w: %v", kerrors.ErrInvalidArchive, err)
			}
			value, err := readEntry(f)
			if err != nil {
				return fmt.Errorf("%w: %v", kerrors.ErrInvalidArchive, err)
			}
			entries[key] = value
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = entries
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	value, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", f.Name, err)
	}
	return value, nil
}

func cleanName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	return path.Clean(name)
}

func entryKey(name string) (string, error) {
	cleaned := cleanName(name)
	switch {
	case strings.TrimSpace(name) == "", cleaned == ".", cleaned == "/":
		return "", fmt.Errorf("%w: name is empty", kerrors.ErrInvalidEntryName)
	case path.IsAbs(cleaned):
		return "", fmt.Errorf("%w: %s is absolute", kerrors.ErrInvalidEntryName, name)
	case cleaned == ".." || strings.HasPrefix(cleaned, "../"):
		return "", fmt.Errorf("%w: %s escapes the archive", kerrors.ErrInvalidEntryName, name)
	}
	return utils.EnsureExtension(cleaned), nil
}
