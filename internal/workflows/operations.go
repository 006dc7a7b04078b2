package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/PolarWolf314/coffer/internal/audit"
	"github.com/PolarWolf314/coffer/internal/container"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/utils"
)

// Store saves value under key, replacing any existing entry.
func (v *Vault) Store(ctx context.Context, key string, value []byte) (*WriteResult, error) {
	pass, err := v.readStore(ctx)
	if err != nil {
		return nil, err
	}

	v.opts.Log.Infof("Storing %s", key)
	if err := v.archive.Store(key, value); err != nil {
		return nil, err
	}

	result, err := v.writeStore(ctx, pass)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("store")
	entry.Key = key
	entry.Backup = result.BackupPath
	audit.Log(entry)

	return result, nil
}

// View returns the value stored under key.
//
// Returns ErrEntryNotFound if no entry has that name.
func (v *Vault) View(ctx context.Context, key string) ([]byte, error) {
	if _, err := v.readStore(ctx); err != nil {
		return nil, err
	}

	value, err := v.archive.Retrieve(key)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("view")
	entry.Key = key
	audit.Log(entry)

	return value, nil
}

// List returns the sorted entry names.
func (v *Vault) List(ctx context.Context) ([]string, error) {
	if _, err := v.readStore(ctx); err != nil {
		return nil, err
	}

	audit.Log(audit.NewEntry("list"))
	return v.archive.List(), nil
}

// DeleteResult contains the outcome of a delete.
type DeleteResult struct {
	WriteResult

	// Removed is the number of entries deleted.
	Removed int
}

// Delete removes key, or every entry in the folder named key. The store is
// not rewritten when nothing matched.
//
// Returns ErrEntryNotFound if nothing matched.
func (v *Vault) Delete(ctx context.Context, key string) (*DeleteResult, error) {
	pass, err := v.readStore(ctx)
	if err != nil {
		return nil, err
	}

	removed, err := v.archive.Delete(key)
	if err != nil {
		return nil, err
	}
	v.opts.Log.Infof("Deleted %d entries under %s", removed, key)

	written, err := v.writeStore(ctx, pass)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("delete")
	entry.Key = key
	entry.Backup = written.BackupPath
	audit.Log(entry)

	return &DeleteResult{WriteResult: *written, Removed: removed}, nil
}

// Import stores the contents of file under key. An empty key uses the file's
// base name.
//
// Returns ErrFileNotFound if file does not exist and ErrNotAFile if it is a
// directory.
func (v *Vault) Import(ctx context.Context, file, key string) (*WriteResult, error) {
	content, err := readImportFile(file)
	if err != nil {
		return nil, err
	}
	if key == "" {
		key = filepath.Base(file)
	}

	pass, err := v.readStore(ctx)
	if err != nil {
		return nil, err
	}

	v.opts.Log.Infof("Importing %s as %s", file, key)
	if err := v.archive.Store(key, content); err != nil {
		return nil, err
	}

	result, err := v.writeStore(ctx, pass)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("import")
	entry.Key = key
	entry.Files = []string{file}
	entry.Backup = result.BackupPath
	audit.Log(entry)

	return result, nil
}

// ImportManyResult contains the outcome of a bulk import.
type ImportManyResult struct {
	WriteResult

	// Imported lists the files stored, each under its base name.
	Imported []string

	// Skipped lists matched directories, which are not imported.
	Skipped []string
}

// ImportMany stores every file matching patterns under its base name.
// Patterns support ** globs. Files with the same base name overwrite each
// other in match order.
//
// Returns ErrNoFilesFound if no regular file matched.
func (v *Vault) ImportMany(ctx context.Context, patterns []string) (*ImportManyResult, error) {
	files, skipped, err := resolveImportFiles(patterns)
	if err != nil {
		return nil, err
	}
	for _, dir := range skipped {
		v.opts.Log.Warnf("Import of directories is not supported, skipping %s", dir)
	}
	if len(files) == 0 {
		return nil, kerrors.ErrNoFilesFound
	}

	pass, err := v.readStore(ctx)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		v.opts.Log.Infof("Importing %s", file)
		if err := v.archive.Store(filepath.Base(file), content); err != nil {
			return nil, err
		}
	}

	written, err := v.writeStore(ctx, pass)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("import-many")
	entry.Files = files
	entry.Backup = written.BackupPath
	audit.Log(entry)

	return &ImportManyResult{WriteResult: *written, Imported: files, Skipped: skipped}, nil
}

// Export writes the value of key to file, adding a .txt extension when file
// has none. An empty file uses the key's base name. Returns the path written.
//
// Returns ErrEntryNotFound if no entry has that name.
func (v *Vault) Export(ctx context.Context, key, file string) (string, error) {
	if _, err := v.readStore(ctx); err != nil {
		return "", err
	}

	value, err := v.archive.Retrieve(key)
	if err != nil {
		return "", err
	}

	if file == "" {
		file = filepath.Base(key)
	}
	file = utils.EnsureExtension(file)

	v.opts.Log.Infof("Exporting %s to %s", key, file)
	if err := utils.WriteFileAtomic(file, value, 0600); err != nil {
		return "", err
	}

	entry := audit.NewEntry("export")
	entry.Key = key
	entry.Files = []string{file}
	audit.Log(entry)

	return file, nil
}

// Password re-encrypts the store under a newly prompted passphrase.
func (v *Vault) Password(ctx context.Context) (*WriteResult, error) {
	if _, err := v.readStore(ctx); err != nil {
		return nil, err
	}

	result, err := v.writeStore(ctx, container.NeedsNew())
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("passwd")
	entry.Backup = result.BackupPath
	audit.Log(entry)

	return result, nil
}

func readImportFile(file string) ([]byte, error) {
	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, file)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotAFile, file)
	}
	return os.ReadFile(file)
}

// resolveImportFiles expands patterns into regular files and directories,
// deduplicated and in match order.
func resolveImportFiles(patterns []string) (files, dirs []string, err error) {
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true

			info, err := os.Stat(m)
			if err != nil {
				continue
			}
			if info.IsDir() {
				dirs = append(dirs, m)
			} else {
				files = append(files, m)
			}
		}
	}

	return files, dirs, nil
}
