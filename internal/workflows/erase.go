package workflows

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/coffer/internal/audit"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/utils"
)

// Erase overwrites file with random bytes and removes it.
//
// Returns ErrFileNotFound if file does not exist and ErrNotAFile if it is a
// directory. A symbolic link is removed and its target left alone.
func (v *Vault) Erase(ctx context.Context, file string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Lstat(file)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, file)
	}
	if err != nil {
		return err
	}
	if info.IsDir() || (!info.Mode().IsRegular() && info.Mode()&os.ModeSymlink == 0) {
		return fmt.Errorf("%w: %s", kerrors.ErrNotAFile, file)
	}

	v.opts.Log.Infof("Erasing %s", file)
	if err := utils.SecureErase(file); err != nil {
		return err
	}

	entry := audit.NewEntry("erase")
	entry.Files = []string{file}
	audit.Log(entry)

	return nil
}

// Nuke securely erases the store and every file in the coffer directory,
// then removes the directory. It returns the files erased.
func (v *Vault) Nuke(ctx context.Context) ([]string, error) {
	var erased []string

	if utils.FileExists(v.StorePath()) {
		v.opts.Log.Infof("Erasing %s", v.StorePath())
		if err := utils.SecureErase(v.StorePath()); err != nil {
			return erased, err
		}
		erased = append(erased, v.StorePath())
	}

	dir := v.opts.DefaultDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return erased, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		// Links and other special files are removed, never overwritten.
		if !d.Type().IsRegular() {
			return nil
		}
		v.opts.Log.Infof("Erasing %s", path)
		if err := utils.SecureErase(path); err != nil {
			return err
		}
		erased = append(erased, path)
		return nil
	})
	if err != nil {
		return erased, err
	}

	v.opts.Log.Infof("Deleting %s", dir)
	if err := os.RemoveAll(dir); err != nil {
		return erased, fmt.Errorf("failed to remove %s: %w", dir, err)
	}

	return erased, nil
}
