package workflows

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/PolarWolf314/coffer/internal/archive"
	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/container"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	logger "github.com/PolarWolf314/coffer/internal/logging"
	"github.com/PolarWolf314/coffer/internal/utils"
)

// DefaultMaxAttempts is how many times an existing passphrase is asked for.
const DefaultMaxAttempts = 3

// Prompter obtains passphrases from the user.
type Prompter interface {
	// ExistingPassphrase asks for the passphrase of an encrypted store.
	ExistingPassphrase(ctx context.Context) ([]byte, error)

	// NewPassphrase asks for a new passphrase and its confirmation. An empty
	// result means the store is written unencrypted.
	NewPassphrase(ctx context.Context) ([]byte, error)
}

// CommandRunner executes a sync command.
type CommandRunner func(ctx context.Context, command string) error

// Options configures a Vault.
type Options struct {
	Config   *configs.Config
	Prompter Prompter
	Log      logger.Logger

	// DefaultDir receives backups and is removed by Nuke.
	// Defaults to the configured coffer directory.
	DefaultDir string

	// MaxAttempts defaults to DefaultMaxAttempts.
	MaxAttempts int

	// RunCommand defaults to running the command through the system shell.
	RunCommand CommandRunner

	// Now defaults to time.Now and names backups.
	Now func() time.Time
}

// WriteResult describes a store write.
type WriteResult struct {
	// StorePath is where the store was written.
	StorePath string

	// BackupPath is the backup copy, empty when backups are disabled.
	BackupPath string

	// Encrypted reports whether the written store is encrypted.
	Encrypted bool
}

// Vault runs store operations: read and decrypt the store, change the archive,
// then encrypt and write it back. A Vault is not safe for concurrent use.
type Vault struct {
	opts    Options
	archive *archive.Archive
	engine  *container.Engine
}

// NewVault returns a Vault over the store named in opts.Config.
func NewVault(opts Options) *Vault {
	if opts.DefaultDir == "" {
		opts.DefaultDir = configs.UserCofferSettings.DefaultDir
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RunCommand == nil {
		opts.RunCommand = runShell
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	a := archive.New()
	return &Vault{
		opts:    opts,
		archive: a,
		engine:  container.New(a, opts.Log),
	}
}

// StorePath returns the path of the store file.
func (v *Vault) StorePath() string {
	return v.opts.Config.Store
}

// readStore syncs down, loads and decrypts the store. The returned passphrase
// is the one writeStore should reuse: NeedsNew when no store exists yet or
// the store file is empty.
func (v *Vault) readStore(ctx context.Context) (container.Passphrase, error) {
	log := v.opts.Log.With("vault::read")

	if err := v.sync(ctx, "download", v.opts.Config.Sync.Download); err != nil {
		return container.Passphrase{}, err
	}

	log.Infof("Reading %s", v.StorePath())
	found, err := v.engine.Load(v.StorePath())
	if err != nil {
		return container.Passphrase{}, err
	}
	// Deleting the last entry leaves an empty file; treat it like no store so
	// the next write asks for a passphrase again.
	if !found || len(v.engine.Content()) == 0 {
		log.Debugf("no store yet")
		return container.NeedsNew(), nil
	}

	if !v.engine.IsEncrypted() {
		return container.NoPassphrase(), v.engine.Decrypt(ctx, container.NoPassphrase())
	}

	var lastErr error
	for attempt := 1; attempt <= v.opts.MaxAttempts; attempt++ {
		secret, err := v.opts.Prompter.ExistingPassphrase(ctx)
		if err != nil {
			return container.Passphrase{}, err
		}

		pass := container.UseExisting(secret)
		lastErr = v.engine.Decrypt(ctx, pass)
		if lastErr == nil {
			return pass, nil
		}
		if !errors.Is(lastErr, kerrors.ErrDecryptFailed) {
			return container.Passphrase{}, lastErr
		}
		if attempt < v.opts.MaxAttempts {
			v.opts.Log.Warnf("Could not decrypt the store, %d attempt(s) left", v.opts.MaxAttempts-attempt)
		}
	}

	return container.Passphrase{}, lastErr
}

// writeStore encrypts and saves the store, then writes a backup and syncs up.
func (v *Vault) writeStore(ctx context.Context, pass container.Passphrase) (*WriteResult, error) {
	log := v.opts.Log.With("vault::write")

	if pass.Kind() == container.PromptNew {
		secret, err := v.opts.Prompter.NewPassphrase(ctx)
		if err != nil {
			return nil, err
		}
		pass = container.UseExisting(secret)
		if pass.Kind() == container.Unencrypted {
			v.opts.Log.Warnf("Empty passphrase specified, the store will not be encrypted")
		}
	}

	if err := v.engine.Encrypt(ctx, pass); err != nil {
		return nil, err
	}

	log.Infof("Writing %s", v.StorePath())
	if err := v.engine.Save(v.StorePath()); err != nil {
		return nil, err
	}

	result := &WriteResult{
		StorePath: v.StorePath(),
		Encrypted: pass.Kind() == container.Existing && len(v.engine.Content()) > 0,
	}

	if v.opts.Config.Backup {
		backup := filepath.Join(v.opts.DefaultDir, backupName(v.opts.Now()))
		log.Debugf("backup %s", backup)
		if err := utils.WriteFileAtomic(backup, v.engine.Content(), 0600); err != nil {
			return nil, fmt.Errorf("failed to write backup: %w", err)
		}
		result.BackupPath = backup
	}

	if err := v.sync(ctx, "upload", v.opts.Config.Sync.Upload); err != nil {
		return nil, err
	}

	return result, nil
}

func (v *Vault) sync(ctx context.Context, direction, command string) error {
	if !v.opts.Config.Sync.Enabled || command == "" {
		return nil
	}

	v.opts.Log.Infof("Sync %s", direction)
	v.opts.Log.With("vault::sync").Debugf("%s", command)

	if err := v.opts.RunCommand(ctx, command); err != nil {
		return fmt.Errorf("%w: %s: %v", kerrors.ErrSyncFailed, direction, err)
	}
	return nil
}

// backupName formats t like store-backup_2024-3-7_at_9-5-0.coffer.
func backupName(t time.Time) string {
	return fmt.Sprintf("store-backup_%d-%d-%d_at_%d-%d-%d.%s",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), container.ProductName)
}

func runShell(ctx context.Context, command string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		if len(output) > 0 {
			return fmt.Errorf("%w: %s", err, output)
		}
		return err
	}
	return nil
}
