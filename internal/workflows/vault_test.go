package workflows

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/container"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	logger "github.com/PolarWolf314/coffer/internal/logging"
)

// fakePrompter answers existing-passphrase prompts from a queue.
type fakePrompter struct {
	existing      []string
	newPass       string
	existingCalls int
	newCalls      int
}

func (p *fakePrompter) ExistingPassphrase(ctx context.Context) ([]byte, error) {
	if p.existingCalls >= len(p.existing) {
		return nil, fmt.Errorf("unexpected passphrase prompt %d", p.existingCalls+1)
	}
	p.existingCalls++
	return []byte(p.existing[p.existingCalls-1]), nil
}

func (p *fakePrompter) NewPassphrase(ctx context.Context) ([]byte, error) {
	p.newCalls++
	return []byte(p.newPass), nil
}

var fixedNow = time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC)

// setupCofferHome points the coffer directory and audit log at a temp dir.
func setupCofferHome(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "coffer")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("Failed to create coffer dir: %v", err)
	}

	original := configs.UserCofferSettings
	configs.UserCofferSettings = &configs.UserSettings{
		DefaultDir: dir,
		ConfigPath: filepath.Join(dir, "config.toml"),
		StorePath:  filepath.Join(dir, "store.coffer"),
		AuditPath:  filepath.Join(dir, "audit.jsonl"),
	}
	t.Cleanup(func() { configs.UserCofferSettings = original })
	return dir
}

func newTestVault(dir string, prompter Prompter, mutate ...func(*Options)) *Vault {
	opts := Options{
		Config:     &configs.Config{Store: filepath.Join(dir, "store.coffer")},
		Prompter:   prompter,
		Log:        logger.Logger{},
		DefaultDir: dir,
		Now:        func() time.Time { return fixedNow },
	}
	for _, m := range mutate {
		m(&opts)
	}
	return NewVault(opts)
}

// seedStore creates an encrypted store holding entries.
func seedStore(t *testing.T, dir, pass string, entries map[string]string) {
	t.Helper()
	prompter := &fakePrompter{newPass: pass}
	v := newTestVault(dir, prompter)
	for k, val := range entries {
		if err := v.archive.Store(k, []byte(val)); err != nil {
			t.Fatalf("Failed to seed %q: %v", k, err)
		}
	}
	if _, err := v.writeStore(context.Background(), container.NeedsNew()); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
}

func TestStore_NewStorePromptsForPassphrase(t *testing.T) {
	dir := setupCofferHome(t)
	prompter := &fakePrompter{newPass: "hunter2"}

	result, err := newTestVault(dir, prompter).Store(context.Background(), "ravencoin", []byte("abandon ability"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if prompter.newCalls != 1 || prompter.existingCalls != 0 {
		t.Errorf("Expected one new-passphrase prompt, got new=%d existing=%d", prompter.newCalls, prompter.existingCalls)
	}
	if !result.Encrypted {
		t.Error("Expected the store to be encrypted")
	}

	data, err := os.ReadFile(result.StorePath)
	if err != nil {
		t.Fatalf("Store file missing: %v", err)
	}
	if !container.LooksEncrypted(data, container.DefaultFormat().Magic) {
		t.Error("Store file does not carry the container header")
	}
	if bytes.Contains(data, []byte("abandon ability")) {
		t.Error("Store file contains the plaintext value")
	}
}

func TestStore_ThenView(t *testing.T) {
	dir := setupCofferHome(t)
	seedStore(t, dir, "pw", map[string]string{"other": "x"})

	writer := &fakePrompter{existing: []string{"pw"}}
	if _, err := newTestVault(dir, writer).Store(context.Background(), "seed/ravencoin", []byte("zoo")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if writer.newCalls != 0 {
		t.Error("Existing store should reuse its passphrase")
	}

	value, err := newTestVault(dir, &fakePrompter{existing: []string{"pw"}}).View(context.Background(), "seed/ravencoin")
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if string(value) != "zoo" {
		t.Errorf("Expected %q, got %q", "zoo", value)
	}
}

func TestStore_EmptyPassphraseWritesPlaintext(t *testing.T) {
	dir := setupCofferHome(t)

	result, err := newTestVault(dir, &fakePrompter{}).Store(context.Background(), "k", []byte("v"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if result.Encrypted {
		t.Error("Expected an unencrypted store")
	}

	// No prompt is expected for an unencrypted store.
	value, err := newTestVault(dir, &fakePrompter{}).View(context.Background(), "k")
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if string(value) != "v" {
		t.Errorf("Expected %q, got %q", "v", value)
	}
}

func TestReadStore_RetriesPassphrase(t *testing.T) {
	dir := setupCofferHome(t)
	seedStore(t, dir, "pw", map[string]string{"k": "v"})

	prompter := &fakePrompter{existing: []string{"wrong", "also wrong", "pw"}}
	if _, err := newTestVault(dir, prompter).List(context.Background()); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if prompter.existingCalls != 3 {
		t.Errorf("Expected 3 prompts, got %d", prompter.existingCalls)
	}
}

func TestReadStore_GivesUpAfterMaxAttempts(t *testing.T) {
	dir := setupCofferHome(t)
	seedStore(t, dir, "pw", map[string]string{"k": "v"})
	before, _ := os.ReadFile(filepath.Join(dir, "store.coffer"))

	prompter := &fakePrompter{existing: []string{"a", "b", "c", "pw"}}
	_, err := newTestVault(dir, prompter).Store(context.Background(), "k", []byte("changed"))
	if !errors.Is(err, kerrors.ErrDecryptFailed) {
		t.Fatalf("Expected ErrDecryptFailed, got: %v", err)
	}
	if prompter.existingCalls != DefaultMaxAttempts {
		t.Errorf("Expected %d prompts, got %d", DefaultMaxAttempts, prompter.existingCalls)
	}

	after, _ := os.ReadFile(filepath.Join(dir, "store.coffer"))
	if !bytes.Equal(before, after) {
		t.Error("Store was rewritten after a failed decrypt")
	}
}

func TestView_NotFound(t *testing.T) {
	dir := setupCofferHome(t)
	seedStore(t, dir, "pw", map[string]string{"k": "v"})

	_, err := newTestVault(dir, &fakePrompter{existing: []string{"pw"}}).View(context.Background(), "missing")
	if !errors.Is(err, kerrors.ErrEntryNotFound) {
		t.Fatalf("Expected ErrEntryNotFound, got: %v", err)
	}
}

func TestList_EmptyWhenNoStore(t *testing.T) {
	dir := setupCofferHome(t)

	names, err := newTestVault(dir, &fakePrompter{}).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected no entries, got %v", names)
	}
}

func TestList_Sorted(t *testing.T) {
	dir := setupCofferHome(t)
	seedStore(t, dir, "pw", map[string]string{"zeta": "1", "alpha": "2", "seed/btc": "3"})

	names, err := newTestVault(dir, &fakePrompter{existing: []string{"pw"}}).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	expected := []string{"alpha", "seed/btc", "zeta"}
	if fmt.Sprint(names) != fmt.Sprint(expected) {
		t.Errorf("Expected %v, got %v", expected, names)
	}
}

func TestDelete_Folder(t *testing.T) {
	dir := setupCofferHome(t)
	seedStore(t, dir, "pw", map[string]string{"seed/btc": "1", "seed/eth": "2", "keep": "3"})

	result, err := newTestVault(dir, &fakePrompter{existing: []string{"pw"}}).Delete(context.Background(), "seed")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if result.Removed != 2 {
		t.Errorf("Expected 2 removed, got %d", result.Removed)
	}

	names, err := newTestVault(dir, &fakePrompter{existing: []string{"pw"}}).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 || names[0] != "keep" {
		t.Errorf("Expected [keep], got %v", names)
	}
}

func TestDelete_LastEntryKeepsStoreEncrypted(t *testing.T) {
	dir := setupCofferHome(t)
	storeFile := filepath.Join(dir, "store.coffer")
	seedStore(t, dir, "hunter2", map[string]string{"only": "x"})

	if _, err := newTestVault(dir, &fakePrompter{existing: []string{"hunter2"}}).Delete(context.Background(), "only"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	prompter := &fakePrompter{newPass: "hunter2"}
	if _, err := newTestVault(dir, prompter).Store(context.Background(), "seed", []byte("abandon ability")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if prompter.newCalls != 1 || prompter.existingCalls != 0 {
		t.Errorf("Expected one new-passphrase prompt, got new=%d existing=%d", prompter.newCalls, prompter.existingCalls)
	}

	data, err := os.ReadFile(storeFile)
	if err != nil {
		t.Fatalf("Failed to read store: %v", err)
	}
	if !container.LooksEncrypted(data, container.DefaultFormat().Magic) {
		t.Fatalf("Store written in plaintext after deleting its last entry: %q", data[:min(len(data), 8)])
	}

	value, err := newTestVault(dir, &fakePrompter{existing: []string{"hunter2"}}).View(context.Background(), "seed")
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if string(value) != "abandon ability" {
		t.Errorf("Expected stored value, got %q", value)
	}
}

func TestDelete_NotFoundLeavesStore(t *testing.T) {
	dir := setupCofferHome(t)
	seedStore(t, dir, "pw", map[string]string{"k": "v"})
	before, _ := os.ReadFile(filepath.Join(dir, "store.coffer"))

	_, err := newTestVault(dir, &fakePrompter{existing: []string{"pw"}}).Delete(context.Background(), "missing")
	if !errors.Is(err, kerrors.ErrEntryNotFound) {
		t.Fatalf("Expected ErrEntryNotFound, got: %v", err)
	}

	after, _ := os.ReadFile(filepath.Join(dir, "store.coffer"))
	if !bytes.Equal(before, after) {
		t.Error("Store was rewritten although nothing was deleted")
	}
}

func TestPassword_ChangesPassphrase(t *testing.T) {
	dir := setupCofferHome(t)
	seedStore(t, dir, "old", map[string]string{"k": "v"})

	prompter := &fakePrompter{existing: []string{"old"}, newPass: "new"}
	if _, err := newTestVault(dir, prompter).Password(context.Background()); err != nil {
		t.Fatalf("Password failed: %v", err)
	}
	if prompter.newCalls != 1 {
		t.Errorf("Expected one new-passphrase prompt, got %d", prompter.newCalls)
	}

	_, err := newTestVault(dir, &fakePrompter{existing: []string{"old"}}, func(o *Options) { o.MaxAttempts = 1 }).View(context.Background(), "k")
	if !errors.Is(err, kerrors.ErrDecryptFailed) {
		t.Errorf("Old passphrase should fail, got: %v", err)
	}

	value, err := newTestVault(dir, &fakePrompter{existing: []string{"new"}}).View(context.Background(), "k")
	if err != nil || string(value) != "v" {
		t.Errorf("New passphrase should decrypt, got %q, %v", value, err)
	}
}

func TestWriteStore_Backup(t *testing.T) {
	dir := setupCofferHome(t)

	result, err := newTestVault(dir, &fakePrompter{newPass: "pw"}, func(o *Options) { o.Config.Backup = true }).
		Store(context.Background(), "k", []byte("v"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	expected := filepath.Join(dir, "store-backup_2024-3-7_at_9-5-0.coffer")
	if result.BackupPath != expected {
		t.Fatalf("Expected backup %q, got %q", expected, result.BackupPath)
	}

	store, _ := os.ReadFile(result.StorePath)
	backup, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("Backup missing: %v", err)
	}
	if !bytes.Equal(store, backup) {
		t.Error("Backup differs from the store")
	}
}

func TestWriteStore_NoBackupWhenDisabled(t *testing.T) {
	dir := setupCofferHome(t)

	result, err := newTestVault(dir, &fakePrompter{newPass: "pw"}).Store(context.Background(), "k", []byte("v"))
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if result.BackupPath != "" {
		t.Errorf("Expected no backup, got %q", result.BackupPath)
	}
}

func TestSync_RunsDownloadThenUpload(t *testing.T) {
	dir := setupCofferHome(t)
	var commands []string

	vault := newTestVault(dir, &fakePrompter{newPass: "pw"}, func(o *Options) {
		o.Config.Sync = configs.SyncConfig{Enabled: true, Download: "pull", Upload: "push"}
		o.RunCommand = func(ctx context.Context, command string) error {
			commands = append(commands, command)
			return nil
		}
	})
	if _, err := vault.Store(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if fmt.Sprint(commands) != "[pull push]" {
		t.Errorf("Expected [pull push], got %v", commands)
	}
}

func TestSync_DisabledRunsNothing(t *testing.T) {
	dir := setupCofferHome(t)

	vault := newTestVault(dir, &fakePrompter{newPass: "pw"}, func(o *Options) {
		o.Config.Sync = configs.SyncConfig{Download: "pull", Upload: "push"}
		o.RunCommand = func(ctx context.Context, command string) error {
			t.Errorf("Unexpected sync command %q", command)
			return nil
		}
	})
	if _, err := vault.Store(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
}

func TestSync_DownloadFailure(t *testing.T) {
	dir := setupCofferHome(t)

	vault := newTestVault(dir, &fakePrompter{newPass: "pw"}, func(o *Options) {
		o.Config.Sync = configs.SyncConfig{Enabled: true, Download: "pull"}
		o.RunCommand = func(ctx context.Context, command string) error {
			return errors.New("network unreachable")
		}
	})
	_, err := vault.Store(context.Background(), "k", []byte("v"))
	if !errors.Is(err, kerrors.ErrSyncFailed) {
		t.Fatalf("Expected ErrSyncFailed, got: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "store.coffer")); !os.IsNotExist(statErr) {
		t.Error("Store was written despite the failed download")
	}
}

func TestRunShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Shell commands differ on Windows")
	}

	if err := runShell(context.Background(), "exit 0"); err != nil {
		t.Errorf("Expected success, got: %v", err)
	}
	if err := runShell(context.Background(), "echo boom >&2; exit 3"); err == nil {
		t.Error("Expected an error for a failing command")
	}
}

func TestBackupName(t *testing.T) {
	tests := []struct {
		at       time.Time
		expected string
	}{
		{fixedNow, "store-backup_2024-3-7_at_9-5-0.coffer"},
		{time.Date(2023, time.December, 31, 23, 59, 58, 0, time.UTC), "store-backup_2023-12-31_at_23-59-58.coffer"},
	}

	for _, tc := range tests {
		if got := backupName(tc.at); got != tc.expected {
			t.Errorf("Expected %q, got %q", tc.expected, got)
		}
	}
}
