package container

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/coffer/internal/archive"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	logger "github.com/PolarWolf314/coffer/internal/logging"
)

var testLog = logger.Logger{}

// failingArchive never serializes successfully.
type failingArchive struct{}

func (failingArchive) Serialize() ([]byte, error) { return nil, errors.New("boom") }
func (failingArchive) Deserialize([]byte) error  { return nil }

func newTestArchive(t *testing.T, entries map[string]string) *archive.Archive {
	t.Helper()
	a := archive.New()
	for k, v := range entries {
		if err := a.Store(k, []byte(v)); err != nil {
			t.Fatalf("Failed to store %q: %v", k, err)
		}
	}
	return a
}

func encryptedContent(t *testing.T, e *Engine, pass string) []byte {
	t.Helper()
	if err := e.Encrypt(context.Background(), UseExisting([]byte(pass))); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	return e.Content()
}

func headerOf(t *testing.T, content []byte) Header {
	t.Helper()
	h, err := DecodeHeader(content, DefaultFormat().Magic)
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	return h
}

func TestEngine_RoundTrip(t *testing.T) {
	source := newTestArchive(t, map[string]string{"ravencoin": "abandon ability able", "seed/btc": "zoo zoo zoo"})
	content := encryptedContent(t, New(source, testLog), "hunter2")

	target := archive.New()
	e := New(target, testLog)
	e.LoadBytes(content)
	if !e.IsEncrypted() {
		t.Fatal("Expected loaded content to be flagged encrypted")
	}
	if err := e.Decrypt(context.Background(), UseExisting([]byte("hunter2"))); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}

	value, err := target.Retrieve("seed/btc")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if string(value) != "zoo zoo zoo" {
		t.Errorf("Expected %q, got %q", "zoo zoo zoo", value)
	}
}

func TestEngine_NonceUniqueness(t *testing.T) {
	e := New(newTestArchive(t, map[string]string{"key": "value"}), testLog)

	first := encryptedContent(t, e, "pass")
	second := encryptedContent(t, e, "pass")

	h1, h2 := headerOf(t, first), headerOf(t, second)
	if h1.StartIV == h2.StartIV && h1.Counter == h2.Counter {
		t.Error("Two encryptions produced the same start IV and counter")
	}
	if h1.Salt == h2.Salt {
		t.Error("Two encryptions reused the same salt")
	}
	if bytes.Equal(first, second) {
		t.Error("Two encryptions produced identical containers")
	}
}

func TestEngine_WrongPassphrase(t *testing.T) {
	content := encryptedContent(t, New(newTestArchive(t, map[string]string{"k": "v"}), testLog), "right")

	target := newTestArchive(t, map[string]string{"existing": "entry"})
	e := New(target, testLog)
	e.LoadBytes(content)

	err := e.Decrypt(context.Background(), UseExisting([]byte("wrong")))
	if !errors.Is(err, kerrors.ErrDecryptFailed) {
		t.Fatalf("Expected ErrDecryptFailed, got: %v", err)
	}
	if got := target.List(); len(got) != 1 || got[0] != "existing" {
		t.Errorf("Failed decrypt modified the archive: %v", got)
	}
}

func TestEngine_TamperDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping exhaustive tamper test in short mode")
	}
	content := encryptedContent(t, New(newTestArchive(t, map[string]string{"k": "v"}), testLog), "pass")
	start := HeaderLen(DefaultFormat().Magic)

	// Start and middle of the ciphertext, then every byte of the GCM tag.
	positions := []int{start, start + (len(content)-start)/2}
	for i := len(content) - 16; i < len(content); i++ {
		positions = append(positions, i)
	}

	for _, i := range positions {
		tampered := append([]byte(nil), content...)
		tampered[i] ^= 0x80

		e := New(archive.New(), testLog)
		e.LoadBytes(tampered)
		if err := e.Decrypt(context.Background(), UseExisting([]byte("pass"))); !errors.Is(err, kerrors.ErrDecryptFailed) {
			t.Errorf("Byte %d: expected ErrDecryptFailed, got: %v", i, err)
		}
	}
}

func TestEngine_TamperedHeaderFails(t *testing.T) {
	content := encryptedContent(t, New(newTestArchive(t, map[string]string{"k": "v"}), testLog), "pass")
	magicLen := len(DefaultFormat().Magic)

	tests := []struct {
		name string
		pos  int
	}{
		{"start iv", magicLen},
		{"start iv last byte", magicLen + 11},
		{"counter", magicLen + 12 + 3},
		{"salt", magicLen + 16},
		{"salt last byte", magicLen + 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := append([]byte(nil), content...)
			tampered[tt.pos] ^= 0x01

			e := New(archive.New(), testLog)
			e.LoadBytes(tampered)
			if err := e.Decrypt(context.Background(), UseExisting([]byte("pass"))); !errors.Is(err, kerrors.ErrDecryptFailed) {
				t.Fatalf("Expected ErrDecryptFailed, got: %v", err)
			}
		})
	}
}

func TestEngine_UnencryptedPassthrough(t *testing.T) {
	source := newTestArchive(t, map[string]string{"plain": "text"})
	e := New(source, testLog)
	if err := e.Encrypt(context.Background(), NoPassphrase()); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	plaintext, _ := source.Serialize()
	if !bytes.Equal(e.Content(), plaintext) {
		t.Fatal("Unencrypted content differs from serialized archive")
	}

	target := archive.New()
	reader := New(target, testLog)
	reader.LoadBytes(e.Content())
	if reader.IsEncrypted() {
		t.Fatal("Plain content flagged as encrypted")
	}
	if err := reader.Decrypt(context.Background(), NoPassphrase()); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if value, err := target.Retrieve("plain"); err != nil || string(value) != "text" {
		t.Errorf("Expected plain=text, got %q, %v", value, err)
	}
}

func TestEngine_EmptyArchiveProducesEmptyContent(t *testing.T) {
	e := New(archive.New(), testLog)
	e.LoadBytes([]byte("stale"))
	if err := e.Encrypt(context.Background(), UseExisting([]byte("pass"))); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(e.Content()) != 0 {
		t.Errorf("Expected empty content, got %d bytes", len(e.Content()))
	}
}

func TestEngine_CounterMonotonic(t *testing.T) {
	e := New(newTestArchive(t, map[string]string{"k": "v"}), testLog)
	c0 := e.Counter()
	if c0 > 0xFFFF {
		t.Fatalf("Initial counter %#x outside [0, 0xFFFF]", c0)
	}

	const k = 3
	var content []byte
	for i := 1; i <= k; i++ {
		content = encryptedContent(t, e, "pass")
		if got := headerOf(t, content).Counter; got != c0+uint32(i) {
			t.Fatalf("Encryption %d: expected counter %d, got %d", i, c0+uint32(i), got)
		}
	}

	// A fresh engine adopts the persisted counter and continues from it.
	next := New(newTestArchive(t, nil), testLog)
	next.LoadBytes(content)
	if err := next.Decrypt(context.Background(), UseExisting([]byte("pass"))); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if next.Counter() != c0+k {
		t.Fatalf("Expected adopted counter %d, got %d", c0+k, next.Counter())
	}
	if got := headerOf(t, encryptedContent(t, next, "pass")).Counter; got != c0+k+1 {
		t.Errorf("Expected counter %d after reload, got %d", c0+k+1, got)
	}
}

func TestEngine_CounterExhausted(t *testing.T) {
	e := New(newTestArchive(t, map[string]string{"k": "v"}), testLog)
	e.counter = 0xFFFFFFFF
	e.LoadBytes([]byte("previous"))

	err := e.Encrypt(context.Background(), UseExisting([]byte("pass")))
	if !errors.Is(err, kerrors.ErrEncryptFailed) {
		t.Fatalf("Expected ErrEncryptFailed, got: %v", err)
	}
	if string(e.Content()) != "previous" {
		t.Error("Failed encrypt replaced the previous content")
	}
}

func TestEngine_DecryptRequiresPassphrase(t *testing.T) {
	content := encryptedContent(t, New(newTestArchive(t, map[string]string{"k": "v"}), testLog), "pass")

	for _, pass := range []Passphrase{NoPassphrase(), UseExisting(nil), NeedsNew()} {
		e := New(archive.New(), testLog)
		e.LoadBytes(content)
		err := e.Decrypt(context.Background(), pass)
		if !errors.Is(err, kerrors.ErrPassphraseRequired) {
			t.Errorf("Kind %s: expected ErrPassphraseRequired, got: %v", pass.Kind(), err)
		}
	}
}

func TestEngine_EncryptPromptNewIsUnresolved(t *testing.T) {
	e := New(newTestArchive(t, map[string]string{"k": "v"}), testLog)
	err := e.Encrypt(context.Background(), NeedsNew())
	if !errors.Is(err, kerrors.ErrPassphraseRequired) {
		t.Fatalf("Expected ErrPassphraseRequired, got: %v", err)
	}
}

func TestEngine_DecryptWithoutContentIsNoop(t *testing.T) {
	target := newTestArchive(t, map[string]string{"k": "v"})
	e := New(target, testLog)
	if err := e.Decrypt(context.Background(), NoPassphrase()); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if target.Len() != 1 {
		t.Error("Decrypt without content modified the archive")
	}
}

func TestEngine_FailedEncryptKeepsContent(t *testing.T) {
	e := New(failingArchive{}, testLog)
	e.LoadBytes([]byte("on disk"))
	counter := e.Counter()

	err := e.Encrypt(context.Background(), UseExisting([]byte("pass")))
	if !errors.Is(err, kerrors.ErrEncryptFailed) {
		t.Fatalf("Expected ErrEncryptFailed, got: %v", err)
	}
	if string(e.Content()) != "on disk" || e.Counter() != counter {
		t.Error("Failed encrypt mutated engine state")
	}
}

func TestEngine_CancelledContextLeavesState(t *testing.T) {
	e := New(newTestArchive(t, map[string]string{"k": "v"}), testLog)
	e.LoadBytes([]byte("before"))
	counter := e.Counter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.Encrypt(ctx, UseExisting([]byte("pass"))); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got: %v", err)
	}
	if string(e.Content()) != "before" || e.Counter() != counter {
		t.Error("Cancelled encrypt mutated engine state")
	}
}

func TestEngine_LoadAndSave(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "store.coffer")

	e := New(newTestArchive(t, map[string]string{"k": "v"}), testLog)
	found, err := e.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if found {
		t.Fatal("Expected missing file to report not found")
	}

	content := encryptedContent(t, e, "pass")
	if err := e.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved container: %v", err)
	}
	if !bytes.Equal(onDisk, content) {
		t.Fatal("Saved content differs from engine content")
	}

	reader := New(archive.New(), testLog)
	found, err = reader.Load(path)
	if err != nil || !found {
		t.Fatalf("Load = %t, %v; want true, nil", found, err)
	}
	if !reader.IsEncrypted() {
		t.Error("Saved container not recognized as encrypted")
	}
}
