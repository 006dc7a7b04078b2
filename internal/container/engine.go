package container

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/PolarWolf314/coffer/internal/crypto"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	logger "github.com/PolarWolf314/coffer/internal/logging"
	"github.com/PolarWolf314/coffer/internal/utils"
)

// Archive is the plaintext payload of a container.
type Archive interface {
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}

// Format pins the magic message and fixed nonce value of a container.
type Format struct {
	Magic string
	Fixed uint32
}

// DefaultFormat returns the format written by this release.
func DefaultFormat() Format {
	return Format{
		Magic: MagicMessage(ProductName, FormatVersion),
		Fixed: crypto.FixedValue(Author),
	}
}

// Engine wraps an Archive with the encrypted container format. An Engine owns
// its content buffer and encryption counter; all methods are serialized.
type Engine struct {
	mu sync.Mutex

	archive Archive
	format  Format
	log     logger.Logger

	content   []byte
	encrypted bool
	counter   uint32
}

// New returns an engine for archive using DefaultFormat. The counter starts
// at a random value in [0, 0xFFFF] until a container is decrypted.
func New(archive Archive, log logger.Logger) *Engine {
	return NewWithFormat(archive, DefaultFormat(), log)
}

func NewWithFormat(archive Archive, format Format, log logger.Logger) *Engine {
	return &Engine{
		archive: archive,
		format:  format,
		log:     log,
		counter: crypto.RandomCounter(),
	}
}

// Load reads the container at path. It returns false without error when the
// file does not exist. No decryption happens here.
func (e *Engine) Load(path string) (bool, error) {
	e.log.With("container::load").Debugf("%s", path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read container %s: %w", path, err)
	}

	e.LoadBytes(data)
	return true, nil
}

// LoadBytes replaces the raw content and re-sniffs the encryption marker.
func (e *Engine) LoadBytes(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.content = data
	e.encrypted = LooksEncrypted(data, e.format.Magic)
}

// Decrypt turns the loaded content into archive entries. Plain content is
// handed to the archive verbatim. On failure the archive is left untouched.
func (e *Engine) Decrypt(ctx context.Context, pass Passphrase) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.log.With("container::decrypt")
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(e.content) == 0 {
		log.Debugf("no content loaded")
		return nil
	}
	if !e.encrypted {
		log.Debugf("content is not encrypted")
		return e.archive.Deserialize(e.content)
	}
	if pass.Kind() != Existing {
		return fmt.Errorf("%w: %w", kerrors.ErrDecryptFailed, kerrors.ErrPassphraseRequired)
	}

	plaintext, h, err := e.open(pass.Secret())
	if err != nil {
		log.Debugf("primitive failure: %v", err)
		return fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.archive.Deserialize(plaintext); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}

	log.Debugf("adopting counter %d from header", h.Counter)
	e.counter = h.Counter
	return nil
}

// Encrypt serializes the archive and replaces the content with a fresh
// container. The previous content and counter survive any failure.
func (e *Engine) Encrypt(ctx context.Context, pass Passphrase) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.log.With("container::encrypt")
	if err := ctx.Err(); err != nil {
		return err
	}

	plaintext, err := e.archive.Serialize()
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	switch {
	case len(plaintext) == 0:
		log.Debugf("archive is empty")
		e.content, e.encrypted = nil, false
		return nil
	case pass.Kind() == Unencrypted:
		log.Debugf("storing without encryption")
		e.content, e.encrypted = plaintext, false
		return nil
	case pass.Kind() == PromptNew:
		return fmt.Errorf("%w: %w", kerrors.ErrEncryptFailed, kerrors.ErrPassphraseRequired)
	}

	if e.counter == math.MaxUint32 {
		return fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, kerrors.ErrCounterExhausted)
	}
	var h Header
	h.Counter = e.counter + 1
	copy(h.StartIV[:], crypto.RandomBytes(crypto.IVLen))
	copy(h.Salt[:], crypto.RandomBytes(crypto.SaltLen))

	sealed, err := e.seal(pass.Secret(), h, plaintext)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Debugf("sealed %d bytes with counter %d", len(plaintext), h.Counter)
	e.content = sealed
	e.encrypted = true
	e.counter = h.Counter
	return nil
}

// Save atomically writes the current content to path.
func (e *Engine) Save(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.With("container::save").Debugf("%s", path)
	if err := utils.WriteFileAtomic(path, e.content, 0600); err != nil {
		return fmt.Errorf("failed to save container %s: %w", path, err)
	}
	return nil
}

// Content returns a copy of the current raw content.
func (e *Engine) Content() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.content...)
}

// IsEncrypted reports whether the current content carries the magic header.
func (e *Engine) IsEncrypted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.encrypted
}

// Counter returns the value used by the most recent encryption or decryption.
func (e *Engine) Counter() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counter
}

func (e *Engine) open(secret []byte) ([]byte, Header, error) {
	h, err := DecodeHeader(e.content, e.format.Magic)
	if err != nil {
		return nil, h, err
	}

	key, err := crypto.DeriveKey(secret, h.Salt[:])
	if err != nil {
		return nil, h, err
	}
	defer crypto.Zero(key)

	nonce, err := crypto.BuildNonce(h.StartIV[:], e.format.Fixed, h.Counter)
	if err != nil {
		return nil, h, err
	}

	plaintext, err := crypto.Open(nonce, key, e.content[HeaderLen(e.format.Magic):])
	if err != nil {
		return nil, h, err
	}
	return plaintext, h, nil
}

func (e *Engine) seal(secret []byte, h Header, plaintext []byte) ([]byte, error) {
	key, err := crypto.DeriveKey(secret, h.Salt[:])
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(key)

	nonce, err := crypto.BuildNonce(h.StartIV[:], e.format.Fixed, h.Counter)
	if err != nil {
		return nil, err
	}

	ciphertext, err := crypto.Seal(nonce, key, plaintext)
	if err != nil {
		return nil, err
	}
	return append(EncodeHeader(h, e.format.Magic), ciphertext...), nil
}
