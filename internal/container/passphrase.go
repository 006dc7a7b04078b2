package container

// PassphraseKind tells the engine how a passphrase should be treated.
type PassphraseKind int

const (
	// Unencrypted stores the archive as plaintext.
	Unencrypted PassphraseKind = iota
	// Existing carries a passphrase the user already supplied.
	Existing
	// PromptNew asks the caller to obtain a new passphrase before encrypting.
	PromptNew
)

func (k PassphraseKind) String() string {
	switch k {
	case Unencrypted:
		return "unencrypted"
	case Existing:
		return "existing"
	case PromptNew:
		return "prompt-new"
	default:
		return "unknown"
	}
}

// Passphrase is a tagged passphrase value. The zero value is Unencrypted.
type Passphrase struct {
	kind   PassphraseKind
	secret []byte
}

// NoPassphrase returns a passphrase that disables encryption.
func NoPassphrase() Passphrase {
	return Passphrase{kind: Unencrypted}
}

// UseExisting wraps secret. An empty secret is treated as NoPassphrase.
func UseExisting(secret []byte) Passphrase {
	if len(secret) == 0 {
		return NoPassphrase()
	}
	return Passphrase{kind: Existing, secret: secret}
}

// NeedsNew returns a placeholder that must be resolved by the caller.
func NeedsNew() Passphrase {
	return Passphrase{kind: PromptNew}
}

func (p Passphrase) Kind() PassphraseKind { return p.kind }

// Secret returns the passphrase bytes, or nil unless Kind is Existing.
func (p Passphrase) Secret() []byte {
	if p.kind != Existing {
		return nil
	}
	return p.secret
}
