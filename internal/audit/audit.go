package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/google/uuid"
)

// TimestampFormat is RFC3339 with microseconds, always UTC.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry. Values and passphrases are
// never recorded.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Key    string   `json:"key,omitempty"`    // Entry name for store/view/delete/import/export.
	Files  []string `json:"files,omitempty"`  // Source or target files.
	Backup string   `json:"backup,omitempty"` // Backup written alongside the store.
}

// NewEntry returns an entry for op with a fresh ID.
func NewEntry(op string) Entry {
	return Entry{ID: uuid.New().String(), Operation: op}
}

// Log appends an entry to the audit log.
// Failures are swallowed; an operation never fails because auditing did.
func Log(entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	// Nuke removes the directory; do not resurrect it just to log.
	if info, err := os.Stat(configs.UserCofferSettings.DefaultDir); err != nil || !info.IsDir() {
		return
	}

	f, err := os.OpenFile(LogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file.
func LogPath() string {
	return configs.UserCofferSettings.AuditPath
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(LogPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data), nil
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are skipped so a torn final write does not hide history.
func ParseEntries(data []byte) []Entry {
	var entries []Entry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
