// Package audit records which coffer operations ran and when.
//
// The log is stored as JSON Lines next to the store:
//
//	~/.coffer/audit.jsonl
//
// Each entry carries a UUID, a UTC timestamp, the operation name and, where
// relevant, the entry key, the files involved and the backup written. Entry
// values and passphrases never appear in the log.
//
// # Usage
//
//	entry := audit.NewEntry("store")
//	entry.Key = key
//	audit.Log(entry)
//
// Logging is best-effort: errors are dropped and the operation continues.
package audit
