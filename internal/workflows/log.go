package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/coffer/internal/audit"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
)

const dateFormat = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Operations filters entries by operation (comma-separated).
	Operations string

	// Key filters entries by entry name. A folder name matches every entry
	// below it.
	Key string

	// Since and Until bound the entries by day (YYYY-MM-DD), inclusive.
	Since string
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log. A missing log yields no entries.
//
// Returns ErrInvalidDateFormat if Since or Until is not YYYY-MM-DD.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Validate dates before touching the log so a typo is reported even when
	// the log is empty.
	since, err := parseDay("--since", opts.Since)
	if err != nil {
		return nil, err
	}
	until, err := parseDay("--until", opts.Until)
	if err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{TotalEntriesBeforeFilter: len(entries)}

	filtered := entries
	if opts.Operations != "" {
		filtered = filterByOperations(filtered, strings.Split(opts.Operations, ","))
	}
	if opts.Key != "" {
		filtered = filterByKey(filtered, opts.Key)
	}
	if !since.IsZero() {
		filtered = filterByTime(filtered, func(t time.Time) bool { return !t.Before(since) })
	}
	if !until.IsZero() {
		end := until.Add(24*time.Hour - time.Nanosecond)
		filtered = filterByTime(filtered, func(t time.Time) bool { return !t.After(end) })
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// The limit always keeps the most recent entries.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func parseDay(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", kerrors.ErrInvalidDateFormat, flag, value)
	}
	return t, nil
}

func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool, len(ops))
	for _, op := range ops {
		opSet[strings.ToLower(strings.TrimSpace(op))] = true
	}

	var result []audit.Entry
	for _, e := range entries {
		if opSet[strings.ToLower(e.Operation)] {
			result = append(result, e)
		}
	}
	return result
}

func filterByKey(entries []audit.Entry, key string) []audit.Entry {
	key = strings.TrimSuffix(key, "/")

	var result []audit.Entry
	for _, e := range entries {
		if e.Key == key || strings.HasPrefix(e.Key, key+"/") {
			result = append(result, e)
		}
	}
	return result
}

// filterByTime keeps entries whose timestamp satisfies keep. Entries with an
// unreadable timestamp are dropped.
func filterByTime(entries []audit.Entry, keep func(time.Time) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		t, ok := parseTimestamp(e.Timestamp)
		if ok && keep(t) {
			result = append(result, e)
		}
	}
	return result
}

func parseTimestamp(ts string) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// FormatDate formats a timestamp as YYYY-MM-DD.
func FormatDate(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		if len(ts) >= 10 {
			return ts[:10]
		}
		return ts
	}
	return t.Format(dateFormat)
}

// FormatDateTime formats a timestamp as YYYY-MM-DD HH:MM:SS.
func FormatDateTime(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails describes what an entry touched: its key, files and backup.
func FormatDetails(e audit.Entry) string {
	var parts []string
	if e.Key != "" {
		parts = append(parts, e.Key)
	}
	switch {
	case len(e.Files) > 3:
		parts = append(parts, fmt.Sprintf("%d files", len(e.Files)))
	case len(e.Files) > 0:
		parts = append(parts, strings.Join(e.Files, ", "))
	}
	if e.Backup != "" {
		parts = append(parts, "backup "+e.Backup)
	}
	return strings.Join(parts, "  ")
}

// FormatDetailsOneline is the compact form of FormatDetails.
func FormatDetailsOneline(e audit.Entry) string {
	if e.Key != "" {
		return e.Key
	}
	if len(e.Files) == 1 {
		return e.Files[0]
	}
	if len(e.Files) > 1 {
		return fmt.Sprintf("%d files", len(e.Files))
	}
	return ""
}
