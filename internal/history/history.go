package history

import (
	"errors"
	"fmt"
	"time"
)

// Package history keeps the ledger of links that were already published.

// DefaultRetentionDays is how long a published link keeps blocking republication.
const DefaultRetentionDays = 60

// Entry records one published link.
type Entry struct {
	Link      string    `json:"link"`
	Timestamp time.Time `json:"timestamp"`
}

// StorageError reports that persisted ledger state could not be read or written.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DataError reports a ledger entry whose content is unusable.
type DataError struct {
	Index int
	Link  string
	Err   error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("history entry %d (%q): %v", e.Index, e.Link, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

var errMissingTimestamp = errors.New("missing timestamp")

// Prune returns the entries recorded strictly after now minus retentionDays.
// A non-positive retentionDays falls back to DefaultRetentionDays. Entries
// without a timestamp fail the whole prune with a DataError.
func Prune(entries []Entry, retentionDays int, now time.Time) ([]Entry, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	cutoff := now.UTC().AddDate(0, 0, -retentionDays)

	kept := make([]Entry, 0, len(entries))
	for i, e := range entries {
		if e.Timestamp.IsZero() {
			return nil, &DataError{Index: i, Link: e.Link, Err: errMissingTimestamp}
		}
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// Contains reports whether any entry has exactly this link.
func Contains(entries []Entry, link string) bool {
	for _, e := range entries {
		if e.Link == link {
			return true
		}
	}
	return false
}

// Ledger is the in-memory view of the history owned by a single run.
type Ledger struct {
	entries []Entry
}

// NewLedger copies entries into a fresh ledger.
func NewLedger(entries []Entry) *Ledger {
	return &Ledger{entries: append([]Entry(nil), entries...)}
}

// Contains reports whether link was already published.
func (l *Ledger) Contains(link string) bool {
	return Contains(l.entries, link)
}

// Record appends link with the given publication time.
func (l *Ledger) Record(link string, at time.Time) {
	l.entries = append(l.entries, Entry{Link: link, Timestamp: at.UTC()})
}

// Entries returns a copy of the ledger contents in insertion order.
func (l *Ledger) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }
