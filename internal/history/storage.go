package history

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store persists the ledger between runs.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
	Close() error
}

const (
	StoreJSON  = "json"
	StoreBBolt = "bbolt"
	StoreNone  = "none"
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "none", "disabled":
		return noopStore{}, nil
	case "", StoreJSON, "file":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("json history storage requires a path")
		}
		return newFileStore(path), nil
	case StoreBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt history storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported history storage type %q", typ)
	}
}

// LoadPruned loads the persisted ledger and drops entries older than retentionDays.
func LoadPruned(store Store, retentionDays int, now time.Time) ([]Entry, error) {
	entries, err := store.Load()
	if err != nil {
		return nil, err
	}
	return Prune(entries, retentionDays, now)
}

// record is the persisted shape of an Entry. The timestamp stays a string so
// that a bad value surfaces as a DataError instead of a decode failure.
type record struct {
	Link      string `json:"link"`
	Timestamp string `json:"timestamp"`
}

func toRecord(e Entry) record {
	return record{Link: e.Link, Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano)}
}

func fromRecord(i int, r record) (Entry, error) {
	if strings.TrimSpace(r.Link) == "" {
		return Entry{}, &DataError{Index: i, Err: errors.New("empty link")}
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(r.Timestamp))
	if err != nil {
		return Entry{}, &DataError{Index: i, Link: r.Link, Err: fmt.Errorf("parse timestamp: %w", err)}
	}
	return Entry{Link: r.Link, Timestamp: ts.UTC()}, nil
}

type noopStore struct{}

func (noopStore) Close() error           { return nil }
func (noopStore) Load() ([]Entry, error) { return nil, nil }
func (noopStore) Save([]Entry) error     { return nil }
