package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	historyBucket = "history"
	positionBytes = 8
)

// boltStore keeps the ledger in a BoltDB bucket keyed by insertion position,
// so iteration order matches the order entries were recorded.
type boltStore struct {
	db   *bolt.DB
	path string
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StorageError{Op: "open", Path: path, Err: fmt.Errorf("create storage directory: %w", err)}
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Path: path, Err: fmt.Errorf("init bucket: %w", err)}
	}

	return &boltStore{db: db, path: path}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Load reads every entry in position order.
func (b *boltStore) Load() ([]Entry, error) {
	var records []record
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			if len(k) != positionBytes {
				return fmt.Errorf("unexpected key length %d", len(k))
			}
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, &StorageError{Op: "read", Path: b.path, Err: err}
	}

	entries := make([]Entry, 0, len(records))
	for i, r := range records {
		e, err := fromRecord(i, r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Save replaces the bucket content with entries in a single transaction.
func (b *boltStore) Save(entries []Entry) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(historyBucket)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(historyBucket))
		if err != nil {
			return err
		}
		for i, e := range entries {
			value, err := json.Marshal(toRecord(e))
			if err != nil {
				return err
			}
			key := make([]byte, positionBytes)
			binary.BigEndian.PutUint64(key, uint64(i))
			if err := bucket.Put(key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &StorageError{Op: "write", Path: b.path, Err: err}
	}
	return nil
}
