package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileStore keeps the ledger as an indented JSON array of {link, timestamp}.
type fileStore struct {
	path string
}

func newFileStore(path string) *fileStore {
	return &fileStore{path: path}
}

func (f *fileStore) Close() error { return nil }

// Load returns no entries when the file does not exist yet.
func (f *fileStore) Load() ([]Entry, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: f.path, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &StorageError{Op: "decode", Path: f.path, Err: err}
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

// Save overwrites the file. The content goes through a temp file in the same
// directory so a failed write leaves the previous ledger intact.
func (f *fileStore) Save(entries []Entry) error {
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		records = append(records, toRecord(e))
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: f.path, Err: err}
	}

	dir := filepath.Dir(f.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &StorageError{Op: "write", Path: f.path, Err: fmt.Errorf("create directory: %w", err)}
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return &StorageError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}
