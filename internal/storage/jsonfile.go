package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fastspringexamples/accountbridge/internal/core"
)

// JSONStore persists the account mapping as a single JSON document, read and
// rewritten in full on every access. It is the default backend and mirrors
// the original flat-file database this service started with. No locking:
// concurrent load-mutate-save sequences can lose updates.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON file store at the given path. The file itself
// is created lazily on first save.
func NewJSONStore(path string) (*JSONStore, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating store directory: %v", core.ErrStorageUnavailable, err)
	}

	return &JSONStore{path: path}, nil
}

// Load reads the full mapping. A missing or empty file materializes an empty
// mapping rather than erroring; anything else unreadable is surfaced as
// ErrStorageUnavailable.
func (s *JSONStore) Load(ctx context.Context) (core.Accounts, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Accounts{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", core.ErrStorageUnavailable, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Accounts{}, nil
	}

	var accounts core.Accounts
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", core.ErrStorageUnavailable, s.path, err)
	}
	if accounts == nil {
		accounts = core.Accounts{}
	}
	return accounts, nil
}

// Save replaces the persisted document. The new document is written to a
// temp file and renamed into place so readers never observe a torn write.
func (s *JSONStore) Save(ctx context.Context, accounts core.Accounts) error {
	if accounts == nil {
		accounts = core.Accounts{}
	}

	data, err := json.MarshalIndent(accounts, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encoding accounts: %v", core.ErrStorageUnavailable, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", core.ErrStorageUnavailable, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", core.ErrStorageUnavailable, s.path, err)
	}
	return nil
}

// Reset wipes the persisted mapping.
func (s *JSONStore) Reset(ctx context.Context) error {
	return s.Save(ctx, core.Accounts{})
}

// Close is a no-op for the file store.
func (s *JSONStore) Close() error {
	return nil
}

// Path returns the resolved file path, for the status command.
func (s *JSONStore) Path() string {
	return s.path
}

// expandHome expands a leading ~ in paths.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}
