package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	configDirName   = "pybo"
	sessionFileName = "session.json"
)

// FileStore persists the session record as one JSON file. The file carries
// a bearer token, so it is written with owner-only permissions.
type FileStore struct {
	path string
}

// NewFileStore places the record under the user config dir
// (e.g. ~/.config/pybo/session.json).
func NewFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, configDirName, sessionFileName)}, nil
}

// NewFileStoreAt uses an explicit path. Used by tests and the
// PYBO_SESSION_FILE override.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoRecord
	}
	return data, err
}

func (f *FileStore) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) Remove() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
