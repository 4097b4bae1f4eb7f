package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raygun/raygun-tui/internal/model"
)

// FileStore keeps the record as a JSON file named after Key
type FileStore struct {
	dir string
}

// NewFileStore creates a store writing to dir/raygun_experiment.json
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file the record is written to
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, Key+".json")
}

// Load reads the record from disk
func (s *FileStore) Load(ctx context.Context) (sess model.Session, found bool, err error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sess, false, nil
		}
		return sess, false, fmt.Errorf("read session file: %w", err)
	}
	sess, err = decode(data)
	if err != nil {
		return sess, false, err
	}
	return sess, true, nil
}

// Save writes the record atomically
func (s *FileStore) Save(ctx context.Context, sess model.Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, Key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear removes the record file
func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Close is a no-op
func (s *FileStore) Close() error {
	return nil
}
