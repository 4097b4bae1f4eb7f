package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/raygun/raygun-tui/internal/model"
)

// Key is the namespaced key the session record is stored under
const Key = "raygun_experiment"

// ErrCorrupt is returned by Load when the stored record cannot be decoded
var ErrCorrupt = errors.New("corrupt session record")

// Backend names a Store implementation
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Valid reports whether b is a known backend
func (b Backend) Valid() bool {
	switch b {
	case BackendFile, BackendSQLite, BackendMemory:
		return true
	default:
		return false
	}
}

// Store persists the single session record
type Store interface {
	// Load returns the stored session. found is false when nothing is stored.
	Load(ctx context.Context) (sess model.Session, found bool, err error)
	Save(ctx context.Context, sess model.Session) error
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the store for backend, rooted at dir
func Open(backend Backend, dir string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return OpenSQLite(SQLitePath(dir))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func encode(sess model.Session) ([]byte, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (model.Session, error) {
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return sess, nil
}

// MemoryStore keeps the record in process memory
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session
func (s *MemoryStore) Load(ctx context.Context) (model.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return model.Session{}, false, nil
	}
	sess, err := decode(s.data)
	if err != nil {
		return model.Session{}, false, err
	}
	return sess, true, nil
}

// Save replaces the stored session
func (s *MemoryStore) Save(ctx context.Context, sess model.Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// Clear removes the stored session
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// Raw returns the encoded record, or nil when nothing is stored
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// SetRaw stores an already-encoded record
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
