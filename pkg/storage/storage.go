package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned by Open when no file is stored under the key.
var ErrNotFound = errors.New("storage: file not found")

// Store keeps generated export files addressed by slash-separated keys such
// as "<export-id>/invoice.pdf".
type Store interface {
	// Save stores data under key, replacing any previous content.
	Save(key string, data []byte) error
	// Open returns a reader for key and its size.
	Open(key string) (io.ReadCloser, int64, error)
	// Exists reports whether key is stored.
	Exists(key string) bool
	// Prune removes everything saved before cutoff and returns how many
	// files went.
	Prune(cutoff time.Time) (int, error)
}

// CleanKey normalizes key and rejects keys escaping the store root.
func CleanKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage: empty key")
	}
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	if cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return cleaned, nil
}

// --- Local Store (files under a root directory) ---

type localStore struct {
	root string
}

// NewLocalStore creates a store writing files below root.
func NewLocalStore(root string) (Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create %s: %w", root, err)
	}
	return &localStore{root: root}, nil
}

func (s *localStore) path(key string) (string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(k)), nil
}

func (s *localStore) Save(key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("storage: failed to write %s: %w", key, err)
	}
	return nil
}

func (s *localStore) Open(key string) (io.ReadCloser, int64, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("storage: failed to open %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("storage: failed to stat %s: %w", key, err)
	}
	return f, info.Size(), nil
}

func (s *localStore) Exists(key string) bool {
	p, err := s.path(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Prune removes files last modified before cutoff, then any export
// directory that was already old and is now empty. Fresh directories are
// left alone so a concurrent Save never loses its parent.
func (s *localStore) Prune(cutoff time.Time) (int, error) {
	var (
		removed int
		oldDirs []string
	)
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.root && info.ModTime().Before(cutoff) {
				oldDirs = append(oldDirs, p)
			}
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			removed++
		}
		return nil
	})

	// deepest first; Remove fails on directories that still hold files
	for i := len(oldDirs) - 1; i >= 0; i-- {
		os.Remove(oldDirs[i])
	}

	if err != nil {
		return removed, fmt.Errorf("storage: failed to prune %s: %w", s.root, err)
	}
	return removed, nil
}

// --- Memory Store (process-local, used in tests and ephemeral deployments) ---

type memoryFile struct {
	data  []byte
	saved time.Time
}

type memoryStore struct {
	mu    sync.RWMutex
	files map[string]memoryFile
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{files: make(map[string]memoryFile)}
}

func (s *memoryStore) Save(key string, data []byte) error {
	k, err := CleanKey(key)
	if err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	s.files[k] = memoryFile{data: cp, saved: time.Now()}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Open(key string) (io.ReadCloser, int64, error) {
	k, err := CleanKey(key)
	if err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	f, ok := s.files[k]
	s.mu.RUnlock()
	if !ok {
		return nil, 0, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(f.data)), int64(len(f.data)), nil
}

func (s *memoryStore) Exists(key string) bool {
	k, err := CleanKey(key)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[k]
	return ok
}

func (s *memoryStore) Prune(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, f := range s.files {
		if f.saved.Before(cutoff) {
			delete(s.files, k)
			removed++
		}
	}
	return removed, nil
}

// NewStoreFromConfig creates the appropriate Store based on type.
//
//	storeType: "local" or "memory"
//	root: directory for local stores (e.g. "./storage/exports")
func NewStoreFromConfig(storeType, root string) (Store, error) {
	switch storeType {
	case "local", "":
		if root == "" {
			return nil, fmt.Errorf("storage: path is required for local storage")
		}
		return NewLocalStore(root)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown storage type %q (use local or memory)", storeType)
	}
}
