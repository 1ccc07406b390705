package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store persists map documents by name.
type Store interface {
	SaveMap(doc *MapDocument) error
	LoadMap(name string) (*MapDocument, error)
	ListMaps() ([]string, error)
	Close() error
}

// FileStore keeps one indented JSON file per map under Dir.
type FileStore struct {
	Dir string
	mu  sync.RWMutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create map dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// Path is where the map called name is stored.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

func (s *FileStore) SaveMap(doc *MapDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal map: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Write to a temp file first so a failed save never truncates the map.
	tmp, err := os.CreateTemp(s.Dir, doc.Name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write map: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write map: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(doc.Name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write map: %w", err)
	}
	return nil
}

func (s *FileStore) LoadMap(name string) (*MapDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ReadMapFile(s.Path(name))
}

func (s *FileStore) ListMaps() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Close() error { return nil }

// ReadMapFile loads a map document from an arbitrary path.
func ReadMapFile(path string) (*MapDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMapNotFound, path)
		}
		return nil, fmt.Errorf("read map: %w", err)
	}
	return decodeMap(data)
}
