package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/edvin/statusboard/internal/model"
)

// ErrNilTree is returned when Save is handed a nil root.
var ErrNilTree = errors.New("tree is nil")

// FileStore persists the tree structure as a single YAML document.
// Runtime state is never written; a reloaded tree starts at StateNone
// everywhere until the monitors report in.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and relinks the tree. A missing file is not an error; it
// returns nil so the caller can start with a fresh root.
func (s *FileStore) Load() (*model.Item, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tree file %s: %w", s.path, err)
	}

	var root model.Item
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse tree file %s: %w", s.path, err)
	}
	root.Link()
	root.Walk(func(it *model.Item) {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
	})
	return &root, nil
}

// Save writes the tree structure atomically via a temp file rename.
func (s *FileStore) Save(root *model.Item) error {
	if root == nil {
		return fmt.Errorf("save tree: %w", ErrNilTree)
	}
	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create tree dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tree-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp tree file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write tree file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close tree file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace tree file %s: %w", s.path, err)
	}
	return nil
}
