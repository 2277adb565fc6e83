package persona

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned by Store.Get when no persona exists for the ID.
var ErrNotFound = errors.New("persona not found")

// Store persists persona records by identifier.
type Store interface {
	Get(ctx context.Context, id string) (*Persona, error)
	Put(ctx context.Context, id string, p *Persona) error
	// ListIDs returns all stored persona IDs in lexicographic order.
	ListIDs(ctx context.Context) ([]string, error)
}

// FileStore keeps one JSON file per persona under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir. The directory is
// created on first Put, not here, so a read-only listing of a missing
// directory just returns no IDs.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Persona, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("persona %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read persona %q: %w", id, err)
	}
	var p Persona
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse persona %q: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

func (s *FileStore) Put(ctx context.Context, id string, p *Persona) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create persona directory: %w", err)
	}
	cp := *p
	cp.ID = id
	data, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal persona %q: %w", id, err)
	}
	if err := os.WriteFile(s.path(id), data, 0644); err != nil {
		return fmt.Errorf("write persona %q: %w", id, err)
	}
	return nil
}

func (s *FileStore) ListIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
