package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"VietPulse/internal/domain/models"
)

// FilePersistence keeps the whole store in one JSON file mapping asset key
// to its dated snapshot list.
type FilePersistence struct {
	path string
}

func NewFilePersistence(path string) *FilePersistence {
	return &FilePersistence{path: path}
}

func (p *FilePersistence) Load() (map[string][]models.Snapshot, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string][]models.Snapshot), nil
		}
		return nil, fmt.Errorf("history read: %w", err)
	}
	var data map[string][]models.Snapshot
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("history decode: %w", err)
	}
	return data, nil
}

// Save rewrites the file through a temp file and rename so an interrupted
// process never leaves a truncated store behind.
func (p *FilePersistence) Save(data map[string][]models.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("history dir: %w", err)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("history encode: %w", err)
	}

	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("history temp: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("history write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("history close: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("history rename: %w", err)
	}
	return nil
}

// MemoryPersistence backs the store with a map. Tests and ephemeral runs.
type MemoryPersistence struct {
	mu   sync.Mutex
	data map[string][]models.Snapshot
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{data: make(map[string][]models.Snapshot)}
}

func (p *MemoryPersistence) Load() (map[string][]models.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string][]models.Snapshot, len(p.data))
	for k, v := range p.data {
		cp := make([]models.Snapshot, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out, nil
}

func (p *MemoryPersistence) Save(data map[string][]models.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string][]models.Snapshot, len(data))
	for k, v := range data {
		cp := make([]models.Snapshot, len(v))
		copy(cp, v)
		out[k] = cp
	}
	p.data = out
	return nil
}
