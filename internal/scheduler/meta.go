package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Progress is the state of one background job.
type Progress struct {
	Pct    float64 `json:"pct"`
	Done   int     `json:"done"`
	Status string  `json:"status"`
}

type metaFile struct {
	LastUpdate *time.Time          `json:"last_update,omitempty"`
	Progress   map[string]Progress `json:"progress,omitempty"`
}

// MetaStore keeps refresh metadata in a JSON file. The file is created on
// first write; a missing or unreadable file reads as empty.
type MetaStore struct {
	path string
	mu   sync.Mutex
}

func NewMetaStore(path string) *MetaStore {
	return &MetaStore{path: path}
}

func (m *MetaStore) load() metaFile {
	var mf metaFile
	b, err := os.ReadFile(m.path)
	if err != nil {
		return mf
	}
	_ = json.Unmarshal(b, &mf)
	return mf
}

func (m *MetaStore) save(mf metaFile) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}

// LastUpdate returns the last refresh time, zero when never refreshed.
func (m *MetaStore) LastUpdate() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mf := m.load(); mf.LastUpdate != nil {
		return *mf.LastUpdate
	}
	return time.Time{}
}

func (m *MetaStore) SetLastUpdate(t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mf := m.load()
	t = t.UTC()
	mf.LastUpdate = &t
	if err := m.save(mf); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

func (m *MetaStore) WriteProgress(key string, p Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mf := m.load()
	if mf.Progress == nil {
		mf.Progress = make(map[string]Progress)
	}
	mf.Progress[key] = p
	if err := m.save(mf); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (m *MetaStore) Progress(key string) (Progress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.load().Progress[key]
	return p, ok
}
