package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

// snapshotFile is the on-disk shape of a Memory store.
type snapshotFile struct {
	SavedAt time.Time     `json:"saved_at"`
	Events  []model.Event `json:"events"`
}

// Memory keeps events in insertion order and optionally snapshots them to a
// JSON file. Mutations only mark the store dirty; Flush writes it out.
type Memory struct {
	mu       sync.RWMutex
	events   []model.Event
	revision uint64
	dirty    bool

	path  string
	newID func() string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store without a backing file.
func NewMemory() *Memory {
	return &Memory{newID: uuid.NewString}
}

// Open returns a store backed by path. A missing file is an empty store; the
// file is created on the first Flush.
func Open(path string) (*Memory, error) {
	if path == "" {
		return nil, errors.New("store: path is empty")
	}
	m := NewMemory()
	m.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			appLog.Info("store file not found; starting empty", "path", path)
			return m, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", path, err)
	}
	m.events = snap.Events
	if m.events == nil {
		m.events = []model.Event{}
	}

	appLog.Info("store loaded", "path", path, "event_count", len(m.events), "saved_at", snap.SavedAt.Format(time.RFC3339))
	return m, nil
}

func (m *Memory) List(_ context.Context) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := slices.Clone(m.events)
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, id string) (model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return model.Event{}, fmt.Errorf("store: event %q: %w", id, ErrNotFound)
	}
	return m.events[i], nil
}

func (m *Memory) Add(_ context.Context, ev model.Event) (model.Event, error) {
	if err := ev.Validate(); err != nil {
		return model.Event{}, fmt.Errorf("store: %w: %w", ErrInvalidEvent, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ID == "" {
		ev.ID = m.newID()
	}
	if m.indexOf(ev.ID) >= 0 {
		return model.Event{}, fmt.Errorf("store: event %q: %w", ev.ID, ErrAlreadyExists)
	}

	m.events = append(m.events, ev)
	m.touch()
	return ev, nil
}

func (m *Memory) Update(_ context.Context, id string, p Patch) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return model.Event{}, fmt.Errorf("store: event %q: %w", id, ErrNotFound)
	}
	if p.IsEmpty() {
		return m.events[i], nil
	}

	updated := p.Apply(m.events[i])
	if err := updated.Validate(); err != nil {
		return model.Event{}, fmt.Errorf("store: %w: %w", ErrInvalidEvent, err)
	}

	m.events[i] = updated
	m.touch()
	return updated, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("store: event %q: %w", id, ErrNotFound)
	}
	m.events = slices.Delete(m.events, i, i+1)
	m.touch()
	return nil
}

func (m *Memory) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// Flush writes the store to its backing file if anything changed since the
// last flush. It is a no-op for stores without a file.
//
// The write is atomic: temp file in the same directory, fsync, chmod 0600,
// rename.
func (m *Memory) Flush() error {
	if m.path == "" {
		return nil
	}

	m.mu.RLock()
	if !m.dirty {
		m.mu.RUnlock()
		return nil
	}
	snap := snapshotFile{SavedAt: time.Now().UTC(), Events: slices.Clone(m.events)}
	rev := m.revision
	m.mu.RUnlock()

	if snap.Events == nil {
		snap.Events = []model.Event{}
	}
	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := writeFileAtomic(m.path, data); err != nil {
		return fmt.Errorf("store: write %s: %w", m.path, err)
	}

	m.mu.Lock()
	// Only clear dirty if nothing changed while the file was being written.
	if m.revision == rev {
		m.dirty = false
	}
	m.mu.Unlock()

	appLog.Debug("store flushed", "path", m.path, "event_count", len(snap.Events), "revision", rev)
	return nil
}

func (m *Memory) indexOf(id string) int {
	return slices.IndexFunc(m.events, func(e model.Event) bool { return e.ID == id })
}

func (m *Memory) touch() {
	m.revision++
	m.dirty = true
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgrid-events-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
