package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/docassist/internal/config"
	"github.com/kobzarvs/docassist/internal/logger"
)

// DocState stores where the user left a document.
type DocState struct {
	CursorLine   int  `json:"cursor_line"`
	CursorOffset int  `json:"cursor_offset"`
	ScrollY      int  `json:"scroll_y"`
	ShowKeywords bool `json:"show_keywords"`
}

// State is the persisted view state of all documents.
type State struct {
	Docs      map[string]DocState `json:"docs"`
	ActiveDoc string              `json:"active_doc,omitempty"`
	LastSaved time.Time           `json:"last_saved"`
}

// Manager handles view state persistence.
type Manager struct {
	mu       sync.RWMutex
	state    State
	path     string
	dirty    bool
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewManager loads the view state file from the state directory and starts
// periodic saving.
func NewManager() (*Manager, error) {
	dir, err := config.StateDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(dir, "session.json"), 15*time.Second)
}

// Open loads the state file at path. A non-positive interval disables
// periodic saving; Stop still writes the final state.
func Open(path string, interval time.Duration) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	m := &Manager{
		state:    State{Docs: make(map[string]DocState)},
		path:     path,
		interval: interval,
		stopChan: make(chan struct{}),
	}
	m.load()
	if interval > 0 {
		go m.saveLoop()
	}
	return m, nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("session read failed", "path", m.path, "err", err)
		}
		return
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("session file ignored", "path", m.path, "err", err)
		return
	}
	if st.Docs == nil {
		st.Docs = make(map[string]DocState)
	}
	m.state = st
}

// Save persists the state if anything changed since the last save.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.state.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

// Doc returns the saved state for a document.
func (m *Manager) Doc(id string) (DocState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.state.Docs[id]
	return st, ok
}

// SetDoc updates the state for a document and makes it the active one.
func (m *Manager) SetDoc(id string, st DocState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Docs[id] = st
	m.state.ActiveDoc = id
	m.dirty = true
}

// Forget drops a deleted document.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.Docs[id]; !ok && m.state.ActiveDoc != id {
		return
	}
	delete(m.state.Docs, id)
	if m.state.ActiveDoc == id {
		m.state.ActiveDoc = ""
	}
	m.dirty = true
}

// ActiveDoc returns the last document that was open.
func (m *Manager) ActiveDoc() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ActiveDoc
}

func (m *Manager) saveLoop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Save(); err != nil {
				logger.Warn("session save failed", "err", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// Stop ends periodic saving and writes the final state.
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.Save()
}
