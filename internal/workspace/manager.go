package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Manager owns every live workspace and their preview registry.
type Manager struct {
	max int
	reg *PreviewRegistry
	log *zap.Logger
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Workspace
}

// NewManager creates workspaces that hold at most max screenshots each.
func NewManager(max int, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		max:      max,
		reg:      NewPreviewRegistry(),
		log:      log.With(zap.String("component", "workspace")),
		now:      time.Now,
		sessions: make(map[string]*Workspace),
	}
}

// Registry exposes the shared preview registry.
func (m *Manager) Registry() *PreviewRegistry { return m.reg }

// Create starts a new empty workspace.
func (m *Manager) Create() *Workspace {
	w := newWorkspace(uuid.NewString(), m.max, m.reg, m.now)
	m.mu.Lock()
	m.sessions[w.ID()] = w
	m.mu.Unlock()
	return w
}

func (m *Manager) Get(id string) (*Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

// Delete drops the workspace and releases its previews.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	w, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	w.Close()
	return nil
}

// Len is the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops workspaces untouched for longer than ttl. Workspaces that are
// generating are kept. It returns how many were dropped.
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	var expired []*Workspace
	m.mu.Lock()
	for id, w := range m.sessions {
		if w.State() == StateGenerating || w.IdleSince().After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		expired = append(expired, w)
	}
	m.mu.Unlock()

	for _, w := range expired {
		w.Close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done. A non-positive interval
// sweeps once a minute.
func (m *Manager) Run(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(ttl); n > 0 {
				m.log.Info("sessions_swept",
					zap.Int("expired", n),
					zap.Int("live", m.Len()),
					zap.Int("live_previews", m.reg.Live()),
				)
			}
		}
	}
}
