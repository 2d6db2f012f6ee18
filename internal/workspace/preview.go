package workspace

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrReleased is returned when a preview handle is used after release.
var ErrReleased = errors.New("preview already released")

// Preview is a handle to the bytes shown as a screenshot thumbnail.
// It must be released exactly once.
type Preview struct {
	id        string
	mediaType string
	reg       *PreviewRegistry

	mu       sync.Mutex
	data     []byte
	released bool
}

// ID identifies the handle within its registry.
func (p *Preview) ID() string { return p.id }

// MediaType of the preview bytes.
func (p *Preview) MediaType() string { return p.mediaType }

// Bytes returns the preview content, or ErrReleased.
func (p *Preview) Bytes() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil, ErrReleased
	}
	return p.data, nil
}

// Release frees the handle. A second call returns ErrReleased.
func (p *Preview) Release() error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return ErrReleased
	}
	p.released = true
	p.data = nil
	p.mu.Unlock()

	p.reg.forget(p.id)
	return nil
}

// Released reports whether Release has been called.
func (p *Preview) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

// PreviewRegistry tracks live preview handles.
type PreviewRegistry struct {
	mu   sync.RWMutex
	live map[string]*Preview
}

func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{live: make(map[string]*Preview)}
}

// Open registers data under a new handle.
func (r *PreviewRegistry) Open(data []byte, mediaType string) *Preview {
	p := &Preview{id: uuid.NewString(), mediaType: mediaType, reg: r, data: data}
	r.mu.Lock()
	r.live[p.id] = p
	r.mu.Unlock()
	return p
}

// Lookup returns a live handle.
func (r *PreviewRegistry) Lookup(id string) (*Preview, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.live[id]
	return p, ok
}

// Live is the number of unreleased handles.
func (r *PreviewRegistry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.live)
}

func (r *PreviewRegistry) forget(id string) {
	r.mu.Lock()
	delete(r.live, id)
	r.mu.Unlock()
}
