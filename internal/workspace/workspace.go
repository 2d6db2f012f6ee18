// Package workspace holds the in-memory screenshot working set behind the
// upload wizard.
package workspace

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"screenshop/internal/model"
)

// State of a workspace. Failed behaves like Collecting.
type State string

const (
	StateIdle       State = "idle"
	StateCollecting State = "collecting"
	StateGenerating State = "generating"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Step maps the state onto the three wizard screens.
func (s State) Step() int {
	switch s {
	case StateGenerating:
		return 2
	case StateDone:
		return 3
	default:
		return 1
	}
}

var (
	ErrBusy          = errors.New("generation already in progress")
	ErrIndexRange    = errors.New("screenshot index out of range")
	ErrNoResult      = errors.New("no generated files yet")
	ErrNotGenerating = errors.New("no generation in progress")
)

// Upload is one normalized image to add to the working set.
type Upload struct {
	Data      []byte
	MediaType string
	Hint      model.PageHint
}

type entry struct {
	shot    model.Screenshot
	preview *Preview
}

// Workspace is one wizard session. It is safe for concurrent use.
type Workspace struct {
	id  string
	max int
	reg *PreviewRegistry
	now func() time.Time

	mu           sync.Mutex
	entries      []entry
	state        State
	files        model.FileSet
	generationID string
	warnings     []string
	lastErr      string
	touched      time.Time
}

// New creates an empty workspace holding at most max screenshots.
func New(id string, max int, reg *PreviewRegistry) *Workspace {
	return newWorkspace(id, max, reg, time.Now)
}

func newWorkspace(id string, max int, reg *PreviewRegistry, now func() time.Time) *Workspace {
	return &Workspace{id: id, max: max, reg: reg, now: now, state: StateIdle, touched: now()}
}

func (w *Workspace) ID() string { return w.id }

// Add appends uploads until the workspace is full; the rest are dropped.
// It returns how many were kept.
func (w *Workspace) Add(uploads ...Upload) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateGenerating {
		return 0, ErrBusy
	}
	w.touched = w.now()

	added := 0
	for _, u := range uploads {
		if len(w.entries) >= w.max {
			break
		}
		hint := u.Hint
		if hint == "" {
			hint = model.PageHintHomepage
		}
		w.entries = append(w.entries, entry{
			shot: model.Screenshot{
				Base64:   base64.StdEncoding.EncodeToString(u.Data),
				MimeType: u.MediaType,
				PageHint: hint,
			},
			preview: w.reg.Open(u.Data, u.MediaType),
		})
		added++
	}
	if len(w.entries) > 0 {
		w.state = StateCollecting
	}
	return added, nil
}

// SetHint changes the page hint of screenshot i.
func (w *Workspace) SetHint(i int, hint model.PageHint) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateGenerating {
		return ErrBusy
	}
	if i < 0 || i >= len(w.entries) {
		return fmt.Errorf("%w: %d", ErrIndexRange, i)
	}
	w.touched = w.now()
	w.entries[i].shot.PageHint = hint
	return nil
}

// Remove drops screenshot i and releases its preview.
func (w *Workspace) Remove(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateGenerating {
		return ErrBusy
	}
	if i < 0 || i >= len(w.entries) {
		return fmt.Errorf("%w: %d", ErrIndexRange, i)
	}
	w.touched = w.now()
	_ = w.entries[i].preview.Release()
	w.entries = append(w.entries[:i], w.entries[i+1:]...)
	if len(w.entries) == 0 {
		w.state = StateIdle
	} else {
		w.state = StateCollecting
	}
	return nil
}

// Reset releases every preview and clears results.
func (w *Workspace) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateGenerating {
		return ErrBusy
	}
	w.releaseLocked()
	w.state = StateIdle
	w.touched = w.now()
	return nil
}

// Close releases every preview regardless of state.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.releaseLocked()
}

func (w *Workspace) releaseLocked() {
	for _, e := range w.entries {
		_ = e.preview.Release()
	}
	w.entries = nil
	w.files = nil
	w.generationID = ""
	w.warnings = nil
	w.lastErr = ""
}

// BeginGeneration enters Generating and returns a copy of the screenshots.
// Only one generation may run at a time.
func (w *Workspace) BeginGeneration() ([]model.Screenshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateGenerating {
		return nil, ErrBusy
	}
	w.touched = w.now()
	w.state = StateGenerating
	w.lastErr = ""
	shots := make([]model.Screenshot, len(w.entries))
	for i, e := range w.entries {
		shots[i] = e.shot
	}
	return shots, nil
}

// Complete stores the result and enters Done.
func (w *Workspace) Complete(generationID string, files model.FileSet, warnings []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateGenerating {
		return ErrNotGenerating
	}
	w.touched = w.now()
	w.state = StateDone
	w.files = files
	w.generationID = generationID
	w.warnings = warnings
	return nil
}

// Fail records err and enters Failed. Screenshots and previews are kept.
func (w *Workspace) Fail(err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateGenerating {
		return ErrNotGenerating
	}
	w.touched = w.now()
	w.state = StateFailed
	if err != nil {
		w.lastErr = err.Error()
	}
	return nil
}

// Result returns the last generated files.
func (w *Workspace) Result() (string, model.FileSet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files == nil {
		return "", nil, ErrNoResult
	}
	return w.generationID, w.files, nil
}

// Preview returns the preview handle of screenshot i.
func (w *Workspace) Preview(i int) (*Preview, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i < 0 || i >= len(w.entries) {
		return nil, fmt.Errorf("%w: %d", ErrIndexRange, i)
	}
	return w.entries[i].preview, nil
}

// State returns the current state.
func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Len is the number of screenshots held.
func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Remaining is how many more screenshots fit.
func (w *Workspace) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return max(w.max-len(w.entries), 0)
}

// IdleSince reports when the workspace was last modified.
func (w *Workspace) IdleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.touched
}

// ScreenshotView describes one held screenshot without its bytes.
type ScreenshotView struct {
	Index      int            `json:"index"`
	PageHint   model.PageHint `json:"pageHint"`
	MimeType   string         `json:"mimeType"`
	PreviewURL string         `json:"previewUrl"`
}

// View is a point-in-time snapshot of a workspace.
type View struct {
	ID           string           `json:"id"`
	State        State            `json:"state"`
	Step         int              `json:"step"`
	Screenshots  []ScreenshotView `json:"screenshots"`
	GenerationID string           `json:"generationId,omitempty"`
	Files        model.FileSet    `json:"files,omitempty"`
	Warnings     []string         `json:"warnings,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// Snapshot returns the current view.
func (w *Workspace) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := View{
		ID:           w.id,
		State:        w.state,
		Step:         w.state.Step(),
		Screenshots:  make([]ScreenshotView, len(w.entries)),
		GenerationID: w.generationID,
		Files:        w.files,
		Warnings:     w.warnings,
		Error:        w.lastErr,
	}
	for i, e := range w.entries {
		v.Screenshots[i] = ScreenshotView{
			Index:      i,
			PageHint:   e.shot.PageHint,
			MimeType:   e.shot.MimeType,
			PreviewURL: fmt.Sprintf("/api/sessions/%s/screenshots/%d/preview", w.id, i),
		}
	}
	return v
}
