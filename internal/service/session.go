package service

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"screenshop/internal/archive"
	"screenshop/internal/imaging"
	"screenshop/internal/model"
	"screenshop/internal/workspace"
)

// uploadConcurrency bounds parallel image decodes per request.
const uploadConcurrency = 4

// UploadFile is one file posted to a session.
type UploadFile struct {
	Name string
	Size int64
	Body io.Reader
	Hint model.PageHint
}

// Rejection explains why an uploaded file was not kept.
type Rejection struct {
	Name   string `json:"name"`
	Code   Code   `json:"code"`
	Reason string `json:"reason"`
}

// UploadResult reports what happened to each posted file.
type UploadResult struct {
	Session  workspace.View `json:"session"`
	Added    int            `json:"added"`
	Dropped  int            `json:"dropped"`
	Rejected []Rejection    `json:"rejected,omitempty"`
}

// SessionService drives the upload wizard on top of workspaces.
type SessionService interface {
	Create(ctx context.Context) workspace.View
	Get(ctx context.Context, id string) (workspace.View, error)
	// Upload normalizes files concurrently. Oversized or unreadable files are
	// rejected individually; files beyond the screenshot limit are dropped.
	Upload(ctx context.Context, id string, files []UploadFile) (*UploadResult, error)
	SetHint(ctx context.Context, id string, index int, hint string) (workspace.View, error)
	Remove(ctx context.Context, id string, index int) (workspace.View, error)
	Preview(ctx context.Context, id string, index int) ([]byte, string, error)
	// Generate runs the pipeline over the session's screenshots. On failure
	// the screenshots are kept so the caller can retry.
	Generate(ctx context.Context, id string) (*GenerateResult, error)
	// Archive zips the last generated files.
	Archive(ctx context.Context, id string) ([]byte, error)
	Reset(ctx context.Context, id string) (workspace.View, error)
	Delete(ctx context.Context, id string) error
}

type sessionService struct {
	sessions   *workspace.Manager
	gen        GenerationService
	normalizer imaging.Normalizer
	log        *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(sessions *workspace.Manager, gen GenerationService, normalizer imaging.Normalizer, log *zap.Logger) SessionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &sessionService{
		sessions:   sessions,
		gen:        gen,
		normalizer: normalizer,
		log:        log.With(zap.String("component", "session")),
	}
}

func (s *sessionService) Create(_ context.Context) workspace.View {
	return s.sessions.Create().Snapshot()
}

func (s *sessionService) Get(_ context.Context, id string) (workspace.View, error) {
	w, err := s.lookup(id)
	if err != nil {
		return workspace.View{}, err
	}
	return w.Snapshot(), nil
}

func (s *sessionService) Upload(ctx context.Context, id string, files []UploadFile) (*UploadResult, error) {
	w, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if w.State() == workspace.StateGenerating {
		return nil, mapWorkspaceError(workspace.ErrBusy)
	}

	// Only the files that can still fit are size-checked and decoded.
	dropped := 0
	if room := w.Remaining(); len(files) > room {
		dropped = len(files) - room
		files = files[:room]
	}

	normalized := make([]*imaging.Normalized, len(files))
	rejected := make([]*Rejection, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, f := range files {
		if err := s.normalizer.CheckSize(f.Size); err != nil {
			rejected[i] = &Rejection{Name: f.Name, Code: CodeResourceLimit, Reason: err.Error()}
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			n, err := s.normalizer.Normalize(f.Body)
			if err != nil {
				code := CodeInvalidInput
				if errors.Is(err, imaging.ErrTooLarge) {
					code = CodeResourceLimit
				}
				rejected[i] = &Rejection{Name: f.Name, Code: code, Reason: err.Error()}
				return nil
			}
			normalized[i] = &n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &UploadResult{}
	var uploads []workspace.Upload
	for i, f := range files {
		if r := rejected[i]; r != nil {
			res.Rejected = append(res.Rejected, *r)
			continue
		}
		n := normalized[i]
		uploads = append(uploads, workspace.Upload{Data: n.Data, MediaType: n.MediaType, Hint: f.Hint})
	}
	added, err := w.Add(uploads...)
	if err != nil {
		return nil, mapWorkspaceError(err)
	}
	res.Added = added
	res.Dropped = dropped + len(uploads) - added
	res.Session = w.Snapshot()

	s.log.Info("screenshots_uploaded",
		zap.String("session_id", id),
		zap.Int("added", res.Added),
		zap.Int("dropped", res.Dropped),
		zap.Int("rejected", len(res.Rejected)),
	)
	return res, nil
}

func (s *sessionService) SetHint(_ context.Context, id string, index int, hint string) (workspace.View, error) {
	w, err := s.lookup(id)
	if err != nil {
		return workspace.View{}, err
	}
	h, err := model.ParsePageHint(hint)
	if err != nil {
		return workspace.View{}, newError(CodeInvalidInput, err, "invalid page hint %q", hint)
	}
	if err := w.SetHint(index, h); err != nil {
		return workspace.View{}, mapWorkspaceError(err)
	}
	return w.Snapshot(), nil
}

func (s *sessionService) Remove(_ context.Context, id string, index int) (workspace.View, error) {
	w, err := s.lookup(id)
	if err != nil {
		return workspace.View{}, err
	}
	if err := w.Remove(index); err != nil {
		return workspace.View{}, mapWorkspaceError(err)
	}
	return w.Snapshot(), nil
}

func (s *sessionService) Preview(_ context.Context, id string, index int) ([]byte, string, error) {
	w, err := s.lookup(id)
	if err != nil {
		return nil, "", err
	}
	p, err := w.Preview(index)
	if err != nil {
		return nil, "", mapWorkspaceError(err)
	}
	b, err := p.Bytes()
	if err != nil {
		return nil, "", newError(CodeNotFound, err, "preview no longer available")
	}
	return b, p.MediaType(), nil
}

func (s *sessionService) Generate(ctx context.Context, id string) (*GenerateResult, error) {
	w, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	shots, err := w.BeginGeneration()
	if err != nil {
		return nil, mapWorkspaceError(err)
	}

	res, err := s.gen.Generate(ctx, GenerateInput{Screenshots: shots})
	if err != nil {
		_ = w.Fail(errors.New(MessageOf(err)))
		return nil, err
	}
	_ = w.Complete(res.ID, res.Files, res.Warnings)
	return res, nil
}

func (s *sessionService) Archive(_ context.Context, id string) ([]byte, error) {
	w, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	_, files, err := w.Result()
	if err != nil {
		return nil, mapWorkspaceError(err)
	}
	b, err := archive.Bytes(files)
	if err != nil {
		return nil, newError(CodeInternal, err, "build archive: %v", err)
	}
	return b, nil
}

func (s *sessionService) Reset(_ context.Context, id string) (workspace.View, error) {
	w, err := s.lookup(id)
	if err != nil {
		return workspace.View{}, err
	}
	if err := w.Reset(); err != nil {
		return workspace.View{}, mapWorkspaceError(err)
	}
	return w.Snapshot(), nil
}

func (s *sessionService) Delete(_ context.Context, id string) error {
	return mapWorkspaceError(s.sessions.Delete(id))
}

func (s *sessionService) lookup(id string) (*workspace.Workspace, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return nil, mapWorkspaceError(err)
	}
	return w, nil
}

func mapWorkspaceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workspace.ErrNotFound):
		return newError(CodeNotFound, err, "session not found")
	case errors.Is(err, workspace.ErrBusy):
		return newError(CodeBusy, err, "A generation is already in progress.")
	case errors.Is(err, workspace.ErrIndexRange):
		return newError(CodeNotFound, err, "%s", err.Error())
	case errors.Is(err, workspace.ErrNoResult):
		return newError(CodeNotFound, err, "No generated files yet.")
	default:
		return err
	}
}
