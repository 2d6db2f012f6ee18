package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"screenshop/internal/archive"
	"screenshop/internal/imaging"
	"screenshop/internal/llm"
	"screenshop/internal/model"
	"screenshop/internal/parser"
	"screenshop/internal/prompt"
	"screenshop/internal/repository"
	"screenshop/internal/storage"
	"screenshop/internal/template"
)

var tracer = otel.Tracer("screenshop/internal/service")

// GenerateInput is one generation request. A nil PageHints takes each
// screenshot's own hint.
type GenerateInput struct {
	Screenshots    []model.Screenshot
	PageHints      []model.PageHint
	IdempotencyKey string
	// RequestID is only used to correlate logs.
	RequestID string
}

// GenerateResult is the merged project returned to the caller.
type GenerateResult struct {
	ID         string        `json:"id"`
	Files      model.FileSet `json:"files"`
	Warnings   []string      `json:"warnings,omitempty"`
	ArchiveURL string        `json:"archiveUrl,omitempty"`
}

// GenerationService runs the screenshot to storefront pipeline.
type GenerationService interface {
	// Generate validates the input, calls the model once, and merges its
	// files with the static templates.
	Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error)

	// Get returns the audit record of a past generation.
	Get(ctx context.Context, id string) (*model.Generation, error)

	// List returns up to limit recent generation records, newest first.
	List(ctx context.Context, limit int) ([]model.Generation, error)

	// ArchiveURL presigns the stored archive of a past generation.
	ArchiveURL(ctx context.Context, id string) (string, error)

	// OpenArchive streams the stored archive of a past generation.
	// The caller closes the reader.
	OpenArchive(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)
}

// Bounds for List.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// TemplateSource provides the static project files.
type TemplateSource interface {
	Load(values map[string]string) (model.FileSet, error)
	Paths() ([]string, error)
}

// GenerationDeps wires a GenerationService. Archives and Metrics are optional.
type GenerationDeps struct {
	Client         llm.Client
	Templates      TemplateSource
	TemplateValues map[string]string
	Normalizer     imaging.Normalizer
	MaxScreenshots int
	// Timeout bounds the model call; 0 leaves it to the transport.
	Timeout        time.Duration
	StrictContract bool
	Repo           repository.GenerationRepository
	Archives       *storage.Archives
	Metrics        *GenerationMetrics
	Log            *zap.Logger
}

type generationService struct {
	deps  GenerationDeps
	log   *zap.Logger
	group singleflight.Group
	now   func() time.Time
}

// NewGenerationService constructs a GenerationService.
func NewGenerationService(deps GenerationDeps) GenerationService {
	if deps.MaxScreenshots <= 0 {
		deps.MaxScreenshots = 5
	}
	if deps.Repo == nil {
		deps.Repo = repository.NewMemory(0)
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &generationService{
		deps: deps,
		log:  log.With(zap.String("component", "generation")),
		now:  time.Now,
	}
}

func (s *generationService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if in.IdempotencyKey == "" {
		return s.generate(ctx, in)
	}
	v, err, shared := s.group.Do(in.IdempotencyKey, func() (any, error) {
		return s.generate(ctx, in)
	})
	if shared {
		s.log.Debug("generation_coalesced", zap.String("idempotency_key", in.IdempotencyKey))
	}
	if err != nil {
		return nil, err
	}
	return v.(*GenerateResult), nil
}

func (s *generationService) generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Generate")
	defer span.End()

	start := s.now()
	client := s.deps.Client

	if err := client.CheckCredential(); err != nil {
		return nil, s.reject(span, newError(CodeConfiguration, err, "%s", err.Error()))
	}
	hints, err := s.validate(in)
	if err != nil {
		return nil, s.reject(span, err)
	}

	rec := &model.Generation{
		ID:              uuid.NewString(),
		Provider:        client.Provider(),
		Model:           client.Model(),
		ScreenshotCount: len(in.Screenshots),
		PageHints:       hints,
	}
	span.SetAttributes(
		attribute.String("generation.id", rec.ID),
		attribute.String("llm.provider", rec.Provider),
		attribute.Int("screenshots", rec.ScreenshotCount),
	)
	log := s.log.With(zap.String("generation_id", rec.ID))
	if in.RequestID != "" {
		log = log.With(zap.String("request_id", in.RequestID))
	}

	res, err := s.run(ctx, rec, in.Screenshots, hints, log)
	rec.DurationMs = s.now().Sub(start).Milliseconds()
	rec.CreatedAt = start.UTC()
	if err != nil {
		rec.Status = model.GenerationFailed
		rec.ErrorCode = string(CodeOf(err))
		rec.ErrorMessage = MessageOf(err)
		s.audit(ctx, rec, log)
		s.deps.Metrics.observe(rec.ErrorCode, s.now().Sub(start).Seconds(), 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, rec.ErrorCode)
		log.Warn("generation_failed",
			zap.String("error_code", rec.ErrorCode),
			zap.Error(err),
			zap.Int64("duration_ms", rec.DurationMs),
		)
		return nil, err
	}

	rec.Status = model.GenerationSucceeded
	rec.FileCount = len(res.Files)
	s.audit(ctx, rec, log)
	s.deps.Metrics.observe(string(model.GenerationSucceeded), s.now().Sub(start).Seconds(), rec.FileCount)
	log.Info("generation_succeeded",
		zap.Int("file_count", rec.FileCount),
		zap.Int("warnings", len(res.Warnings)),
		zap.Bool("archived", rec.ArchiveKey != ""),
		zap.Int64("duration_ms", rec.DurationMs),
	)
	return res, nil
}

// reject finishes a request refused before any model work.
func (s *generationService) reject(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(CodeOf(err)))
	s.deps.Metrics.count(string(CodeOf(err)))
	s.log.Info("generation_rejected", zap.String("error_code", string(CodeOf(err))), zap.String("reason", MessageOf(err)))
	return err
}

// validate checks the input before any external call and returns the
// effective hints.
func (s *generationService) validate(in GenerateInput) ([]model.PageHint, error) {
	n := len(in.Screenshots)
	if n == 0 {
		return nil, newError(CodeInvalidInput, prompt.ErrNoScreenshots, "No screenshots provided.")
	}
	if n > s.deps.MaxScreenshots {
		return nil, newError(CodeResourceLimit, nil, "Too many screenshots: %d provided, at most %d allowed.", n, s.deps.MaxScreenshots)
	}

	hints := in.PageHints
	if hints == nil {
		hints = make([]model.PageHint, n)
		for i, shot := range in.Screenshots {
			hints[i] = shot.PageHint
		}
	}
	if len(hints) != n {
		return nil, newError(CodeInvalidInput, prompt.ErrHintMismatch,
			"Expected %d page hints, got %d.", n, len(hints))
	}
	out := make([]model.PageHint, n)
	for i, h := range hints {
		parsed, err := model.ParsePageHint(string(h))
		if err != nil {
			return nil, newError(CodeInvalidInput, err, "Screenshot %d: invalid page hint %q.", i+1, string(h))
		}
		out[i] = parsed
	}
	return out, nil
}

func (s *generationService) run(ctx context.Context, rec *model.Generation, shots []model.Screenshot, hints []model.PageHint, log *zap.Logger) (*GenerateResult, error) {
	normalized, err := s.normalize(ctx, shots)
	if err != nil {
		return nil, err
	}

	p, err := prompt.Build(normalized, hints)
	if err != nil {
		return nil, newError(CodeInvalidInput, err, "%s", err.Error())
	}

	text, err := s.complete(ctx, p)
	if err != nil {
		return nil, err
	}

	files, err := parser.Parse(text)
	if err != nil {
		log.Warn("model_output_rejected", zap.Error(err), zap.Int("response_bytes", len(text)))
		return nil, newError(CodeMalformed, err, msgMalformed)
	}

	templatePaths, err := s.deps.Templates.Paths()
	if err != nil {
		return nil, newError(CodeInternal, err, "Failed to load templates: %v", err)
	}
	report := parser.Contract{Required: prompt.RequiredPaths(), Reserved: templatePaths}.Check(files)
	if s.deps.StrictContract && !report.OK() {
		log.Warn("model_output_rejected", zap.Error(report.Err()))
		return nil, newError(CodeMalformed, report.Err(), msgMalformed)
	}
	files = dropUnsafe(files, report.Unsafe)

	templates, err := s.deps.Templates.Load(s.deps.TemplateValues)
	if err != nil {
		return nil, newError(CodeInternal, err, "Failed to load templates: %v", err)
	}
	merged := template.Merge(files, templates)

	res := &GenerateResult{ID: rec.ID, Files: merged, Warnings: report.Warnings()}
	if s.deps.Archives != nil {
		s.publish(ctx, rec, res, log)
	}
	return res, nil
}

func (s *generationService) normalize(ctx context.Context, shots []model.Screenshot) ([]model.Screenshot, error) {
	_, span := tracer.Start(ctx, "generation.normalize")
	defer span.End()

	out := make([]model.Screenshot, len(shots))
	g := new(errgroup.Group)
	for i, shot := range shots {
		g.Go(func() error {
			n, err := s.deps.Normalizer.NormalizeBase64(shot.Base64, shot.MimeType)
			if err != nil {
				if errors.Is(err, imaging.ErrTooLarge) {
					return newError(CodeResourceLimit, err, "Screenshot %d: %v.", i+1, err)
				}
				return newError(CodeInvalidInput, err, "Screenshot %d: %v.", i+1, err)
			}
			out[i] = model.Screenshot{Base64: n.Base64(), MimeType: n.MediaType, PageHint: shot.PageHint}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *generationService) complete(ctx context.Context, p prompt.Prompt) (string, error) {
	if s.deps.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deps.Timeout)
		defer cancel()
	}
	ctx, span := tracer.Start(ctx, "generation.complete")
	defer span.End()

	text, err := s.deps.Client.Complete(ctx, p)
	if err == nil {
		return text, nil
	}

	var upstream *llm.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return "", newError(CodeUpstream, err, "%s", upstream.Error())
	case errors.Is(err, llm.ErrMissingCredential):
		return "", newError(CodeConfiguration, err, "%s", err.Error())
	case errors.Is(err, llm.ErrEmptyCompletion):
		return "", newError(CodeMalformed, err, msgMalformed)
	case errors.Is(err, context.DeadlineExceeded):
		return "", newError(CodeUpstream, err, "%s API error: request timed out", s.deps.Client.Provider())
	default:
		return "", newError(CodeInternal, err, "%s", err.Error())
	}
}

func (s *generationService) publish(ctx context.Context, rec *model.Generation, res *GenerateResult, log *zap.Logger) {
	data, err := archive.Bytes(res.Files)
	if err != nil {
		log.Warn("archive_build_failed", zap.Error(err))
		return
	}
	key, url, err := s.deps.Archives.Publish(ctx, rec.ID, data)
	rec.ArchiveKey = key
	if err != nil {
		log.Warn("archive_publish_failed", zap.Error(err))
		return
	}
	res.ArchiveURL = url
}

func (s *generationService) audit(ctx context.Context, rec *model.Generation, log *zap.Logger) {
	if err := s.deps.Repo.Create(context.WithoutCancel(ctx), rec); err != nil {
		log.Warn("audit_record_failed", zap.Error(err))
	}
}

func (s *generationService) Get(ctx context.Context, id string) (*model.Generation, error) {
	if id == "" {
		return nil, newError(CodeInvalidInput, nil, "id is required")
	}
	rec, err := s.deps.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(CodeNotFound, err, "generation %s not found", id)
		}
		return nil, fmt.Errorf("find generation: %w", err)
	}
	return rec, nil
}

func (s *generationService) List(ctx context.Context, limit int) ([]model.Generation, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	recs, err := s.deps.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return recs, nil
}

func (s *generationService) archiveKey(ctx context.Context, id string) (string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if s.deps.Archives == nil || rec.ArchiveKey == "" {
		return "", newError(CodeNotFound, nil, "no stored archive for generation %s", id)
	}
	return rec.ArchiveKey, nil
}

func (s *generationService) ArchiveURL(ctx context.Context, id string) (string, error) {
	key, err := s.archiveKey(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.deps.Archives.URL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("presign archive: %w", err)
	}
	return url, nil
}

func (s *generationService) OpenArchive(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	key, err := s.archiveKey(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	rc, info, err := s.deps.Archives.Open(ctx, key)
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("open archive: %w", err)
	}
	return rc, info, nil
}

func dropUnsafe(files model.FileSet, unsafe []string) model.FileSet {
	if len(unsafe) == 0 {
		return files
	}
	bad := make(map[string]struct{}, len(unsafe))
	for _, p := range unsafe {
		bad[p] = struct{}{}
	}
	out := make(model.FileSet, 0, len(files))
	for _, f := range files {
		if _, ok := bad[f.Path]; !ok {
			out = append(out, f)
		}
	}
	return out
}
