package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"screenshop/internal/llm"
	"screenshop/internal/model"
	"screenshop/internal/prompt"
	repoMocks "screenshop/internal/repository/mocks"
	"screenshop/internal/storage"
	storeMocks "screenshop/internal/storage/mocks"
)

func TestGenerationService_Generate_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.client.On("Complete", mock.Anything, mock.MatchedBy(func(p prompt.Prompt) bool {
		blocks := p.Messages[0].Content
		return len(blocks) == 3 &&
			blocks[0].Type == "image" && blocks[1].Type == "image" &&
			strings.Contains(blocks[2].Text, "Screenshot 1: Homepage\nScreenshot 2: Cart") &&
			p.System == prompt.SystemInstruction()
	})).Return(modelOutput(t), nil).Once()

	res, err := f.service().Generate(ctx, GenerateInput{
		Screenshots: []model.Screenshot{screenshot(t, ""), screenshot(t, "")},
		PageHints:   []model.PageHint{model.PageHintHomepage, model.PageHintCart},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Len(t, res.Files, len(prompt.RequiredPaths())+12)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.ArchiveURL)

	env, ok := res.Files.Lookup(".env.local")
	require.True(t, ok)
	assert.Contains(t, env.Content, "demo.myshopify.com")

	rec, err := f.repo.FindByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GenerationSucceeded, rec.Status)
	assert.Equal(t, 2, rec.ScreenshotCount)
	assert.Equal(t, []model.PageHint{model.PageHintHomepage, model.PageHintCart}, rec.PageHints)
	assert.Equal(t, "Mock", rec.Provider)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.outcomes.WithLabelValues("succeeded")))
	f.client.AssertExpectations(t)
}

func TestGenerationService_Generate_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		credErr   error
		in        func(t *testing.T) GenerateInput
		wantCode  Code
		wantInMsg string
	}{
		{
			name:      "missing credential wins over empty input",
			credErr:   &llm.CredentialError{EnvVar: "ANTHROPIC_API_KEY"},
			in:        func(t *testing.T) GenerateInput { return GenerateInput{} },
			wantCode:  CodeConfiguration,
			wantInMsg: "ANTHROPIC_API_KEY is not configured. Add it to .env.local.",
		},
		{
			name:    "missing credential wins over an unknown hint",
			credErr: &llm.CredentialError{EnvVar: "ANTHROPIC_API_KEY"},
			in: func(t *testing.T) GenerateInput {
				return GenerateInput{
					Screenshots: []model.Screenshot{screenshot(t, "")},
					PageHints:   []model.PageHint{"Checkout"},
				}
			},
			wantCode: CodeConfiguration,
		},
		{
			name:      "empty screenshots",
			in:        func(t *testing.T) GenerateInput { return GenerateInput{Screenshots: []model.Screenshot{}} },
			wantCode:  CodeInvalidInput,
			wantInMsg: "No screenshots provided.",
		},
		{
			name: "too many screenshots",
			in: func(t *testing.T) GenerateInput {
				shots := make([]model.Screenshot, 6)
				for i := range shots {
					shots[i] = screenshot(t, model.PageHintHomepage)
				}
				return GenerateInput{Screenshots: shots}
			},
			wantCode: CodeResourceLimit,
		},
		{
			name: "hint cardinality mismatch",
			in: func(t *testing.T) GenerateInput {
				return GenerateInput{
					Screenshots: []model.Screenshot{screenshot(t, ""), screenshot(t, "")},
					PageHints:   []model.PageHint{model.PageHintCart},
				}
			},
			wantCode:  CodeInvalidInput,
			wantInMsg: "Expected 2 page hints, got 1.",
		},
		{
			name: "unknown hint",
			in: func(t *testing.T) GenerateInput {
				return GenerateInput{Screenshots: []model.Screenshot{screenshot(t, "Checkout")}}
			},
			wantCode:  CodeInvalidInput,
			wantInMsg: `Screenshot 1: invalid page hint "Checkout".`,
		},
		{
			name: "undecodable image",
			in: func(t *testing.T) GenerateInput {
				return GenerateInput{Screenshots: []model.Screenshot{{Base64: "bm90IGFuIGltYWdl", MimeType: "image/png"}}}
			},
			wantCode: CodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.client.CredentialErr = tt.credErr

			res, err := f.service().Generate(context.Background(), tt.in(t))
			assert.Nil(t, res)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, CodeOf(err))
			if tt.wantInMsg != "" {
				assert.Equal(t, tt.wantInMsg, MessageOf(err))
			}
			f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerationService_Generate_ModelFailures(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		err      error
		wantCode Code
		wantMsg  string
	}{
		{
			name:     "upstream error is surfaced verbatim",
			err:      &llm.UpstreamError{Provider: "Anthropic", Status: 429, Body: `{"type":"error","error":{"type":"rate_limit_error"}}`},
			wantCode: CodeUpstream,
			wantMsg:  `Anthropic API error: {"type":"error","error":{"type":"rate_limit_error"}}`,
		},
		{
			name:     "prose instead of json",
			text:     "Sure! Here is your storefront.",
			wantCode: CodeMalformed,
			wantMsg:  msgMalformed,
		},
		{
			name:     "files missing",
			text:     `{"pages":[]}`,
			wantCode: CodeMalformed,
		},
		{
			name:     "empty completion",
			err:      llm.ErrEmptyCompletion,
			wantCode: CodeMalformed,
		},
		{
			name:     "contract violation",
			text:     `{"files":[{"path":"src/app/page.tsx","content":"x"}]}`,
			wantCode: CodeMalformed,
		},
		{
			name:     "transport failure",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: CodeInternal,
			wantMsg:  "dial tcp: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.client.On("Complete", mock.Anything, mock.Anything).Return(tt.text, tt.err).Once()

			_, err := f.service().Generate(context.Background(), GenerateInput{
				Screenshots: []model.Screenshot{screenshot(t, model.PageHintProduct)},
			})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, CodeOf(err))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, MessageOf(err))
			}

			recent, _ := f.repo.ListRecent(context.Background(), 1)
			require.Len(t, recent, 1)
			assert.Equal(t, model.GenerationFailed, recent[0].Status)
			assert.Equal(t, string(tt.wantCode), recent[0].ErrorCode)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.outcomes.WithLabelValues(string(tt.wantCode))))
		})
	}
}

func TestGenerationService_Generate_LenientContract(t *testing.T) {
	f := newFixture(t)
	f.deps.StrictContract = false
	f.client.On("Complete", mock.Anything, mock.Anything).Return(
		`{"files":[{"path":"src/app/page.tsx","content":"x"},{"path":"../escape.ts","content":"y"}]}`, nil)

	res, err := f.service().Generate(context.Background(), GenerateInput{
		Screenshots: []model.Screenshot{screenshot(t, model.PageHintHomepage)},
	})
	require.NoError(t, err)
	assert.Len(t, res.Files, 13)
	_, ok := res.Files.Lookup("../escape.ts")
	assert.False(t, ok)
	assert.NotEmpty(t, res.Warnings)
}

func TestGenerationService_Generate_TemplatesWinCollisions(t *testing.T) {
	f := newFixture(t)
	f.client.On("Complete", mock.Anything, mock.Anything).Return(
		modelOutput(t, model.GeneratedFile{Path: "package.json", Content: `{"name":"hijacked"}`}), nil)

	res, err := f.service().Generate(context.Background(), GenerateInput{
		Screenshots: []model.Screenshot{screenshot(t, model.PageHintHomepage)},
	})
	require.NoError(t, err)

	pkg, ok := res.Files.Lookup("package.json")
	require.True(t, ok)
	assert.NotContains(t, pkg.Content, "hijacked")

	seen := map[string]bool{}
	for _, file := range res.Files {
		assert.False(t, seen[file.Path], file.Path)
		seen[file.Path] = true
	}
}

func TestGenerationService_Generate_Timeout(t *testing.T) {
	f := newFixture(t)
	f.deps.Timeout = 20 * time.Millisecond
	f.client.On("Complete", mock.Anything, mock.Anything).
		Return("", context.DeadlineExceeded).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		})

	_, err := f.service().Generate(context.Background(), GenerateInput{
		Screenshots: []model.Screenshot{screenshot(t, model.PageHintHomepage)},
	})
	assert.Equal(t, CodeUpstream, CodeOf(err))
	assert.Equal(t, "Mock API error: request timed out", MessageOf(err))
}

func TestGenerationService_Generate_CoalescesIdempotentRequests(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.client.On("Complete", mock.Anything, mock.Anything).
		Return(modelOutput(t), nil).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).Once()

	svc := f.service()
	in := GenerateInput{
		Screenshots:    []model.Screenshot{screenshot(t, model.PageHintHomepage)},
		IdempotencyKey: "req-1",
	}

	var wg sync.WaitGroup
	results := make([]*GenerateResult, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.Generate(context.Background(), in)
	}()
	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = svc.Generate(context.Background(), in)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Equal(t, results[0].ID, results[1].ID)
	f.client.AssertNumberOfCalls(t, "Complete", 1)
}

func TestGenerationService_Generate_PublishesArchive(t *testing.T) {
	f := newFixture(t)
	store := new(storeMocks.MockStorage)
	f.deps.Archives = storage.NewArchives(store, time.Minute)

	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "archives/") && strings.HasSuffix(key, ".zip")
	}), mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
	store.On("PresignGet", mock.Anything, mock.Anything, time.Minute).Return("https://minio.local/archive.zip", nil)
	f.client.On("Complete", mock.Anything, mock.Anything).Return(modelOutput(t), nil)

	svc := f.service()
	res, err := svc.Generate(context.Background(), GenerateInput{
		Screenshots: []model.Screenshot{screenshot(t, model.PageHintHomepage)},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/archive.zip", res.ArchiveURL)

	rec, err := svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.ArchiveKey(res.ID), rec.ArchiveKey)

	url, err := svc.ArchiveURL(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local/archive.zip", url)
}

func TestGenerationService_Generate_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	store := new(storeMocks.MockStorage)
	f.deps.Archives = storage.NewArchives(store, time.Minute)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, errors.New("minio down"))
	f.client.On("Complete", mock.Anything, mock.Anything).Return(modelOutput(t), nil)

	res, err := f.service().Generate(context.Background(), GenerateInput{
		Screenshots: []model.Screenshot{screenshot(t, model.PageHintHomepage)},
	})
	require.NoError(t, err)
	assert.Empty(t, res.ArchiveURL)
}

func TestGenerationService_Generate_AuditFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	repo := new(repoMocks.MockGenerationRepository)
	f.deps.Repo = repo
	repo.On("Create", mock.Anything, mock.MatchedBy(func(g *model.Generation) bool {
		return g.Status == model.GenerationSucceeded && g.FileCount > 0
	})).Return(errors.New("db down"))
	f.client.On("Complete", mock.Anything, mock.Anything).Return(modelOutput(t), nil)

	_, err := f.service().Generate(context.Background(), GenerateInput{
		Screenshots: []model.Screenshot{screenshot(t, model.PageHintHomepage)},
	})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGenerationService_Get(t *testing.T) {
	f := newFixture(t)
	svc := f.service()

	_, err := svc.Get(context.Background(), "")
	assert.Equal(t, CodeInvalidInput, CodeOf(err))

	_, err = svc.Get(context.Background(), "missing")
	assert.Equal(t, CodeNotFound, CodeOf(err))

	require.NoError(t, f.repo.Create(context.Background(), &model.Generation{ID: "gen-1"}))
	_, err = svc.ArchiveURL(context.Background(), "gen-1")
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestGenerationService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := range MaxListLimit + 5 {
		require.NoError(t, f.repo.Create(ctx, &model.Generation{ID: fmt.Sprintf("gen-%03d", i)}))
	}
	svc := f.service()

	recs, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, DefaultListLimit)
	assert.Equal(t, fmt.Sprintf("gen-%03d", MaxListLimit+4), recs[0].ID)

	recs, err = svc.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	recs, err = svc.List(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, recs, MaxListLimit)
}

func TestGenerationService_List_RepositoryError(t *testing.T) {
	f := newFixture(t)
	repo := new(repoMocks.MockGenerationRepository)
	repo.On("ListRecent", mock.Anything, DefaultListLimit).Return(nil, errors.New("connection reset"))
	f.deps.Repo = repo

	_, err := f.service().List(context.Background(), -1)
	assert.ErrorContains(t, err, "list generations: connection reset")
	assert.Equal(t, CodeInternal, CodeOf(err))
}

func TestGenerationService_OpenArchive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	store := new(storeMocks.MockStorage)
	f.deps.Archives = storage.NewArchives(store, time.Minute)
	require.NoError(t, f.repo.Create(ctx, &model.Generation{ID: "gen-1", ArchiveKey: storage.ArchiveKey("gen-1")}))
	require.NoError(t, f.repo.Create(ctx, &model.Generation{ID: "gen-2"}))
	require.NoError(t, f.repo.Create(ctx, &model.Generation{ID: "gen-3", ArchiveKey: storage.ArchiveKey("gen-3")}))

	store.On("Get", mock.Anything, "archives/gen-1.zip").
		Return(io.NopCloser(strings.NewReader("PK")), storage.ObjectInfo{Key: "archives/gen-1.zip", Size: 2}, nil)
	store.On("Get", mock.Anything, "archives/gen-3.zip").
		Return(nil, storage.ObjectInfo{}, errors.New("no such key"))
	svc := f.service()

	rc, info, err := svc.OpenArchive(ctx, "gen-1")
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "PK", string(b))
	assert.Equal(t, int64(2), info.Size)

	_, _, err = svc.OpenArchive(ctx, "gen-2")
	assert.Equal(t, CodeNotFound, CodeOf(err))

	_, _, err = svc.OpenArchive(ctx, "gen-3")
	assert.ErrorContains(t, err, "open archive: no such key")

	_, _, err = svc.OpenArchive(ctx, "missing")
	assert.Equal(t, CodeNotFound, CodeOf(err))
}
