// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/filing-scout/internal/convert"
	"github.com/pdiddy/filing-scout/internal/queries"
	"github.com/pdiddy/filing-scout/pkg/types"
)

// --- fakes ---

type fakeConverter struct {
	pages []string
	err   error
}

func (f *fakeConverter) Name() string { return "fake" }

func (f *fakeConverter) Pages(context.Context, string) ([]string, error) {
	return f.pages, f.err
}

type fakeGenerator struct {
	reply string
	err   error
	reqs  []queries.CompletionRequest
}

func (f *fakeGenerator) Complete(_ context.Context, req queries.CompletionRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

type fakeSearcher struct {
	failOn map[string]error
	calls  []string
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(_ context.Context, q string, _ types.SearchConfig) ([]types.SearchResult, error) {
	f.calls = append(f.calls, q)
	if err := f.failOn[q]; err != nil {
		return nil, err
	}
	return []types.SearchResult{{Title: q + " article", URL: "https://news.example/" + q}}, nil
}

// setup writes a placeholder PDF and returns it with a config whose text
// file lives in the same temp dir.
func setup(t *testing.T) (string, types.PipelineConfig) {
	t.Helper()
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "filing.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.7"), 0o644))

	var cfg types.PipelineConfig
	cfg.Conversion.TextPath = filepath.Join(dir, "output.txt")
	return pdfPath, cfg
}

func newTestPipeline(t *testing.T, conv *fakeConverter, gen *fakeGenerator, srch *fakeSearcher, cfg types.PipelineConfig) *Pipeline {
	t.Helper()
	p, err := New(Deps{Converter: conv, Generator: gen, Searcher: srch, Log: zaptest.NewLogger(t)}, cfg, nil)
	require.NoError(t, err)
	return p
}

// --- tests ---

func TestRun_EndToEnd(t *testing.T) {
	pdfPath, cfg := setup(t)
	conv := &fakeConverter{pages: []string{"42\nPlaintiff v. Defendant\n"}}
	gen := &fakeGenerator{reply: "\nPlaintiff v. Defendant complaint\n\n  Defendant antitrust history  \n"}
	srch := &fakeSearcher{}

	p := newTestPipeline(t, conv, gen, srch, cfg)
	rep, err := p.Run(context.Background(), pdfPath)
	require.NoError(t, err)

	assert.Len(t, rep.RunID, 36)
	assert.Equal(t, 1, rep.Pages)
	text, err := os.ReadFile(cfg.Conversion.TextPath)
	require.NoError(t, err)
	assert.Equal(t, "42\nPlaintiff v. Defendant\n\f", string(text))

	assert.Equal(t, "Plaintiff v. Defendant\n", rep.Document.Text)

	require.Len(t, gen.reqs, 1)
	assert.Contains(t, gen.reqs[0].Messages[0].Content, "Court filing text:\nPlaintiff v. Defendant\n")
	assert.NotContains(t, gen.reqs[0].Messages[0].Content, "42\n")

	assert.Equal(t, []string{"Plaintiff v. Defendant complaint", "Defendant antitrust history"}, rep.Queries)
	assert.Equal(t, rep.Queries, srch.calls)
	require.Len(t, rep.Search.Groups, 2)
	assert.False(t, rep.Search.HasFailures())
}

func TestRun_ExtractionFailureMakesNoNetworkCalls(t *testing.T) {
	pdfPath, cfg := setup(t)
	gen := &fakeGenerator{reply: "q"}
	srch := &fakeSearcher{}
	p := newTestPipeline(t, &fakeConverter{err: errors.New("not a PDF file")}, gen, srch, cfg)

	_, err := p.Run(context.Background(), pdfPath)
	require.Error(t, err)

	var stage *StageError
	require.True(t, errors.As(err, &stage))
	assert.Equal(t, StageExtract, stage.Stage)

	var extErr *convert.ExtractionError
	assert.True(t, errors.As(err, &extErr))

	assert.Empty(t, gen.reqs)
	assert.Empty(t, srch.calls)
}

func TestRun_GenerationFailure(t *testing.T) {
	pdfPath, cfg := setup(t)
	boom := errors.New("Claude API returned HTTP 529")
	srch := &fakeSearcher{}
	p := newTestPipeline(t, &fakeConverter{pages: []string{"text\n"}}, &fakeGenerator{err: boom}, srch, cfg)

	_, err := p.Run(context.Background(), pdfPath)
	require.ErrorIs(t, err, boom)

	var stage *StageError
	require.True(t, errors.As(err, &stage))
	assert.Equal(t, StageGenerate, stage.Stage)
	assert.Empty(t, srch.calls)
}

func TestRun_FormatDriftReportsNoQueries(t *testing.T) {
	pdfPath, cfg := setup(t)
	srch := &fakeSearcher{}
	p := newTestPipeline(t, &fakeConverter{pages: []string{"text\n"}}, &fakeGenerator{reply: " \n\n\t"}, srch, cfg)

	rep, err := p.Run(context.Background(), pdfPath)
	require.ErrorIs(t, err, ErrNoQueries)
	assert.Equal(t, " \n\n\t", rep.RawQueries)
	assert.Empty(t, srch.calls)
}

func TestRun_SearchFailuresIsolated(t *testing.T) {
	pdfPath, cfg := setup(t)
	srch := &fakeSearcher{failOn: map[string]error{"b": errors.New("HTTP 500")}}
	p := newTestPipeline(t, &fakeConverter{pages: []string{"text\n"}}, &fakeGenerator{reply: "a\nb\nc"}, srch, cfg)

	rep, err := p.Run(context.Background(), pdfPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, srch.calls)
	assert.Len(t, rep.Search.Groups, 2)
	require.Len(t, rep.Search.Failures, 1)
	assert.Equal(t, "b", rep.Search.Failures[0].Query)
}

func TestRun_SearchFailFast(t *testing.T) {
	pdfPath, cfg := setup(t)
	cfg.Search.FailFast = true
	srch := &fakeSearcher{failOn: map[string]error{"b": errors.New("HTTP 401")}}
	p := newTestPipeline(t, &fakeConverter{pages: []string{"text\n"}}, &fakeGenerator{reply: "a\nb\nc"}, srch, cfg)

	_, err := p.Run(context.Background(), pdfPath)
	var stage *StageError
	require.True(t, errors.As(err, &stage))
	assert.Equal(t, StageSearch, stage.Stage)
	assert.Equal(t, []string{"a", "b"}, srch.calls)
}

func TestRun_QueryCapApplied(t *testing.T) {
	pdfPath, cfg := setup(t)
	cfg.Generation.MaxQueries = 2
	srch := &fakeSearcher{}
	p := newTestPipeline(t, &fakeConverter{pages: []string{"text\n"}}, &fakeGenerator{reply: "a\nb\nc\nd"}, srch, cfg)

	_, err := p.Run(context.Background(), pdfPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, srch.calls)
}

func TestRun_LogsCarryRunID(t *testing.T) {
	pdfPath, cfg := setup(t)
	core, logs := observer.New(zap.InfoLevel)
	p, err := New(Deps{
		Converter: &fakeConverter{pages: []string{"text\n"}},
		Generator: &fakeGenerator{reply: "a"},
		Searcher:  &fakeSearcher{},
		Log:       zap.New(core),
	}, cfg, nil)
	require.NoError(t, err)

	rep, err := p.Run(context.Background(), pdfPath)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, rep.RunID, e.ContextMap()["run_id"], e.Message)
	}
}

func TestNew_MissingDeps(t *testing.T) {
	_, err := New(Deps{Converter: &fakeConverter{}, Searcher: &fakeSearcher{}}, types.PipelineConfig{}, nil)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "no completion backend")
}

func TestRun_RequiresConverterAndSearcher(t *testing.T) {
	pdfPath, cfg := setup(t)
	gen := &fakeGenerator{reply: "a"}
	p, err := New(Deps{Generator: gen}, cfg, nil)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), pdfPath)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "no PDF converter")
	assert.Contains(t, err.Error(), "no search backend")
	assert.Empty(t, gen.reqs)
}

func TestQueries_WithoutSearcher(t *testing.T) {
	pdfPath, cfg := setup(t)
	core, logs := observer.New(zap.InfoLevel)
	p, err := New(Deps{
		Converter: &fakeConverter{pages: []string{"42\nPlaintiff v. Defendant\n"}},
		Generator: &fakeGenerator{reply: "a\nb"},
		Log:       zap.New(core),
	}, cfg, nil)
	require.NoError(t, err)

	rep, err := p.Queries(context.Background(), pdfPath)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Pages)
	assert.Equal(t, "Plaintiff v. Defendant\n", rep.Document.Text)
	assert.Equal(t, []string{"a", "b"}, rep.Queries)
	assert.Empty(t, rep.Search.Groups)

	entries := logs.All()
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, rep.RunID, e.ContextMap()["run_id"], e.Message)
	}
}

func TestQueriesFromText(t *testing.T) {
	txtPath := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("1\nEpic v. Apple\n\f2\n"), 0o644))
	gen := &fakeGenerator{reply: "Epic v. Apple ruling"}
	p, err := New(Deps{Generator: gen}, types.PipelineConfig{}, nil)
	require.NoError(t, err)

	rep, err := p.QueriesFromText(context.Background(), txtPath)
	require.NoError(t, err)
	assert.Equal(t, txtPath, rep.TextPath)
	assert.Equal(t, "Epic v. Apple\n", rep.Document.Text)
	assert.Equal(t, []string{"Epic v. Apple ruling"}, rep.Queries)
	require.Len(t, gen.reqs, 1)
}

func TestQueriesFromText_NoQueriesKeepsRawReply(t *testing.T) {
	txtPath := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("text\n"), 0o644))
	p, err := New(Deps{Generator: &fakeGenerator{reply: "\n\n"}}, types.PipelineConfig{}, nil)
	require.NoError(t, err)

	rep, err := p.QueriesFromText(context.Background(), txtPath)
	require.ErrorIs(t, err, ErrNoQueries)
	assert.Equal(t, "\n\n", rep.RawQueries)
}

// staticGenerator is safe for concurrent use.
type staticGenerator string

func (g staticGenerator) Complete(context.Context, queries.CompletionRequest) (string, error) {
	return string(g), nil
}

func TestQueriesFromText_ConcurrentRunsKeepTheirRunID(t *testing.T) {
	txtPath := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("text\n"), 0o644))
	core, logs := observer.New(zap.InfoLevel)
	p, err := New(Deps{Generator: staticGenerator("a"), Log: zap.New(core)}, types.PipelineConfig{}, nil)
	require.NoError(t, err)

	const runs = 8
	reps := make([]*Report, runs)
	var wg sync.WaitGroup
	for i := range runs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep, err := p.QueriesFromText(context.Background(), txtPath)
			assert.NoError(t, err)
			reps[i] = rep
		}()
	}
	wg.Wait()

	perRun := map[any]int{}
	for _, e := range logs.All() {
		perRun[e.ContextMap()["run_id"]]++
	}
	require.Len(t, perRun, runs)
	for _, rep := range reps {
		require.NotNil(t, rep)
		assert.Equal(t, 2, perRun[rep.RunID], rep.RunID)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	p, err := New(Deps{Converter: &fakeConverter{}, Generator: &fakeGenerator{}, Searcher: &fakeSearcher{}}, types.PipelineConfig{}, nil)
	require.NoError(t, err)

	assert.Equal(t, types.DefaultTextPath, p.cfg.Conversion.TextPath)
	assert.Equal(t, types.DefaultModel, p.cfg.Generation.Model)
	assert.Equal(t, types.DefaultNumResults, p.cfg.Search.NumResults)
	assert.Equal(t, queries.DefaultTopics, p.topics)
}
