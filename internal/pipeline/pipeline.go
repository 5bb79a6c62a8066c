// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the four filing-scout stages in sequence: PDF text
// extraction, normalization, query generation, and batch search. Every
// external dependency is injected so each stage can be exercised with fakes.
// A pipeline built without a converter or searcher can still run the stages
// that do not need them.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/filing-scout/internal/convert"
	"github.com/pdiddy/filing-scout/internal/normalize"
	"github.com/pdiddy/filing-scout/internal/queries"
	"github.com/pdiddy/filing-scout/internal/search"
	"github.com/pdiddy/filing-scout/pkg/types"
)

// Pipeline holds the stage dependencies and configuration for one run.
type Pipeline struct {
	converter convert.Converter
	generator queries.Backend
	searcher  search.Backend
	cfg       types.PipelineConfig
	topics    []string
	log       *zap.Logger
}

// Deps are the external collaborators of a Pipeline.
type Deps struct {
	Converter convert.Converter
	Generator queries.Backend
	Searcher  search.Backend
	Log       *zap.Logger
}

// New validates deps and returns a ready Pipeline. A completion backend is
// always required; Converter and Searcher may be nil when only the stages
// before them are run. Unset config fields take their defaults; a nil topic
// list uses queries.DefaultTopics.
func New(deps Deps, cfg types.PipelineConfig, topics []string) (*Pipeline, error) {
	if deps.Generator == nil {
		return nil, &ConfigError{Err: errors.New("no completion backend")}
	}

	cfg.ApplyDefaults()
	if len(topics) == 0 {
		topics = queries.DefaultTopics
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Pipeline{
		converter: deps.Converter,
		generator: deps.Generator,
		searcher:  deps.Searcher,
		cfg:       cfg,
		topics:    topics,
		log:       log,
	}, nil
}

// Report collects every stage's output for one run.
type Report struct {
	RunID      string
	PDFPath    string
	TextPath   string
	Pages      int
	Document   normalize.Result
	RawQueries string
	Queries    []string
	Search     search.BatchOutput
}

// Run executes all four stages on pdfPath. Extraction, normalization, and
// generation failures abort the run. Search failures are isolated per query
// and surface through Report.Search unless search.fail_fast is configured.
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (*Report, error) {
	if err := p.require(true, true); err != nil {
		return nil, err
	}
	rep, log := p.start(pdfPath)

	if err := p.extract(ctx, log, rep); err != nil {
		return rep, err
	}
	if err := p.prepare(ctx, log, rep); err != nil {
		return rep, err
	}

	out, err := p.search(ctx, log, rep.Queries)
	rep.Search = out
	if err != nil {
		return rep, err
	}
	return rep, nil
}

// Queries extracts pdfPath, normalizes the text, and generates search
// queries without searching them.
func (p *Pipeline) Queries(ctx context.Context, pdfPath string) (*Report, error) {
	if err := p.require(true, false); err != nil {
		return nil, err
	}
	rep, log := p.start(pdfPath)

	if err := p.extract(ctx, log, rep); err != nil {
		return rep, err
	}
	if err := p.prepare(ctx, log, rep); err != nil {
		return rep, err
	}
	return rep, nil
}

// QueriesFromText generates search queries from an already extracted text
// file. Form feeds and page-number lines are handled as in Queries.
func (p *Pipeline) QueriesFromText(ctx context.Context, txtPath string) (*Report, error) {
	rep, log := p.start("")
	rep.TextPath = txtPath

	if err := p.prepare(ctx, log, rep); err != nil {
		return rep, err
	}
	return rep, nil
}

func (p *Pipeline) require(converter, searcher bool) error {
	var missing []error
	if converter && p.converter == nil {
		missing = append(missing, errors.New("no PDF converter"))
	}
	if searcher && p.searcher == nil {
		missing = append(missing, errors.New("no search backend"))
	}
	if len(missing) > 0 {
		return &ConfigError{Err: errors.Join(missing...)}
	}
	return nil
}

// start allocates the report for one run and a logger tagged with its ID.
func (p *Pipeline) start(pdfPath string) (*Report, *zap.Logger) {
	rep := &Report{RunID: uuid.NewString(), PDFPath: pdfPath, TextPath: p.cfg.Conversion.TextPath}
	return rep, p.log.With(zap.String("run_id", rep.RunID))
}

// extract writes the form-feed delimited text of rep.PDFPath to
// rep.TextPath and records the page count.
func (p *Pipeline) extract(ctx context.Context, log *zap.Logger, rep *Report) error {
	start := time.Now()
	pages, err := convert.ConvertFile(ctx, p.converter, rep.PDFPath, rep.TextPath)
	if err != nil {
		return stageErr(StageExtract, err)
	}
	rep.Pages = pages
	log.Info("extracted text",
		zap.String("backend", p.converter.Name()),
		zap.String("pdf", rep.PDFPath),
		zap.String("text", rep.TextPath),
		zap.Int("pages", pages),
		zap.Duration("took", time.Since(start)))
	return nil
}

// prepare normalizes rep.TextPath and generates queries from the result.
func (p *Pipeline) prepare(ctx context.Context, log *zap.Logger, rep *Report) error {
	doc, err := normalize.File(rep.TextPath)
	if err != nil {
		return stageErr(StageNormalize, err)
	}
	rep.Document = doc
	log.Info("normalized text",
		zap.Int("kept_lines", doc.Kept),
		zap.Int("dropped_lines", doc.Dropped),
		zap.Int("chars", len(doc.Text)))

	start := time.Now()
	raw, err := queries.Generate(ctx, p.generator, doc.Text, p.topics, p.cfg.Generation)
	if err != nil {
		return stageErr(StageGenerate, err)
	}
	rep.RawQueries = raw

	qs := queries.Parse(raw, queries.ParseOptions{MaxQueries: p.cfg.Generation.MaxQueries})
	if len(qs) == 0 {
		return stageErr(StageGenerate, ErrNoQueries)
	}
	rep.Queries = qs
	log.Info("generated queries",
		zap.String("model", p.cfg.Generation.Model),
		zap.Int("queries", len(qs)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// search runs the batch search stage over qs.
func (p *Pipeline) search(ctx context.Context, log *zap.Logger, qs []string) (search.BatchOutput, error) {
	start := time.Now()
	out, err := search.Batch(ctx, p.searcher, qs, p.cfg.Search, log)
	log.Info("searched",
		zap.String("backend", p.searcher.Name()),
		zap.Int("issued", out.Issued()),
		zap.Int("failed", len(out.Failures)),
		zap.Duration("took", time.Since(start)))
	if err != nil {
		return out, stageErr(StageSearch, err)
	}
	return out, nil
}
