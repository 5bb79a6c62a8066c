// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search issues generated queries against a web-search service one at
// a time, in order, and reports the results as "- title: url" lines.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/filing-scout/pkg/types"
)

// Backend searches a single web-search service.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// BatchOutput holds one result group per successful query and one failure
// per failed query, both in query order.
type BatchOutput struct {
	Groups   []types.ResultGroup
	Failures []types.QueryFailure
	Skipped  int
}

// Issued returns the number of search requests sent.
func (o BatchOutput) Issued() int {
	return len(o.Groups) + len(o.Failures)
}

// HasFailures reports whether any query failed.
func (o BatchOutput) HasFailures() bool {
	return len(o.Failures) > 0
}

// Err joins all query failures, or returns nil.
func (o BatchOutput) Err() error {
	if len(o.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(o.Failures))
	for i, f := range o.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Batch searches each non-blank query in order, one request per query.
// A failed query is recorded and logged and the batch continues, unless
// cfg.FailFast is set, in which case the first failure is returned along
// with the output gathered so far. A cancelled context stops the batch.
func Batch(ctx context.Context, backend Backend, queries []string, cfg types.SearchConfig, log *zap.Logger) (BatchOutput, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var out BatchOutput
	for i, q := range queries {
		if strings.TrimSpace(q) == "" {
			out.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		results, err := backend.Search(ctx, q, cfg)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			failure := types.QueryFailure{Query: q, Err: err}
			out.Failures = append(out.Failures, failure)
			log.Warn("search failed",
				zap.String("backend", backend.Name()),
				zap.Int("index", i),
				zap.String("query", q),
				zap.Error(err))
			if cfg.FailFast {
				return out, fmt.Errorf("searching %q: %w", q, err)
			}
			continue
		}

		log.Debug("search done",
			zap.String("backend", backend.Name()),
			zap.Int("index", i),
			zap.String("query", q),
			zap.Int("results", len(results)))
		out.Groups = append(out.Groups, types.ResultGroup{Query: q, Results: results})
	}
	return out, nil
}

// ReportHeader precedes the result lines when a header is requested.
const ReportHeader = "\nShowing Results:\n"

// FormatReport writes "- {title}: {url}" for every result, in group order
// then result order.
func FormatReport(groups []types.ResultGroup, w io.Writer, header bool) error {
	if header {
		if _, err := io.WriteString(w, ReportHeader); err != nil {
			return err
		}
	}
	for _, g := range groups {
		for _, r := range g.Results {
			if _, err := fmt.Fprintf(w, "- %s: %s\n", r.Title, r.URL); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatFailures writes a summary of failed queries.
func FormatFailures(failures []types.QueryFailure, w io.Writer) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "%d quer%s failed:\n", len(failures), plural(len(failures), "y", "ies"))
	for _, f := range failures {
		fmt.Fprintf(w, "  %q: %v\n", f.Query, f.Err)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
