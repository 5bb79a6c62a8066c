// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeConverter reads PDFs in-process with ledongthuc/pdf.
type NativeConverter struct{}

// Name returns the backend identifier.
func (NativeConverter) Name() string { return "native" }

// Pages returns the plain text of every page. Pages without a content
// dictionary produce an empty string so page numbering stays aligned.
func (NativeConverter) Pages(ctx context.Context, pdfPath string) (pages []string, err error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, &ExtractionError{Path: pdfPath, Err: err}
	}
	defer f.Close()

	// The reader panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = &ExtractionError{Path: pdfPath, Err: fmt.Errorf("malformed PDF: %v", rec)}
		}
	}()

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText(page.Content().Text))
	}
	return pages, nil
}

// pageText joins glyphs in content-stream order. A baseline move starts a
// new line and a horizontal jump past the previous glyph inserts a space.
// Every line, including the last, ends in a newline.
func pageText(glyphs []pdf.Text) string {
	var b strings.Builder
	var prev pdf.Text
	open := false
	for _, g := range glyphs {
		// TJ arrays end with a synthetic newline glyph; layout comes from Y.
		if g.S == "\n" || g.S == "\r" || g.S == "" {
			continue
		}
		if open {
			switch {
			case math.Abs(g.Y-prev.Y) > lineTolerance(prev, g):
				b.WriteByte('\n')
			case g.X > prev.X+prev.W+0.2*math.Max(prev.FontSize, 1) && !strings.HasSuffix(prev.S, " ") && g.S != " ":
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
		prev = g
		open = true
	}
	if open {
		b.WriteByte('\n')
	}
	return b.String()
}

// lineTolerance is how far the baseline may drift before two glyphs count
// as separate lines. Superscripts and rounding stay on the same line.
func lineTolerance(a, b pdf.Text) float64 {
	return math.Max(1, 0.5*math.Min(a.FontSize, b.FontSize))
}
