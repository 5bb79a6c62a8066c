// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/filing-scout/internal/container"
)

// ImagePdftotext is the local image used by PdftotextConverter. It must
// provide poppler's pdftotext on PATH with no entrypoint override.
const ImagePdftotext = "pdftotext:latest"

// pdftotextArgs reads the PDF from stdin and writes UTF-8 text to stdout.
// pdftotext already ends every page with a form feed.
var pdftotextArgs = []string{"pdftotext", "-enc", "UTF-8", "-", "-"}

// PdftotextConverter extracts text by piping the PDF through poppler's
// pdftotext inside a container.
type PdftotextConverter struct {
	runtime container.Runtime
}

// NewPdftotextConverter verifies that the pdftotext image exists in rt.
func NewPdftotextConverter(rt container.Runtime) (*PdftotextConverter, error) {
	if err := rt.ImageExists(ImagePdftotext); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &PdftotextConverter{runtime: rt}, nil
}

// Name returns the backend identifier.
func (p *PdftotextConverter) Name() string { return "pdftotext" }

// Pages runs pdftotext and splits its output on form feeds.
func (p *PdftotextConverter) Pages(ctx context.Context, pdfPath string) ([]string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, &ExtractionError{Path: pdfPath, Err: err}
	}
	defer f.Close()

	var out bytes.Buffer
	if err := p.runtime.Run(ctx, ImagePdftotext, pdftotextArgs, f, &out); err != nil {
		return nil, &ExtractionError{Path: pdfPath, Err: err}
	}

	return splitPages(out.String()), nil
}

// splitPages splits form-feed terminated text into pages. A trailing
// form feed terminates the last page rather than starting an empty one.
func splitPages(text string) []string {
	if text == "" {
		return nil
	}
	pages := strings.Split(text, string(PageDelimiter))
	if pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
