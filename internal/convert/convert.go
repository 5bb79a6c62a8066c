// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts per-page text from a PDF and writes it as a UTF-8
// text file in which every page is followed by a form feed (0x0C).
// Backends are pluggable: an in-process reader and a container-based
// pdftotext run.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// PageDelimiter separates pages in the extracted text file.
const PageDelimiter = '\f'

// Converter returns the plain text of each page of a PDF, in page order.
type Converter interface {
	Name() string
	Pages(ctx context.Context, pdfPath string) ([]string, error)
}

// ExtractionError reports a PDF that is missing, unreadable, or not a PDF.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ConvertFile extracts pdfPath with c and writes the delimited text to
// txtPath, returning the page count. The text file is written to a
// temporary sibling and renamed into place, so a failed run leaves no
// partial output behind.
func ConvertFile(ctx context.Context, c Converter, pdfPath, txtPath string) (int, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return 0, &ExtractionError{Path: pdfPath, Err: err}
	}

	pages, err := c.Pages(ctx, pdfPath)
	if err != nil {
		var extErr *ExtractionError
		if errors.As(err, &extErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, &ExtractionError{Path: pdfPath, Err: err}
	}

	if err := writePages(txtPath, pages); err != nil {
		return 0, err
	}
	return len(pages), nil
}

// writePages writes each page followed by PageDelimiter. Invalid UTF-8 in
// page text is replaced with U+FFFD so the file always decodes.
func writePages(txtPath string, pages []string) (err error) {
	dir := filepath.Dir(txtPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".filing-scout-*.txt")
	if err != nil {
		return fmt.Errorf("creating temp text file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	for _, page := range pages {
		if !utf8.ValidString(page) {
			page = strings.ToValidUTF8(page, "\uFFFD")
		}
		if _, err = tmp.WriteString(page); err != nil {
			return fmt.Errorf("writing %s: %w", txtPath, err)
		}
		if _, err = tmp.Write([]byte{PageDelimiter}); err != nil {
			return fmt.Errorf("writing %s: %w", txtPath, err)
		}
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", txtPath, err)
	}
	if err = os.Rename(tmp.Name(), txtPath); err != nil {
		return fmt.Errorf("renaming text file into place: %w", err)
	}
	return nil
}
