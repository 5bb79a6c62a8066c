// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validate parses and validates the PDF structure with pdfcpu and returns
// its page count. It is stricter than either extraction backend and is only
// run when strict conversion is configured.
func Validate(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, &ExtractionError{Path: pdfPath, Err: err}
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, &ExtractionError{Path: pdfPath, Err: err}
	}
	return ctx.PageCount, nil
}

// strictConverter validates the PDF with pdfcpu before delegating.
type strictConverter struct {
	Converter
}

// Strict wraps c so every PDF is validated before extraction, and the
// extracted page count must match the validated one.
func Strict(c Converter) Converter {
	return strictConverter{Converter: c}
}

func (s strictConverter) Name() string { return s.Converter.Name() + "+strict" }

func (s strictConverter) Pages(ctx context.Context, pdfPath string) ([]string, error) {
	n, err := Validate(pdfPath)
	if err != nil {
		return nil, err
	}
	pages, err := s.Converter.Pages(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	if len(pages) != n {
		return nil, &ExtractionError{
			Path: pdfPath,
			Err:  fmt.Errorf("%s extracted %d pages, document has %d", s.Converter.Name(), len(pages), n),
		}
	}
	return pages, nil
}
