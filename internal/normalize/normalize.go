// Package normalize turns an extracted, form-feed delimited text file into a
// single document string, dropping lines that hold nothing but a page number.
//
// The digit-only heuristic targets pagination artifacts of the extractor. It
// also drops legitimate body lines that are purely numeric, such as a docket
// number printed on its own line.
package normalize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when the text file does not decode as UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Result is a normalized document plus line statistics.
type Result struct {
	Text    string
	Kept    int
	Dropped int
}

// File normalizes the text file at path.
func File(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening text file: %w", err)
	}
	defer f.Close()

	res, err := Reader(f)
	if err != nil {
		return Result{}, fmt.Errorf("normalizing %s: %w", path, err)
	}
	return res, nil
}

// Reader normalizes text read from r. Kept lines are concatenated in order
// with their original terminators. Form feeds are page delimiters and are
// removed; a line left empty by that removal is dropped.
func Reader(r io.Reader) (Result, error) {
	br := bufio.NewReader(r)
	var (
		b      strings.Builder
		res    Result
		lineNo int
	)

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNo++
			if !utf8.ValidString(line) {
				return Result{}, fmt.Errorf("line %d: %w", lineNo, ErrInvalidUTF8)
			}

			line = strings.ReplaceAll(line, "\f", "")
			switch {
			case line == "":
			case IsPageNumber(line):
				res.Dropped++
			default:
				b.WriteString(line)
				res.Kept++
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("reading line %d: %w", lineNo+1, err)
		}
	}

	res.Text = b.String()
	return res, nil
}

// IsPageNumber reports whether line, with surrounding whitespace removed,
// is non-empty and consists only of decimal digits.
func IsPageNumber(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
