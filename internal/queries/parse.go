// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queries

import (
	"regexp"
	"strings"

	"github.com/pdiddy/filing-scout/pkg/types"
)

// Split splits raw on delim (newline when empty), trims each segment, and
// drops segments that are blank.
func Split(raw, delim string) []string {
	if delim == "" {
		delim = "\n"
	}
	var out []string
	for _, seg := range strings.Split(raw, delim) {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// ParseOptions tunes Parse.
type ParseOptions struct {
	// Delimiter separates queries (default newline).
	Delimiter string

	// MaxQueries caps the result. Zero uses types.DefaultMaxQueries;
	// a negative value disables the cap.
	MaxQueries int

	// KeepDuplicates disables case-insensitive de-duplication.
	KeepDuplicates bool
}

// listMarker matches bullets and numbering a model may put in front of a
// query despite instructions: "- ", "* ", "• ", "1. ", "12) ".
var listMarker = regexp.MustCompile(`^(?:[-*•]|\d{1,3}[.)])(?:\s+|$)`)

// Parse is the tolerant counterpart of Split for model output. Beyond
// splitting and trimming, it strips stray <summary> tags and list markers,
// drops duplicates (first occurrence wins), and caps the list so a drifting
// reply cannot fan out into unbounded search requests.
func Parse(raw string, opts ParseOptions) []string {
	raw = strings.ReplaceAll(raw, openTag, "\n")
	raw = strings.ReplaceAll(raw, closeTag, "\n")

	limit := opts.MaxQueries
	if limit == 0 {
		limit = types.DefaultMaxQueries
	}

	seen := make(map[string]bool)
	var out []string
	for _, q := range Split(raw, opts.Delimiter) {
		q = strings.TrimSpace(listMarker.ReplaceAllString(q, ""))
		if q == "" {
			continue
		}
		if !opts.KeepDuplicates {
			key := strings.ToLower(strings.Join(strings.Fields(q), " "))
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, q)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
