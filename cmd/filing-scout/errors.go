// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/pdiddy/filing-scout/internal/httputil"
	"github.com/pdiddy/filing-scout/internal/pipeline"
	"github.com/pdiddy/filing-scout/internal/search"
	"github.com/pdiddy/filing-scout/internal/secrets"
)

// batchError reports a search batch in which some queries failed. The
// individual failures are reachable through errors.As.
type batchError struct {
	out search.BatchOutput
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d searches failed", len(e.out.Failures), e.out.Issued())
}

func (e *batchError) Unwrap() error { return e.out.Err() }

// errorHint suggests a next step for failures a user can act on.
func errorHint(err error) string {
	var missing *secrets.MissingError
	if errors.As(err, &missing) {
		return "hint: export the keys, add them to .env, or write them to .secrets/" +
			secrets.KeyAnthropic + " and .secrets/" + secrets.KeyExa
	}

	var apiErr *httputil.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Unauthorized():
			return fmt.Sprintf("hint: %s rejected the API key; check %s and %s",
				apiErr.Service, secrets.EnvAnthropic, secrets.EnvExa)
		case apiErr.RateLimited():
			return fmt.Sprintf("hint: %s is rate limiting requests; wait and run again", apiErr.Service)
		}
	}

	if errors.Is(err, pipeline.ErrNoQueries) {
		return "hint: rerun the queries subcommand with --raw to inspect the model reply"
	}
	return ""
}
