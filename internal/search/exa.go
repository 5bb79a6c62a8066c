// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/filing-scout/internal/httputil"
	"github.com/pdiddy/filing-scout/pkg/types"
)

// exaAPIURL is the Exa search endpoint. Declared as a var so tests can
// substitute an httptest server.
var exaAPIURL = "https://api.exa.ai/search"

// ExaBackend queries the Exa web-search API.
type ExaBackend struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// Name returns the backend identifier.
func (b *ExaBackend) Name() string { return "exa" }

// Search sends one search request for query.
func (b *ExaBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty Exa query")
	}

	numResults := cfg.NumResults
	if numResults <= 0 {
		numResults = types.DefaultNumResults
	}
	searchType := cfg.Type
	if searchType == "" {
		searchType = types.DefaultSearchType
	}

	body := exaRequest{
		Query:         query,
		NumResults:    numResults,
		Type:          searchType,
		UseAutoprompt: cfg.UseAutoprompt,
	}
	headers := map[string]string{
		"x-api-key":  b.APIKey,
		"User-Agent": b.UserAgent,
	}

	var resp exaResponse
	if err := httputil.PostJSON(ctx, b.Client, "Exa API", exaAPIURL, headers, body, &resp); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, types.SearchResult{
			ID:            r.ID,
			Title:         r.Title,
			URL:           r.URL,
			PublishedDate: r.PublishedDate,
			Author:        r.Author,
			Score:         r.Score,
		})
	}
	return results, nil
}

// Exa API JSON structures.
type exaRequest struct {
	Query         string `json:"query"`
	NumResults    int    `json:"numResults"`
	Type          string `json:"type"`
	UseAutoprompt bool   `json:"useAutoprompt"`
}

type exaResponse struct {
	RequestID string      `json:"requestId"`
	Results   []exaResult `json:"results"`
}

type exaResult struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	PublishedDate string  `json:"publishedDate"`
	Author        string  `json:"author"`
	Score         float64 `json:"score"`
}
