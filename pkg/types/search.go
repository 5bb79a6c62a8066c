// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the filing-scout pipeline:
// search results grouped per query, query failures, and stage configuration.
package types

// SearchResult is a single hit returned by the web-search service for one query.
type SearchResult struct {
	// ID is the search service's identifier for the document (often the URL).
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Title is the page title as returned by the search service.
	Title string `json:"title" yaml:"title"`

	// URL is the address of the result.
	URL string `json:"url" yaml:"url"`

	// PublishedDate is the publication date string reported by the service, if any.
	PublishedDate string `json:"published_date,omitempty" yaml:"published_date,omitempty"`

	// Author is the byline reported by the service, if any.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Score is the service's relevance score. Zero when not reported.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// ResultGroup holds the results of one issued query, in service order.
// Groups are never merged; identical URLs may appear in several groups.
type ResultGroup struct {
	Query   string         `json:"query" yaml:"query"`
	Results []SearchResult `json:"results" yaml:"results"`
}

// QueryFailure records a query whose search request failed.
type QueryFailure struct {
	Query string `json:"query" yaml:"query"`
	Err   error  `json:"-" yaml:"-"`
}

// Error returns the failure message with its query.
func (f QueryFailure) Error() string {
	return f.Query + ": " + f.Err.Error()
}

// Unwrap returns the underlying search error.
func (f QueryFailure) Unwrap() error { return f.Err }
