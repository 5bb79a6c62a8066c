// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queries asks a language model for web-search queries that probe the
// background of a court filing, and parses the free-form reply into a bounded,
// de-duplicated query list.
package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/filing-scout/pkg/types"
)

const (
	// openTag primes the assistant turn; the model writes the query list
	// inside it and stops at closeTag.
	openTag  = "<summary>"
	closeTag = "</summary>"
)

// Backend abstracts the completion service so tests can supply a mock.
type Backend interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Message is one turn of the completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries everything the completion service needs for
// one round trip.
type CompletionRequest struct {
	Model         string
	MaxTokens     int
	System        string
	Messages      []Message
	StopSequences []string
}

// BuildRequest assembles the completion request for one document: the
// rendered prompt as the user turn, an assistant turn primed with openTag,
// and closeTag as the stop sequence.
func BuildRequest(text string, topics []string, cfg types.GenerationConfig) (CompletionRequest, error) {
	if strings.TrimSpace(text) == "" {
		return CompletionRequest{}, fmt.Errorf("document text is empty")
	}
	if len(topics) == 0 {
		topics = DefaultTopics
	}

	prompt, err := renderPrompt(text, topics)
	if err != nil {
		return CompletionRequest{}, fmt.Errorf("rendering prompt: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = types.DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = types.DefaultMaxTokens
	}

	return CompletionRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []Message{
			{Role: "user", Content: prompt},
			{Role: "assistant", Content: openTag},
		},
		StopSequences: []string{closeTag},
	}, nil
}

// Generate sends one prompt built from text and topics to backend and
// returns the raw response text. The reply is expected, not guaranteed, to
// hold one query per line.
func Generate(ctx context.Context, backend Backend, text string, topics []string, cfg types.GenerationConfig) (string, error) {
	req, err := BuildRequest(text, topics, cfg)
	if err != nil {
		return "", err
	}

	raw, err := backend.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generating queries: %w", err)
	}
	return raw, nil
}
