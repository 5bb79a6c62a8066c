// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/filing-scout/internal/httputil"
	"github.com/pdiddy/filing-scout/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	reply string
	err   error
	got   []CompletionRequest
}

func (m *mockBackend) Complete(_ context.Context, req CompletionRequest) (string, error) {
	m.got = append(m.got, req)
	return m.reply, m.err
}

// --- request construction ---

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest("Epic Games, Inc. v. Apple Inc.\n", []string{"Parties", "Case law"}, types.GenerationConfig{})
	require.NoError(t, err)

	assert.Equal(t, types.DefaultModel, req.Model)
	assert.Equal(t, types.DefaultMaxTokens, req.MaxTokens)
	assert.Equal(t, systemPrompt, req.System)
	assert.Equal(t, []string{"</summary>"}, req.StopSequences)

	require.Len(t, req.Messages, 2)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Parties\nCase law\n")
	assert.True(t, strings.HasSuffix(req.Messages[0].Content, "Court filing text:\nEpic Games, Inc. v. Apple Inc.\n\n"))
	assert.Equal(t, Message{Role: "assistant", Content: "<summary>"}, req.Messages[1])
}

func TestBuildRequest_ConfigOverrides(t *testing.T) {
	cfg := types.GenerationConfig{Model: "claude-test", MaxTokens: 250}
	req, err := BuildRequest("text", nil, cfg)
	require.NoError(t, err)

	assert.Equal(t, "claude-test", req.Model)
	assert.Equal(t, 250, req.MaxTokens)
	for _, topic := range DefaultTopics {
		assert.Contains(t, req.Messages[0].Content, topic)
	}
}

func TestBuildRequest_EmptyText(t *testing.T) {
	_, err := BuildRequest(" \n\t", DefaultTopics, types.GenerationConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document text is empty")
}

func TestPromptInstructions(t *testing.T) {
	prompt, err := renderPrompt("body", DefaultTopics)
	require.NoError(t, err)

	for _, want := range []string{
		"formatted as article titles",
		"do not include categories",
		"no blank lines",
		"You should only output this list.",
		"not explicitly stated in the document",
	} {
		assert.Contains(t, prompt, want)
	}
}

// --- Generate ---

func TestGenerate(t *testing.T) {
	backend := &mockBackend{reply: "Epic v. Apple background\nJudge Gonzalez Rogers antitrust rulings"}

	raw, err := Generate(context.Background(), backend, "filing", DefaultTopics, types.GenerationConfig{})
	require.NoError(t, err)
	assert.Equal(t, backend.reply, raw)
	require.Len(t, backend.got, 1)
}

func TestGenerate_BackendError(t *testing.T) {
	backend := &mockBackend{err: errors.New("connection reset")}

	_, err := Generate(context.Background(), backend, "filing", DefaultTopics, types.GenerationConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating queries")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Len(t, backend.got, 1, "no retry on failure")
}

// --- Claude backend ---

func withClaudeServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() {
		claudeAPIURL = old
		ts.Close()
	})
	return ts
}

func TestClaudeBackend_Complete(t *testing.T) {
	var captured map[string]any
	var headers http.Header
	ts := withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"\nQuery one\nQuery two\n"}],"stop_reason":"stop_sequence"}`))
	})

	req, err := BuildRequest("filing text", DefaultTopics, types.GenerationConfig{})
	require.NoError(t, err)

	c := &ClaudeBackend{APIKey: "sk-ant-test", Client: ts.Client(), UserAgent: "filing-scout/test"}
	got, err := c.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "\nQuery one\nQuery two\n", got)

	assert.Equal(t, "sk-ant-test", headers.Get("x-api-key"))
	assert.Equal(t, "filing-scout/test", headers.Get("User-Agent"))
	assert.Equal(t, anthropicVersion, headers.Get("anthropic-version"))

	assert.Equal(t, types.DefaultModel, captured["model"])
	assert.Equal(t, float64(types.DefaultMaxTokens), captured["max_tokens"])
	assert.Equal(t, systemPrompt, captured["system"])
	assert.Equal(t, []any{"</summary>"}, captured["stop_sequences"])

	msgs, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	last := msgs[1].(map[string]any)
	assert.Equal(t, "assistant", last["role"])
	assert.Equal(t, "<summary>", last["content"])
}

func TestClaudeBackend_SkipsNonTextBlocks(t *testing.T) {
	ts := withClaudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[{"type":"thinking","text":"hmm"},{"type":"text","text":"a\n"},{"type":"text","text":"b"}]}`))
	})

	c := &ClaudeBackend{APIKey: "k", Client: ts.Client()}
	got, err := c.Complete(context.Background(), CompletionRequest{Model: "m", MaxTokens: 1})
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestClaudeBackend_EmptyContent(t *testing.T) {
	ts := withClaudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[],"stop_reason":"max_tokens"}`))
	})

	c := &ClaudeBackend{APIKey: "k", Client: ts.Client()}
	_, err := c.Complete(context.Background(), CompletionRequest{Model: "m", MaxTokens: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestClaudeBackend_AuthFailure(t *testing.T) {
	ts := withClaudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	c := &ClaudeBackend{APIKey: "bad", Client: ts.Client()}
	_, err := c.Complete(context.Background(), CompletionRequest{Model: "m", MaxTokens: 1})
	require.Error(t, err)

	var apiErr *httputil.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

// --- topics ---

func TestLoadTopics(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "topics.yaml")
	require.NoError(t, os.WriteFile(good, []byte("topics:\n  - Parties\n  - \"  \"\n  - Cited case law\n"), 0o644))
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("topics: []\n"), 0o644))
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("topics: [unclosed\n"), 0o644))

	tests := []struct {
		name    string
		path    string
		want    []string
		wantErr string
	}{
		{"empty path uses defaults", "", DefaultTopics, ""},
		{"custom topics, blanks dropped", good, []string{"Parties", "Cited case law"}, ""},
		{"no topics", empty, nil, "defines no topics"},
		{"invalid yaml", broken, nil, "parsing topics file"},
		{"missing file", filepath.Join(dir, "nope.yaml"), nil, "reading topics file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadTopics(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadTopics_DefaultsAreCopied(t *testing.T) {
	want := slices.Clone(DefaultTopics)

	got, err := LoadTopics("")
	require.NoError(t, err)
	got[0] = "overwritten"
	_ = append(got[:1], "appended")

	assert.Equal(t, want, DefaultTopics)
}
