// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queries

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/filing-scout/internal/httputil"
)

const systemPrompt = "You are a legal analyst specializing in corporate case law. " +
	"You are to generate the names of internet articles that will produce background on the filing."

// queryPromptTmpl is the user turn sent with every filing. The topic list
// is joined one per line.
var queryPromptTmpl = template.Must(template.New("queries").Parse(`Generate google search queries that will tell us more about the background of this court filing. The queries should be formatted as article titles. Focus on these key aspects:

{{.Topics}}

Provide queries in the form of potential article titles, separated by new line characters, do not include categories, each query should be on its own line with no blank lines. For example:

query1
query2
query3
etc.

You should only output this list.

If any information is not explicitly stated in the document that you think is important, please generate a potential article title that would help us find out more information.

Court filing text:
{{.Text}}
`))

func renderPrompt(text string, topics []string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Topics string
		Text   string
	}{
		Topics: strings.Join(topics, "\n"),
		Text:   text,
	}
	if err := queryPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// claudeAPIURL is the Claude Messages endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const anthropicVersion = "2023-06-01"

// ClaudeBackend calls the Anthropic Messages API.
type ClaudeBackend struct {
	APIKey    string
	Client    *http.Client
	UserAgent string
}

type claudeRequest struct {
	Model         string    `json:"model"`
	MaxTokens     int       `json:"max_tokens"`
	System        string    `json:"system,omitempty"`
	Messages      []Message `json:"messages"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends req and returns the concatenated text blocks of the reply.
func (c *ClaudeBackend) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := claudeRequest{
		Model:         req.Model,
		MaxTokens:     req.MaxTokens,
		System:        req.System,
		Messages:      req.Messages,
		StopSequences: req.StopSequences,
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": anthropicVersion,
		"User-Agent":        c.UserAgent,
	}

	var resp claudeResponse
	if err := httputil.PostJSON(ctx, c.Client, "Claude API", claudeAPIURL, headers, body, &resp); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude API response (stop_reason %q)", resp.StopReason)
	}
	return b.String(), nil
}
