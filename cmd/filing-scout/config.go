// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/filing-scout/internal/acquire"
	"github.com/pdiddy/filing-scout/internal/container"
	"github.com/pdiddy/filing-scout/internal/convert"
	"github.com/pdiddy/filing-scout/internal/pipeline"
	"github.com/pdiddy/filing-scout/internal/queries"
	"github.com/pdiddy/filing-scout/internal/search"
	"github.com/pdiddy/filing-scout/internal/secrets"
	"github.com/pdiddy/filing-scout/pkg/types"
)

const defaultUserAgent = "filing-scout/0.1"

// loadConfig decodes the merged flag, environment, and file configuration.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, &pipeline.ConfigError{Err: fmt.Errorf("decoding config: %w", err)}
	}
	cfg.ApplyDefaults()
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = defaultUserAgent
	}
	return cfg, nil
}

// inputPDF returns the PDF named on the command line, or input.pdf.
func inputPDF(cfg types.InputConfig, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.PDF
}

// localPDF downloads input into input.download_dir when it is a URL and
// returns the local path; local paths are returned unchanged.
func localPDF(ctx context.Context, cfg types.PipelineConfig, input string) (string, error) {
	if !acquire.IsURL(input) {
		return input, nil
	}
	path, err := acquire.Fetch(ctx, newHTTPClient(cfg.HTTP), input, acquire.Options{
		Dir:       cfg.Input.DownloadDir,
		UserAgent: cfg.HTTP.UserAgent,
	})
	if err != nil {
		return "", &pipeline.StageError{Stage: pipeline.StageAcquire, Err: err}
	}
	logger.Info("downloaded filing", zap.String("url", input), zap.String("pdf", path))
	return path, nil
}

// credentials resolves API keys from the environment and .secrets/, failing
// with a ConfigError when any of the named variables is unset.
func credentials(envs ...string) (secrets.Credentials, error) {
	creds := secrets.Lookup(os.Getenv, loadedSecrets)
	if err := creds.Require(envs...); err != nil {
		return secrets.Credentials{}, &pipeline.ConfigError{Err: err}
	}
	return creds, nil
}

func newHTTPClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// newConverter builds the configured extraction backend.
func newConverter(cfg types.ConversionConfig) (convert.Converter, error) {
	var c convert.Converter
	switch cfg.Backend {
	case types.BackendNative, "":
		c = convert.NativeConverter{}
	case types.BackendPdftotext:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, &pipeline.ConfigError{Err: err}
		}
		pc, err := convert.NewPdftotextConverter(rt)
		if err != nil {
			return nil, &pipeline.ConfigError{Err: err}
		}
		c = pc
	default:
		return nil, &pipeline.ConfigError{Err: fmt.Errorf("unknown convert backend %q: use native or pdftotext", cfg.Backend)}
	}
	if cfg.Strict {
		c = convert.Strict(c)
	}
	return c, nil
}

// Service backend constructors. Tests swap them for fakes.
var (
	newClaude = func(cfg types.PipelineConfig, creds secrets.Credentials, client *http.Client) queries.Backend {
		return &queries.ClaudeBackend{APIKey: creds.Anthropic, Client: client, UserAgent: cfg.HTTP.UserAgent}
	}
	newExa = func(cfg types.PipelineConfig, creds secrets.Credentials, client *http.Client) search.Backend {
		return &search.ExaBackend{Client: client, APIKey: creds.Exa, UserAgent: cfg.HTTP.UserAgent}
	}
)

// loadTopics reads generate.topics_file, or returns the built-in topics.
func loadTopics(cfg types.GenerationConfig) ([]string, error) {
	topics, err := queries.LoadTopics(cfg.TopicsFile)
	if err != nil {
		return nil, &pipeline.ConfigError{Err: err}
	}
	return topics, nil
}
