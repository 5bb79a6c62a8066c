// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/filing-scout/internal/pipeline"
	"github.com/pdiddy/filing-scout/internal/search"
	"github.com/pdiddy/filing-scout/internal/secrets"
)

var runCmd = &cobra.Command{
	Use:   "run [pdf|url]",
	Short: "Run the full pipeline on a filing PDF",
	Long: `Run extracts the text of the filing (default epic_v_apple.pdf; an http(s)
URL is downloaded into --download-dir first), drops
page-number lines, asks Claude for background search queries, searches each
query on Exa in order, and prints every result as "- title: url".

A failed search does not stop the batch unless --fail-fast is set; failures
are summarized on stderr and the command exits non-zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	addConvertFlags(runCmd)
	addGenerateFlags(runCmd)
	addSearchFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	creds, err := credentials(secrets.EnvAnthropic, secrets.EnvExa)
	if err != nil {
		return err
	}
	topics, err := loadTopics(cfg.Generation)
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg.Conversion)
	if err != nil {
		return err
	}

	client := newHTTPClient(cfg.HTTP)
	p, err := pipeline.New(pipeline.Deps{
		Converter: conv,
		Generator: newClaude(cfg, creds, client),
		Searcher:  newExa(cfg, creds, client),
		Log:       logger,
	}, cfg, topics)
	if err != nil {
		return err
	}

	pdfPath, err := localPDF(cmd.Context(), cfg, inputPDF(cfg.Input, args))
	if err != nil {
		return err
	}

	rep, err := p.Run(cmd.Context(), pdfPath)
	if rep != nil && (err == nil || len(rep.Search.Groups) > 0) {
		if werr := search.FormatReport(rep.Search.Groups, cmd.OutOrStdout(), true); werr != nil {
			return werr
		}
	}
	if rep != nil {
		search.FormatFailures(rep.Search.Failures, cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}
	if rep.Search.HasFailures() {
		return &batchError{out: rep.Search}
	}
	return nil
}
