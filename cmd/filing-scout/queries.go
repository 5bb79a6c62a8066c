// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/filing-scout/internal/acquire"
	"github.com/pdiddy/filing-scout/internal/pipeline"
	"github.com/pdiddy/filing-scout/internal/secrets"
)

var queriesCmd = &cobra.Command{
	Use:   "queries <pdf|url|txt>",
	Short: "Generate background search queries for a filing",
	Long: `Queries asks Claude for article-title search queries about the filing
and prints them one per line. A .pdf path or an http(s) URL is extracted
first (to --text-out); any other file is treated as already extracted text.

Use --raw to print the model reply before parsing.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueries,
}

func init() {
	addConvertFlags(queriesCmd)
	addGenerateFlags(queriesCmd)
	queriesCmd.Flags().Bool("raw", false, "print the unparsed model reply")

	rootCmd.AddCommand(queriesCmd)
}

func runQueries(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	creds, err := credentials(secrets.EnvAnthropic)
	if err != nil {
		return err
	}
	topics, err := loadTopics(cfg.Generation)
	if err != nil {
		return err
	}

	input := args[0]
	isPDF := acquire.IsURL(input) || strings.EqualFold(filepath.Ext(input), ".pdf")
	deps := pipeline.Deps{
		Generator: newClaude(cfg, creds, newHTTPClient(cfg.HTTP)),
		Log:       logger,
	}
	if isPDF {
		if deps.Converter, err = newConverter(cfg.Conversion); err != nil {
			return err
		}
	}
	p, err := pipeline.New(deps, cfg, topics)
	if err != nil {
		return err
	}

	var rep *pipeline.Report
	if isPDF {
		var pdfPath string
		if pdfPath, err = localPDF(cmd.Context(), cfg, input); err != nil {
			return err
		}
		rep, err = p.Queries(cmd.Context(), pdfPath)
	} else {
		rep, err = p.QueriesFromText(cmd.Context(), input)
	}

	out := cmd.OutOrStdout()
	if printRaw, _ := cmd.Flags().GetBool("raw"); printRaw && rep != nil && rep.RawQueries != "" {
		// Printed even when no queries parse from it.
		_, werr := io.WriteString(out, rep.RawQueries)
		return werr
	}
	if err != nil {
		return err
	}
	for _, q := range rep.Queries {
		fmt.Fprintln(out, q)
	}
	return nil
}
