package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/filing-scout/internal/pipeline"
	"github.com/pdiddy/filing-scout/internal/queries"
	"github.com/pdiddy/filing-scout/internal/search"
	"github.com/pdiddy/filing-scout/internal/secrets"
)

var searchCmd = &cobra.Command{
	Use:   "search [queries...]",
	Short: "Search Exa for each query and print the results",
	Long: `Search issues one Exa request per query, in order, and prints every
result as "- title: url". Queries come from the arguments or from
--queries-file (one per line, "-" for stdin), for example the output of
the queries subcommand.`,
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd)
	searchCmd.Flags().String("queries-file", "", `file with one query per line ("-" for stdin)`)
	searchCmd.Flags().Bool("no-header", false, `omit the "Showing Results:" header`)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	qs := args
	if path, _ := cmd.Flags().GetString("queries-file"); path != "" {
		fromFile, err := readQueries(cmd, path)
		if err != nil {
			return err
		}
		qs = append(qs, fromFile...)
	}
	if len(qs) == 0 {
		return fmt.Errorf("provide queries as arguments or with --queries-file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	creds, err := credentials(secrets.EnvExa)
	if err != nil {
		return err
	}

	backend := newExa(cfg, creds, newHTTPClient(cfg.HTTP))
	out, err := search.Batch(cmd.Context(), backend, qs, cfg.Search, logger)

	noHeader, _ := cmd.Flags().GetBool("no-header")
	if werr := search.FormatReport(out.Groups, cmd.OutOrStdout(), !noHeader); werr != nil {
		return werr
	}
	search.FormatFailures(out.Failures, cmd.ErrOrStderr())
	if err != nil {
		return &pipeline.StageError{Stage: pipeline.StageSearch, Err: err}
	}
	if out.HasFailures() {
		return &batchError{out: out}
	}
	return nil
}

// readQueries loads one query per line from path, or stdin for "-".
func readQueries(cmd *cobra.Command, path string) ([]string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}
	return queries.Parse(string(data), queries.ParseOptions{MaxQueries: -1}), nil
}
