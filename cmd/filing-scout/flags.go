package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/filing-scout/pkg/types"
)

// Flag defaults are zero so that config file and environment values are
// not shadowed; types.PipelineConfig.ApplyDefaults fills the rest.

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", "", "text extraction backend: native or pdftotext (default native)")
	cmd.Flags().String("text-out", "", "path of the extracted text file (default "+types.DefaultTextPath+")")
	cmd.Flags().Bool("strict", false, "validate the PDF structure before extraction")
	cmd.Flags().String("download-dir", "", "directory for filings given as URLs (default "+types.DefaultDownloadDir+")")
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "Claude model identifier (default "+types.DefaultModel+")")
	cmd.Flags().Int("max-tokens", 0, "completion token budget (default 1000)")
	cmd.Flags().Int("max-queries", 0, "maximum queries to keep, -1 for no cap (default 20)")
	cmd.Flags().String("topics-file", "", "YAML file overriding the extraction topics")
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("num-results", 0, "results requested per query (default 5)")
	cmd.Flags().String("search-type", "", "Exa search type (default auto)")
	cmd.Flags().Bool("fail-fast", false, "stop at the first failed query")
}
