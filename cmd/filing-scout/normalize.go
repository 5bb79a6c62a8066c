package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/filing-scout/internal/normalize"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <txt>",
	Short: "Print extracted text with page-number lines removed",
	Long: `Normalize reads a text file produced by convert, removes form feeds and
every line made up only of digits, and prints the remaining lines unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	doc, err := normalize.File(args[0])
	if err != nil {
		return err
	}
	logger.Debug("normalized text",
		zap.Int("kept_lines", doc.Kept),
		zap.Int("dropped_lines", doc.Dropped))
	_, err = io.WriteString(cmd.OutOrStdout(), doc.Text)
	return err
}
