package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/filing-scout/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdf|url]",
	Short: "Extract the text of a PDF into a form-feed delimited file",
	Long: `Convert writes the text of every page of the PDF to the text file
(default output.txt), each page followed by one form feed. The native
backend reads the PDF in-process; the pdftotext backend runs pdftotext in a
docker or podman container.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	addConvertFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg.Conversion)
	if err != nil {
		return err
	}

	pdfPath, err := localPDF(cmd.Context(), cfg, inputPDF(cfg.Input, args))
	if err != nil {
		return err
	}

	pages, err := convert.ConvertFile(cmd.Context(), conv, pdfPath, cfg.Conversion.TextPath)
	if err != nil {
		return err
	}
	logger.Info("extracted text",
		zap.String("backend", conv.Name()),
		zap.String("pdf", pdfPath),
		zap.Int("pages", pages))
	fmt.Fprintln(cmd.OutOrStdout(), cfg.Conversion.TextPath)
	return nil
}
