//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// filing returns the PDF named by $FILING, or the CLI default.
func filing() string {
	if p := os.Getenv("FILING"); p != "" {
		return p
	}
	return "epic_v_apple.pdf"
}

// Run builds the CLI and runs the full pipeline on $FILING.
func Run() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "run", filing())
}

// Convert builds the CLI and extracts the text of $FILING.
func Convert() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "convert", filing())
}

// Queries builds the CLI and prints the generated queries for $FILING.
func Queries() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "queries", filing())
}
