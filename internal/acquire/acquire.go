// Package acquire downloads a filing PDF named by URL so the pipeline can
// read it from local disk.
package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// ErrNotPDF is returned when a download does not start with the PDF header.
var ErrNotPDF = errors.New("response is not a PDF")

// Options controls a download.
type Options struct {
	// Dir receives the downloaded file. Created if missing.
	Dir string

	// UserAgent is sent with the request.
	UserAgent string
}

// Fetch downloads rawURL into opts.Dir as <slug>.pdf and returns the local
// path. An existing file of the same name is replaced. Nothing is written
// unless the whole body arrives and starts with the PDF header.
func Fetch(ctx context.Context, client *http.Client, rawURL string, opts Options) (string, error) {
	if !IsURL(rawURL) {
		return "", fmt.Errorf("not an http(s) URL: %q", rawURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", opts.Dir, err)
	}

	destPath := filepath.Join(opts.Dir, Slug(rawURL)+".pdf")
	if err := downloadFile(ctx, client, rawURL, destPath, opts.UserAgent); err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	return destPath, nil
}

// downloadFile fetches url to destPath using a temporary file. It sets
// User-Agent and requests PDF via the Accept header. The HTTP client
// handles redirect following.
func downloadFile(ctx context.Context, client *http.Client, url, destPath, userAgent string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	head := make([]byte, len(pdfMagic))
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading response: %w", err)
	}
	if !bytes.Equal(head[:n], pdfMagic) {
		return fmt.Errorf("%w (Content-Type %q)", ErrNotPDF, resp.Header.Get("Content-Type"))
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, io.MultiReader(bytes.NewReader(head), resp.Body))
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
