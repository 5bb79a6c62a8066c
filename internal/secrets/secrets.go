// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the API keys the pipeline needs. Keys come from
// the process environment, which may first be populated from a .env file;
// a directory of plain-text key files (.secrets/) is the final fallback.
// In that directory the filename is the key name and the trimmed contents
// are the value.
//
// Supported key files: anthropic-api-key, exa-api-key.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Key file names and their environment variable counterparts.
const (
	KeyAnthropic = "anthropic-api-key"
	KeyExa       = "exa-api-key"

	EnvAnthropic = "ANTHROPIC_API_KEY"
	EnvExa       = "EXA_API_KEY"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings on log but do not abort.
func Load(dir string, log *zap.Logger) (map[string]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("file", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFile populates the process environment from a dotenv file without
// overriding variables that are already set. It reports whether the file
// existed; a missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return true, fmt.Errorf("loading env file %s: %w", path, err)
	}
	return true, nil
}

// Credentials holds the two service keys.
type Credentials struct {
	Anthropic string
	Exa       string
}

// MissingError lists the environment variables that resolved to nothing.
type MissingError struct {
	Missing []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing credentials: set %s (environment, .env, or .secrets/)", strings.Join(e.Missing, " and "))
}

// Lookup resolves each key from the environment (via getenv), falling back
// to the key-file map returned by Load. Missing keys are left empty.
func Lookup(getenv func(string) string, files map[string]string) Credentials {
	lookup := func(env, file string) string {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			return v
		}
		return files[file]
	}
	return Credentials{
		Anthropic: lookup(EnvAnthropic, KeyAnthropic),
		Exa:       lookup(EnvExa, KeyExa),
	}
}

// Require returns a *MissingError naming every listed environment variable
// whose key is empty.
func (c Credentials) Require(envs ...string) error {
	var missing []string
	for _, env := range envs {
		var v string
		switch env {
		case EnvAnthropic:
			v = c.Anthropic
		case EnvExa:
			v = c.Exa
		}
		if v == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Missing: missing}
	}
	return nil
}
