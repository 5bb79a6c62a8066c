// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the filing-scout CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/filing-scout/internal/logging"
	"github.com/pdiddy/filing-scout/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// logger writes diagnostics to stderr. Replaced in PersistentPreRunE.
	logger = zap.NewNop()
)

// flagKeys maps flag names to the viper keys they override. Flags are bound
// per invocation so commands sharing a flag name do not clobber each other.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"timeout":      "http.timeout",
	"backend":      "convert.backend",
	"download-dir": "input.download_dir",
	"text-out":     "convert.text_path",
	"strict":       "convert.strict",
	"model":        "generate.model",
	"max-tokens":   "generate.max_tokens",
	"max-queries":  "generate.max_queries",
	"topics-file":  "generate.topics_file",
	"num-results":  "search.num_results",
	"search-type":  "search.type",
	"fail-fast":    "search.fail_fast",
}

// rootCmd is the base command for the filing-scout CLI.
var rootCmd = &cobra.Command{
	Use:   "filing-scout",
	Short: "Find background articles for a court filing",
	Long: `filing-scout extracts the text of a legal-filing PDF, asks Claude for
web-search queries about the filing's background (parties, cited case law,
judicial history, legal standards, merits), runs those queries through Exa,
and prints one "- title: url" line per result.

Each stage is also available as its own subcommand: convert, normalize,
queries, and search. The run subcommand chains all four.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd.Flags()); err != nil {
			return err
		}

		envFile := viper.GetString("env_file")
		loaded, err := secrets.LoadEnvFile(envFile)
		if err != nil {
			return err
		}

		log, err := logging.New(viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		logger = log
		if loaded {
			logger.Debug("loaded env file", zap.String("path", envFile))
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./filing-scout.yaml or ~/.config/filing-scout/filing-scout.yaml)")
	pf.String("env-file", ".env", "dotenv file with API keys; existing environment wins")
	pf.String("log-level", "info", "diagnostic log level: debug, info, warn, error")
	pf.String("log-format", "console", "diagnostic log format: console or json")
	pf.Duration("timeout", 0, "per-request HTTP timeout (0 for none)")

	_ = viper.BindPFlag("env_file", pf.Lookup("env-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("filing-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "filing-scout"))
		}
	}

	viper.SetEnvPrefix("FILING_SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	registerKeys()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// registerKeys makes every config key known to viper so that Unmarshal
// picks up environment overrides for keys absent from the config file.
func registerKeys() {
	keys := []string{"input.pdf", "search.use_autoprompt", "http.user_agent"}
	for _, key := range flagKeys {
		keys = append(keys, key)
	}
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}

// bindFlags binds the flags of the executing command to their config keys.
func bindFlags(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = viper.BindPFlag(key, f)
	})
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}
