// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the translation-engine CLI.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded before every command runs.
var cfg appConfig

var rootCmd = &cobra.Command{
	Use:   "translation-engine",
	Short: "Turn web pages, PDFs and text into bibliographic records",
	Long: `translation-engine fetches a URL (or takes raw text), classifies the
document, and extracts a bibliographic record with the configured AI backend.
Without a backend, or when the AI path fails, a heuristic record is built
from the page metadata instead.

Configure the backend in translation-engine.yaml or with
TRANSLATION_ENGINE_* environment variables. API keys may also be placed
in .secrets/ (openai-api-key, anthropic-api-key, gemini-api-key).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}

		loaded, err := loadConfig(viper.GetViper(), s)
		if err != nil {
			return err
		}
		if err := logging.Setup(loaded.Log, os.Stderr); err != nil {
			return err
		}
		cfg = loaded

		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("secrets.loaded", "keys", keys)
		}
		if f := viper.ConfigFileUsed(); f != "" {
			slog.Debug("config.loaded", "file", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./translation-engine.yaml or ~/.config/translation-engine/translation-engine.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of API key files")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("translation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "translation-engine"))
		}
	}

	viper.SetEnvPrefix("TRANSLATION_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
