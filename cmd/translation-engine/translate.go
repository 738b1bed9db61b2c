// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/translation-engine/internal/csl"
	"github.com/pdiddy/translation-engine/internal/translator"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// Output formats of the translate command.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatCSL  = "csl"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a URL, text or file into a bibliographic record",
	Long: `Translate fetches --url, or reads --text or --file, and prints the
translation result. --format csl prints the item as CSL-JSON instead of the
full result. With --save the item is also stored in the local library.

Use --file - to read from stdin.`,
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().String("url", "", "URL to fetch")
	translateCmd.Flags().String("text", "", "raw source text")
	translateCmd.Flags().String("file", "", "file containing source text (- for stdin)")
	translateCmd.Flags().String("format", formatJSON, "output format: json, yaml or csl")
	translateCmd.Flags().Bool("save", false, "store the item in the library")
	translateCmd.MarkFlagsMutuallyExclusive("url", "text", "file")

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatJSON, formatYAML, formatCSL:
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or csl)", format)
	}

	in, err := translateInput(cmd)
	if err != nil {
		return err
	}

	p, err := newPipeline(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer p.close()

	res, err := p.translator.Translate(cmd.Context(), in)
	if err != nil {
		return err
	}

	key := ""
	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		rec, err := store.Save(cmd.Context(), res)
		if err != nil {
			return err
		}
		key = rec.Key
		slog.Info("library.saved", "key", rec.Key, "version", rec.Version)
	}

	return writeResult(cmd.OutOrStdout(), res, format, key)
}

// translateInput builds the translator input from the flags. The
// translator itself rejects an input with neither or both fields set.
func translateInput(cmd *cobra.Command) (translator.Input, error) {
	url, _ := cmd.Flags().GetString("url")
	text, _ := cmd.Flags().GetString("text")
	file, _ := cmd.Flags().GetString("file")

	if file != "" {
		var b []byte
		var err error
		if file == "-" {
			b, err = io.ReadAll(cmd.InOrStdin())
		} else {
			b, err = os.ReadFile(file)
		}
		if err != nil {
			return translator.Input{}, fmt.Errorf("reading %s: %w", file, err)
		}
		text = string(b)
	}
	if url == "" && text == "" {
		return translator.Input{}, fmt.Errorf("provide one of --url, --text or --file")
	}
	return translator.Input{URL: url, SourceText: text}, nil
}

func writeResult(w io.Writer, res *types.TranslationResult, format, key string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case formatCSL:
		id := key
		if id == "" {
			id = "item-1"
		}
		return csl.WriteJSON([]csl.Item{csl.FromItem(id, res.Item)}, w)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
}
