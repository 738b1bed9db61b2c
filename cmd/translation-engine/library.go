// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/translation-engine/internal/csl"
	"github.com/pdiddy/translation-engine/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local library of translated items",
	Long: `Library manages the SQLite store that translate --save and the HTTP
API write to. Items are keyed by an 8-character key and carry a version
that every write must name.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored items, most recently modified first",
	RunE: func(cmd *cobra.Command, args []string) error {
		itemType, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		recs, err := store.List(cmd.Context(), types.ItemType(itemType), limit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVERSION\tTYPE\tCONFIDENCE\tTITLE")
		for _, r := range recs {
			fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\t%s\n", r.Key, r.Version, r.Item.ItemType, r.Confidence, r.Item.Title)
		}
		return w.Flush()
	},
}

// --- get subcommand ---

var libraryGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one stored item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		switch format {
		case formatCSL:
			return csl.WriteJSON([]csl.Item{csl.FromItem(rec.Key, rec.Item)}, out)
		case "csl-yaml":
			return csl.WriteYAML([]csl.Item{csl.FromItem(rec.Key, rec.Item)}, out)
		default:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
	},
}

// --- delete subcommand ---

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete KEY",
	Short: "Delete a stored item",
	Long: `Delete removes an item. --version must match the stored version;
without it the current version is read first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, _ := cmd.Flags().GetInt("version")

		store, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if version == 0 {
			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			version = rec.Version
		}
		if err := store.Delete(cmd.Context(), args[0], version); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Deleted %s (version %d)\n", args[0], version)
		return nil
	},
}

func init() {
	libraryListCmd.Flags().String("type", "", "only items of this type")
	libraryListCmd.Flags().Int("limit", 0, "maximum number of items (default 50)")

	libraryGetCmd.Flags().String("format", formatJSON, "output format: json, csl or csl-yaml")

	libraryDeleteCmd.Flags().Int("version", 0, "expected version")

	libraryCmd.AddCommand(libraryListCmd, libraryGetCmd, libraryDeleteCmd)
	rootCmd.AddCommand(libraryCmd)
}
