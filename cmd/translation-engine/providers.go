// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/provider/builtin"
	"github.com/pdiddy/translation-engine/pkg/types"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List AI backends, their availability and known models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printProviders(cmd.OutOrStdout(), builtin.NewRegistry())
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func printProviders(out io.Writer, reg *provider.Registry) error {
	available := reg.ListAvailable()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tAVAILABLE\tMODEL\tCONTEXT\tOUTPUT\tIMAGES\tJSON\tDEFAULT")
	for _, name := range types.AllProviders {
		def := provider.DefaultModels(name)
		for _, model := range provider.KnownModels(name) {
			caps, _ := provider.ModelCapabilities(name, model)
			role := ""
			switch model {
			case def.Classification:
				role = "classification"
			case def.Extraction:
				role = "extraction"
			}
			fmt.Fprintf(w, "%s\t%t\t%s\t%d\t%d\t%t\t%t\t%s\n",
				name, slices.Contains(available, name), model,
				caps.MaxContextLength, caps.MaxOutputTokens,
				caps.SupportsImageInput, caps.SupportsJSONMode, role)
		}
	}
	return w.Flush()
}
