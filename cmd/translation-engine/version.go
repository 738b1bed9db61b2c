// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/provider/builtin"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version and the AI backends compiled in",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), builtin.NewRegistry())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// printVersion reports the build stamp and which backends survived the
// no_<backend> build tags.
func printVersion(out io.Writer, reg *provider.Registry) {
	names := make([]string, 0, len(reg.Names()))
	for _, n := range reg.Names() {
		names = append(names, string(n))
	}
	backends := "none"
	if len(names) > 0 {
		backends = strings.Join(names, ", ")
	}
	fmt.Fprintf(out, "translation-engine %s (%s %s/%s)\nbackends: %s\n",
		version, runtime.Version(), runtime.GOOS, runtime.GOARCH, backends)
}
