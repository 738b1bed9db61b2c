// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/translation-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the translator over HTTP",
	Long: `Serve starts the HTTP API: POST /translate, GET /providers, GET /healthz,
GET /metrics, and the /items library endpoints. It shuts down gracefully on
SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().Bool("no-library", false, "disable the /items endpoints")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCfg := cfg.Server
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		srvCfg.Addr = addr
	}

	p, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.close()

	opts := []server.Option{server.WithRegistry(p.registry)}
	if noLib, _ := cmd.Flags().GetBool("no-library"); !noLib {
		store, err := openLibrary(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, server.WithLibrary(store))
	}

	return server.New(srvCfg, p.translator, p.metrics, opts...).ListenAndServe(ctx)
}
