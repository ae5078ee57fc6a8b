package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/solarrail/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the design API over HTTP",
	Long: `Start a JSON HTTP API for the design pipeline.

Routes:
  POST /api/analyze   full project analysis (same fields as the project file)
  POST /api/beam      continuous rail solve {span_length, num_spans, load}
  GET  /api/regions   wind regions, zones, roof types, terrain categories
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics

Identical analyze requests are answered from a cache for the configured TTL.

Examples:
  solarrail serve
  solarrail serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from configuration or $SOLARRAIL_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(newAnalyzer(), server.Options{
		Addr:         addr,
		Rate:         cfg.Rate,
		Burst:        cfg.Burst,
		CacheTTL:     cfg.CacheTTL,
		CacheEntries: cfg.CacheEntries,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
