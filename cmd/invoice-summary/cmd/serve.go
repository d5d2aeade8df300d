package cmd

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/veridia/invoice-summary/internal/server"
)

var (
	serveAddress string
	serveDebug   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Start an HTTP server exposing the document summaries and the
reconciled product breakdown.

Endpoints:
  GET /health
  GET /api/v1/documents?supplier=&number=&start=&end=
  GET /api/v1/products?supplier=&number=&start=&end=

Examples:
  invoice-summary serve
  invoice-summary serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (env: INVSUM_SERVER_ADDRESS)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable request logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	address := serveAddress
	if address == "" {
		address = cfg.ServerAddress
	}

	srv := server.NewServer(&server.Config{
		Address:      address,
		DocumentsDir: cfg.DocumentsDir,
		Engine:       engineConfig(),
		Parallelism:  cfg.Parallelism,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Debug:        serveDebug,
	})

	log.Info().Str("address", address).Msg("starting HTTP server")
	return srv.Run()
}
