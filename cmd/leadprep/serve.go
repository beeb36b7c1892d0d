package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/leadprep/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing leader lookup, interview search, research, cache administration and Prometheus metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := server.Config{
		Port:      servePort,
		Companies: a.service,
		Cache:     a.cache,
		Logger:    a.logger,
	}
	// Assigned only when set so the interfaces stay nil for missing backends
	if a.finder != nil {
		cfg.Finder = a.finder
	}
	if a.researcher != nil {
		cfg.Researcher = a.researcher
	}
	if a.openers != nil {
		cfg.Openers = a.openers
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
