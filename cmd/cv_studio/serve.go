package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-studio/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the chat endpoint, the profile, and the rendered CVs to the web frontend.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	a, err := newAgentApp(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	srv := server.New(server.Config{Port: cfg.Port}, a.store, a.agent, a.renderer)
	return srv.Start()
}
