package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/dropzone/internal/host"
)

func serveCmd() *cobra.Command {
	var (
		port     int
		hostName string
		upstream string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload page",
		Long: `Serve the upload page, its static assets, /metrics and /healthz.

Posted forms are forwarded to the upstream application. Without an
upstream every upload is answered with 502.

Examples:
  dropzone serve
  dropzone serve --port=8080 --upstream=http://localhost:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, hostName, upstream)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from dropzone.json)")
	cmd.Flags().StringVarP(&hostName, "host", "H", "", "Host to bind to (default from dropzone.json)")
	cmd.Flags().StringVarP(&upstream, "upstream", "u", "", "Application that handles the posted form")

	return cmd
}

func runServe(port int, hostName, upstream string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if port > 0 {
		cfg.Server.Port = port
	}
	if hostName != "" {
		cfg.Server.Host = hostName
	}
	if upstream != "" {
		cfg.Server.Upstream = upstream
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	printBanner()
	fmt.Fprintln(stdout, "  serve")
	fmt.Fprintln(stdout)
	success("Listening on %s", cfg.URL())
	if cfg.Server.Upstream == "" {
		warn("No upstream configured, uploads will be answered with 502")
	} else {
		info("Forwarding uploads to %s", cfg.Server.Upstream)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := host.New(cfg, host.WithLogger(newLogger()))
	return srv.ListenAndServe(ctx)
}
