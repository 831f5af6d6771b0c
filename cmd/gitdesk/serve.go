package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitdesk/internal/publish"
	"github.com/NicabarNimble/go-gitdesk/internal/server"
)

type serveOptions struct {
	addr string
}

func newServeCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API used by the desktop UI. Operations are triggered with
POST /api/destinations/{dest}/ops/{op} and results are streamed from
GET /api/destinations/{dest}/events.`,
		Example: `  gitdesk serve
  gitdesk serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides the settings file)")

	return cmd
}

func runServe(ctx context.Context, global *globalOptions, opts *serveOptions) error {
	cfg, err := global.settings()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	logger := newLogger(cfg)

	hub := publish.NewHub(logger)
	svc, err := newService(cfg, hub, "", logger)
	if err != nil {
		return err
	}

	srv := server.New(svc, hub, server.Options{
		CorsOrigins: cfg.Server.CorsOrigins,
		EventBuffer: cfg.Server.EventBuffer,
		Logger:      logger,
	})

	runErr := srv.Run(ctx, cfg.Server.Addr)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Close(closeCtx); err != nil {
		logger.Warn().Err(err).Msg("executions did not settle before shutdown")
	}
	logger.Info().Msg("stopped")
	return runErr
}
