package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tasktree/tasktree/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every project over HTTP",
		Long: `Serve the HTTP API for all projects in the data directory. The address
comes from --addr, then [server] in ~/.tasktree/config.toml, then localhost:7433.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ServerAddr
			}
			logger := a.logger
			if !a.verbose {
				logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: slog.LevelInfo}))
			}
			logger.Info("tasktree server starting", "addr", addr, "data_dir", a.cfg.DataDir)
			srv := server.New(addr, a.engine, logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (host:port)")
	return cmd
}
