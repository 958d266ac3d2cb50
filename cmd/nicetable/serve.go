package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/domonda/go-nicetable/internal/config"
	"github.com/domonda/go-nicetable/internal/server"
)

func newServeCmd(global *globalFlags) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured tables over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context(), configPath)
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if cmd.Flags().Changed("log-level") {
				level = global.logLevel
			}
			logger, err := newLogger(level, cfg.Log.Development)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			srv, err := server.New(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error("loading tables failed", zap.Error(err))
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "nicetable.yaml", "Path of the YAML configuration")
	return cmd
}
