package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stake-plus/truthlens/src/mcp"
)

var mcpStdio bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the verify_text and verify_url tools over MCP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, !mcpStdio)
		if err != nil {
			return err
		}
		defer a.close()

		srv, err := mcp.NewServer(mcp.Config{
			ListenAddr: a.cfg.MCP.Listen,
			AuthToken:  a.cfg.MCP.Token,
			Logger:     logger.Named("mcp"),
		}, a.pipeline)
		if err != nil {
			return err
		}
		if mcpStdio {
			return srv.ServeStdio(ctx)
		}
		return srv.Start(ctx)
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpStdio, "stdio", false, "Speak MCP over stdin/stdout instead of HTTP")
}
