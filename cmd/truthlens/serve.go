package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stake-plus/truthlens/src/api/webserver"
	"github.com/stake-plus/truthlens/src/mcp"
)

var (
	tlsCert string
	tlsKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the MCP endpoint when MCP_LISTEN is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		router, limiter := webserver.New(webserver.Deps{
			Runner:        a.pipeline,
			Cache:         a.cache,
			Audit:         a.audit,
			Server:        a.cfg.Server,
			VideoStrategy: a.cfg.Media.VideoStrategy,
			Logger:        logger.Named("http"),
		})
		defer limiter.Stop()
		httpSrv := webserver.NewHTTPServer(":"+a.cfg.Server.Port, router, a.cfg.Server.RequestTimeout)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if tlsCert != "" && tlsKey != "" {
				reloader, rerr := webserver.NewTLSReloader(gctx, tlsCert, tlsKey, logger)
				if rerr != nil {
					return rerr
				}
				httpSrv.TLSConfig = reloader.GetConfig()
				logger.Info("https listening", zap.String("addr", httpSrv.Addr))
				err = httpSrv.ListenAndServeTLS("", "")
			} else {
				logger.Info("http listening", zap.String("addr", httpSrv.Addr))
				err = httpSrv.ListenAndServe()
			}
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			<-gctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutCtx)
		})

		if a.cfg.MCP.Listen != "" {
			mcpSrv, err := mcp.NewServer(mcp.Config{
				ListenAddr: a.cfg.MCP.Listen,
				AuthToken:  a.cfg.MCP.Token,
				Logger:     logger.Named("mcp"),
			}, a.pipeline)
			if err != nil {
				return err
			}
			g.Go(func() error { return mcpSrv.Start(gctx) })
		}

		err = g.Wait()
		logger.Info("shutdown complete")
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&tlsKey, "tls-key", "", "TLS private key file")
}
