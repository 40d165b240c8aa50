// Package mcp exposes the verification pipeline as Model Context Protocol
// tools over streamable HTTP or stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/logging"
	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/pipeline"
)

// Version is reported in the MCP implementation info.
const Version = "1.0.0"

// Runner executes one verification. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, in modality.Input) (*pipeline.Result, error)
}

// Config controls the MCP server runtime.
type Config struct {
	ListenAddr string
	AuthToken  string
	Logger     *zap.Logger
}

// Server registers the verify tools and serves them.
type Server struct {
	runner     Runner
	cfg        Config
	mcp        *sdk.Server
	httpServer *http.Server
}

// NewServer constructs a server bound to runner.
func NewServer(cfg Config, runner Runner) (*Server, error) {
	if runner == nil {
		return nil, fmt.Errorf("mcp: runner is required")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = "127.0.0.1:7081"
	}
	cfg.Logger = logging.OrNop(cfg.Logger)

	s := &Server{runner: runner, cfg: cfg}
	s.mcp = sdk.NewServer(&sdk.Implementation{Name: "truthlens", Version: Version}, nil)
	sdk.AddTool(s.mcp, MetadataVerifyText, s.VerifyText)
	sdk.AddTool(s.mcp, MetadataVerifyURL, s.VerifyURL)
	return s, nil
}

// Handler returns the HTTP handler: streamable MCP at /mcp and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.wrapAuth(s.handleHealth))
	stream := sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server { return s.mcp }, nil)
	mux.Handle("/mcp", s.wrapAuth(stream.ServeHTTP))
	return mux
}

// Start serves HTTP until the context is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("mcp: listen %s: %w", s.cfg.ListenAddr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.cfg.Logger.Info("mcp listening", zap.String("addr", s.cfg.ListenAddr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ServeStdio speaks MCP over stdin/stdout until ctx ends or the peer hangs up.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &sdk.StdioTransport{})
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) wrapAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := strings.TrimSpace(s.cfg.AuthToken); token != "" {
			auth := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")) != token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
