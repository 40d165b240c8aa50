// Package webserver exposes the verification pipeline over HTTP.
package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/config"
	"github.com/stake-plus/truthlens/src/data"
	"github.com/stake-plus/truthlens/src/logging"
	"github.com/stake-plus/truthlens/src/modality"
)

// Deps are the collaborators the HTTP surface needs. Cache and Audit may be nil.
type Deps struct {
	Runner        Runner
	Cache         *data.VerdictCache
	Audit         *data.AuditLog
	Server        config.Server
	VideoStrategy modality.VideoStrategy
	Logger        *zap.Logger
}

// New builds the gin engine and the rate limiter backing it. Stop the limiter
// when the server shuts down.
func New(d Deps) (*gin.Engine, *RateLimiter) {
	d.Logger = logging.OrNop(d.Logger)
	if d.Server.MaxUploadBytes <= 0 {
		d.Server.MaxUploadBytes = config.DefaultMaxUploadBytes
	}

	gin.SetMode(gin.ReleaseMode)
	g := gin.New()
	g.MaxMultipartMemory = 32 << 20
	g.Use(requestID(), requestLogger(d.Logger), gin.CustomRecovery(func(c *gin.Context, rec any) {
		d.Logger.Error("panic in handler", zap.Any("panic", rec), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"err": "Internal Server Error"})
	}), securityHeaders())

	var limiter *RateLimiter
	if d.Server.RateLimitPerMinute > 0 {
		limiter = NewRateLimiter(d.Server.RateLimitPerMinute, time.Minute)
	}
	attachRoutes(g, d, limiter)
	return g, limiter
}

// NewHTTPServer wraps handler with timeouts sized for long oracle calls.
func NewHTTPServer(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 2 * time.Minute
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      requestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
