package webserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stake-plus/truthlens/src/modality"
)

func attachRoutes(r *gin.Engine, d Deps, limiter *RateLimiter) {
	r.Use(corsMiddleware(d.Server.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := NewAuth(d.Server.AppAPIKey, []byte(d.Server.JWTSecret))
	verifyH := NewVerify(d)
	adminH := NewAdmin(d.Audit, d.Logger)

	multipartMax := d.Server.MaxUploadBytes*modality.MaxImages + maxJSONBytes

	api := r.Group("/api")
	api.Use(RateLimitMiddleware(limiter), bodyLimit(multipartMax))
	{
		api.POST("/auth/token", authH.Token)

		secured := api.Group("")
		secured.Use(authH.Middleware())
		secured.POST("/verify", verifyH.Text)
		secured.POST("/verify-url", verifyH.URL)
		secured.POST("/verify-image", verifyH.Images)
		secured.POST("/verify-audio", verifyH.Audio)
		secured.POST("/verify-video", verifyH.Video)
	}

	if len(d.Server.JWTSecret) > 0 {
		admin := api.Group("/admin")
		admin.Use(JWTMiddleware([]byte(d.Server.JWTSecret)))
		admin.GET("/audit", adminH.RecentVerdicts)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-App-Key", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader, "RateLimit-Limit", "RateLimit-Remaining", "X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
