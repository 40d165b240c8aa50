package webserver

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const appKeySubject = "app-key"

// Auth gates /api. With no app key and no JWT secret configured it is a no-op.
type Auth struct {
	appKey    string
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuth(appKey string, secret []byte) Auth {
	return Auth{appKey: appKey, jwtSecret: secret, tokenTTL: time.Hour}
}

func (a Auth) enabled() bool { return a.appKey != "" || len(a.jwtSecret) > 0 }

func (a Auth) validAppKey(c *gin.Context) bool {
	if a.appKey == "" {
		return false
	}
	provided := c.GetHeader("X-App-Key")
	return provided != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(a.appKey)) == 1
}

// Middleware accepts a matching X-App-Key header or a bearer JWT.
func (a Auth) Middleware() gin.HandlerFunc {
	if !a.enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if a.validAppKey(c) {
			c.Set(subjectKey, appKeySubject)
			c.Next()
			return
		}
		if len(a.jwtSecret) > 0 {
			if raw, err := bearer(c); err == nil {
				if sub, err := parseJWT(raw, a.jwtSecret); err == nil {
					c.Set(subjectKey, sub)
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"err":      "Unauthorized: missing or invalid X-App-Key",
			"category": "auth",
		})
	}
}

// Token exchanges a valid X-App-Key for a short-lived bearer token so browser
// clients need not hold the key.
func (a Auth) Token(c *gin.Context) {
	if len(a.jwtSecret) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"err": "token issuance disabled"})
		return
	}
	if !a.validAppKey(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "Unauthorized: missing or invalid X-App-Key", "category": "auth"})
		return
	}
	sub := uuid.NewString()
	token, err := issueJWT(sub, a.jwtSecret, a.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "subject": sub, "expires_in": int(a.tokenTTL.Seconds())})
}
