package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stake-plus/truthlens/src/data"
)

type Admin struct {
	audit  *data.AuditLog
	logger *zap.Logger
}

func NewAdmin(audit *data.AuditLog, logger *zap.Logger) Admin {
	return Admin{audit: audit, logger: logger}
}

// RecentVerdicts lists the newest audit rows.
func (a Admin) RecentVerdicts(c *gin.Context) {
	if a.audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "audit log not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := a.audit.Recent(c.Request.Context(), limit)
	if err != nil {
		a.logger.Error("audit query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"err": "audit query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": rows, "count": len(rows)})
}
