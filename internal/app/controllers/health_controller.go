package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/models/dto"
)

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness and storage reachability
type HealthController struct {
	db      Pinger
	version string
	timeout time.Duration
}

// NewHealthController creates a new HealthController. db may be nil for the
// in-memory driver.
func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{db: db, version: version, timeout: 2 * time.Second}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
}

// Health checks the database connection
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	resp := HealthResponse{Status: "ok", Database: "memory", Version: c.version}
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
		defer cancel()

		if err := c.db.Ping(pingCtx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			ctx.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
			return
		}
		resp.Database = "up"
	}
	respondOK(ctx, resp)
}

// Ping answers pong
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}
