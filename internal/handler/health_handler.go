package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proplist/realty-api/pkg/database"
	"github.com/proplist/realty-api/pkg/response"
)

// HealthHandler exposes liveness and readiness probes
type HealthHandler struct {
	db *database.PostgresDB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *database.PostgresDB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports process liveness
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(gin.H{"status": "up"}))
}

// Ready reports readiness, including database connectivity
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, response.Error("NOT_READY", err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"status": "ready"}))
}
