package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/thehamzam/kyc-idp/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db      *sqlx.DB
	gateway port.DocumentExtractor
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, gateway port.DocumentExtractor) *HealthHandler {
	return &HealthHandler{db: db, gateway: gateway}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	if ok, reason := h.gateway.Healthy(); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
