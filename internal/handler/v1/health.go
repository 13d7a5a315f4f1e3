package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/config"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Healthz reports liveness. Whether Telegram credentials are present is
// exposed as a boolean only, never the values.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"name":                h.cfg.App.Name,
		"version":             h.cfg.App.Version,
		"environment":         h.cfg.App.Environment,
		"telegram_configured": h.cfg.Telegram.Configured(),
	})
}
