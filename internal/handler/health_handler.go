package handler

import (
	"context"
	"net/http"
	"time"

	"merchant-api/pkg/database"
	"merchant-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck reports ok when the database answers a ping
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	response := map[string]interface{}{
		"status":    "ok",
		"db_status": "ok",
		"time":      time.Now().UTC().Format(time.RFC3339),
	}

	if err := database.Ping(ctx, h.db); err != nil {
		logger.FromEcho(c).Error("Database ping error", zap.Error(err))
		response["status"] = "error"
		response["db_status"] = "error"
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}
