package middleware

import (
	"merchant-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDHeader carries the correlation id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware adds a unique request ID to each request and stores a logger
// tagged with it for the handlers
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(RequestIDHeader, requestID)
			}

			c.Response().Header().Set(RequestIDHeader, requestID)

			ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
			c.Set(logger.EchoKey, ctxLogger)

			return next(c)
		}
	}
}
