package handler

import (
	"errors"
	"fmt"
	"net/http"

	"merchant-api/internal/service"
	"merchant-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler renders every error as {"error": message}. Service errors carry their own
// message; anything unrecognised becomes a generic 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("Request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, echo.Map{"error": msg})
	}
	if err != nil {
		logger.FromEcho(c).Error("Failed to write error response", zap.Error(err))
	}
}

func classify(err error) (int, string) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch {
		case errors.Is(svcErr.Kind, service.ErrNotFound):
			return http.StatusNotFound, svcErr.Message
		case errors.Is(svcErr.Kind, service.ErrInvalidInput):
			return http.StatusBadRequest, svcErr.Message
		}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			return httpErr.Code, http.StatusText(httpErr.Code)
		}
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	}

	return http.StatusInternalServerError, "internal server error"
}
