package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tsanders-rh/ocpconsole/internal/telemetry"
)

// RequestID assigns every request a UUID and makes it available to
// telemetry reports through the request context
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(telemetry.WithRequestID(req.Context(), id)))
		},
	})
}
