package http

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewEcho builds the REST server: /health is open, everything under /v1
// requires "Authorization: Bearer <apiToken>"
func NewEcho(h *Handler, mh *MetricsHandler, apiToken string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	e.GET("/health", h.Health)

	v1 := e.Group("/v1", middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), []byte(apiToken)) == 1, nil
		},
	}))

	v1.GET("/properties/:id/metrics", mh.GetMetrics)
	v1.POST("/properties/:id/metrics/invalidate", mh.Invalidate)
	v1.GET("/properties/:id/metrics/history", mh.History)
	v1.POST("/metrics/calculate", mh.Calculate)
	v1.POST("/metrics/batch", mh.BatchGetMetrics)

	return e
}
