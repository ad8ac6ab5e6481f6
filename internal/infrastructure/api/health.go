package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Detail  string `json:"detail,omitempty"`
}

// RegisterHealthRoutes registers health check endpoints.
// these are public and don't require authentication.
// db may be nil in tests; readiness then always succeeds.
func RegisterHealthRoutes(e *echo.Echo, db HealthChecker) {
	e.GET("/health", healthHandler)
	e.GET("/ready", readyHandler(db))
}

// healthHandler returns the basic health status.
// used for liveness probes.
func healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "hiredesk",
	})
}

// readyHandler returns the readiness status.
// used for readiness probes; checks database connectivity.
func readyHandler(db HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			if err := db.HealthCheck(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, HealthResponse{
					Status:  "not_ready",
					Service: "hiredesk",
					Detail:  "database unreachable",
				})
			}
		}

		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "ready",
			Service: "hiredesk",
		})
	}
}
