package rest

import (
	"context"
	"net/http"
	"time"

	"pokePortMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB and by the health adapters built in main.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Pinger
	version string
}

// NewHealthHandler reports on every named dependency in checks.
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		version: version,
	}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true

	for name, p := range h.checks {
		if err := p.PingContext(ctx); err != nil {
			logger.Warn("health check failed", "dependency", name, "error", err)
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, fres.Response.StatusInternalServerError(http.StatusServiceUnavailable))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"version":      h.version,
		"dependencies": status,
	}))
}
