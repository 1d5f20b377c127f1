package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/optica/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
}

// Profiling attaches pprof labels (controller, route, method, role) to the
// request context so continuous profiles can be sliced per endpoint.
// Place it after JWT so the role is known.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		labels := telemetry.HTTPRequestLabels(controllerFromRoute(c.FullPath()), c.FullPath(), c.Request.Method)
		if role := GetJWTRole(c); role != "" {
			labels["role"] = role
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerFromRoute returns the first resource segment of a route
// pattern: "/api/v1/sales/:id" gives "sales".
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
