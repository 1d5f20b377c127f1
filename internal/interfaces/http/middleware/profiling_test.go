package middleware

import (
	"net/http"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling(t *testing.T) {
	var route, controller, method string
	r := gin.New()
	r.Use(Profiling(ProfilingConfig{Enabled: true}))
	r.GET("/api/v1/sales/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		route, _ = pprof.Label(ctx, "route")
		controller, _ = pprof.Label(ctx, "controller")
		method, _ = pprof.Label(ctx, "method")
		c.Status(http.StatusOK)
	})

	w := do(r, http.MethodGet, "/api/v1/sales/12", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/sales/:id", route)
	assert.Equal(t, "sales", controller)
	assert.Equal(t, http.MethodGet, method)
}

func TestProfiling_Disabled(t *testing.T) {
	var labelled bool
	r := gin.New()
	r.Use(Profiling(ProfilingConfig{Enabled: false}))
	r.GET("/api/v1/products", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodGet, "/api/v1/products", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, labelled)
}

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/sales/:id":          "sales",
		"/api/v2/products/low-stock": "products",
		"/health":                    "health",
		"/api/v1/:id":                "",
		"":                           "",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}
