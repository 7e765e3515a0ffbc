package httpserver

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/shoplite/messaging-api/internal/config"
)

func routePaths(engine *gin.Engine) []string {
	routes := engine.Routes()
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		paths = append(paths, r.Path)
	}
	return paths
}

func TestRegisterCoreRoutes_SwaggerDisabledByDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	registerCoreRoutes(engine, &config.Config{ServiceName: "messaging-api"}, nil)

	paths := routePaths(engine)
	assert.NotContains(t, paths, "/swagger/*any")
	assert.Contains(t, paths, "/healthz")
	assert.Contains(t, paths, "/readyz")
	assert.Contains(t, paths, "/metrics")
}

func TestRegisterCoreRoutes_SwaggerEnabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	registerCoreRoutes(engine, &config.Config{ServiceName: "messaging-api", EnableSwagger: true}, nil)

	assert.Contains(t, routePaths(engine), "/swagger/*any")
}
