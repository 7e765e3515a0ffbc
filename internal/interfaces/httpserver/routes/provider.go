package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shoplite/messaging-api/internal/infrastructure/auth"
	"github.com/shoplite/messaging-api/internal/interfaces/httpserver/handlers"
	v1 "github.com/shoplite/messaging-api/internal/interfaces/httpserver/routes/v1"
)

// Provider holds all route providers.
type Provider struct {
	V1         *v1.Routes
	gatekeeper *auth.Gatekeeper
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider, gatekeeper *auth.Gatekeeper) *Provider {
	return &Provider{
		V1:         v1.NewRoutes(handlerProvider),
		gatekeeper: gatekeeper,
	}
}

// Register registers all routes on the engine.
func (p *Provider) Register(engine *gin.Engine) {
	p.V1.Register(engine, p.gatekeeper.Middleware())
}
