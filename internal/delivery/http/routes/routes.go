package routes

import (
	"smartats/internal/delivery/http/handler"
	v1 "smartats/internal/delivery/http/routes/v1"
	"smartats/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	ws     *ws.Handler
	v1     v1.Handlers
}

func NewRegistry(health *handler.HealthHandler, wsHandler *ws.Handler, api v1.Handlers) *Registry {
	return &Registry{health: health, ws: wsHandler, v1: api}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

// registerWS mounts the job feed only when there is an auth middleware to
// guard it.
func (r *Registry) registerWS(app *fiber.App) {
	if r.ws == nil || r.v1.AuthMw == nil {
		return
	}
	r.ws.RegisterRoutes(app.Group("/ws", r.v1.AuthMw.QueryTokenMiddleware()))
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
